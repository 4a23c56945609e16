package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "mess-market/internal/handler/dto/response"
	"mess-market/internal/handler/httperr"
	"mess-market/internal/handler/middleware"
	"mess-market/internal/usecase/commands"
	"mess-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationCommands commands.NotificationCommands
	notificationQueries  queries.NotificationQueries
}

func NewNotificationHandler(
	notificationCommands commands.NotificationCommands,
	notificationQueries queries.NotificationQueries,
) *NotificationHandler {
	return &NotificationHandler{
		notificationCommands: notificationCommands,
		notificationQueries:  notificationQueries,
	}
}

// @Summary Notification feed
// @Tags notifications
// @Produce json
// @Param limit query int false "Max items" default(50)
// @Success 200 {object} resdto.NotificationFeedResponse
// @Router /notifications [get]
func (h *NotificationHandler) Feed(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, err := h.notificationQueries.Feed(c.Request.Context(), userID, limit)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load notifications", nil)
		return
	}

	unread, err := h.notificationQueries.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load notifications", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromNotifications(items, unread))
}

// @Summary Mark a notification read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	notificationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	err := h.notificationCommands.MarkRead(c.Request.Context(), userID, notificationID)
	if err != nil {
		if errors.Is(err, commands.ErrNotificationNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Notification not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to mark notification read", nil)
		return
	}

	c.Status(http.StatusNoContent)
}
