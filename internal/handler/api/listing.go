package api

import (
	"errors"
	"net/http"

	reqdto "mess-market/internal/handler/dto/request"
	resdto "mess-market/internal/handler/dto/response"
	"mess-market/internal/handler/httperr"
	"mess-market/internal/handler/middleware"
	"mess-market/internal/usecase/commands"
	"mess-market/internal/usecase/queries"
	"mess-market/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ListingHandler struct {
	listingCommands commands.ListingCommands
	listingQueries  queries.ListingQueries
}

func NewListingHandler(listingCommands commands.ListingCommands, listingQueries queries.ListingQueries) *ListingHandler {
	return &ListingHandler{
		listingCommands: listingCommands,
		listingQueries:  listingQueries,
	}
}

// @Summary Open listings
// @Description All listings still inside their service window
// @Tags listings
// @Produce json
// @Success 200 {array} resdto.ListingResponse
// @Router /listings [get]
func (h *ListingHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	items, err := h.listingQueries.OpenListings(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load listings", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromListingItems(items))
}

// @Summary Listing detail with bids
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} resdto.ListingDetailResponse
// @Failure 404 {object} httperr.Response
// @Router /listings/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	listingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.listingQueries.GetByID(c.Request.Context(), userID, listingID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromListingDetail(detail))
}

// @Summary My listings
// @Tags listings
// @Produce json
// @Success 200 {array} resdto.ListingResponse
// @Router /listings/mine [get]
func (h *ListingHandler) Mine(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	items, err := h.listingQueries.MyListings(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load listings", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromListingItems(items))
}

// @Summary Create a listing
// @Description The mess is filled in from the seller's meal registration
// @Tags listings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateListingRequest true "Listing"
// @Success 201 {object} map[string]string
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /listings [post]
func (h *ListingHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req reqdto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	mealDate, mealType, err := req.ToDomain()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid meal date or type", nil)
		return
	}

	id, err := h.listingCommands.Create(c.Request.Context(), userID, mealDate, mealType, req.MinPrice)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrCredentialExpired):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Meal credential missing or expired, re-link it", nil)
		case errors.Is(err, shared.ErrNotRegistered):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "You are not registered for this meal slot", nil)
		case errors.Is(err, commands.ErrListingExpired):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "This meal slot has already passed", nil)
		case errors.Is(err, commands.ErrInvalidPrice):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid price", nil)
		case errors.Is(err, commands.ErrDuplicateListing):
			httperr.AbortWithError(c, http.StatusConflict, err, "You already listed this slot", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to create listing", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// @Summary Update the minimum price
// @Tags listings
// @Accept json
// @Param id path string true "Listing ID"
// @Param request body reqdto.UpdateListingPriceRequest true "New price"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /listings/{id}/price [put]
func (h *ListingHandler) UpdatePrice(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	listingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateListingPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	err := h.listingCommands.UpdateMinPrice(c.Request.Context(), userID, listingID, req.MinPrice)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrListingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
		case errors.Is(err, commands.ErrNotSeller):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Only the seller can update the price", nil)
		case errors.Is(err, commands.ErrListingLocked):
			httperr.AbortWithError(c, http.StatusConflict, err, "Price is frozen while a bid is accepted", nil)
		case errors.Is(err, commands.ErrInvalidPrice):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid price", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to update price", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Delete a listing
// @Tags listings
// @Param id path string true "Listing ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Router /listings/{id} [delete]
func (h *ListingHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	listingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	err := h.listingCommands.Delete(c.Request.Context(), userID, listingID)
	if err != nil {
		if errors.Is(err, commands.ErrNotSeller) {
			httperr.AbortWithError(c, http.StatusForbidden, err, "Only the seller can delete the listing", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to delete listing", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
