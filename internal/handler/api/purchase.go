package api

import (
	"net/http"

	resdto "mess-market/internal/handler/dto/response"
	"mess-market/internal/handler/httperr"
	"mess-market/internal/handler/middleware"
	"mess-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchaseQueries    queries.PurchaseQueries
	transactionQueries queries.TransactionQueries
}

func NewPurchaseHandler(purchaseQueries queries.PurchaseQueries, transactionQueries queries.TransactionQueries) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseQueries:    purchaseQueries,
		transactionQueries: transactionQueries,
	}
}

// @Summary Active purchases
// @Description Purchases whose meal date has not passed, with redemption tokens
// @Tags purchases
// @Produce json
// @Success 200 {array} resdto.PurchaseResponse
// @Router /purchases/active [get]
func (h *PurchaseHandler) Active(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	items, err := h.purchaseQueries.ActivePurchases(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load purchases", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPurchases(items))
}

// @Summary Transaction history
// @Description Completed sales where the user was buyer or seller
// @Tags purchases
// @Produce json
// @Success 200 {array} resdto.TransactionResponse
// @Router /transactions [get]
func (h *PurchaseHandler) History(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	items, err := h.transactionQueries.History(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load transactions", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTransactions(items))
}
