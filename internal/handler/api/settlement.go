package api

import (
	"context"
	"errors"
	"net/http"

	"mess-market/internal/handler/httperr"
	"mess-market/internal/handler/middleware"
	"mess-market/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SettlementHandler struct {
	settlementCommands commands.SettlementCommands
}

func NewSettlementHandler(settlementCommands commands.SettlementCommands) *SettlementHandler {
	return &SettlementHandler{settlementCommands: settlementCommands}
}

// @Summary Accept a bid
// @Description Accepting another bid moves the acceptance, it never doubles it
// @Tags settlement
// @Param id path string true "Listing ID"
// @Param bidId path string true "Bid ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /listings/{id}/bids/{bidId}/accept [post]
func (h *SettlementHandler) Accept(c *gin.Context) {
	h.run(c, h.settlementCommands.AcceptBid)
}

// @Summary Confirm payment and settle
// @Description Records the sale, issues the purchase, removes the listing
// @Tags settlement
// @Param id path string true "Listing ID"
// @Param bidId path string true "Bid ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /listings/{id}/bids/{bidId}/pay [post]
func (h *SettlementHandler) Pay(c *gin.Context) {
	h.run(c, h.settlementCommands.MarkPaid)
}

// @Summary Cancel an accepted bid
// @Description The bid is removed and the buyer told not to pay
// @Tags settlement
// @Param id path string true "Listing ID"
// @Param bidId path string true "Bid ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /listings/{id}/bids/{bidId}/accept [delete]
func (h *SettlementHandler) Cancel(c *gin.Context) {
	h.run(c, h.settlementCommands.CancelAcceptedBid)
}

// The three settlement endpoints share the (seller, listing, bid) shape and
// the error vocabulary, so the dispatch and mapping live here once.
func (h *SettlementHandler) run(c *gin.Context, op func(ctx context.Context, sellerID, listingID, bidID uuid.UUID) error) {
	userID, _ := middleware.GetUserID(c)
	listingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	bidID, ok := parseUUIDParam(c, "bidId")
	if !ok {
		return
	}

	err := op(c.Request.Context(), userID, listingID, bidID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrListingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
		case errors.Is(err, commands.ErrBidNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Bid not found on this listing", nil)
		case errors.Is(err, commands.ErrNotSeller):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Only the seller can do this", nil)
		case errors.Is(err, commands.ErrBidNotAccepted):
			httperr.AbortWithError(c, http.StatusConflict, err, "Bid is not accepted", nil)
		case errors.Is(err, commands.ErrBidAlreadyPaid):
			httperr.AbortWithError(c, http.StatusConflict, err, "Bid is already paid", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Settlement step failed", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
