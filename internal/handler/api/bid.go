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

	"github.com/gin-gonic/gin"
)

type BidHandler struct {
	bidCommands commands.BidCommands
	bidQueries  queries.BidQueries
}

func NewBidHandler(bidCommands commands.BidCommands, bidQueries queries.BidQueries) *BidHandler {
	return &BidHandler{
		bidCommands: bidCommands,
		bidQueries:  bidQueries,
	}
}

// @Summary Place a bid
// @Description One bid per buyer per listing; offers below the minimum are allowed
// @Tags bids
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body reqdto.PlaceBidRequest true "Bid"
// @Success 201 {object} map[string]string
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /listings/{id}/bids [post]
func (h *BidHandler) Place(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	listingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	bidID, err := h.bidCommands.Place(c.Request.Context(), userID, listingID, req.Price)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrListingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
		case errors.Is(err, commands.ErrListingExpired):
			httperr.AbortWithError(c, http.StatusGone, err, "Listing has expired", nil)
		case errors.Is(err, commands.ErrDuplicateBid):
			httperr.AbortWithError(c, http.StatusConflict, err, "You already have a bid on this listing, update it instead", nil)
		case errors.Is(err, commands.ErrOwnListingBid):
			httperr.AbortWithError(c, http.StatusForbidden, err, "You cannot bid on your own listing", nil)
		case errors.Is(err, commands.ErrInvalidPrice):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid price", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to place bid", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": bidID.String()})
}

// @Summary Update my bid on a listing
// @Tags bids
// @Accept json
// @Param id path string true "Listing ID"
// @Param request body reqdto.UpdateBidRequest true "New price"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /listings/{id}/bids [put]
func (h *BidHandler) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	listingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	err := h.bidCommands.Update(c.Request.Context(), userID, listingID, req.Price)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBidNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "No bid to update on this listing", nil)
		case errors.Is(err, commands.ErrListingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
		case errors.Is(err, commands.ErrBidAlreadyAccepted):
			httperr.AbortWithError(c, http.StatusConflict, err, "Bid is accepted, the price is frozen", nil)
		case errors.Is(err, commands.ErrInvalidPrice):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid price", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to update bid", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Withdraw a bid
// @Tags bids
// @Param id path string true "Bid ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bids/{id} [delete]
func (h *BidHandler) Withdraw(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	bidID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	err := h.bidCommands.Withdraw(c.Request.Context(), userID, bidID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrNotBuyer):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Only the bid's owner can withdraw it", nil)
		case errors.Is(err, commands.ErrBidAlreadyAccepted):
			httperr.AbortWithError(c, http.StatusConflict, err, "An accepted bid cannot be withdrawn", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to withdraw bid", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary My bids
// @Tags bids
// @Produce json
// @Success 200 {array} resdto.MyBidResponse
// @Router /bids/mine [get]
func (h *BidHandler) Mine(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	items, err := h.bidQueries.MyBids(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load bids", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromMyBids(items))
}
