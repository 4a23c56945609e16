package response

import (
	"log/slog"
	"time"

	"mess-market/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// View-to-response mapping goes through copier: field names line up by
// construction, and the response structs only exist to pin the wire casing.

type ListingResponse struct {
	ID             uuid.UUID `json:"id"`
	SellerID       uuid.UUID `json:"sellerId"`
	SellerName     string    `json:"sellerName"`
	MealDate       string    `json:"mealDate"`
	MealType       string    `json:"mealType"`
	Mess           string    `json:"mess"`
	MinPrice       int32     `json:"minPrice"`
	BidCount       int64     `json:"bidCount"`
	TopBid         *int32    `json:"topBid,omitempty"`
	HasAcceptedBid bool      `json:"hasAcceptedBid"`
	IsOwn          bool      `json:"isOwn"`
	CreatedAt      time.Time `json:"createdAt"`
}

type BidItemResponse struct {
	ID        uuid.UUID `json:"id"`
	BuyerID   uuid.UUID `json:"buyerId"`
	BuyerName string    `json:"buyerName"`
	Price     int32     `json:"price"`
	Accepted  bool      `json:"accepted"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListingDetailResponse struct {
	ListingResponse
	Bids []BidItemResponse `json:"bids"`
}

func FromListingItem(view *queries.ListingListItem) *ListingResponse {
	var resp ListingResponse
	mustCopy(&resp, view)
	return &resp
}

func FromListingItems(views []*queries.ListingListItem) []*ListingResponse {
	result := make([]*ListingResponse, len(views))
	for i, view := range views {
		result[i] = FromListingItem(view)
	}
	return result
}

func FromListingDetail(view *queries.ListingDetailView) *ListingDetailResponse {
	var resp ListingDetailResponse
	mustCopy(&resp.ListingResponse, &view.ListingListItem)
	mustCopy(&resp.Bids, &view.Bids)
	if resp.Bids == nil {
		resp.Bids = []BidItemResponse{}
	}
	return &resp
}

// Copy failures here mean a response struct drifted from its view; surface
// them loudly in logs rather than silently dropping fields.
func mustCopy(to, from any) {
	if err := copier.Copy(to, from); err != nil {
		slog.Error("response mapping failed", "error", err.Error())
	}
}
