package response

import (
	"time"

	"mess-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type MyBidResponse struct {
	ID         uuid.UUID `json:"id"`
	ListingID  uuid.UUID `json:"listingId"`
	MealDate   string    `json:"mealDate"`
	MealType   string    `json:"mealType"`
	Mess       string    `json:"mess"`
	SellerName string    `json:"sellerName"`
	MinPrice   int32     `json:"minPrice"`
	Price      int32     `json:"price"`
	Accepted   bool      `json:"accepted"`
	Paid       bool      `json:"paid"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromMyBids(views []*queries.MyBidItem) []*MyBidResponse {
	result := make([]*MyBidResponse, len(views))
	for i, view := range views {
		var resp MyBidResponse
		mustCopy(&resp, view)
		result[i] = &resp
	}
	return result
}
