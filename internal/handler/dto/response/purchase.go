package response

import (
	"time"

	"mess-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type PurchaseResponse struct {
	ID              uuid.UUID `json:"id"`
	TransactionID   uuid.UUID `json:"transactionId"`
	RedemptionToken string    `json:"redemptionToken"`
	MealDate        string    `json:"mealDate"`
	MealType        string    `json:"mealType"`
	Mess            string    `json:"mess"`
	SoldPrice       int32     `json:"soldPrice"`
	SellerName      string    `json:"sellerName"`
	SettledAt       time.Time `json:"settledAt"`
}

func FromPurchases(views []*queries.PurchaseView) []*PurchaseResponse {
	result := make([]*PurchaseResponse, len(views))
	for i, view := range views {
		var resp PurchaseResponse
		mustCopy(&resp, view)
		result[i] = &resp
	}
	return result
}
