package response

import (
	"time"

	"mess-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type TransactionResponse struct {
	ID               uuid.UUID `json:"id"`
	MealDate         string    `json:"mealDate"`
	MealType         string    `json:"mealType"`
	Mess             string    `json:"mess"`
	SoldPrice        int32     `json:"soldPrice"`
	ListingPrice     int32     `json:"listingPrice"`
	Role             string    `json:"role"`
	CounterpartyName string    `json:"counterpartyName"`
	ListedAt         time.Time `json:"listedAt"`
	SettledAt        time.Time `json:"settledAt"`
	TimeToSaleSecs   int64     `json:"timeToSaleSecs"`
}

func FromTransactions(views []*queries.TransactionHistoryItem) []*TransactionResponse {
	result := make([]*TransactionResponse, len(views))
	for i, view := range views {
		var resp TransactionResponse
		mustCopy(&resp, view)
		result[i] = &resp
	}
	return result
}
