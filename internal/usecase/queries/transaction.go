package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TransactionHistoryItem struct {
	ID               uuid.UUID `json:"id"`
	MealDate         string    `json:"meal_date"`
	MealType         string    `json:"meal_type"`
	Mess             string    `json:"mess"`
	SoldPrice        int32     `json:"sold_price"`
	ListingPrice     int32     `json:"listing_price"`
	Role             string    `json:"role"` // "bought" or "sold"
	CounterpartyName string    `json:"counterparty_name"`
	ListedAt         time.Time `json:"listed_at"`
	SettledAt        time.Time `json:"settled_at"`
	TimeToSaleSecs   int64     `json:"time_to_sale_secs"`
}

type TransactionViewRepo interface {
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*TransactionHistoryItem, error)
}

type TransactionQueries interface {
	History(ctx context.Context, userID uuid.UUID) ([]*TransactionHistoryItem, error)
}

type transactionQueriesImpl struct {
	repo TransactionViewRepo
}

func NewTransactionQueries(repo TransactionViewRepo) TransactionQueries {
	return &transactionQueriesImpl{repo: repo}
}

func (q *transactionQueriesImpl) History(ctx context.Context, userID uuid.UUID) ([]*TransactionHistoryItem, error) {
	return q.repo.FindByUser(ctx, userID)
}
