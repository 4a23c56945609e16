package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type MyBidItem struct {
	ID         uuid.UUID `json:"id"`
	ListingID  uuid.UUID `json:"listing_id"`
	MealDate   string    `json:"meal_date"`
	MealType   string    `json:"meal_type"`
	Mess       string    `json:"mess"`
	SellerName string    `json:"seller_name"`
	MinPrice   int32     `json:"min_price"`
	Price      int32     `json:"price"`
	Accepted   bool      `json:"accepted"`
	Paid       bool      `json:"paid"`
	CreatedAt  time.Time `json:"created_at"`
}

type BidViewRepo interface {
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*MyBidItem, error)
}

type BidQueries interface {
	MyBids(ctx context.Context, buyer uuid.UUID) ([]*MyBidItem, error)
}

type bidQueriesImpl struct {
	repo BidViewRepo
}

func NewBidQueries(repo BidViewRepo) BidQueries {
	return &bidQueriesImpl{repo: repo}
}

func (q *bidQueriesImpl) MyBids(ctx context.Context, buyer uuid.UUID) ([]*MyBidItem, error) {
	return q.repo.FindByBuyer(ctx, buyer)
}
