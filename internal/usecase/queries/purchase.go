package queries

import (
	"context"
	"time"

	"mess-market/internal/domain/listing"
	"mess-market/internal/pkg/clock"

	"github.com/google/uuid"
)

type PurchaseView struct {
	ID              uuid.UUID `json:"id"`
	TransactionID   uuid.UUID `json:"transaction_id"`
	RedemptionToken string    `json:"redemption_token"`
	MealDate        string    `json:"meal_date"`
	MealType        string    `json:"meal_type"`
	Mess            string    `json:"mess"`
	SoldPrice       int32     `json:"sold_price"`
	SellerName      string    `json:"seller_name"`
	SettledAt       time.Time `json:"settled_at"`
}

type PurchaseViewRepo interface {
	FindActiveByBuyer(ctx context.Context, buyerID uuid.UUID, today listing.MealDate) ([]*PurchaseView, error)
}

type PurchaseQueries interface {
	// ActivePurchases shows tokens for today and future meals only; past
	// purchases age out of the view without any cleanup job.
	ActivePurchases(ctx context.Context, buyer uuid.UUID) ([]*PurchaseView, error)
}

type purchaseQueriesImpl struct {
	repo PurchaseViewRepo
	clk  clock.Clock
}

func NewPurchaseQueries(repo PurchaseViewRepo, clk clock.Clock) PurchaseQueries {
	return &purchaseQueriesImpl{repo: repo, clk: clk}
}

func (q *purchaseQueriesImpl) ActivePurchases(ctx context.Context, buyer uuid.UUID) ([]*PurchaseView, error) {
	today := listing.DateOf(q.clk.Now().In(q.clk.Location()))
	return q.repo.FindActiveByBuyer(ctx, buyer, today)
}
