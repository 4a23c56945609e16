package queries

import (
	"context"
	"time"

	"mess-market/internal/domain/listing"
	"mess-market/internal/pkg/clock"

	"github.com/google/uuid"
)

// Read models (DTO for read side). Dates travel as "2006-01-02" strings; the
// expiry filter reparses them so the cutoff policy lives only in the domain.

type ListingListItem struct {
	ID             uuid.UUID `json:"id"`
	SellerID       uuid.UUID `json:"seller_id"`
	SellerName     string    `json:"seller_name"`
	MealDate       string    `json:"meal_date"`
	MealType       string    `json:"meal_type"`
	Mess           string    `json:"mess"`
	MinPrice       int32     `json:"min_price"`
	BidCount       int64     `json:"bid_count"`
	TopBid         *int32    `json:"top_bid,omitempty"`
	HasAcceptedBid bool      `json:"has_accepted_bid"`
	IsOwn          bool      `json:"is_own"`
	CreatedAt      time.Time `json:"created_at"`
}

type ListingBidItem struct {
	ID        uuid.UUID `json:"id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	BuyerName string    `json:"buyer_name"`
	Price     int32     `json:"price"`
	Accepted  bool      `json:"accepted"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"created_at"`
}

type ListingDetailView struct {
	ListingListItem
	Bids []*ListingBidItem `json:"bids"`
}

type ListingViewRepo interface {
	// FindCurrent returns listings dated today or later; the caller applies
	// the cutoff-hour filter.
	FindCurrent(ctx context.Context, today listing.MealDate) ([]*ListingListItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*ListingDetailView, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]*ListingListItem, error)
}

type ListingQueries interface {
	OpenListings(ctx context.Context, viewer uuid.UUID) ([]*ListingListItem, error)
	GetByID(ctx context.Context, viewer uuid.UUID, id uuid.UUID) (*ListingDetailView, error)
	MyListings(ctx context.Context, seller uuid.UUID) ([]*ListingListItem, error)
}

type listingQueriesImpl struct {
	repo ListingViewRepo
	clk  clock.Clock
}

func NewListingQueries(repo ListingViewRepo, clk clock.Clock) ListingQueries {
	return &listingQueriesImpl{repo: repo, clk: clk}
}

func (q *listingQueriesImpl) OpenListings(ctx context.Context, viewer uuid.UUID) ([]*ListingListItem, error) {
	now := q.clk.Now().In(q.clk.Location())
	rows, err := q.repo.FindCurrent(ctx, listing.DateOf(now))
	if err != nil {
		return nil, err
	}

	result := make([]*ListingListItem, 0, len(rows))
	for _, row := range rows {
		if listingExpired(row.MealDate, row.MealType, now) {
			continue
		}
		row.IsOwn = row.SellerID == viewer
		result = append(result, row)
	}
	return result, nil
}

func (q *listingQueriesImpl) GetByID(ctx context.Context, viewer uuid.UUID, id uuid.UUID) (*ListingDetailView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view.IsOwn = view.SellerID == viewer
	return view, nil
}

func (q *listingQueriesImpl) MyListings(ctx context.Context, seller uuid.UUID) ([]*ListingListItem, error) {
	rows, err := q.repo.FindBySeller(ctx, seller)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		row.IsOwn = true
	}
	return rows, nil
}

func listingExpired(mealDate, mealType string, now time.Time) bool {
	date, err := listing.ParseMealDate(mealDate)
	if err != nil {
		return false
	}
	return listing.IsExpired(date, listing.MealType(mealType), now)
}
