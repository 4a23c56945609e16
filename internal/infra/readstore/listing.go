package readstore

import (
	"context"
	"time"

	"mess-market/internal/domain/listing"
	"mess-market/internal/infra"
	"mess-market/internal/infra/db"
	"mess-market/internal/usecase/queries"

	"github.com/google/uuid"
)

const mealDateLayout = "2006-01-02"

type ListingReadStore struct {
	db db.DBTX
}

func NewListingReadStore(dbtx db.DBTX) *ListingReadStore {
	return &ListingReadStore{db: dbtx}
}

const listingItemColumns = `
	l.id, l.seller_id, u.display_name, l.meal_date, l.meal_type, l.mess,
	l.min_price, l.created_at,
	(SELECT count(*) FROM bids b WHERE b.listing_id = l.id) AS bid_count,
	(SELECT max(b.price) FROM bids b WHERE b.listing_id = l.id) AS top_bid,
	EXISTS (SELECT 1 FROM bids b WHERE b.listing_id = l.id AND b.accepted) AS has_accepted`

func (r *ListingReadStore) FindCurrent(ctx context.Context, today listing.MealDate) ([]*queries.ListingListItem, error) {
	q := `SELECT` + listingItemColumns + `
		FROM listings l
		JOIN users u ON u.id = l.seller_id
		WHERE l.meal_date >= $1
		ORDER BY l.meal_date, l.meal_type, l.created_at`

	rows, err := r.db.Query(ctx, q, today.Time())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list current listings", err)
	}
	defer rows.Close()

	return scanListingItems(rows)
}

func (r *ListingReadStore) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]*queries.ListingListItem, error) {
	q := `SELECT` + listingItemColumns + `
		FROM listings l
		JOIN users u ON u.id = l.seller_id
		WHERE l.seller_id = $1
		ORDER BY l.meal_date, l.meal_type, l.created_at`

	rows, err := r.db.Query(ctx, q, sellerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list seller listings", err)
	}
	defer rows.Close()

	return scanListingItems(rows)
}

func (r *ListingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ListingDetailView, error) {
	q := `SELECT` + listingItemColumns + `
		FROM listings l
		JOIN users u ON u.id = l.seller_id
		WHERE l.id = $1`

	item, err := scanListingItem(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("listing not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find listing by ID", err)
	}

	bids, err := r.findBids(ctx, id)
	if err != nil {
		return nil, err
	}

	return &queries.ListingDetailView{ListingListItem: *item, Bids: bids}, nil
}

// Bids come back highest price first; equal prices break on age so the
// earlier bidder ranks above.
func (r *ListingReadStore) findBids(ctx context.Context, listingID uuid.UUID) ([]*queries.ListingBidItem, error) {
	const q = `
		SELECT b.id, b.buyer_id, u.display_name, b.price, b.accepted, b.paid, b.created_at
		FROM bids b
		JOIN users u ON u.id = b.buyer_id
		WHERE b.listing_id = $1
		ORDER BY b.price DESC, b.created_at ASC`

	rows, err := r.db.Query(ctx, q, listingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bids for listing", err)
	}
	defer rows.Close()

	result := make([]*queries.ListingBidItem, 0)
	for rows.Next() {
		var item queries.ListingBidItem
		if err := rows.Scan(&item.ID, &item.BuyerID, &item.BuyerName,
			&item.Price, &item.Accepted, &item.Paid, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan bid row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bid rows", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListingItem(row rowScanner) (*queries.ListingListItem, error) {
	var (
		item     queries.ListingListItem
		mealDate time.Time
		topBid   *int32
	)
	err := row.Scan(&item.ID, &item.SellerID, &item.SellerName, &mealDate,
		&item.MealType, &item.Mess, &item.MinPrice, &item.CreatedAt,
		&item.BidCount, &topBid, &item.HasAcceptedBid)
	if err != nil {
		return nil, err
	}
	item.MealDate = mealDate.Format(mealDateLayout)
	item.TopBid = topBid
	return &item, nil
}

func scanListingItems(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*queries.ListingListItem, error) {
	result := make([]*queries.ListingListItem, 0)
	for rows.Next() {
		item, err := scanListingItem(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan listing row", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate listing rows", err)
	}
	return result, nil
}
