package readstore

import (
	"context"
	"time"

	"mess-market/internal/infra"
	"mess-market/internal/infra/db"
	"mess-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type BidReadStore struct {
	db db.DBTX
}

func NewBidReadStore(dbtx db.DBTX) *BidReadStore {
	return &BidReadStore{db: dbtx}
}

func (r *BidReadStore) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*queries.MyBidItem, error) {
	const q = `
		SELECT b.id, b.listing_id, l.meal_date, l.meal_type, l.mess,
		       u.display_name, l.min_price, b.price, b.accepted, b.paid, b.created_at
		FROM bids b
		JOIN listings l ON l.id = b.listing_id
		JOIN users u ON u.id = l.seller_id
		WHERE b.buyer_id = $1
		ORDER BY l.meal_date, b.created_at DESC`

	rows, err := r.db.Query(ctx, q, buyerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bids by buyer", err)
	}
	defer rows.Close()

	result := make([]*queries.MyBidItem, 0)
	for rows.Next() {
		var (
			item     queries.MyBidItem
			mealDate time.Time
		)
		if err := rows.Scan(&item.ID, &item.ListingID, &mealDate, &item.MealType,
			&item.Mess, &item.SellerName, &item.MinPrice, &item.Price,
			&item.Accepted, &item.Paid, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan buyer bid row", err)
		}
		item.MealDate = mealDate.Format(mealDateLayout)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate buyer bid rows", err)
	}
	return result, nil
}
