package repository

import (
	"context"

	"mess-market/internal/domain/listing"
	"mess-market/internal/infra"
	"mess-market/internal/infra/db"

	"github.com/google/uuid"
)

type ListingRepository struct{}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{}
}

func (r *ListingRepository) Create(ctx context.Context, dbtx db.DBTX, l *listing.Listing) error {
	const q = `
		INSERT INTO listings (id, seller_id, meal_date, meal_type, mess, min_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := dbtx.Exec(ctx, q,
		l.ID(), l.SellerID(), l.MealDate().Time(), l.MealType().String(),
		l.Mess(), l.MinPrice().Amount(), l.CreatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to create listing", err)
	}
	return nil
}

// UpdateMinPrice is guarded against racing an acceptance: the price freezes
// once any bid on the listing is accepted.
func (r *ListingRepository) UpdateMinPrice(ctx context.Context, dbtx db.DBTX, id uuid.UUID, price int32) error {
	const q = `
		UPDATE listings SET min_price = $2
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM bids WHERE listing_id = $1 AND accepted)`

	tag, err := dbtx.Exec(ctx, q, id, price)
	if err != nil {
		return infra.WrapRepoErr("failed to update listing price", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("listing not found or locked by accepted bid", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error) {
	tag, err := dbtx.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete listing", err)
	}
	return tag.RowsAffected() > 0, nil
}
