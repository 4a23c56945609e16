package repository

import (
	"context"

	"mess-market/internal/domain/bid"
	"mess-market/internal/infra"
	"mess-market/internal/infra/db"

	"github.com/google/uuid"
)

type BidRepository struct{}

func NewBidRepository() *BidRepository {
	return &BidRepository{}
}

// Create surfaces the (listing, buyer) unique index as KindDuplicateKey so
// the command layer can tell the buyer to update their bid instead.
func (r *BidRepository) Create(ctx context.Context, dbtx db.DBTX, b *bid.Bid) error {
	const q = `
		INSERT INTO bids (id, listing_id, buyer_id, price, accepted, paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := dbtx.Exec(ctx, q,
		b.ID(), b.ListingID(), b.BuyerID(), b.Price().Amount(),
		b.Accepted(), b.Paid(), b.CreatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to create bid", err)
	}
	return nil
}

func (r *BidRepository) UpdatePrice(ctx context.Context, dbtx db.DBTX, id uuid.UUID, price int32) error {
	const q = `UPDATE bids SET price = $2 WHERE id = $1 AND NOT accepted`

	tag, err := dbtx.Exec(ctx, q, id, price)
	if err != nil {
		return infra.WrapRepoErr("failed to update bid price", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("bid not found or already accepted", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BidRepository) ClearAcceptedForListing(ctx context.Context, dbtx db.DBTX, listingID uuid.UUID) error {
	_, err := dbtx.Exec(ctx, `UPDATE bids SET accepted = false WHERE listing_id = $1 AND accepted`, listingID)
	if err != nil {
		return infra.WrapRepoErr("failed to clear accepted bid", err)
	}
	return nil
}

func (r *BidRepository) SetAccepted(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, `UPDATE bids SET accepted = true WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to accept bid", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("bid not found", nil, infra.KindNotFound)
	}
	return nil
}

// MarkPaid refuses to touch an unaccepted bid; paid ⇒ accepted holds even if
// a cancel slipped in between the command's read and this write.
func (r *BidRepository) MarkPaid(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, `UPDATE bids SET paid = true WHERE id = $1 AND accepted`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to mark bid paid", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("bid not found or not accepted", nil, infra.KindNotFound)
	}
	return nil
}

// DeleteUnaccepted is the buyer's withdraw path. The NOT accepted guard means
// an accept that commits after the caller's validation read still wins; the
// caller inspects the remaining row to tell already-gone from accepted.
func (r *BidRepository) DeleteUnaccepted(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error) {
	tag, err := dbtx.Exec(ctx, `DELETE FROM bids WHERE id = $1 AND NOT accepted`, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to withdraw bid", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BidRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error) {
	tag, err := dbtx.Exec(ctx, `DELETE FROM bids WHERE id = $1`, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete bid", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BidRepository) DeleteByListing(ctx context.Context, dbtx db.DBTX, listingID uuid.UUID) (int64, error) {
	tag, err := dbtx.Exec(ctx, `DELETE FROM bids WHERE listing_id = $1`, listingID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete bids for listing", err)
	}
	return tag.RowsAffected(), nil
}
