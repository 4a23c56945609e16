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

type PurchaseReadStore struct {
	db db.DBTX
}

func NewPurchaseReadStore(dbtx db.DBTX) *PurchaseReadStore {
	return &PurchaseReadStore{db: dbtx}
}

func (r *PurchaseReadStore) FindActiveByBuyer(ctx context.Context, buyerID uuid.UUID, today listing.MealDate) ([]*queries.PurchaseView, error) {
	const q = `
		SELECT p.id, p.transaction_id, p.redemption_token, p.meal_date,
		       t.meal_type, t.mess, t.sold_price, u.display_name, t.settled_at
		FROM purchases p
		JOIN transactions t ON t.id = p.transaction_id
		JOIN users u ON u.id = t.seller_id
		WHERE t.buyer_id = $1 AND p.meal_date >= $2
		ORDER BY p.meal_date, t.meal_type`

	rows, err := r.db.Query(ctx, q, buyerID, today.Time())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active purchases", err)
	}
	defer rows.Close()

	result := make([]*queries.PurchaseView, 0)
	for rows.Next() {
		var (
			view     queries.PurchaseView
			mealDate time.Time
		)
		if err := rows.Scan(&view.ID, &view.TransactionID, &view.RedemptionToken,
			&mealDate, &view.MealType, &view.Mess, &view.SoldPrice,
			&view.SellerName, &view.SettledAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan purchase row", err)
		}
		view.MealDate = mealDate.Format(mealDateLayout)
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate purchase rows", err)
	}
	return result, nil
}
