package readstore

import (
	"context"
	"time"

	"mess-market/internal/infra"
	"mess-market/internal/infra/db"
	"mess-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type TransactionReadStore struct {
	db db.DBTX
}

func NewTransactionReadStore(dbtx db.DBTX) *TransactionReadStore {
	return &TransactionReadStore{db: dbtx}
}

// FindByUser returns both sides of the user's history; the counterparty name
// and role flip depending on which side they were on.
func (r *TransactionReadStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]*queries.TransactionHistoryItem, error) {
	const q = `
		SELECT t.id, t.meal_date, t.meal_type, t.mess, t.sold_price, t.listing_price,
		       CASE WHEN t.buyer_id = $1 THEN 'bought' ELSE 'sold' END AS role,
		       CASE WHEN t.buyer_id = $1 THEN su.display_name ELSE bu.display_name END AS counterparty,
		       t.listed_at, t.settled_at
		FROM transactions t
		JOIN users bu ON bu.id = t.buyer_id
		JOIN users su ON su.id = t.seller_id
		WHERE t.buyer_id = $1 OR t.seller_id = $1
		ORDER BY t.settled_at DESC`

	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list transaction history", err)
	}
	defer rows.Close()

	result := make([]*queries.TransactionHistoryItem, 0)
	for rows.Next() {
		var (
			item     queries.TransactionHistoryItem
			mealDate time.Time
		)
		if err := rows.Scan(&item.ID, &mealDate, &item.MealType, &item.Mess,
			&item.SoldPrice, &item.ListingPrice, &item.Role,
			&item.CounterpartyName, &item.ListedAt, &item.SettledAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan transaction row", err)
		}
		item.MealDate = mealDate.Format(mealDateLayout)
		item.TimeToSaleSecs = int64(item.SettledAt.Sub(item.ListedAt).Seconds())
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate transaction rows", err)
	}
	return result, nil
}
