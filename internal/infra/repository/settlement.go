package repository

import (
	"context"

	"mess-market/internal/domain/settlement"
	"mess-market/internal/infra"
	"mess-market/internal/infra/db"
)

type TransactionRepository struct{}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

func (r *TransactionRepository) Create(ctx context.Context, dbtx db.DBTX, t *settlement.Transaction) error {
	const q = `
		INSERT INTO transactions
			(id, meal_date, meal_type, mess, sold_price, listing_price,
			 buyer_id, seller_id, listed_at, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := dbtx.Exec(ctx, q,
		t.ID(), t.MealDate().Time(), t.MealType().String(), t.Mess(),
		t.SoldPrice().Amount(), t.ListingPrice().Amount(),
		t.BuyerID(), t.SellerID(), t.ListedAt(), t.SettledAt())
	if err != nil {
		return infra.WrapRepoErr("failed to create transaction", err)
	}
	return nil
}

type PurchaseRepository struct{}

func NewPurchaseRepository() *PurchaseRepository {
	return &PurchaseRepository{}
}

func (r *PurchaseRepository) Create(ctx context.Context, dbtx db.DBTX, p *settlement.Purchase) error {
	const q = `
		INSERT INTO purchases (id, transaction_id, redemption_token, meal_date, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := dbtx.Exec(ctx, q,
		p.ID(), p.TransactionID(), p.Token(), p.MealDate().Time(), p.CreatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to create purchase", err)
	}
	return nil
}
