package settlement

import (
	"time"

	"mess-market/internal/domain/listing"

	"github.com/google/uuid"
)

// Transaction is the immutable historical record of a completed sale, written
// exactly once when the seller confirms payment. It outlives the listing and
// bids it was settled from.
type Transaction struct {
	id           uuid.UUID
	mealDate     listing.MealDate
	mealType     listing.MealType
	mess         string
	soldPrice    listing.Price
	listingPrice listing.Price
	buyerID      uuid.UUID
	sellerID     uuid.UUID
	listedAt     time.Time
	settledAt    time.Time
}

func NewTransaction(
	mealDate listing.MealDate,
	mealType listing.MealType,
	mess string,
	soldPrice, listingPrice listing.Price,
	buyerID, sellerID uuid.UUID,
	listedAt, settledAt time.Time,
) *Transaction {
	return &Transaction{
		id:           uuid.New(),
		mealDate:     mealDate,
		mealType:     mealType,
		mess:         mess,
		soldPrice:    soldPrice,
		listingPrice: listingPrice,
		buyerID:      buyerID,
		sellerID:     sellerID,
		listedAt:     listedAt,
		settledAt:    settledAt,
	}
}

// TimeToSale is reporting-only: how long the listing sat before settling.
func (t *Transaction) TimeToSale() time.Duration {
	return t.settledAt.Sub(t.listedAt)
}

func (t *Transaction) ID() uuid.UUID               { return t.id }
func (t *Transaction) MealDate() listing.MealDate  { return t.mealDate }
func (t *Transaction) MealType() listing.MealType  { return t.mealType }
func (t *Transaction) Mess() string                { return t.mess }
func (t *Transaction) SoldPrice() listing.Price    { return t.soldPrice }
func (t *Transaction) ListingPrice() listing.Price { return t.listingPrice }
func (t *Transaction) BuyerID() uuid.UUID          { return t.buyerID }
func (t *Transaction) SellerID() uuid.UUID         { return t.sellerID }
func (t *Transaction) ListedAt() time.Time         { return t.listedAt }
func (t *Transaction) SettledAt() time.Time        { return t.settledAt }

// Purchase is the buyer-facing redeemable record created alongside a
// Transaction. Token may be empty: settlement proceeds without one when the
// credential fetch fails, and the sale is reconciled manually.
//
// A purchase is "active" while its meal date has not passed; that is computed
// at query time from the wall clock, never stored.
type Purchase struct {
	id            uuid.UUID
	transactionID uuid.UUID
	token         string
	mealDate      listing.MealDate
	createdAt     time.Time
}

func NewPurchase(transactionID uuid.UUID, token string, mealDate listing.MealDate, now time.Time) *Purchase {
	return &Purchase{
		id:            uuid.New(),
		transactionID: transactionID,
		token:         token,
		mealDate:      mealDate,
		createdAt:     now,
	}
}

func (p *Purchase) IsActive(now time.Time) bool {
	today := listing.DateOf(now)
	return !p.mealDate.Before(today)
}

func (p *Purchase) ID() uuid.UUID            { return p.id }
func (p *Purchase) TransactionID() uuid.UUID { return p.transactionID }
func (p *Purchase) Token() string            { return p.token }
func (p *Purchase) MealDate() listing.MealDate {
	return p.mealDate
}
func (p *Purchase) CreatedAt() time.Time { return p.createdAt }
