//go:build unit || e2e

package builder

import (
	"time"

	dombid "mess-market/internal/domain/bid"
	domlisting "mess-market/internal/domain/listing"
	"mess-market/internal/usecase/shared"

	"github.com/google/uuid"
)

type BidBuilder struct {
	ListingID uuid.UUID
	BuyerID   uuid.UUID
	SellerID  uuid.UUID
	Price     int32
	Accepted  bool
	Paid      bool
	Now       time.Time
}

func NewBidBuilder() *BidBuilder {
	return &BidBuilder{
		ListingID: uuid.New(),
		BuyerID:   uuid.New(),
		SellerID:  uuid.New(),
		Price:     45,
		Now:       FixedNow,
	}
}

func (b *BidBuilder) With(mutate func(*BidBuilder)) *BidBuilder {
	mutate(b)
	return b
}

func (b *BidBuilder) BuildDomain() (*dombid.Bid, error) {
	price, err := domlisting.NewPrice(b.Price)
	if err != nil {
		return nil, err
	}
	return dombid.NewBid(b.ListingID, b.BuyerID, b.SellerID, price, b.Now)
}

func (b *BidBuilder) BuildSnapshot() *shared.BidSnapshot {
	return &shared.BidSnapshot{
		ID:        uuid.New(),
		ListingID: b.ListingID,
		BuyerID:   b.BuyerID,
		Price:     b.Price,
		Accepted:  b.Accepted,
		Paid:      b.Paid,
		CreatedAt: b.Now,
	}
}

// Fluent builder methods
func (b *BidBuilder) WithListingID(id uuid.UUID) *BidBuilder {
	b.ListingID = id
	return b
}

func (b *BidBuilder) WithBuyerID(id uuid.UUID) *BidBuilder {
	b.BuyerID = id
	return b
}

func (b *BidBuilder) WithSellerID(id uuid.UUID) *BidBuilder {
	b.SellerID = id
	return b
}

func (b *BidBuilder) WithPrice(price int32) *BidBuilder {
	b.Price = price
	return b
}

func (b *BidBuilder) AsAccepted() *BidBuilder {
	b.Accepted = true
	return b
}

func (b *BidBuilder) AsPaid() *BidBuilder {
	b.Accepted = true
	b.Paid = true
	return b
}

// AsSelfBid makes the buyer and the seller the same user.
func (b *BidBuilder) AsSelfBid() *BidBuilder {
	b.BuyerID = b.SellerID
	return b
}
