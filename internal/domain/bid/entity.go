package bid

import (
	"errors"
	"time"

	"mess-market/internal/domain/listing"

	"github.com/google/uuid"
)

var (
	ErrAlreadyAccepted = errors.New("bid already accepted")
	ErrNotAccepted     = errors.New("bid not accepted")
	ErrOwnListing      = errors.New("cannot bid on own listing")
)

// Bid is a buyer's offer against a listing. The buyer owns the price until
// acceptance; accept/cancel are seller-side transitions.
//
// Invariant upheld here and by a CHECK constraint in the store:
// paid implies accepted.
type Bid struct {
	id        uuid.UUID
	listingID uuid.UUID
	buyerID   uuid.UUID
	price     listing.Price
	accepted  bool
	paid      bool
	createdAt time.Time
}

func NewBid(listingID, buyerID, sellerID uuid.UUID, price listing.Price, now time.Time) (*Bid, error) {
	if buyerID == sellerID {
		return nil, ErrOwnListing
	}

	return &Bid{
		id:        uuid.New(),
		listingID: listingID,
		buyerID:   buyerID,
		price:     price,
		createdAt: now,
	}, nil
}

func ReconstructBid(
	id, listingID, buyerID uuid.UUID,
	price listing.Price,
	accepted, paid bool,
	createdAt time.Time,
) *Bid {
	return &Bid{
		id:        id,
		listingID: listingID,
		buyerID:   buyerID,
		price:     price,
		accepted:  accepted,
		paid:      paid,
		createdAt: createdAt,
	}
}

// UpdatePrice resubmits the buyer's offer. Rejected once the seller has
// accepted: the agreed price is frozen from that point.
func (b *Bid) UpdatePrice(price listing.Price) error {
	if b.accepted {
		return ErrAlreadyAccepted
	}
	b.price = price
	return nil
}

func (b *Bid) Accept() {
	b.accepted = true
}

// MarkPaid is only reachable through the accept path, which is what keeps
// paid=true ∧ accepted=false unobservable.
func (b *Bid) MarkPaid() error {
	if !b.accepted {
		return ErrNotAccepted
	}
	b.paid = true
	return nil
}

func (b *Bid) CanWithdraw() bool {
	return !b.accepted
}

func (b *Bid) IsOwnedBy(userID uuid.UUID) bool {
	return b.buyerID == userID
}

func (b *Bid) ID() uuid.UUID        { return b.id }
func (b *Bid) ListingID() uuid.UUID { return b.listingID }
func (b *Bid) BuyerID() uuid.UUID   { return b.buyerID }
func (b *Bid) Price() listing.Price { return b.price }
func (b *Bid) Accepted() bool       { return b.accepted }
func (b *Bid) Paid() bool           { return b.paid }
func (b *Bid) CreatedAt() time.Time { return b.createdAt }
