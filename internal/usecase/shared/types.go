package shared

import (
	"time"

	"mess-market/internal/domain/listing"

	"github.com/google/uuid"
)

// Write-side snapshots keep commands off the read-side view types.

type ListingSnapshot struct {
	ID             uuid.UUID
	SellerID       uuid.UUID
	MealDate       listing.MealDate
	MealType       listing.MealType
	Mess           string
	MinPrice       int32
	HasAcceptedBid bool
	CreatedAt      time.Time
}

type BidSnapshot struct {
	ID        uuid.UUID
	ListingID uuid.UUID
	BuyerID   uuid.UUID
	Price     int32
	Accepted  bool
	Paid      bool
	CreatedAt time.Time
}

type UserSnapshot struct {
	ID             uuid.UUID
	Roll           string
	DisplayName    string
	Email          string
	MealCredential string
}

// Registration is what the external meal-registration service returns for a
// (credential, date, meal) triple: the registered mess and, when asked at
// settlement time, the transferable redemption token.
type Registration struct {
	Mess  string
	Token string
}

// CampusIdentity is the verified triple the SSO exchange yields.
type CampusIdentity struct {
	Roll        string
	DisplayName string
	Email       string
}
