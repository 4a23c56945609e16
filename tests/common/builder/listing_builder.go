//go:build unit || e2e

package builder

import (
	"time"

	domlisting "mess-market/internal/domain/listing"
	reqdto "mess-market/internal/handler/dto/request"
	"mess-market/internal/pkg/clock"
	"mess-market/internal/usecase/queries"
	"mess-market/internal/usecase/shared"

	"github.com/google/uuid"
)

// All builders share one fixed instant so tests are reproducible regardless
// of when they run: a Saturday morning in the canonical timezone, before any
// meal cutoff.
var FixedNow = time.Date(2026, time.March, 14, 8, 0, 0, 0, mustLoadLocation("Asia/Kolkata"))

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type ListingBuilder struct {
	SellerID   uuid.UUID
	SellerName string
	MealDate   domlisting.MealDate
	MealType   domlisting.MealType
	Mess       string
	MinPrice   int32
	Now        time.Time
}

func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		SellerID:   uuid.New(),
		SellerName: "Test Seller",
		MealDate:   domlisting.DateOf(FixedNow),
		MealType:   domlisting.MealLunch,
		Mess:       "North Mess",
		MinPrice:   50,
		Now:        FixedNow,
	}
}

func (b *ListingBuilder) With(mutate func(*ListingBuilder)) *ListingBuilder {
	mutate(b)
	return b
}

func (b *ListingBuilder) BuildDomain() (*domlisting.Listing, error) {
	price, err := domlisting.NewPrice(b.MinPrice)
	if err != nil {
		return nil, err
	}
	services := &domlisting.Services{Clock: clock.NewMockClock(b.Now)}
	return domlisting.NewListing(services, b.SellerID, b.MealDate, b.MealType, b.Mess, price)
}

func (b *ListingBuilder) BuildSnapshot() *shared.ListingSnapshot {
	return &shared.ListingSnapshot{
		ID:        uuid.New(),
		SellerID:  b.SellerID,
		MealDate:  b.MealDate,
		MealType:  b.MealType,
		Mess:      b.Mess,
		MinPrice:  b.MinPrice,
		CreatedAt: b.Now,
	}
}

func (b *ListingBuilder) BuildListItem() *queries.ListingListItem {
	return &queries.ListingListItem{
		ID:         uuid.New(),
		SellerID:   b.SellerID,
		SellerName: b.SellerName,
		MealDate:   b.MealDate.String(),
		MealType:   b.MealType.String(),
		Mess:       b.Mess,
		MinPrice:   b.MinPrice,
		CreatedAt:  b.Now,
	}
}

func (b *ListingBuilder) BuildCreateRequestDTO() reqdto.CreateListingRequest {
	return reqdto.CreateListingRequest{
		MealDate: b.MealDate.String(),
		MealType: b.MealType.String(),
		MinPrice: b.MinPrice,
	}
}

// Fluent builder methods
func (b *ListingBuilder) WithSellerID(id uuid.UUID) *ListingBuilder {
	b.SellerID = id
	return b
}

func (b *ListingBuilder) WithMealDate(date domlisting.MealDate) *ListingBuilder {
	b.MealDate = date
	return b
}

func (b *ListingBuilder) WithMealType(meal domlisting.MealType) *ListingBuilder {
	b.MealType = meal
	return b
}

func (b *ListingBuilder) WithMess(mess string) *ListingBuilder {
	b.Mess = mess
	return b
}

func (b *ListingBuilder) WithMinPrice(price int32) *ListingBuilder {
	b.MinPrice = price
	return b
}

func (b *ListingBuilder) WithNow(now time.Time) *ListingBuilder {
	b.Now = now
	return b
}

// AsExpiredSlot moves the clock past the meal's cutoff on the slot's date.
func (b *ListingBuilder) AsExpiredSlot() *ListingBuilder {
	b.Now = time.Date(2026, time.March, 14, b.MealType.CutoffHour(), 1, 0, 0, b.Now.Location())
	return b
}
