package listing

import (
	"errors"
	"time"

	"mess-market/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrInvalidMealType = errors.New("invalid meal type")
	ErrSlotExpired     = errors.New("meal slot already expired")
	ErrEmptyMess       = errors.New("mess name cannot be empty")
)

type Services struct {
	Clock clock.Clock
}

// Listing is a seller's offer to transfer one meal slot. It is exclusively
// owned by its seller until settlement removes it.
type Listing struct {
	id        uuid.UUID
	sellerID  uuid.UUID
	mealDate  MealDate
	mealType  MealType
	mess      string
	minPrice  Price
	createdAt time.Time
}

func NewListing(
	services *Services,
	sellerID uuid.UUID,
	mealDate MealDate,
	mealType MealType,
	mess string,
	minPrice Price,
) (*Listing, error) {
	if !mealType.IsValid() {
		return nil, ErrInvalidMealType
	}
	if mess == "" {
		return nil, ErrEmptyMess
	}
	if IsExpired(mealDate, mealType, services.Clock.Now()) {
		return nil, ErrSlotExpired
	}

	return &Listing{
		id:        uuid.New(),
		sellerID:  sellerID,
		mealDate:  mealDate,
		mealType:  mealType,
		mess:      mess,
		minPrice:  minPrice,
		createdAt: services.Clock.Now(),
	}, nil
}

func ReconstructListing(
	id, sellerID uuid.UUID,
	mealDate MealDate,
	mealType MealType,
	mess string,
	minPrice Price,
	createdAt time.Time,
) *Listing {
	return &Listing{
		id:        id,
		sellerID:  sellerID,
		mealDate:  mealDate,
		mealType:  mealType,
		mess:      mess,
		minPrice:  minPrice,
		createdAt: createdAt,
	}
}

func (l *Listing) HasExpired(now time.Time) bool {
	return IsExpired(l.mealDate, l.mealType, now)
}

func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.sellerID == userID
}

func (l *Listing) ID() uuid.UUID        { return l.id }
func (l *Listing) SellerID() uuid.UUID  { return l.sellerID }
func (l *Listing) MealDate() MealDate   { return l.mealDate }
func (l *Listing) MealType() MealType   { return l.mealType }
func (l *Listing) Mess() string         { return l.mess }
func (l *Listing) MinPrice() Price      { return l.minPrice }
func (l *Listing) CreatedAt() time.Time { return l.createdAt }
