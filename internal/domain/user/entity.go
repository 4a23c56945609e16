package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyRoll  = errors.New("roll number cannot be empty")
	ErrEmptyEmail = errors.New("email cannot be empty")
)

// User is a campus identity verified through SSO. Roll is the stable
// campus-wide identifier; the uuid id is this system's own key.
//
// MealCredential is the user's session with the external meal-registration
// service. It is what lets us look up their registered mess and, at
// settlement, fetch the transferable redemption token.
type User struct {
	id             uuid.UUID
	roll           string
	displayName    string
	email          string
	mealCredential string
	createdAt      time.Time
}

func NewUser(roll, displayName, email string) (*User, error) {
	roll = strings.TrimSpace(roll)
	if roll == "" {
		return nil, ErrEmptyRoll
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if displayName == "" {
		displayName = roll
	}

	return &User{
		id:          uuid.New(),
		roll:        roll,
		displayName: displayName,
		email:       email,
	}, nil
}

func ReconstructUser(id uuid.UUID, roll, displayName, email, mealCredential string, createdAt time.Time) *User {
	return &User{
		id:             id,
		roll:           roll,
		displayName:    displayName,
		email:          email,
		mealCredential: mealCredential,
		createdAt:      createdAt,
	}
}

func (u *User) SetMealCredential(credential string) {
	u.mealCredential = credential
}

func (u *User) HasMealCredential() bool {
	return u.mealCredential != ""
}

func (u *User) ID() uuid.UUID          { return u.id }
func (u *User) Roll() string           { return u.roll }
func (u *User) DisplayName() string    { return u.displayName }
func (u *User) Email() string          { return u.email }
func (u *User) MealCredential() string { return u.mealCredential }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
