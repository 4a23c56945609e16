//go:build unit || e2e

package builder

import (
	domuser "mess-market/internal/domain/user"
	"mess-market/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserBuilder struct {
	Roll           string
	DisplayName    string
	Email          string
	MealCredential string
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Roll:           "2023CS10555",
		DisplayName:    "Test Student",
		Email:          "2023cs10555@campus.example",
		MealCredential: "mealreg-session-token",
	}
}

func (b *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(b)
	return b
}

func (b *UserBuilder) BuildDomain() (*domuser.User, error) {
	return domuser.NewUser(b.Roll, b.DisplayName, b.Email)
}

func (b *UserBuilder) BuildSnapshot() *shared.UserSnapshot {
	return &shared.UserSnapshot{
		ID:             uuid.New(),
		Roll:           b.Roll,
		DisplayName:    b.DisplayName,
		Email:          b.Email,
		MealCredential: b.MealCredential,
	}
}

func (b *UserBuilder) BuildIdentity() *shared.CampusIdentity {
	return &shared.CampusIdentity{
		Roll:        b.Roll,
		DisplayName: b.DisplayName,
		Email:       b.Email,
	}
}

// Fluent builder methods
func (b *UserBuilder) WithRoll(roll string) *UserBuilder {
	b.Roll = roll
	return b
}

func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.DisplayName = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

func (b *UserBuilder) WithoutMealCredential() *UserBuilder {
	b.MealCredential = ""
	return b
}
