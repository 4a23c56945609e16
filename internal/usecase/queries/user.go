package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ProfileView struct {
	ID                uuid.UUID `json:"id"`
	Roll              string    `json:"roll"`
	DisplayName       string    `json:"display_name"`
	Email             string    `json:"email"`
	HasMealCredential bool      `json:"has_meal_credential"`
	CreatedAt         time.Time `json:"created_at"`
}

type UserViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProfileView, error)
}

type UserQueries interface {
	Profile(ctx context.Context, id uuid.UUID) (*ProfileView, error)
}

type userQueriesImpl struct {
	repo UserViewRepo
}

func NewUserQueries(repo UserViewRepo) UserQueries {
	return &userQueriesImpl{repo: repo}
}

func (q *userQueriesImpl) Profile(ctx context.Context, id uuid.UUID) (*ProfileView, error) {
	return q.repo.FindByID(ctx, id)
}
