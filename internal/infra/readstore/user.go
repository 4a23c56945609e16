package readstore

import (
	"context"

	"mess-market/internal/infra"
	"mess-market/internal/infra/db"
	"mess-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ProfileView, error) {
	const q = `
		SELECT id, roll, display_name, email, meal_credential <> '', created_at
		FROM users WHERE id = $1`

	var view queries.ProfileView
	err := r.db.QueryRow(ctx, q, id).Scan(&view.ID, &view.Roll, &view.DisplayName,
		&view.Email, &view.HasMealCredential, &view.CreatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &view, nil
}
