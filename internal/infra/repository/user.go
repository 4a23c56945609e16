package repository

import (
	"context"

	"mess-market/internal/domain/user"
	"mess-market/internal/infra"
	"mess-market/internal/infra/db"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Upsert keys on roll number. SSO is the authority for name and email, so an
// existing row gets them refreshed on every login.
func (r *UserRepository) Upsert(ctx context.Context, dbtx db.DBTX, u *user.User) (uuid.UUID, error) {
	const q = `
		INSERT INTO users (id, roll, display_name, email, meal_credential, created_at)
		VALUES ($1, $2, $3, $4, '', now())
		ON CONFLICT (roll) DO UPDATE
			SET display_name = EXCLUDED.display_name,
			    email        = EXCLUDED.email
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, q, u.ID(), u.Roll(), u.DisplayName(), u.Email()).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to upsert user", err)
	}
	return id, nil
}

func (r *UserRepository) UpdateMealCredential(ctx context.Context, dbtx db.DBTX, id uuid.UUID, credential string) error {
	tag, err := dbtx.Exec(ctx, `UPDATE users SET meal_credential = $2 WHERE id = $1`, id, credential)
	if err != nil {
		return infra.WrapRepoErr("failed to update meal credential", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	_, err := dbtx.Exec(ctx, `UPDATE users SET last_login_at = now() WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}
