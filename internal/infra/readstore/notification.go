package readstore

import (
	"context"

	"mess-market/internal/infra"
	"mess-market/internal/infra/db"
	"mess-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type NotificationReadStore struct {
	db db.DBTX
}

func NewNotificationReadStore(dbtx db.DBTX) *NotificationReadStore {
	return &NotificationReadStore{db: dbtx}
}

func (r *NotificationReadStore) FindByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.NotificationView, error) {
	const q = `
		SELECT id, type, title, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list notifications", err)
	}
	defer rows.Close()

	result := make([]*queries.NotificationView, 0)
	for rows.Next() {
		var view queries.NotificationView
		if err := rows.Scan(&view.ID, &view.Type, &view.Title,
			&view.Message, &view.Read, &view.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification row", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification rows", err)
	}
	return result, nil
}

func (r *NotificationReadStore) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count unread notifications", err)
	}
	return count, nil
}
