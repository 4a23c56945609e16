package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type NotificationView struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationViewRepo interface {
	FindByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*NotificationView, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type NotificationQueries interface {
	Feed(ctx context.Context, userID uuid.UUID, limit int) ([]*NotificationView, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationQueriesImpl struct {
	repo NotificationViewRepo
}

func NewNotificationQueries(repo NotificationViewRepo) NotificationQueries {
	return &notificationQueriesImpl{repo: repo}
}

func (q *notificationQueriesImpl) Feed(ctx context.Context, userID uuid.UUID, limit int) ([]*NotificationView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return q.repo.FindByUser(ctx, userID, int32(limit))
}

func (q *notificationQueriesImpl) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return q.repo.CountUnread(ctx, userID)
}
