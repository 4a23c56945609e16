package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"mess-market/internal/domain/notification"
	"mess-market/internal/infra"
	"mess-market/internal/infra/db"

	"github.com/google/uuid"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, p notification.Payload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return infra.WrapRepoErr("failed to encode notification payload", err)
	}

	const q = `
		INSERT INTO notifications (id, user_id, type, title, message, payload, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, now())`

	_, err = dbtx.Exec(ctx, q, uuid.New(), userID, string(p.Type()), p.Title(), p.Message(), payload)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification", err)
	}
	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, dbtx db.DBTX, id, userID uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, `UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("notification not found", nil, infra.KindNotFound)
	}
	return nil
}

// FeedStore is the pool-bound write handle the notification commands use.
type FeedStore struct {
	repo *NotificationRepository
	db   db.DBTX
}

func NewFeedStore(repo *NotificationRepository, dbtx db.DBTX) *FeedStore {
	return &FeedStore{repo: repo, db: dbtx}
}

func (s *FeedStore) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, s.db, id, userID)
}

// FeedNotifier writes to the per-user feed outside any caller transaction
// and swallows failures: a dropped notification is a logged nuisance, never
// a failed settlement.
type FeedNotifier struct {
	repo *NotificationRepository
	db   db.DBTX
}

func NewFeedNotifier(repo *NotificationRepository, dbtx db.DBTX) *FeedNotifier {
	return &FeedNotifier{repo: repo, db: dbtx}
}

func (n *FeedNotifier) Notify(ctx context.Context, userID uuid.UUID, p notification.Payload) {
	if err := n.repo.Create(ctx, n.db, userID, p); err != nil {
		slog.Warn("failed to enqueue notification",
			"user_id", userID, "type", string(p.Type()), "error", err.Error())
	}
}
