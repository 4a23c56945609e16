package commands

import (
	"context"

	"mess-market/internal/infra"
	"mess-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errs.New("notification not found")

// NotificationStore is the write-side slice of the feed the commands need.
type NotificationStore interface {
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

type NotificationCommands interface {
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

type notificationCommandsImpl struct {
	store NotificationStore
}

func NewNotificationCommands(store NotificationStore) NotificationCommands {
	return &notificationCommandsImpl{store: store}
}

func (c *notificationCommandsImpl) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	err := c.store.MarkRead(ctx, notificationID, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrNotificationNotFound
		}
		return errs.Wrap(err, "failed to mark notification read")
	}
	return nil
}
