package response

import (
	"time"

	"mess-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationFeedResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	UnreadCount   int64                   `json:"unreadCount"`
}

func FromNotifications(views []*queries.NotificationView, unread int64) *NotificationFeedResponse {
	items := make([]*NotificationResponse, len(views))
	for i, view := range views {
		var resp NotificationResponse
		mustCopy(&resp, view)
		items[i] = &resp
	}
	return &NotificationFeedResponse{Notifications: items, UnreadCount: unread}
}
