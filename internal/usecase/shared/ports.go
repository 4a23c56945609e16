package shared

import (
	"context"

	"mess-market/internal/domain/listing"
	"mess-market/internal/domain/notification"
	"mess-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	// ErrCredentialExpired: the stored meal credential no longer works (401
	// upstream). The user must re-link it; recoverable, never fatal.
	ErrCredentialExpired = errs.New("meal credential expired")
	// ErrNotRegistered: no registration exists for the slot (404 upstream).
	ErrNotRegistered = errs.New("no meal registration for slot")
	ErrInvalidTicket = errs.New("invalid sso ticket")
)

// MealRegistry fronts the external meal-registration service.
type MealRegistry interface {
	Registration(ctx context.Context, credential string, date listing.MealDate, meal listing.MealType) (*Registration, error)
}

// TicketValidator exchanges a one-time SSO ticket for a verified identity.
type TicketValidator interface {
	Validate(ctx context.Context, ticket string) (*CampusIdentity, error)
}

// Notifier appends to a user's durable notification feed. Fire-and-forget:
// implementations log failures and never propagate them, so a feed hiccup
// cannot block a settlement step. Live delivery is the change feed's job.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, payload notification.Payload)
}
