//go:build unit

package fake

import (
	"context"
	"sync"

	domlisting "mess-market/internal/domain/listing"
	"mess-market/internal/domain/notification"
	"mess-market/internal/usecase/shared"

	"github.com/google/uuid"
)

// Notifier records every payload so tests can assert on who was told what.
type Notifier struct {
	mu      sync.Mutex
	entries []NotifierEntry
}

type NotifierEntry struct {
	UserID  uuid.UUID
	Payload notification.Payload
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Notify(_ context.Context, userID uuid.UUID, payload notification.Payload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = append(n.entries, NotifierEntry{UserID: userID, Payload: payload})
}

func (n *Notifier) Entries() []NotifierEntry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]NotifierEntry(nil), n.entries...)
}

func (n *Notifier) SentTo(userID uuid.UUID, typ notification.Type) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.entries {
		if e.UserID == userID && e.Payload.Type() == typ {
			return true
		}
	}
	return false
}

// Registry is a scripted meal-registration service.
type Registry struct {
	Reg *shared.Registration
	Err error

	mu    sync.Mutex
	calls int
}

func NewRegistry(mess, token string) *Registry {
	return &Registry{Reg: &shared.Registration{Mess: mess, Token: token}}
}

func (r *Registry) Registration(_ context.Context, _ string, _ domlisting.MealDate, _ domlisting.MealType) (*shared.Registration, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Reg, nil
}

func (r *Registry) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// TicketValidator resolves scripted tickets to identities.
type TicketValidator struct {
	Identities map[string]*shared.CampusIdentity
}

func NewTicketValidator() *TicketValidator {
	return &TicketValidator{Identities: make(map[string]*shared.CampusIdentity)}
}

func (v *TicketValidator) Validate(_ context.Context, ticket string) (*shared.CampusIdentity, error) {
	identity, ok := v.Identities[ticket]
	if !ok {
		return nil, shared.ErrInvalidTicket
	}
	return identity, nil
}
