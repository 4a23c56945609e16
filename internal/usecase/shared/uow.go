package shared

import (
	"context"

	"mess-market/internal/domain/bid"
	"mess-market/internal/domain/listing"
	"mess-market/internal/domain/settlement"
	"mess-market/internal/domain/user"
	"mess-market/internal/infra/db"

	"github.com/google/uuid"
)

// UnitOfWork is the serialization point for every multi-row mutation. The
// settlement steps and the accept/clear pair run inside Within, which is what
// closes the two-accepted-bids race: concurrent accepts on the same listing
// serialize on the row locks taken by the clear+set writes.
type UnitOfWork interface {
	// Within: full transaction with serialization-failure retry
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single-statement operations on the pool's implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: validation reads outside any transaction
	CommandReads() CommandReads
}

type Tx interface {
	Listings() ListingRepository
	Bids() BidRepository
	Transactions() TransactionRepository
	Purchases() PurchaseRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ListingByID(ctx context.Context, id uuid.UUID) (*ListingSnapshot, error)
	BidByID(ctx context.Context, id uuid.UUID) (*BidSnapshot, error)
	BidByBuyerAndListing(ctx context.Context, buyerID, listingID uuid.UUID) (*BidSnapshot, error)
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
	// ExpiryCandidates fetches listings dated up to and including today;
	// the caller filters with the expiry policy before deleting.
	ExpiryCandidates(ctx context.Context, today listing.MealDate) ([]*ListingSnapshot, error)
}

type ListingRepository interface {
	Create(ctx context.Context, db db.DBTX, l *listing.Listing) error
	UpdateMinPrice(ctx context.Context, db db.DBTX, id uuid.UUID, price int32) error
	// Delete reports whether a row was removed so callers stay idempotent.
	Delete(ctx context.Context, db db.DBTX, id uuid.UUID) (bool, error)
}

type BidRepository interface {
	Create(ctx context.Context, db db.DBTX, b *bid.Bid) error
	UpdatePrice(ctx context.Context, db db.DBTX, id uuid.UUID, price int32) error
	ClearAcceptedForListing(ctx context.Context, db db.DBTX, listingID uuid.UUID) error
	SetAccepted(ctx context.Context, db db.DBTX, id uuid.UUID) error
	MarkPaid(ctx context.Context, db db.DBTX, id uuid.UUID) error
	// DeleteUnaccepted deletes only while the bid is unaccepted and reports
	// whether a row went away; withdrawals go through this, never Delete.
	DeleteUnaccepted(ctx context.Context, db db.DBTX, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, db db.DBTX, id uuid.UUID) (bool, error)
	DeleteByListing(ctx context.Context, db db.DBTX, listingID uuid.UUID) (int64, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, db db.DBTX, t *settlement.Transaction) error
}

type PurchaseRepository interface {
	Create(ctx context.Context, db db.DBTX, p *settlement.Purchase) error
}

type UserRepository interface {
	// Upsert keys on roll number; an existing row gets its name and email
	// refreshed from the SSO response. Returns the row's id either way.
	Upsert(ctx context.Context, db db.DBTX, u *user.User) (uuid.UUID, error)
	UpdateMealCredential(ctx context.Context, db db.DBTX, id uuid.UUID, credential string) error
	UpdateLastLogin(ctx context.Context, db db.DBTX, id uuid.UUID) error
}
