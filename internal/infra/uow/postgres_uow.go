package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"mess-market/internal/domain/listing"
	"mess-market/internal/infra"
	"mess-market/internal/infra/db"
	"mess-market/internal/infra/repository"
	"mess-market/internal/pkg/errs"
	"mess-market/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted is enough here: accept/clear and the settlement steps rely on
// row locks, not snapshot isolation.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in the retry loop to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1, "error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)
		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1, "wait_ms", waitTime.Milliseconds(), "error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}

type pgTx struct {
	dbtx db.DBTX

	listingRepo     *repository.ListingRepository
	bidRepo         *repository.BidRepository
	transactionRepo *repository.TransactionRepository
	purchaseRepo    *repository.PurchaseRepository
	userRepo        *repository.UserRepository
	commandReads    shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Listings() shared.ListingRepository {
	if t.listingRepo == nil {
		t.listingRepo = repository.NewListingRepository()
	}
	return t.listingRepo
}

func (t *pgTx) Bids() shared.BidRepository {
	if t.bidRepo == nil {
		t.bidRepo = repository.NewBidRepository()
	}
	return t.bidRepo
}

func (t *pgTx) Transactions() shared.TransactionRepository {
	if t.transactionRepo == nil {
		t.transactionRepo = repository.NewTransactionRepository()
	}
	return t.transactionRepo
}

func (t *pgTx) Purchases() shared.PurchaseRepository {
	if t.purchaseRepo == nil {
		t.purchaseRepo = repository.NewPurchaseRepository()
	}
	return t.purchaseRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository()
	}
	return t.userRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX
}

func (r *commandReads) ListingByID(ctx context.Context, id uuid.UUID) (*shared.ListingSnapshot, error) {
	const q = `
		SELECT l.id, l.seller_id, l.meal_date, l.meal_type, l.mess, l.min_price, l.created_at,
		       EXISTS (SELECT 1 FROM bids b WHERE b.listing_id = l.id AND b.accepted) AS has_accepted
		FROM listings l
		WHERE l.id = $1`

	var (
		snap     shared.ListingSnapshot
		mealDate time.Time
		mealType string
	)
	err := r.dbtx.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.SellerID, &mealDate, &mealType, &snap.Mess,
		&snap.MinPrice, &snap.CreatedAt, &snap.HasAcceptedBid)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("listing not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read listing", err)
	}

	snap.MealDate = listing.DateOf(mealDate)
	snap.MealType = listing.MealType(mealType)
	return &snap, nil
}

func (r *commandReads) BidByID(ctx context.Context, id uuid.UUID) (*shared.BidSnapshot, error) {
	const q = `
		SELECT id, listing_id, buyer_id, price, accepted, paid, created_at
		FROM bids WHERE id = $1`

	return r.scanBid(r.dbtx.QueryRow(ctx, q, id))
}

func (r *commandReads) BidByBuyerAndListing(ctx context.Context, buyerID, listingID uuid.UUID) (*shared.BidSnapshot, error) {
	const q = `
		SELECT id, listing_id, buyer_id, price, accepted, paid, created_at
		FROM bids WHERE buyer_id = $1 AND listing_id = $2`

	return r.scanBid(r.dbtx.QueryRow(ctx, q, buyerID, listingID))
}

func (r *commandReads) scanBid(row pgx.Row) (*shared.BidSnapshot, error) {
	var snap shared.BidSnapshot
	err := row.Scan(&snap.ID, &snap.ListingID, &snap.BuyerID, &snap.Price,
		&snap.Accepted, &snap.Paid, &snap.CreatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("bid not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read bid", err)
	}
	return &snap, nil
}

func (r *commandReads) UserByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	const q = `SELECT id, roll, display_name, email, meal_credential FROM users WHERE id = $1`

	var snap shared.UserSnapshot
	err := r.dbtx.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.Roll, &snap.DisplayName, &snap.Email, &snap.MealCredential)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read user", err)
	}
	return &snap, nil
}

// ExpiryCandidates casts a wide net (everything dated today or earlier); the
// sweep applies the cutoff-hour policy in process.
func (r *commandReads) ExpiryCandidates(ctx context.Context, today listing.MealDate) ([]*shared.ListingSnapshot, error) {
	const q = `
		SELECT id, seller_id, meal_date, meal_type, mess, min_price, created_at
		FROM listings
		WHERE meal_date <= $1
		ORDER BY meal_date, created_at`

	rows, err := r.dbtx.Query(ctx, q, today.Time())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load expiry candidates", err)
	}
	defer rows.Close()

	var result []*shared.ListingSnapshot
	for rows.Next() {
		var (
			snap     shared.ListingSnapshot
			mealDate time.Time
			mealType string
		)
		if err := rows.Scan(&snap.ID, &snap.SellerID, &mealDate, &mealType,
			&snap.Mess, &snap.MinPrice, &snap.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan expiry candidate", err)
		}
		snap.MealDate = listing.DateOf(mealDate)
		snap.MealType = listing.MealType(mealType)
		result = append(result, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expiry candidates", err)
	}

	return result, nil
}
