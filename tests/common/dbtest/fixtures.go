//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestUser inserts a user the way a completed SSO login would, with an
// already-linked meal credential. Pass credential "" for an unlinked user.
func CreateTestUser(t *testing.T, db DBLike, roll, displayName, credential string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, `
		INSERT INTO users (id, roll, display_name, email, meal_credential, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (roll) DO NOTHING`,
		userID, roll, displayName, strings.ToLower(roll)+"@campus.example", credential)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE roll = $1", roll).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

func CreateTestListing(t *testing.T, db DBLike, sellerID uuid.UUID, mealDate time.Time, mealType, mess string, minPrice int32) uuid.UUID {
	t.Helper()

	listingID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO listings (id, seller_id, meal_date, meal_type, mess, min_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		listingID, sellerID, mealDate, mealType, mess, minPrice)
	require.NoError(t, err)

	return listingID
}

func CreateTestBid(t *testing.T, db DBLike, listingID, buyerID uuid.UUID, price int32, accepted bool) uuid.UUID {
	t.Helper()

	bidID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO bids (id, listing_id, buyer_id, price, accepted, paid, created_at)
		VALUES ($1, $2, $3, $4, $5, false, now())`,
		bidID, listingID, buyerID, price, accepted)
	require.NoError(t, err)

	return bidID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every table so each test starts from an empty market.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, name)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})

	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
