//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"mess-market/internal/domain/listing"
	"mess-market/internal/domain/notification"
	"mess-market/internal/pkg/clock"
	"mess-market/internal/usecase/commands"
	"mess-market/internal/usecase/shared"
	"mess-market/tests/common/builder"
	"mess-market/tests/common/fake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	ctx := context.Background()
	loc := builder.FixedNow.Location()

	// 16:00 on March 14: breakfast and lunch for today are past cutoff,
	// snacks and dinner still live.
	afternoon := time.Date(2026, time.March, 14, 16, 0, 0, 0, loc)

	seed := func(t *testing.T) (*fake.Store, *fake.Notifier, commands.SweepCommands, map[string]*shared.ListingSnapshot) {
		t.Helper()
		store := fake.NewStore()
		notifier := fake.NewNotifier()
		clk := clock.NewMockClock(afternoon)

		seller := builder.NewUserBuilder().BuildSnapshot()
		store.AddUser(*seller)

		snaps := map[string]*shared.ListingSnapshot{
			"yesterday dinner": builder.NewListingBuilder().
				WithSellerID(seller.ID).
				WithMealDate(listing.NewMealDate(2026, time.March, 13)).
				WithMealType(listing.MealDinner).
				BuildSnapshot(),
			"today lunch": builder.NewListingBuilder().
				WithSellerID(seller.ID).
				WithMealType(listing.MealLunch).
				BuildSnapshot(),
			"today dinner": builder.NewListingBuilder().
				WithSellerID(seller.ID).
				WithMealType(listing.MealDinner).
				BuildSnapshot(),
			"tomorrow breakfast": builder.NewListingBuilder().
				WithSellerID(seller.ID).
				WithMealDate(listing.NewMealDate(2026, time.March, 15)).
				WithMealType(listing.MealBreakfast).
				BuildSnapshot(),
		}
		for _, snap := range snaps {
			store.AddListing(*snap)
		}

		return store, notifier, commands.NewSweepCommands(fake.NewUnitOfWork(store), notifier, clk), snaps
	}

	t.Run("removes only listings past their cutoff", func(t *testing.T) {
		store, notifier, sweep, snaps := seed(t)

		deleted, err := sweep.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, deleted)

		_, ok := store.Listing(snaps["yesterday dinner"].ID)
		assert.False(t, ok)
		_, ok = store.Listing(snaps["today lunch"].ID)
		assert.False(t, ok)
		_, ok = store.Listing(snaps["today dinner"].ID)
		assert.True(t, ok, "dinner cutoff is 22:00, must survive a 16:00 sweep")
		_, ok = store.Listing(snaps["tomorrow breakfast"].ID)
		assert.True(t, ok)

		expired := 0
		for _, e := range notifier.Entries() {
			if e.Payload.Type() == notification.TypeListingExpired {
				expired++
			}
		}
		assert.Equal(t, 2, expired, "one expiry notice per deleted listing")
	})

	t.Run("cascades the listings' bids", func(t *testing.T) {
		store, _, sweep, snaps := seed(t)
		store.AddBid(*builder.NewBidBuilder().WithListingID(snaps["today lunch"].ID).BuildSnapshot())
		store.AddBid(*builder.NewBidBuilder().WithListingID(snaps["today dinner"].ID).BuildSnapshot())

		_, err := sweep.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, store.BidCount(), "only the live listing keeps its bid")
	})

	t.Run("running twice deletes nothing new", func(t *testing.T) {
		_, notifier, sweep, _ := seed(t)

		first, err := sweep.Sweep(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, first)
		notices := len(notifier.Entries())

		second, err := sweep.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, second)
		assert.Len(t, notifier.Entries(), notices, "no repeat notifications")
	})

	t.Run("empty store sweeps cleanly", func(t *testing.T) {
		store := fake.NewStore()
		sweep := commands.NewSweepCommands(fake.NewUnitOfWork(store), fake.NewNotifier(), clock.NewMockClock(afternoon))

		deleted, err := sweep.Sweep(ctx)
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})
}
