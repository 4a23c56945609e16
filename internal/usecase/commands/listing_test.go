//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"mess-market/internal/domain/listing"
	"mess-market/internal/pkg/clock"
	"mess-market/internal/usecase/commands"
	"mess-market/internal/usecase/shared"
	"mess-market/tests/common/builder"
	"mess-market/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingFixture struct {
	store    *fake.Store
	registry *fake.Registry
	clk      *clock.MockClock
	commands commands.ListingCommands
	seller   *shared.UserSnapshot
}

func newListingFixture(t *testing.T) *listingFixture {
	t.Helper()

	store := fake.NewStore()
	registry := fake.NewRegistry("North Mess", "")
	clk := clock.NewMockClock(builder.FixedNow)

	seller := builder.NewUserBuilder().BuildSnapshot()
	store.AddUser(*seller)

	return &listingFixture{
		store:    store,
		registry: registry,
		clk:      clk,
		commands: commands.NewListingCommands(fake.NewUnitOfWork(store), registry, clk),
		seller:   seller,
	}
}

func TestListingCreate(t *testing.T) {
	ctx := context.Background()
	tomorrow := listing.NewMealDate(2026, time.March, 15)

	t.Run("fills the mess from the registration", func(t *testing.T) {
		f := newListingFixture(t)

		id, err := f.commands.Create(ctx, f.seller.ID, tomorrow, listing.MealLunch, 50)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)

		snap, ok := f.store.Listing(id)
		require.True(t, ok)
		assert.Equal(t, "North Mess", snap.Mess)
		assert.Equal(t, int32(50), snap.MinPrice)
		assert.Equal(t, 1, f.registry.Calls())
	})

	t.Run("rejects sellers without a linked credential", func(t *testing.T) {
		f := newListingFixture(t)
		bare := builder.NewUserBuilder().WithRoll("2023CS10556").WithoutMealCredential().BuildSnapshot()
		f.store.AddUser(*bare)

		_, err := f.commands.Create(ctx, bare.ID, tomorrow, listing.MealLunch, 50)
		require.ErrorIs(t, err, shared.ErrCredentialExpired)
		assert.Equal(t, 0, f.registry.Calls(), "must not hit the registry with no credential")
	})

	t.Run("registry rejections pass through", func(t *testing.T) {
		f := newListingFixture(t)
		f.registry.Err = shared.ErrNotRegistered

		_, err := f.commands.Create(ctx, f.seller.ID, tomorrow, listing.MealLunch, 50)
		require.ErrorIs(t, err, shared.ErrNotRegistered)

		f.registry.Err = shared.ErrCredentialExpired
		_, err = f.commands.Create(ctx, f.seller.ID, tomorrow, listing.MealLunch, 50)
		require.ErrorIs(t, err, shared.ErrCredentialExpired)
	})

	t.Run("rejects slots past their cutoff", func(t *testing.T) {
		f := newListingFixture(t)
		f.clk.Set(time.Date(2026, time.March, 14, 11, 0, 0, 0, builder.FixedNow.Location()))

		today := listing.NewMealDate(2026, time.March, 14)
		_, err := f.commands.Create(ctx, f.seller.ID, today, listing.MealBreakfast, 50)
		require.ErrorIs(t, err, commands.ErrListingExpired)

		// Dinner on the same day is still listable at 11:00.
		_, err = f.commands.Create(ctx, f.seller.ID, today, listing.MealDinner, 50)
		require.NoError(t, err)
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		f := newListingFixture(t)

		_, err := f.commands.Create(ctx, f.seller.ID, tomorrow, listing.MealLunch, -10)
		require.ErrorIs(t, err, commands.ErrInvalidPrice)
	})

	t.Run("one listing per slot", func(t *testing.T) {
		f := newListingFixture(t)

		_, err := f.commands.Create(ctx, f.seller.ID, tomorrow, listing.MealLunch, 50)
		require.NoError(t, err)

		_, err = f.commands.Create(ctx, f.seller.ID, tomorrow, listing.MealLunch, 60)
		require.ErrorIs(t, err, commands.ErrDuplicateListing)
	})
}

func TestListingUpdateMinPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("seller can reprice an open listing", func(t *testing.T) {
		f := newListingFixture(t)
		snap := builder.NewListingBuilder().WithSellerID(f.seller.ID).BuildSnapshot()
		f.store.AddListing(*snap)

		require.NoError(t, f.commands.UpdateMinPrice(ctx, f.seller.ID, snap.ID, 75))

		updated, _ := f.store.Listing(snap.ID)
		assert.Equal(t, int32(75), updated.MinPrice)
	})

	t.Run("unknown listing", func(t *testing.T) {
		f := newListingFixture(t)
		err := f.commands.UpdateMinPrice(ctx, f.seller.ID, uuid.New(), 75)
		require.ErrorIs(t, err, commands.ErrListingNotFound)
	})

	t.Run("only the seller may reprice", func(t *testing.T) {
		f := newListingFixture(t)
		snap := builder.NewListingBuilder().WithSellerID(f.seller.ID).BuildSnapshot()
		f.store.AddListing(*snap)

		err := f.commands.UpdateMinPrice(ctx, uuid.New(), snap.ID, 75)
		require.ErrorIs(t, err, commands.ErrNotSeller)
	})

	t.Run("price frozen while a bid is accepted", func(t *testing.T) {
		f := newListingFixture(t)
		snap := builder.NewListingBuilder().WithSellerID(f.seller.ID).BuildSnapshot()
		f.store.AddListing(*snap)
		accepted := builder.NewBidBuilder().WithListingID(snap.ID).AsAccepted().BuildSnapshot()
		f.store.AddBid(*accepted)

		err := f.commands.UpdateMinPrice(ctx, f.seller.ID, snap.ID, 75)
		require.ErrorIs(t, err, commands.ErrListingLocked)

		unchanged, _ := f.store.Listing(snap.ID)
		assert.Equal(t, snap.MinPrice, unchanged.MinPrice)
	})
}

func TestListingDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the listing and its bids", func(t *testing.T) {
		f := newListingFixture(t)
		snap := builder.NewListingBuilder().WithSellerID(f.seller.ID).BuildSnapshot()
		f.store.AddListing(*snap)
		f.store.AddBid(*builder.NewBidBuilder().WithListingID(snap.ID).BuildSnapshot())
		f.store.AddBid(*builder.NewBidBuilder().WithListingID(snap.ID).BuildSnapshot())

		require.NoError(t, f.commands.Delete(ctx, f.seller.ID, snap.ID))

		_, ok := f.store.Listing(snap.ID)
		assert.False(t, ok)
		assert.Equal(t, 0, f.store.BidCount())
	})

	t.Run("deleting a listing that is already gone succeeds", func(t *testing.T) {
		f := newListingFixture(t)
		require.NoError(t, f.commands.Delete(ctx, f.seller.ID, uuid.New()))
	})

	t.Run("only the seller may delete", func(t *testing.T) {
		f := newListingFixture(t)
		snap := builder.NewListingBuilder().WithSellerID(f.seller.ID).BuildSnapshot()
		f.store.AddListing(*snap)

		err := f.commands.Delete(ctx, uuid.New(), snap.ID)
		require.ErrorIs(t, err, commands.ErrNotSeller)

		_, ok := f.store.Listing(snap.ID)
		assert.True(t, ok)
	})
}
