//go:build unit

package bid_test

import (
	"testing"

	"mess-market/internal/domain/bid"
	"mess-market/internal/domain/listing"
	"mess-market/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBid(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewBidBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, int32(45), actual.Price().Amount())
		assert.False(t, actual.Accepted())
		assert.False(t, actual.Paid())
	})

	t.Run("rejects bidding on own listing", func(t *testing.T) {
		actual, err := builder.NewBidBuilder().AsSelfBid().BuildDomain()
		require.Nil(t, actual)
		require.ErrorIs(t, err, bid.ErrOwnListing)
	})

	t.Run("bid may undercut the minimum price", func(t *testing.T) {
		// The listing minimum is a hint, not a floor; the seller simply
		// declines bids they find too low.
		actual, err := builder.NewBidBuilder().WithPrice(1).BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, int32(1), actual.Price().Amount())
	})
}

func TestBidTransitions(t *testing.T) {
	mustPrice := func(amount int32) listing.Price {
		p, err := listing.NewPrice(amount)
		require.NoError(t, err)
		return p
	}

	t.Run("price is frozen after acceptance", func(t *testing.T) {
		b, err := builder.NewBidBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.UpdatePrice(mustPrice(60)))
		assert.Equal(t, int32(60), b.Price().Amount())

		b.Accept()
		err = b.UpdatePrice(mustPrice(70))
		require.ErrorIs(t, err, bid.ErrAlreadyAccepted)
		assert.Equal(t, int32(60), b.Price().Amount())
	})

	t.Run("paid requires accepted", func(t *testing.T) {
		b, err := builder.NewBidBuilder().BuildDomain()
		require.NoError(t, err)

		require.ErrorIs(t, b.MarkPaid(), bid.ErrNotAccepted)
		assert.False(t, b.Paid())

		b.Accept()
		require.NoError(t, b.MarkPaid())
		assert.True(t, b.Paid())
	})

	t.Run("withdrawal allowed only before acceptance", func(t *testing.T) {
		b, err := builder.NewBidBuilder().BuildDomain()
		require.NoError(t, err)

		assert.True(t, b.CanWithdraw())
		b.Accept()
		assert.False(t, b.CanWithdraw())
	})

	t.Run("ownership", func(t *testing.T) {
		buyerID := uuid.New()
		b, err := builder.NewBidBuilder().WithBuyerID(buyerID).BuildDomain()
		require.NoError(t, err)

		assert.True(t, b.IsOwnedBy(buyerID))
		assert.False(t, b.IsOwnedBy(uuid.New()))
	})
}
