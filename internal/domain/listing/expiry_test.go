//go:build unit

package listing_test

import (
	"testing"
	"time"

	"mess-market/internal/domain/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kolkata = mustLoadLocation("Asia/Kolkata")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 14, hour, minute, 0, 0, kolkata)
}

func TestIsExpired(t *testing.T) {
	today := listing.NewMealDate(2026, time.March, 14)
	yesterday := listing.NewMealDate(2026, time.March, 13)
	tomorrow := listing.NewMealDate(2026, time.March, 15)

	t.Run("cutoff hours per meal type", func(t *testing.T) {
		cases := []struct {
			meal   listing.MealType
			cutoff int
		}{
			{listing.MealBreakfast, 10},
			{listing.MealLunch, 15},
			{listing.MealSnacks, 19},
			{listing.MealDinner, 22},
		}
		for _, c := range cases {
			t.Run(c.meal.String(), func(t *testing.T) {
				assert.False(t, listing.IsExpired(today, c.meal, at(c.cutoff-1, 59)),
					"one minute before cutoff must still be live")
				assert.True(t, listing.IsExpired(today, c.meal, at(c.cutoff, 0)),
					"top of the cutoff hour must be expired")
				assert.True(t, listing.IsExpired(today, c.meal, at(c.cutoff, 1)))
			})
		}
	})

	t.Run("unknown meal type falls back to end of day", func(t *testing.T) {
		unknown := listing.MealType("brunch")
		assert.Equal(t, 23, unknown.CutoffHour())
		assert.False(t, listing.IsExpired(today, unknown, at(22, 59)))
		assert.True(t, listing.IsExpired(today, unknown, at(23, 0)))
	})

	t.Run("past dates are expired at any hour", func(t *testing.T) {
		assert.True(t, listing.IsExpired(yesterday, listing.MealDinner, at(0, 0)))
		assert.True(t, listing.IsExpired(yesterday, listing.MealBreakfast, at(23, 59)))
	})

	t.Run("future dates are never expired", func(t *testing.T) {
		assert.False(t, listing.IsExpired(tomorrow, listing.MealBreakfast, at(23, 59)))
	})

	t.Run("monotonic in now", func(t *testing.T) {
		// Once a slot reads expired it must stay expired for every later
		// instant, otherwise the sweep and a later request could disagree.
		for _, meal := range []listing.MealType{
			listing.MealBreakfast, listing.MealLunch, listing.MealSnacks, listing.MealDinner,
		} {
			expired := false
			for hour := 0; hour < 24; hour++ {
				now := listing.IsExpired(today, meal, at(hour, 0))
				if expired {
					require.True(t, now, "%s flipped back to live at hour %d", meal, hour)
				}
				expired = now
			}
			require.True(t, expired, "%s never expired on its own date", meal)
		}
	})

	t.Run("lunch sold in the morning is live, gone by afternoon", func(t *testing.T) {
		assert.False(t, listing.IsExpired(today, listing.MealLunch, at(9, 30)))
		assert.True(t, listing.IsExpired(today, listing.MealLunch, at(16, 0)))
	})

	t.Run("dinner listed after lunch cutoff is still live", func(t *testing.T) {
		assert.False(t, listing.IsExpired(today, listing.MealDinner, at(16, 0)))
	})
}

func TestMealDate(t *testing.T) {
	t.Run("parse round trip", func(t *testing.T) {
		d, err := listing.ParseMealDate("2026-03-14")
		require.NoError(t, err)
		assert.Equal(t, "2026-03-14", d.String())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, s := range []string{"", "14-03-2026", "2026/03/14", "2026-13-01", "tomorrow"} {
			_, err := listing.ParseMealDate(s)
			assert.Error(t, err, "input %q", s)
		}
	})

	t.Run("ordering ignores time of day", func(t *testing.T) {
		morning := listing.DateOf(at(6, 0))
		night := listing.DateOf(at(23, 0))
		assert.True(t, morning.Equal(night))
		assert.False(t, morning.Before(night))
	})

	t.Run("DateOf uses the instant's location", func(t *testing.T) {
		// 01:00 IST on the 14th is still the 13th in UTC; the canonical
		// timezone decides which date the slot belongs to.
		early := time.Date(2026, time.March, 14, 1, 0, 0, 0, kolkata)
		assert.Equal(t, "2026-03-14", listing.DateOf(early).String())
		assert.Equal(t, "2026-03-13", listing.DateOf(early.UTC()).String())
	})
}

func TestPrice(t *testing.T) {
	t.Run("zero is a valid price", func(t *testing.T) {
		p, err := listing.NewPrice(0)
		require.NoError(t, err)
		assert.Equal(t, int32(0), p.Amount())
	})

	t.Run("negative is rejected", func(t *testing.T) {
		_, err := listing.NewPrice(-1)
		require.Error(t, err)
	})

	t.Run("comparison", func(t *testing.T) {
		low, _ := listing.NewPrice(40)
		high, _ := listing.NewPrice(60)
		assert.True(t, low.LessThan(high))
		assert.False(t, high.LessThan(low))
		assert.False(t, low.LessThan(low))
	})
}
