package listing

import (
	"errors"
	"time"
)

// MealDate is a calendar date with no time-of-day component. Comparisons are
// date-only; the hour enters expiry decisions via MealType.CutoffHour.
type MealDate struct {
	year  int
	month time.Month
	day   int
}

func NewMealDate(year int, month time.Month, day int) MealDate {
	return MealDate{year: year, month: month, day: day}
}

// DateOf truncates a wall-clock instant to the calendar date in its location.
func DateOf(t time.Time) MealDate {
	y, m, d := t.Date()
	return MealDate{year: y, month: m, day: d}
}

func ParseMealDate(s string) (MealDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return MealDate{}, errors.New("invalid meal date, want YYYY-MM-DD")
	}
	return DateOf(t), nil
}

func (d MealDate) Before(other MealDate) bool {
	if d.year != other.year {
		return d.year < other.year
	}
	if d.month != other.month {
		return d.month < other.month
	}
	return d.day < other.day
}

func (d MealDate) Equal(other MealDate) bool {
	return d.year == other.year && d.month == other.month && d.day == other.day
}

// Time returns midnight of the date in UTC, the representation stored in the
// DATE column.
func (d MealDate) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d MealDate) String() string {
	return d.Time().Format("2006-01-02")
}

// Price is a whole-rupee amount. Listings carry a minimum acceptable price;
// bids may undercut it (the UI warns, the core allows).
type Price struct {
	amount int32
}

func NewPrice(amount int32) (Price, error) {
	if amount < 0 {
		return Price{}, errors.New("price cannot be negative")
	}
	return Price{amount: amount}, nil
}

func (p Price) Amount() int32 {
	return p.amount
}

func (p Price) LessThan(other Price) bool {
	return p.amount < other.amount
}
