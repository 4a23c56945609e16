package listing

import "time"

// IsExpired reports whether a meal slot's service window has closed at the
// given instant. Any past date is expired unconditionally; on the meal's own
// date it expires once the clock reaches the meal's cutoff hour.
//
// The result is monotonic in now: once expired, a slot stays expired. Callers
// must pass now in the canonical timezone so the sweep and request-time
// checks agree.
func IsExpired(date MealDate, meal MealType, now time.Time) bool {
	today := DateOf(now)
	if date.Before(today) {
		return true
	}
	if date.Equal(today) {
		return now.Hour() >= meal.CutoffHour()
	}
	return false
}
