package listing

// MealType is the fixed enumeration of sellable meal slots.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnacks    MealType = "snacks"
	MealDinner    MealType = "dinner"
)

func (m MealType) String() string {
	return string(m)
}

func (m MealType) IsValid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealSnacks, MealDinner:
		return true
	default:
		return false
	}
}

// CutoffHour is the end-of-service hour after which the slot can no longer
// be redeemed. Unknown meal types fall back to end of day.
func (m MealType) CutoffHour() int {
	switch m {
	case MealBreakfast:
		return 10
	case MealLunch:
		return 15
	case MealSnacks:
		return 19
	case MealDinner:
		return 22
	default:
		return 23
	}
}
