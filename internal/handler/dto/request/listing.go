package request

import (
	"mess-market/internal/domain/listing"
)

type CreateListingRequest struct {
	MealDate string `json:"meal_date" binding:"required"`
	MealType string `json:"meal_type" binding:"required"`
	MinPrice int32  `json:"min_price" binding:"min=0"`
}

func (r CreateListingRequest) ToDomain() (listing.MealDate, listing.MealType, error) {
	date, err := listing.ParseMealDate(r.MealDate)
	if err != nil {
		return listing.MealDate{}, "", err
	}

	mealType := listing.MealType(r.MealType)
	if !mealType.IsValid() {
		return listing.MealDate{}, "", listing.ErrInvalidMealType
	}

	return date, mealType, nil
}

type UpdateListingPriceRequest struct {
	MinPrice int32 `json:"min_price" binding:"min=0"`
}
