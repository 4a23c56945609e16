package response

import (
	"time"

	"mess-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID                uuid.UUID `json:"id"`
	Roll              string    `json:"roll"`
	DisplayName       string    `json:"displayName"`
	Email             string    `json:"email"`
	HasMealCredential bool      `json:"hasMealCredential"`
	CreatedAt         time.Time `json:"createdAt"`
}

func FromProfile(view *queries.ProfileView) *ProfileResponse {
	var resp ProfileResponse
	mustCopy(&resp, view)
	return &resp
}
