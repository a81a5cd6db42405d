package user

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email      string    `json:"email" binding:"required,email"`
	Name       string    `json:"name" binding:"required"`
	Sex        Sex       `json:"sex" binding:"required"`
	BirthYear  int       `json:"birth_year" binding:"required"`
	BirthMonth int       `json:"birth_month" binding:"required"`
	BirthDay   int       `json:"birth_day" binding:"required"`
	BirthSlot  BirthSlot `json:"birth_slot"`
}

// UpdateProfileRequest updates the mutable profile fields.
type UpdateProfileRequest struct {
	Name      *string    `json:"name"`
	BirthInfo *BirthInfo `json:"birth_info"`
}

// Response is the external representation of a user.
type Response struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Sex       Sex       `json:"sex"`
	Role      Role      `json:"role"`
	BirthInfo BirthInfo `json:"birth_info"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a user to its external representation.
func (u *User) ToResponse() Response {
	return Response{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Sex:       u.Sex,
		Role:      u.Role,
		BirthInfo: u.BirthInfo,
		CreatedAt: u.CreatedAt,
	}
}
