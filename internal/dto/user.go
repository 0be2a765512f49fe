package dto

import (
	"time"

	"github.com/paradb/paradb-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	CreationDate time.Time `json:"creation_date"`
}

// CurrentUserDTO adds fields only the user themself may see
type CurrentUserDTO struct {
	UserDTO
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Username:     user.Username,
		CreationDate: user.CreationDate,
	}
}

// ToCurrentUserDTO converts a User model to CurrentUserDTO
func ToCurrentUserDTO(user models.User) CurrentUserDTO {
	return CurrentUserDTO{
		UserDTO:       ToUserDTO(user),
		Email:         user.Email,
		EmailVerified: user.EmailStatus == models.EmailStatusVerified,
	}
}
