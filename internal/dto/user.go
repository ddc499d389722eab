package dto

import (
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

// UserDTO represents the authenticated user in API responses
type UserDTO struct {
	ID          uint64              `json:"id"`
	Email       string              `json:"email"`
	Name        string              `json:"name"`
	Role        models.Role         `json:"role"`
	Status      models.PersonStatus `json:"status"`
	HasPassword bool                `json:"has_password"`
	LastLoginAt *time.Time          `json:"last_login_at"`
	CreatedAt   time.Time           `json:"created_at"`
}

// PersonSummaryDTO is the public view of another person
type PersonSummaryDTO struct {
	ID   uint64      `json:"id"`
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

// AuthDTO is returned by every successful login
type AuthDTO struct {
	User      UserDTO   `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToUserDTO converts a Person model to UserDTO
func ToUserDTO(person models.Person) UserDTO {
	return UserDTO{
		ID:          person.ID,
		Email:       person.Email,
		Name:        person.Name,
		Role:        person.Role,
		Status:      person.Status,
		HasPassword: person.PasswordHash != nil,
		LastLoginAt: person.LastLoginAt,
		CreatedAt:   person.CreatedAt,
	}
}

// ToPersonSummaryDTO returns nil for relations that were not loaded
func ToPersonSummaryDTO(person models.Person) *PersonSummaryDTO {
	if person.ID == 0 {
		return nil
	}
	return &PersonSummaryDTO{
		ID:   person.ID,
		Name: person.Name,
		Role: person.Role,
	}
}
