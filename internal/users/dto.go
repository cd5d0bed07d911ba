package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
)

// CreateUserDTO carries the fields required to insert a user row.
type CreateUserDTO struct {
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	PhoneNumber    string
	ProfilePicture *string
	UserType       enums.UserType
}

// ToModel maps the DTO onto a fresh user model.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		PhoneNumber:    d.PhoneNumber,
		ProfilePicture: d.ProfilePicture,
		UserType:       d.UserType,
	}
}

// UserResponse is the public profile shape returned by the API.
type UserResponse struct {
	ID             uuid.UUID      `json:"id"`
	Email          string         `json:"email"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	PhoneNumber    string         `json:"phone_number"`
	ProfilePicture *string        `json:"profile_picture,omitempty"`
	UserType       enums.UserType `json:"user_type"`
	Clearance      *bool          `json:"clearance,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// FromModel maps a user model to the response shape.
func FromModel(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		PhoneNumber:    user.PhoneNumber,
		ProfilePicture: user.ProfilePicture,
		UserType:       user.UserType,
		CreatedAt:      user.CreatedAt,
	}
}

// FromModelWithClearance attaches the preserver clearance flag to the profile.
func FromModelWithClearance(user *models.User, clearance bool) UserResponse {
	resp := FromModel(user)
	resp.Clearance = &clearance
	return resp
}
