package auth

import (
	"github.com/preserveapp/preserve-backend/internal/users"
	"github.com/preserveapp/preserve-backend/pkg/enums"
)

// RegisterRequest contains the payload required to onboard a new account.
type RegisterRequest struct {
	Email       string         `json:"email" validate:"required,email"`
	Password    string         `json:"password" validate:"required,min=8"`
	FirstName   string         `json:"first_name" validate:"required"`
	LastName    string         `json:"last_name" validate:"required"`
	PhoneNumber string         `json:"phone_number" validate:"required"`
	UserType    enums.UserType `json:"user_type" validate:"required"`
}

// LoginRequest carries the credential pair.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both register (auto-login) and login.
type AuthResponse struct {
	AccessToken string             `json:"access_token"`
	User        users.UserResponse `json:"user"`
}
