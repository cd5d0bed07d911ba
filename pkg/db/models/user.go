package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	"gorm.io/gorm"
)

// User represents the canonical identity entity shared by preservers,
// clients, and back-office admins.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email          string         `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash   string         `gorm:"column:password_hash;not null" json:"-"`
	FirstName      string         `gorm:"column:first_name;not null" json:"first_name"`
	LastName       string         `gorm:"column:last_name;not null" json:"last_name"`
	PhoneNumber    string         `gorm:"column:phone_number;not null" json:"phone_number"`
	ProfilePicture *string        `gorm:"column:profile_picture" json:"profile_picture,omitempty"`
	UserType       enums.UserType `gorm:"column:user_type;not null" json:"user_type"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// BeforeCreate fills the id when the driver has no uuid default.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
