package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	"gorm.io/gorm"
)

// Application is the one-per-preserver onboarding request reviewed by the
// back office before clearance is granted.
type Application struct {
	ID          uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PreserverID uuid.UUID               `gorm:"column:preserver_id;type:uuid;not null;uniqueIndex" json:"preserver_id"`
	Experience  string                  `gorm:"column:experience;not null" json:"experience"`
	Reason      string                  `gorm:"column:reason;not null" json:"reason"`
	Status      enums.ApplicationStatus `gorm:"column:status;not null;default:pending" json:"status"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	DecidedAt   *time.Time              `gorm:"column:decided_at" json:"decided_at,omitempty"`
}

// BeforeCreate fills the id when the driver has no uuid default.
func (a *Application) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
