package models

import (
	"time"

	"github.com/google/uuid"
)

// Preserver is the gig-worker profile keyed by the user identity. Clearance
// gates access to matching and lifecycle operations and flips only when the
// application is approved.
type Preserver struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Clearance  bool       `gorm:"column:clearance;not null;default:false" json:"clearance"`
	LocationID *uuid.UUID `gorm:"column:location_id;type:uuid" json:"location_id,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}
