package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/db/types"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Assignment is a unit of scanning work tied to a location and time window.
// PreserverID stays nil while the status is Pending or Open and is set
// atomically by the claim update.
type Assignment struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID    uuid.UUID              `gorm:"column:client_id;type:uuid;not null" json:"client_id"`
	PreserverID *uuid.UUID             `gorm:"column:preserver_id;type:uuid" json:"preserver_id,omitempty"`
	LocationID  uuid.UUID              `gorm:"column:location_id;type:uuid;not null" json:"location_id"`
	Description string                 `gorm:"column:description;not null" json:"description"`
	BasePrice   decimal.Decimal        `gorm:"column:base_price;type:numeric(10,2);not null" json:"base_price"`
	Tips        decimal.Decimal        `gorm:"column:tips;type:numeric(10,2);not null;default:0" json:"tips"`
	StartTime   time.Time              `gorm:"column:start_time;not null" json:"start_time"`
	EndTime     time.Time              `gorm:"column:end_time;not null" json:"end_time"`
	Status      enums.AssignmentStatus `gorm:"column:status;not null;default:Pending" json:"status"`
	ScanRefs    types.StringArray      `gorm:"column:scan_refs;type:text" json:"scan_refs,omitempty"`
	SubmittedAt *time.Time             `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Client   *User     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// BeforeCreate fills the id when the driver has no uuid default.
func (a *Assignment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Total is the displayed amount: base pay plus tips.
func (a Assignment) Total() decimal.Decimal {
	return a.BasePrice.Add(a.Tips)
}

// Duration returns the scheduled window length, zero when either bound is
// missing.
func (a Assignment) Duration() time.Duration {
	if a.StartTime.IsZero() || a.EndTime.IsZero() {
		return 0
	}
	return a.EndTime.Sub(a.StartTime)
}
