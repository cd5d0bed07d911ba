package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is an address with geocoded coordinates. Rows are immutable once
// created; a failed geocode means no row at all.
type Location struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Address            string    `gorm:"column:address;not null" json:"address"`
	OptionalAddressExt *string   `gorm:"column:optional_address_ext" json:"optional_address_ext,omitempty"`
	City               string    `gorm:"column:city;not null" json:"city"`
	State              string    `gorm:"column:state;not null" json:"state"`
	Zipcode            string    `gorm:"column:zipcode;not null" json:"zipcode"`
	Latitude           float64   `gorm:"column:latitude;not null" json:"latitude"`
	Longitude          float64   `gorm:"column:longitude;not null" json:"longitude"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// BeforeCreate fills the id when the driver has no uuid default.
func (l *Location) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
