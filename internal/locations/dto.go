package locations

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
)

// CreateLocationRequest is the address payload submitted before geocoding.
type CreateLocationRequest struct {
	Address            string  `json:"address" validate:"required"`
	OptionalAddressExt *string `json:"optional_address_ext,omitempty"`
	City               string  `json:"city" validate:"required"`
	State              string  `json:"state" validate:"required"`
	Zipcode            string  `json:"zipcode" validate:"required"`
}

// FullAddress joins the components into the single-line query sent to the
// geocoder. The unit/suite extension is deliberately excluded.
func (r CreateLocationRequest) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s",
		strings.TrimSpace(r.Address),
		strings.TrimSpace(r.City),
		strings.TrimSpace(r.State),
		strings.TrimSpace(r.Zipcode),
	)
}

// LocationResponse is the API shape for a location row.
type LocationResponse struct {
	ID                 uuid.UUID `json:"id"`
	Address            string    `json:"address"`
	OptionalAddressExt *string   `json:"optional_address_ext,omitempty"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	Zipcode            string    `json:"zipcode"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	CreatedAt          time.Time `json:"created_at"`
}

// FromModel maps a location model to the response shape.
func FromModel(location *models.Location) LocationResponse {
	if location == nil {
		return LocationResponse{}
	}
	return LocationResponse{
		ID:                 location.ID,
		Address:            location.Address,
		OptionalAddressExt: location.OptionalAddressExt,
		City:               location.City,
		State:              location.State,
		Zipcode:            location.Zipcode,
		Latitude:           location.Latitude,
		Longitude:          location.Longitude,
		CreatedAt:          location.CreatedAt,
	}
}

// RouteResponse is the driving route summary returned to clients.
type RouteResponse struct {
	DistanceMiles   float64 `json:"distance_miles"`
	DurationMinutes float64 `json:"duration_min"`
}
