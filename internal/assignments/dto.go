package assignments

import (
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/internal/locations"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// CreateRequest is the client payload for posting a new assignment.
type CreateRequest struct {
	LocationID  uuid.UUID       `json:"location_id" validate:"required"`
	Description string          `json:"description" validate:"required"`
	BasePrice   decimal.Decimal `json:"base_price" validate:"required"`
	Tips        decimal.Decimal `json:"tips"`
	StartTime   time.Time       `json:"start_time" validate:"required"`
	EndTime     time.Time       `json:"end_time" validate:"required"`
}

// SubmitRequest carries the opaque scan references recorded on submission.
type SubmitRequest struct {
	ScanRefs []string `json:"scan_refs"`
}

// ClientSummary is the trimmed poster identity embedded in responses.
type ClientSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// Response is the API shape for an assignment row.
type Response struct {
	ID          uuid.UUID                   `json:"id"`
	ClientID    uuid.UUID                   `json:"client_id"`
	PreserverID *uuid.UUID                  `json:"preserver_id,omitempty"`
	LocationID  uuid.UUID                   `json:"location_id"`
	Description string                      `json:"description"`
	BasePrice   decimal.Decimal             `json:"base_price"`
	Tips        decimal.Decimal             `json:"tips"`
	Total       decimal.Decimal             `json:"total"`
	StartTime   time.Time                   `json:"start_time"`
	EndTime     time.Time                   `json:"end_time"`
	Status      enums.AssignmentStatus      `json:"status"`
	ScanRefs    []string                    `json:"scan_refs,omitempty"`
	SubmittedAt *time.Time                  `json:"submitted_at,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	Location    *locations.LocationResponse `json:"location,omitempty"`
	Client      *ClientSummary              `json:"client,omitempty"`
}

// NearbyResponse decorates an assignment with its distance from the query point.
type NearbyResponse struct {
	Response
	DistanceMiles float64 `json:"distance_miles"`
}

// FromModel maps an assignment model to the response shape.
func FromModel(assignment *models.Assignment) Response {
	if assignment == nil {
		return Response{}
	}
	resp := Response{
		ID:          assignment.ID,
		ClientID:    assignment.ClientID,
		PreserverID: assignment.PreserverID,
		LocationID:  assignment.LocationID,
		Description: assignment.Description,
		BasePrice:   assignment.BasePrice,
		Tips:        assignment.Tips,
		Total:       assignment.Total(),
		StartTime:   assignment.StartTime,
		EndTime:     assignment.EndTime,
		Status:      assignment.Status,
		ScanRefs:    assignment.ScanRefs,
		SubmittedAt: assignment.SubmittedAt,
		CreatedAt:   assignment.CreatedAt,
	}
	if assignment.Location != nil {
		location := locations.FromModel(assignment.Location)
		resp.Location = &location
	}
	if assignment.Client != nil {
		resp.Client = &ClientSummary{
			ID:        assignment.Client.ID,
			FirstName: assignment.Client.FirstName,
			LastName:  assignment.Client.LastName,
		}
	}
	return resp
}

// FromModels maps a slice of assignment models.
func FromModels(rows []models.Assignment) []Response {
	out := make([]Response, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
