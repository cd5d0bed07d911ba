package applications

import (
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
)

// SubmitRequest is the onboarding application payload.
type SubmitRequest struct {
	Experience string `json:"experience" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
}

// DecisionRequest is the back-office approve/reject payload.
type DecisionRequest struct {
	Approve bool `json:"approve"`
}

// ApplicationResponse is the API shape for an application row.
type ApplicationResponse struct {
	ID          uuid.UUID               `json:"id"`
	PreserverID uuid.UUID               `json:"preserver_id"`
	Experience  string                  `json:"experience"`
	Reason      string                  `json:"reason"`
	Status      enums.ApplicationStatus `json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
	DecidedAt   *time.Time              `json:"decided_at,omitempty"`
}

// FromModel maps an application model to the response shape.
func FromModel(application *models.Application) ApplicationResponse {
	if application == nil {
		return ApplicationResponse{}
	}
	return ApplicationResponse{
		ID:          application.ID,
		PreserverID: application.PreserverID,
		Experience:  application.Experience,
		Reason:      application.Reason,
		Status:      application.Status,
		CreatedAt:   application.CreatedAt,
		DecidedAt:   application.DecidedAt,
	}
}
