package assignments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	"github.com/preserveapp/preserve-backend/pkg/pagination"
	"gorm.io/gorm"
)

// NearbyRow pairs an assignment with its haversine distance from the query
// point, as computed inside the database.
type NearbyRow struct {
	Assignment    models.Assignment
	DistanceMiles float64
}

// Repository is the persistence contract for assignments. Conditional
// updates return the affected row count so services can distinguish a lost
// race from a missing row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	ListOpen(ctx context.Context, params pagination.Params) ([]models.Assignment, *pagination.Cursor, error)
	ListNearby(ctx context.Context, lat, lon, radiusMiles float64) ([]NearbyRow, error)
	GetAssignedForPreserver(ctx context.Context, preserverID uuid.UUID) (*models.Assignment, error)
	Claim(ctx context.Context, id, preserverID uuid.UUID) (int64, error)
	UpdateStatusOwned(ctx context.Context, id, preserverID uuid.UUID, from, to enums.AssignmentStatus, extra map[string]any) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.AssignmentStatus) (int64, error)
	PublishPendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
