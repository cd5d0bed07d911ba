package earnings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository reads completed assignments for earnings views.
type Repository interface {
	// ListCompletedInPeriod returns the preserver's Completed assignments
	// whose start falls in the half-open window [from, to).
	ListCompletedInPeriod(ctx context.Context, preserverID uuid.UUID, from, to time.Time) ([]models.Assignment, error)
	// ListCompleted returns the preserver's full completed history, newest
	// start first.
	ListCompleted(ctx context.Context, preserverID uuid.UUID) ([]models.Assignment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a GORM-backed earnings repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListCompletedInPeriod(ctx context.Context, preserverID uuid.UUID, from, to time.Time) ([]models.Assignment, error) {
	var rows []models.Assignment
	err := r.db.WithContext(ctx).
		Where("preserver_id = ?", preserverID).
		Where("status = ?", enums.AssignmentStatusCompleted).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListCompleted(ctx context.Context, preserverID uuid.UUID) ([]models.Assignment, error) {
	var rows []models.Assignment
	err := r.db.WithContext(ctx).
		Where("preserver_id = ?", preserverID).
		Where("status = ?", enums.AssignmentStatusCompleted).
		Order("start_time DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
