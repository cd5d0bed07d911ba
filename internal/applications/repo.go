package applications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository handles application persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, application *models.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	FindByPreserver(ctx context.Context, preserverID uuid.UUID) (*models.Application, error)
	UpdateDecision(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus, decidedAt time.Time) (int64, error)
	ListApprovedWithoutClearance(ctx context.Context, limit int) ([]models.Application, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an applications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).First(&application, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *repository) FindByPreserver(ctx context.Context, preserverID uuid.UUID) (*models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).
		Where("preserver_id = ?", preserverID).
		First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// UpdateDecision only moves pending applications; the RowsAffected result
// tells the caller whether the row was still undecided.
func (r *repository) UpdateDecision(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus, decidedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", id, enums.ApplicationStatusPending).
		Updates(map[string]any{
			"status":     status,
			"decided_at": decidedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *repository) ListApprovedWithoutClearance(ctx context.Context, limit int) ([]models.Application, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Joins("JOIN preservers ON preservers.id = applications.preserver_id").
		Where("applications.status = ?", enums.ApplicationStatusApproved).
		Where("preservers.clearance = ?", false).
		Order("applications.decided_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
