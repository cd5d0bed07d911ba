package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// PreserverRepository exposes gig-worker profile persistence.
type PreserverRepository struct {
	db *gorm.DB
}

// NewPreserverRepository constructs a preserver repo bound to the provided GORM DB.
func NewPreserverRepository(db *gorm.DB) *PreserverRepository {
	return &PreserverRepository{db: db}
}

// Create inserts the preserver profile row keyed by the user id. Clearance
// starts false until an application is approved.
func (r *PreserverRepository) Create(ctx context.Context, userID uuid.UUID) (*models.Preserver, error) {
	preserver := &models.Preserver{ID: userID}
	if err := r.db.WithContext(ctx).Create(preserver).Error; err != nil {
		return nil, err
	}
	return preserver, nil
}

// FindByID loads a preserver profile.
func (r *PreserverRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Preserver, error) {
	var preserver models.Preserver
	if err := r.db.WithContext(ctx).First(&preserver, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &preserver, nil
}

// SetClearance flips the clearance flag for a preserver.
func (r *PreserverRepository) SetClearance(ctx context.Context, id uuid.UUID, clearance bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Preserver{}).
		Where("id = ?", id).
		UpdateColumn("clearance", clearance).Error
}

// SetLocation associates a home location with a preserver.
func (r *PreserverRepository) SetLocation(ctx context.Context, id uuid.UUID, locationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Preserver{}).
		Where("id = ?", id).
		UpdateColumn("location_id", locationID).Error
}
