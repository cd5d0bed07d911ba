package assignments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	"github.com/preserveapp/preserve-backend/pkg/geo"
	"github.com/preserveapp/preserve-backend/pkg/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an assignments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Client").
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) ListOpen(ctx context.Context, params pagination.Params) ([]models.Assignment, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Preload("Location").
		Where("status = ?", enums.AssignmentStatusOpen)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Assignment
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > limit {
		next := rows[limit]
		rows = rows[:limit]
		return rows, &pagination.Cursor{
			CreatedAt: next.CreatedAt,
			ID:        next.ID,
		}, nil
	}

	return rows, nil, nil
}

// ListNearby calls the get_nearby_assignments SQL function. The radius goes
// over the wire in meters; distances come back in meters and are converted
// to miles here.
func (r *repository) ListNearby(ctx context.Context, lat, lon, radiusMiles float64) ([]NearbyRow, error) {
	type nearbyResult struct {
		AssignmentID   uuid.UUID `gorm:"column:assignment_id"`
		DistanceMeters float64   `gorm:"column:distance_meters"`
	}

	var results []nearbyResult
	err := r.db.WithContext(ctx).
		Raw("SELECT assignment_id, distance_meters FROM get_nearby_assignments(?, ?, ?)",
			lat, lon, geo.MilesToMeters(radiusMiles)).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(results))
	distances := make(map[uuid.UUID]float64, len(results))
	for _, row := range results {
		ids = append(ids, row.AssignmentID)
		distances[row.AssignmentID] = geo.MetersToMiles(row.DistanceMeters)
	}

	var rows []models.Assignment
	if err := r.db.WithContext(ctx).
		Preload("Location").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Assignment, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	// Function output order (distance asc) is preserved.
	nearby := make([]NearbyRow, 0, len(results))
	for _, result := range results {
		assignment, ok := byID[result.AssignmentID]
		if !ok {
			continue
		}
		nearby = append(nearby, NearbyRow{
			Assignment:    assignment,
			DistanceMiles: distances[result.AssignmentID],
		})
	}
	return nearby, nil
}

func (r *repository) GetAssignedForPreserver(ctx context.Context, preserverID uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Location").
		Where("preserver_id = ? AND status IN ?", preserverID, []enums.AssignmentStatus{
			enums.AssignmentStatusAssigned,
			enums.AssignmentStatusStarted,
		}).
		Order("updated_at DESC").
		First(&assignment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

// Claim is the single conditional UPDATE that decides the claim race: only a
// row that is still Open and unowned moves to Assigned, so exactly one
// concurrent caller can win.
func (r *repository) Claim(ctx context.Context, id, preserverID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ? AND status = ? AND preserver_id IS NULL", id, enums.AssignmentStatusOpen).
		Updates(map[string]any{
			"status":       enums.AssignmentStatusAssigned,
			"preserver_id": preserverID,
		})
	return result.RowsAffected, result.Error
}

func (r *repository) UpdateStatusOwned(ctx context.Context, id, preserverID uuid.UUID, from, to enums.AssignmentStatus, extra map[string]any) (int64, error) {
	updates := map[string]any{"status": to}
	for column, value := range extra {
		updates[column] = value
	}
	result := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ? AND preserver_id = ? AND status = ?", id, preserverID, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.AssignmentStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *repository) PublishPendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("status = ? AND created_at <= ?", enums.AssignmentStatusPending, cutoff).
		Update("status", enums.AssignmentStatusOpen)
	return result.RowsAffected, result.Error
}
