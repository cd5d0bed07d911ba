package assignments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/config"
	"github.com/preserveapp/preserve-backend/pkg/db"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/db/types"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	"github.com/preserveapp/preserve-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo(t *testing.T) Repository {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    "file::memory:",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, client.DB().AutoMigrate(
		&models.User{},
		&models.Preserver{},
		&models.Location{},
		&models.Assignment{},
	))
	t.Cleanup(func() { _ = client.Close() })
	return NewRepository(client.DB())
}

func insertAssignment(t *testing.T, repo Repository, status enums.AssignmentStatus, createdAt time.Time) *models.Assignment {
	t.Helper()
	assignment := &models.Assignment{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		LocationID:  uuid.New(),
		Description: "shelf scan",
		BasePrice:   decimal.RequireFromString("15.00"),
		Tips:        decimal.RequireFromString("0"),
		StartTime:   createdAt.Add(time.Hour),
		EndTime:     createdAt.Add(3 * time.Hour),
		Status:      status,
		CreatedAt:   createdAt,
	}
	require.NoError(t, repo.Insert(context.Background(), assignment))
	return assignment
}

func TestRepoInsertAndGetByID(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	created := insertAssignment(t, repo, enums.AssignmentStatusPending, time.Now().UTC())

	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, enums.AssignmentStatusPending, loaded.Status)
	assert.Nil(t, loaded.PreserverID)
	assert.True(t, loaded.BasePrice.Equal(decimal.RequireFromString("15.00")))
}

func TestRepoListOpenOrdersNewestFirstAndPaginates(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	insertAssignment(t, repo, enums.AssignmentStatusPending, base)
	oldest := insertAssignment(t, repo, enums.AssignmentStatusOpen, base.Add(1*time.Minute))
	middle := insertAssignment(t, repo, enums.AssignmentStatusOpen, base.Add(2*time.Minute))
	newest := insertAssignment(t, repo, enums.AssignmentStatusOpen, base.Add(3*time.Minute))

	rows, cursor, err := repo.ListOpen(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)
	require.NotNil(t, cursor)

	rows, cursor, err = repo.ListOpen(ctx, pagination.Params{Limit: 2, Cursor: pagination.EncodeCursor(*cursor)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, oldest.ID, rows[0].ID)
	assert.Nil(t, cursor)
}

func TestRepoClaimIsExactlyOnce(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	created := insertAssignment(t, repo, enums.AssignmentStatusOpen, time.Now().UTC())

	first := uuid.New()
	affected, err := repo.Claim(ctx, created.ID, first)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Claim(ctx, created.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.AssignmentStatusAssigned, loaded.Status)
	require.NotNil(t, loaded.PreserverID)
	assert.Equal(t, first, *loaded.PreserverID)
}

func TestRepoUpdateStatusOwnedGuards(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	created := insertAssignment(t, repo, enums.AssignmentStatusOpen, time.Now().UTC())

	owner := uuid.New()
	_, err := repo.Claim(ctx, created.ID, owner)
	require.NoError(t, err)

	// Wrong owner does not move the row.
	affected, err := repo.UpdateStatusOwned(ctx, created.ID, uuid.New(), enums.AssignmentStatusAssigned, enums.AssignmentStatusStarted, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	// Wrong from-status does not move the row.
	affected, err = repo.UpdateStatusOwned(ctx, created.ID, owner, enums.AssignmentStatusStarted, enums.AssignmentStatusSubmitted, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	affected, err = repo.UpdateStatusOwned(ctx, created.ID, owner, enums.AssignmentStatusAssigned, enums.AssignmentStatusStarted, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestRepoUpdateStatusOwnedWritesExtras(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	created := insertAssignment(t, repo, enums.AssignmentStatusOpen, time.Now().UTC())

	owner := uuid.New()
	_, err := repo.Claim(ctx, created.ID, owner)
	require.NoError(t, err)
	_, err = repo.UpdateStatusOwned(ctx, created.ID, owner, enums.AssignmentStatusAssigned, enums.AssignmentStatusStarted, nil)
	require.NoError(t, err)

	submittedAt := time.Date(2025, 5, 1, 17, 45, 0, 0, time.UTC)
	affected, err := repo.UpdateStatusOwned(ctx, created.ID, owner, enums.AssignmentStatusStarted, enums.AssignmentStatusSubmitted, map[string]any{
		"scan_refs":    types.StringArray{"scan/a", "scan/b"},
		"submitted_at": submittedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"scan/a", "scan/b"}, []string(loaded.ScanRefs))
	require.NotNil(t, loaded.SubmittedAt)
	assert.True(t, loaded.SubmittedAt.Equal(submittedAt))
}

func TestRepoPublishPendingBefore(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	older := insertAssignment(t, repo, enums.AssignmentStatusPending, base)
	newer := insertAssignment(t, repo, enums.AssignmentStatusPending, base.Add(time.Hour))

	published, err := repo.PublishPendingBefore(ctx, base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), published)

	loadedOlder, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.AssignmentStatusOpen, loadedOlder.Status)

	loadedNewer, err := repo.GetByID(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.AssignmentStatusPending, loadedNewer.Status)
}

func TestRepoGetAssignedForPreserver(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	preserverID := uuid.New()

	active, err := repo.GetAssignedForPreserver(ctx, preserverID)
	require.NoError(t, err)
	assert.Nil(t, active)

	created := insertAssignment(t, repo, enums.AssignmentStatusOpen, time.Now().UTC())
	_, err = repo.Claim(ctx, created.ID, preserverID)
	require.NoError(t, err)

	active, err = repo.GetAssignedForPreserver(ctx, preserverID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, created.ID, active.ID)
}
