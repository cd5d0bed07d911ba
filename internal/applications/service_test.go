package applications

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/internal/users"
	"github.com/preserveapp/preserve-backend/pkg/config"
	"github.com/preserveapp/preserve-backend/pkg/db"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) (*Service, *db.Client) {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    "file::memory:",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, client.DB().AutoMigrate(&models.User{}, &models.Preserver{}, &models.Application{}))
	t.Cleanup(func() { _ = client.Close() })

	svc, err := NewService(ServiceParams{DB: client, Repo: NewRepository(client.DB())})
	require.NoError(t, err)
	return svc, client
}

func seedPreserver(t *testing.T, client *db.Client) uuid.UUID {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    "Sam",
		LastName:     "Reyes",
		PhoneNumber:  "555-0102",
		UserType:     enums.UserTypePreserver,
	}
	require.NoError(t, client.DB().Create(user).Error)
	_, err := users.NewPreserverRepository(client.DB()).Create(context.Background(), user.ID)
	require.NoError(t, err)
	return user.ID
}

func TestSubmitCreatesPendingApplication(t *testing.T) {
	svc, client := testService(t)
	preserverID := seedPreserver(t, client)

	resp, err := svc.Submit(context.Background(), preserverID, SubmitRequest{
		Experience: "two seasons of archive scanning",
		Reason:     "flexible work",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.ApplicationStatusPending, resp.Status)
	assert.Nil(t, resp.DecidedAt)

	status, err := svc.StatusFor(context.Background(), preserverID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, status.ID)
}

func TestSubmitTwiceConflicts(t *testing.T) {
	svc, client := testService(t)
	preserverID := seedPreserver(t, client)

	_, err := svc.Submit(context.Background(), preserverID, SubmitRequest{Experience: "a", Reason: "b"})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), preserverID, SubmitRequest{Experience: "a", Reason: "b"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestSubmitRequiresContent(t *testing.T) {
	svc, client := testService(t)
	preserverID := seedPreserver(t, client)

	_, err := svc.Submit(context.Background(), preserverID, SubmitRequest{Experience: "  ", Reason: ""})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestStatusForMissingApplication(t *testing.T) {
	svc, client := testService(t)
	preserverID := seedPreserver(t, client)

	_, err := svc.StatusFor(context.Background(), preserverID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestApproveFlipsClearance(t *testing.T) {
	svc, client := testService(t)
	preserverID := seedPreserver(t, client)

	submitted, err := svc.Submit(context.Background(), preserverID, SubmitRequest{Experience: "a", Reason: "b"})
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), submitted.ID, true)
	require.NoError(t, err)
	assert.Equal(t, enums.ApplicationStatusApproved, decided.Status)
	require.NotNil(t, decided.DecidedAt)

	preserver, err := users.NewPreserverRepository(client.DB()).FindByID(context.Background(), preserverID)
	require.NoError(t, err)
	assert.True(t, preserver.Clearance)
}

func TestRejectLeavesClearanceFalse(t *testing.T) {
	svc, client := testService(t)
	preserverID := seedPreserver(t, client)

	submitted, err := svc.Submit(context.Background(), preserverID, SubmitRequest{Experience: "a", Reason: "b"})
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), submitted.ID, false)
	require.NoError(t, err)
	assert.Equal(t, enums.ApplicationStatusRejected, decided.Status)

	preserver, err := users.NewPreserverRepository(client.DB()).FindByID(context.Background(), preserverID)
	require.NoError(t, err)
	assert.False(t, preserver.Clearance)
}

func TestDecideTwiceIsStateConflict(t *testing.T) {
	svc, client := testService(t)
	preserverID := seedPreserver(t, client)

	submitted, err := svc.Submit(context.Background(), preserverID, SubmitRequest{Experience: "a", Reason: "b"})
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), submitted.ID, false)
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), submitted.ID, true)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestDecideUnknownApplication(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.Decide(context.Background(), uuid.New(), true)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSyncApprovalsHealsMissedFlips(t *testing.T) {
	svc, client := testService(t)
	preserverID := seedPreserver(t, client)

	submitted, err := svc.Submit(context.Background(), preserverID, SubmitRequest{Experience: "a", Reason: "b"})
	require.NoError(t, err)
	_, err = svc.Decide(context.Background(), submitted.ID, true)
	require.NoError(t, err)

	// Simulate a clearance flip lost after the decision landed.
	require.NoError(t, users.NewPreserverRepository(client.DB()).SetClearance(context.Background(), preserverID, false))

	fixed, err := svc.SyncApprovals(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fixed)

	preserver, err := users.NewPreserverRepository(client.DB()).FindByID(context.Background(), preserverID)
	require.NoError(t, err)
	assert.True(t, preserver.Clearance)
}
