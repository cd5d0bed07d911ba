package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/preserveapp/preserve-backend/internal/assignments"
	"github.com/preserveapp/preserve-backend/internal/users"
	pkgauth "github.com/preserveapp/preserve-backend/pkg/auth"
	"github.com/preserveapp/preserve-backend/pkg/config"
	"github.com/preserveapp/preserve-backend/pkg/db"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	"github.com/preserveapp/preserve-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type testEnv struct {
	cfg           *config.Config
	router        http.Handler
	preserverRepo *users.PreserverRepository
	usersRepo     *users.Repository
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
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
		&models.Application{},
	))
	t.Cleanup(func() { _ = client.Close() })

	usersRepo := users.NewRepository(client.DB())
	preserverRepo := users.NewPreserverRepository(client.DB())

	assignmentsSvc, err := assignments.NewService(assignments.ServiceParams{
		Repo: assignments.NewRepository(client.DB()),
	})
	require.NoError(t, err)

	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})

	router := NewRouter(RouterParams{
		Config:        cfg,
		Logger:        logg,
		DBPinger:      stubPinger{},
		UsersRepo:     usersRepo,
		PreserverRepo: preserverRepo,
		Assignments:   assignmentsSvc,
	})

	return &testEnv{
		cfg:           cfg,
		router:        router,
		preserverRepo: preserverRepo,
		usersRepo:     usersRepo,
	}
}

func buildToken(t *testing.T, cfg *config.Config, userID uuid.UUID, userType enums.UserType) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   userID,
		UserType: userType,
	})
	require.NoError(t, err)
	return token
}

func seedPreserver(t *testing.T, env *testEnv, clearance bool) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	user, err := env.usersRepo.Create(ctx, users.CreateUserDTO{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    "Pat",
		LastName:     "Doe",
		UserType:     enums.UserTypePreserver,
	})
	require.NoError(t, err)
	_, err = env.preserverRepo.Create(ctx, user.ID)
	require.NoError(t, err)
	if clearance {
		require.NoError(t, env.preserverRepo.SetClearance(ctx, user.ID, true))
	}
	return user.ID
}

func TestHealthLiveAlwaysResponds(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Preserve-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestProfileSucceedsWithJWT(t *testing.T) {
	env := newTestEnv(t)
	userID := seedPreserver(t, env, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, env.cfg, userID, enums.UserTypePreserver))
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for profile got %d", resp.Code)
	}
}

func TestAssignmentCreateRequiresClientRole(t *testing.T) {
	env := newTestEnv(t)
	preserverID := seedPreserver(t, env, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, env.cfg, preserverID, enums.UserTypePreserver))
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for preserver posting an assignment got %d", resp.Code)
	}

	client := httptest.NewRequest(http.MethodPost, "/api/v1/assignments", strings.NewReader(`{}`))
	client.Header.Set("Content-Type", "application/json")
	client.Header.Set("Authorization", "Bearer "+buildToken(t, env.cfg, uuid.New(), enums.UserTypeClient))
	resp = httptest.NewRecorder()
	env.router.ServeHTTP(resp, client)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty payload past the role gate got %d", resp.Code)
	}
}

func TestClearanceGateOnAssignmentBrowsing(t *testing.T) {
	env := newTestEnv(t)

	uncleared := seedPreserver(t, env, false)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments/open", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, env.cfg, uncleared, enums.UserTypePreserver))
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without clearance got %d", resp.Code)
	}

	cleared := seedPreserver(t, env, true)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/assignments/open", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, env.cfg, cleared, enums.UserTypePreserver))
	resp = httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with clearance got %d", resp.Code)
	}
}

func TestClearanceGateRejectsClients(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments/open", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, env.cfg, uuid.New(), enums.UserTypeClient))
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for client browsing assignments got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)
	target := "/api/admin/v1/assignments/" + uuid.NewString() + "/complete"

	nonAdmin := httptest.NewRequest(http.MethodPost, target, nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, env.cfg, uuid.New(), enums.UserTypePreserver))
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, target, nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, env.cfg, uuid.New(), enums.UserTypeAdmin))
	resp = httptest.NewRecorder()
	env.router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown assignment past the role gate got %d", resp.Code)
	}
}
