package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pkgAuth "github.com/preserveapp/preserve-backend/pkg/auth"
	"github.com/preserveapp/preserve-backend/pkg/config"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/preserveapp/preserve-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	err     error
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "login-test-secret",
		Issuer:            "preserve-test",
		ExpirationMinutes: 30,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    16 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func seededUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Pat",
		LastName:     "Doe",
		PhoneNumber:  "555-0100",
		UserType:     enums.UserTypePreserver,
	}
}

func TestLoginSuccessMintsParsableToken(t *testing.T) {
	user := seededUser(t, "pat@example.com", "hunter22hunter22")
	svc, err := NewService(ServiceParams{
		UserRepo:  &stubUserRepo{byEmail: map[string]*models.User{"pat@example.com": user}},
		JWTConfig: testJWTConfig(),
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Pat@Example.com ",
		Password: "hunter22hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.UserTypePreserver, claims.UserType)
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	svc, err := NewService(ServiceParams{
		UserRepo:  &stubUserRepo{byEmail: map[string]*models.User{}},
		JWTConfig: testJWTConfig(),
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	user := seededUser(t, "pat@example.com", "correct-password")
	svc, err := NewService(ServiceParams{
		UserRepo:  &stubUserRepo{byEmail: map[string]*models.User{"pat@example.com": user}},
		JWTConfig: testJWTConfig(),
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "pat@example.com", Password: "wrong-password"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(ServiceParams{JWTConfig: testJWTConfig()})
	assert.Error(t, err)
}
