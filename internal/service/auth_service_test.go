package service

import (
	"context"
	"testing"
	"time"

	"kamgar-sahayak/backend/internal/models"
	"kamgar-sahayak/backend/internal/store"
	apperrors "kamgar-sahayak/backend/pkg/errors"
	"kamgar-sahayak/backend/pkg/jwt"
	"kamgar-sahayak/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newAuthFixture(t *testing.T) (*AuthService, store.AdminStore, *jwt.Service) {
	t.Helper()
	accounts := store.NewMemoryAdminStore()
	jwtService := jwt.NewService(testSecret, 30*time.Minute)
	log := logger.New(logger.DefaultConfig())
	return NewAuthService(accounts, jwtService, log), accounts, jwtService
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, accounts, jwtService := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, accounts.Create(ctx, &models.AdminUser{
		Username: "admin1",
		Password: "correct-horse-battery",
		Role:     string(jwt.RoleAdmin),
	}))

	token, err := svc.Login(ctx, "admin1", "correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin1", claims.Username)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, accounts, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, accounts.Create(ctx, &models.AdminUser{
		Username: "admin1",
		Password: "correct-horse-battery",
	}))

	_, err := svc.Login(ctx, "admin1", "wrong-password")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidCredentials))
	assert.Equal(t, 401, apperrors.FromError(err).StatusCode)
}

func TestLoginUnknownUserSameError(t *testing.T) {
	svc, accounts, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, accounts.Create(ctx, &models.AdminUser{
		Username: "admin1",
		Password: "correct-horse-battery",
	}))

	_, unknownErr := svc.Login(ctx, "ghost", "correct-horse-battery")
	_, wrongPwErr := svc.Login(ctx, "admin1", "wrong-password")

	// The message must not reveal whether the username exists
	require.Error(t, unknownErr)
	require.Error(t, wrongPwErr)
	assert.Equal(t, apperrors.FromError(unknownErr).Message, apperrors.FromError(wrongPwErr).Message)
	assert.Equal(t, apperrors.FromError(unknownErr).Code, apperrors.FromError(wrongPwErr).Code)
}

func TestRegisterCreatesAccount(t *testing.T) {
	svc, accounts, _ := newAuthFixture(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, &models.RegisterAdminRequest{
		Username: "viewer1",
		Password: "long-enough-pw",
		Role:     string(jwt.RoleViewer),
	})
	require.NoError(t, err)
	assert.Equal(t, string(jwt.RoleViewer), account.Role)

	stored, err := accounts.FindByUsername(ctx, "viewer1")
	require.NoError(t, err)
	assert.NotEqual(t, "long-enough-pw", stored.Password)
}

func TestRegisterDefaultsToAdminRole(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	account, err := svc.Register(context.Background(), &models.RegisterAdminRequest{
		Username: "admin2",
		Password: "long-enough-pw",
	})
	require.NoError(t, err)
	assert.Equal(t, string(jwt.RoleAdmin), account.Role)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &models.RegisterAdminRequest{
		Username: "weird",
		Password: "long-enough-pw",
		Role:     "superuser",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterAdminRequest{Username: "dup", Password: "long-enough-pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &models.RegisterAdminRequest{Username: "dup", Password: "long-enough-pw"})
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.FromError(err).StatusCode)
}
