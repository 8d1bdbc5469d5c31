package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "unit-test-secret"

func TestGenerateAndValidate(t *testing.T) {
	token, err := Generate(secret, "admin1", RoleAdmin, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := Validate(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "admin1", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "admin1", claims.Subject)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := Generate(secret, "admin1", RoleAdmin, time.Minute)
	require.NoError(t, err)

	_, err = Validate("a-different-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	token, err := Generate(secret, "admin1", RoleAdmin, -time.Minute)
	require.NoError(t, err)

	_, err = Validate(secret, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateGarbage(t *testing.T) {
	_, err := Validate(secret, "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Validate(secret, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHasRoleAdminImpliesViewer(t *testing.T) {
	admin := &Claims{Role: RoleAdmin}
	viewer := &Claims{Role: RoleViewer}

	assert.True(t, admin.HasRole(RoleAdmin))
	assert.True(t, admin.HasRole(RoleViewer))

	assert.True(t, viewer.HasRole(RoleViewer))
	assert.False(t, viewer.HasRole(RoleAdmin))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleViewer.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestServiceRoundTrip(t *testing.T) {
	svc := NewService(secret, 30*time.Minute)

	token, err := svc.GenerateToken("admin1", RoleViewer)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, claims.Role)
	assert.Equal(t, 30*time.Minute, svc.Expiry())
}
