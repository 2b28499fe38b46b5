package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winroom/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: 15 * time.Minute,
		Issuer:     "test-issuer",
	}
	return NewJWTService(cfg)
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "testuser",
		Role:     RoleSeller,
	}
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:     "test-secret",
		Expiration: 15 * time.Minute,
		Issuer:     "test-issuer",
	}

	svc := NewJWTService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, cfg.Expiration, svc.expiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestGenerateToken(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestValidateToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)

	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Username, claims.Username)
	assert.Equal(t, RoleSeller, claims.Role)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: -1 * time.Hour, // Already expired
		Issuer:     "test-issuer",
	}
	svc := NewJWTService(cfg)

	token, err := svc.GenerateToken(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateToken("invalid-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService()
	token, err := svc.GenerateToken(newTestInput())
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:     "a-completely-different-secret-key",
		Expiration: 15 * time.Minute,
		Issuer:     "test-issuer",
	})

	_, err = other.ValidateToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_MissingRole(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()
	input.Role = ""

	token, err := svc.GenerateToken(input)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)

	assert.ErrorIs(t, err, ErrMissingRole)
}

func TestClaims_GetUserUUID(t *testing.T) {
	id := uuid.New()
	claims := &Claims{UserID: id.String()}

	parsed, err := claims.GetUserUUID()

	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestClaims_RoleChecks(t *testing.T) {
	claims := &Claims{Role: RoleFinance}

	assert.True(t, claims.HasRole(RoleFinance))
	assert.False(t, claims.HasRole(RoleSeller))
	assert.True(t, claims.HasAnyRole(RoleSeller, RoleFinance))
	assert.True(t, claims.HasAnyRole(RoleAdmin, RoleFinance))
	assert.False(t, claims.HasAnyRole(RoleSeller, RoleStaff))
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	svc := newTestJWTService()
	token, err := svc.GenerateToken(newTestInput())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)
	assert.True(t, claims.GetExpiresAtTime().After(time.Now()))
}

func TestClaims_GetRemainingTTL_NoExpiry(t *testing.T) {
	claims := &Claims{}

	assert.Equal(t, time.Duration(0), claims.GetRemainingTTL())
	assert.True(t, claims.GetExpiresAtTime().IsZero())
}
