package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklist-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "this-is-a-test-secret-at-least-32-chars"

func fixedTime() time.Time {
	return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		svc, err := NewJWTService(config.AuthConfig{
			JWTSecret:            testSecret,
			TokenLifetimeMinutes: 60,
			BcryptCost:           10,
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("short secret is rejected", func(t *testing.T) {
		t.Parallel()

		svc, err := NewJWTService(config.AuthConfig{
			JWTSecret:            "too-short",
			TokenLifetimeMinutes: 60,
		})
		assert.Error(t, err)
		assert.Nil(t, svc)
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	svc := NewTestJWTService(testSecret, time.Hour, fixedTime)

	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.True(t, claims.IssuedAt.Equal(fixedTime()))
	assert.True(t, claims.ExpiresAt.Equal(fixedTime().Add(time.Hour)))
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()

		svc := NewTestJWTService(testSecret, time.Hour, fixedTime)
		_, err := svc.ValidateToken(ctx, "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		svc := NewTestJWTService(testSecret, time.Hour, fixedTime)
		_, err := svc.ValidateToken(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		issuer := NewTestJWTService(testSecret, time.Hour, fixedTime)
		token, err := issuer.GenerateToken(ctx, userID)
		require.NoError(t, err)

		// Validate two hours after issuance, past the one hour lifetime.
		validator := NewTestJWTService(testSecret, time.Hour, func() time.Time {
			return fixedTime().Add(2 * time.Hour)
		})
		_, err = validator.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		t.Parallel()

		issuer := NewTestJWTService(testSecret, time.Hour, fixedTime)
		token, err := issuer.GenerateToken(ctx, userID)
		require.NoError(t, err)

		validator := NewTestJWTService("another-test-secret-that-is-32-chars!!", time.Hour, fixedTime)
		_, err = validator.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing identity claim", func(t *testing.T) {
		t.Parallel()

		issuer := NewTestJWTService(testSecret, time.Hour, fixedTime)
		token, err := issuer.GenerateToken(ctx, uuid.Nil)
		require.NoError(t, err)

		_, err = issuer.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
