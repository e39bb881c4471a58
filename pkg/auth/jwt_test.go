package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService(t *testing.T) {
	svc := NewJWTService("test-secret", "kinship", time.Hour)

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.GenerateToken("user-1", "u@example.com")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "u@example.com", claims.Email)
	})

	t.Run("accepts bearer prefix", func(t *testing.T) {
		token, err := svc.GenerateToken("user-1", "")
		require.NoError(t, err)

		claims, err := svc.ValidateToken("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
	})

	t.Run("rejects empty token", func(t *testing.T) {
		_, err := svc.ValidateToken("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewJWTService("test-secret", "kinship", -time.Minute)
		token, err := expired.GenerateToken("user-1", "")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		other := NewJWTService("other-secret", "kinship", time.Hour)
		token, err := other.GenerateToken("user-1", "")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		other := NewJWTService("test-secret", "someone-else", time.Hour)
		token, err := other.GenerateToken("user-1", "")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestUserIDContext(t *testing.T) {
	ctx := SetUserIDInContext(context.Background(), "user-1")

	userID, err := GetUserIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = GetUserIDFromContext(context.Background())
	assert.Error(t, err, "a context without the key carries no user")
}
