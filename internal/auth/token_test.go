package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	user := domain.User{ID: "u-1", Name: "Dana", Email: "dana@example.com"}

	token, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.Equal(t, "u-1", token.SubjectID)
	assert.Equal(t, 30*time.Minute, token.ExpiresAt.Sub(token.IssuedAt))

	claims, err := tm.ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "Dana", claims.Name)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	issued := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return issued }

	token, err := tm.GenerateToken(domain.User{ID: "u-1"})
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tm.ParseToken(token.Value)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenSignedWithOtherSecretIsRejected(t *testing.T) {
	token, err := NewTokenManager("one", 5).GenerateToken(domain.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = NewTokenManager("two", 5).ParseToken(token.Value)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hashed)

	assert.NoError(t, ComparePassword(hashed, "secret1"))
	assert.ErrorIs(t, ComparePassword(hashed, "other"), ErrPasswordMismatch)
}
