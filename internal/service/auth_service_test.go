package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

func TestSignupAndLogin(t *testing.T) {
	h := newHarness(t)
	svc := h.auth()
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "Alex", "alex@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.Equal(t, user.ID, token.SubjectID)

	claims, err := svc.TokenManager().ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, "Alex", claims.Name)

	_, _, err = svc.Signup(ctx, "Other", "ALEX@example.com", "secret2")
	assert.Equal(t, apperrors.CodeConflict, apperrors.ToDomainError(err).Code)

	logged, _, err := svc.Login(ctx, "alex@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, _, err = svc.Login(ctx, "alex@example.com", "wrong-pass")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.ToDomainError(err).Code)
	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.ToDomainError(err).Code)

	found, err := svc.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", found.Email)
}

func TestSignupValidation(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.auth().Signup(context.Background(), "", "not-an-email", "123")
	require.Error(t, err)
	assert.ElementsMatch(t, []string{
		"name is required",
		"email must be a valid email address",
		"password must be at least 6 chars",
	}, apperrors.ToDomainError(err).Violations)
}

func TestSignupRejectsPasswordOverBcryptLimit(t *testing.T) {
	h := newHarness(t)
	// 40 runes, 80 bytes
	password := strings.Repeat("é", 40)

	_, _, err := h.auth().Signup(context.Background(), "Alex", "alex@example.com", password)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.Equal(t, []string{"password must be at most 72 bytes"}, domainErr.Violations)
	assert.Zero(t, h.backend.Saves())

	_, _, err = h.auth().Signup(context.Background(), "Alex", "alex@example.com", strings.Repeat("é", 36))
	assert.NoError(t, err)
}
