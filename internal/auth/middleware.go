package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User domain.User
}

// UserLookup resolves token subjects to accounts.
type UserLookup interface {
	UserByID(ctx context.Context, id string) (domain.User, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	users    UserLookup
	required bool
}

// NewAuthMiddleware constructs middleware. With required set, requests without a
// token are rejected; otherwise they pass through anonymously.
func NewAuthMiddleware(tokens *TokenManager, users UserLookup, required bool) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, required: required}
}

// Handle attaches the principal of a valid bearer token. A present but invalid
// token is always rejected.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if m.required && !isAuthRoute(c.Path()) {
			return apperrors.NewUnauthorized("missing authorization header")
		}
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.UserByID(c.UserContext(), claims.Subject)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

func isAuthRoute(path string) bool {
	return strings.HasPrefix(path, "/api/auth/")
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// UserName returns the principal's display name, or "" for anonymous callers.
func UserName(c *fiber.Ctx) string {
	if principal, ok := PrincipalFromContext(c); ok {
		return principal.User.Name
	}
	return ""
}
