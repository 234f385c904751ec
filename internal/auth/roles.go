package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

// RequireUser rejects requests that carry no authenticated principal.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
