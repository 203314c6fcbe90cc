package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/news-portal/internal/domain"
	apperrors "github.com/spec-kit/news-portal/pkg/util"
)

// RequireAdmin gates admin-only routes. A valid token with the wrong role is
// a 403, not a 401: re-authenticating will not help.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("No token, authorization denied")
		}
		if principal.Role != domain.UserRoleAdmin {
			return apperrors.NewForbidden("Access denied. Admin role required.")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal was resolved by the middleware.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("No token, authorization denied")
		}
		return c.Next()
	}
}
