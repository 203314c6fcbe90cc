package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/news-portal/internal/domain"
	apperrors "github.com/spec-kit/news-portal/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	UserID string
	Role   domain.UserRole
}

// Identity returns the identity pair for policy checks.
func (p *Principal) Identity() domain.Identity {
	return domain.Identity{UserID: p.UserID, Role: p.Role}
}

// Middleware validates bearer tokens and resolves principals.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. Missing or malformed
// headers and failed verification all map to 401 so clients know to refresh
// or re-authenticate.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("No token, authorization denied")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("No token, authorization denied")
	}

	claims, err := m.tokens.ParseAccessToken(parts[1])
	if err != nil {
		if err == ErrTokenExpired {
			return apperrors.NewUnauthorized("Token expired")
		}
		return apperrors.NewUnauthorized("Invalid token")
	}

	c.Locals(principalKey, &Principal{UserID: claims.UserID, Role: claims.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
