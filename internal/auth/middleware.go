package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/phishsim/pkg/util"
)

const adminIDKey = "auth_admin_id"

// AuthMiddleware validates admin bearer tokens.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(adminIDKey, claims.AdminID)
	return c.Next()
}

// AdminIDFromContext retrieves the authenticated admin id.
func AdminIDFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(adminIDKey)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok
}
