package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/eventhorizon/marketplace/internal/domain"
	apperrors "github.com/eventhorizon/marketplace/pkg/util"
)

const sessionKey = "auth_session"

// AuthMiddleware validates bearer tokens and attaches the session snapshot.
// It never hits the account store; the token is the session.
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

	c.Locals(sessionKey, SessionFromClaims(claims))
	return c.Next()
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*domain.Session)
	return session, ok
}

// RequireSession ensures a signed-in buyer is present.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SessionFromContext(c); !ok {
			return apperrors.NewUnauthorized("sign-in required")
		}
		return c.Next()
	}
}
