package http

import (
	"strings"

	"devconnector/internal/auth/usecase"
	"devconnector/internal/shared/contextkeys"
	apperrors "devconnector/internal/shared/errors"
	"devconnector/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware provides authentication middleware for Fiber
type AuthMiddleware struct {
	usecase     usecase.AuthUsecaseInterface
	tokenHeader string
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface, tokenHeader string) *AuthMiddleware {
	if tokenHeader == "" {
		tokenHeader = "x-auth-token"
	}
	return &AuthMiddleware{
		usecase:     uc,
		tokenHeader: tokenHeader,
	}
}

// Protect returns middleware that requires a valid token in the token header
// or an Authorization bearer header.
func (m *AuthMiddleware) Protect() fiber.Handler {
	return m.guard(false)
}

// ProtectWebSocket is Protect that also accepts a ?token= query parameter,
// since browsers cannot set headers on websocket upgrades.
func (m *AuthMiddleware) ProtectWebSocket() fiber.Handler {
	return m.guard(true)
}

func (m *AuthMiddleware) guard(allowQuery bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := m.extractToken(c, allowQuery)
		if token == "" {
			return apperrors.NewAuthenticationError(apperrors.MsgNoToken)
		}

		claims, err := m.usecase.ValidateToken(c.UserContext(), token)
		if err != nil {
			return apperrors.NewAuthenticationError(apperrors.MsgInvalidToken).WithCause(err)
		}

		userID := claims.UserID()
		c.SetUserContext(utils.WithUserID(c.UserContext(), userID))
		c.Locals(string(contextkeys.UserIDKey), userID)
		return c.Next()
	}
}

// extractToken reads the token header first, then Authorization: Bearer.
func (m *AuthMiddleware) extractToken(c *fiber.Ctx, allowQuery bool) string {
	if token := strings.TrimSpace(c.Get(m.tokenHeader)); token != "" {
		return token
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); token != "" {
			return token
		}
	}

	if allowQuery {
		return c.Query("token")
	}
	return ""
}

// GetUserID returns the authenticated user id set by Protect.
func GetUserID(c *fiber.Ctx) (string, bool) {
	if userID, ok := c.Locals(string(contextkeys.UserIDKey)).(string); ok && userID != "" {
		return userID, true
	}
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	return userID, err == nil && userID != ""
}

// MustUserID is GetUserID for handlers mounted behind Protect.
func MustUserID(c *fiber.Ctx) (string, error) {
	userID, ok := GetUserID(c)
	if !ok {
		return "", apperrors.NewAuthenticationError(apperrors.MsgNoToken)
	}
	return userID, nil
}
