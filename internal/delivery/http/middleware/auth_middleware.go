package middleware

import (
	"errors"
	"strings"

	"jdmatch/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"

	// Browsers cannot set headers on websocket upgrades.
	accessTokenQuery = "access_token"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

// NewAuthMiddleware returns a middleware that verifies bearer tokens. A nil
// service disables verification.
func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Enabled() bool {
	return m != nil && m.jwt != nil
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !m.Enabled() {
			return c.Next()
		}

		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			token = strings.TrimSpace(c.Query(accessTokenQuery))
			ok = token != ""
		}
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)

		return c.Next()
	}
}

// RequireOwner rejects requests whose verified subject differs from the path
// owner. Without a verified subject (auth disabled) every owner is accepted.
func RequireOwner(c fiber.Ctx, userID string) error {
	subject, ok := c.Locals(CtxUserIDKey).(string)
	if !ok || subject == "" {
		return nil
	}
	if subject != userID {
		return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
	}
	return nil
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
