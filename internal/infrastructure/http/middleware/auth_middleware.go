package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tamirazrab/parley/pkg/jwt"
)

// UserIDKey is the echo context key the auth middleware stores the
// authenticated user id under
const UserIDKey = "user_id"

// EchoAuth returns an Echo middleware that validates the bearer JWT and
// sets "user_id" (string) into the Echo context
func EchoAuth(manager *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(UserIDKey, claims.UserID)
			return next(c)
		}
	}
}

// UserID retrieves the authenticated user id from the Echo context
func UserID(c echo.Context) (string, bool) {
	id, ok := c.Get(UserIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}
