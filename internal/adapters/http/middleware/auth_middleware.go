package middleware

import (
	"errors"
	"strings"

	"library-lending/internal/config"
	"library-lending/internal/pkg/jwt"
	"library-lending/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalLibrarianID = "librarianID"
	LocalEmail       = "email"
	LocalName        = "name"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. The librarian is the tenant for everything downstream
		c.Locals(LocalLibrarianID, claims.LibrarianID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalName, claims.Name)

		return c.Next()
	}
}

// TenantID returns the librarian id set by AuthMiddleware
func TenantID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalLibrarianID).(uint)
	return id, ok && id != 0
}
