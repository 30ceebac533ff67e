// internal/middleware/service_auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ServiceAuth guards service-to-service routes with a shared token, taken
// from X-Service-Token or an Authorization bearer header. With no token
// configured the middleware rejects everything: fail closed, never open.
func ServiceAuth(expectedToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if expectedToken == "" {
			log.Printf("[SERVICE-AUTH] ❌ REJECTED (no token configured) | IP=%s | Path=%s", c.IP(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: service token not configured",
			})
		}

		token := c.Get("X-Service-Token")
		if token == "" {
			authHeader := c.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if token != expectedToken {
			log.Printf("[SERVICE-AUTH] ❌ REJECTED | IP=%s | Path=%s | Token=%s",
				c.IP(), c.Path(), maskToken(token))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: invalid or missing service token",
			})
		}
		return c.Next()
	}
}

func maskToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	if len(token) > 6 {
		return token[:6] + "..."
	}
	return token
}
