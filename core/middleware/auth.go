package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// APIKeyHeader is the request header checked by Auth.
const APIKeyHeader = "X-API-Key"

// Auth rejects requests whose X-API-Key does not match apiKey.
// An empty apiKey disables the check.
func Auth(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey == "" {
			return c.Next()
		}
		given := c.Get(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid api key"})
		}
		return c.Next()
	}
}
