package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RayIDHeader is the response header carrying the request id.
const RayIDHeader = "X-Ray-ID"

// RayID assigns every request an id, stored in locals under "ray_id".
// An incoming X-Ray-ID header is reused so callers can correlate retries.
func RayID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(RayIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(RayIDHeader, rid)
		return c.Next()
	}
}
