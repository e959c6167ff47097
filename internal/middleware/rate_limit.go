package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a per-owner rate limiter middleware instance. Requests
// without an authenticated owner key fall back to the client IP.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			owner, _ := c.Locals("owner_key").(string)
			if owner == "" {
				owner = c.IP()
			}
			return fmt.Sprintf("%s:%s", identifier, owner)
		},
	})
}
