package security

import (
	"github.com/gofiber/fiber/v2"
)

// Headers sets the standard browser hardening headers on every response.
// The API serves JSON only, so the policy can stay strict.
func Headers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		return c.Next()
	}
}
