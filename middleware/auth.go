package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the authenticated identity set by the
// Gateway. Secured routes require X-User-ID and X-User-Email; the
// permission evaluator works on these plus the per-event grant table.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		userEmail := c.Get("X-User-Email")

		if userID == "" || userEmail == "" {
			log.Printf("[USER_CTX] auth context missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"errors": "missing user context, request must come through gateway with auth headers",
			})
		}

		c.Locals("user_id", userID)
		c.Locals("user_email", userEmail)
		return c.Next()
	}
}

// UserID returns the authenticated user id placed by UserContextMiddleware.
func UserID(c *fiber.Ctx) string {
	if v, ok := c.Locals("user_id").(string); ok {
		return v
	}
	return ""
}

// UserEmail returns the authenticated user email.
func UserEmail(c *fiber.Ctx) string {
	if v, ok := c.Locals("user_email").(string); ok {
		return v
	}
	return ""
}
