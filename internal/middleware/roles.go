package middleware

import "github.com/gofiber/fiber/v2"

// RequireRole lets the request through only when the caller's global role is one of
// roles. It must run after Auth, which is what sets the role.
//
//	api.Post("/rounds/:id/complete", middleware.RequireRole("admin", "manager"), ...)
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole := UserRole(c)
		if userRole == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		for _, role := range roles {
			if userRole == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}
}
