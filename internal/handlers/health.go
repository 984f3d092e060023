// Package handlers contains the fiber handlers for the Golf Wagers API.
//
// Each exported function is a handler factory: it takes its dependencies and returns
// a fiber.Handler, so nothing here reaches for globals. Errors from the domain
// packages are turned into JSON error bodies by respondError.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/golf-wagers/internal/games"
)

// HealthCheck handles GET /health. No database, no auth: load balancers hit it.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ListFormats handles GET /api/v1/games/formats.
func ListFormats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"formats": games.Formats()})
}
