package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/golf-wagers/internal/games"
	"github.com/trentd187/golf-wagers/internal/results"
)

// ComputeGames handles POST /api/v1/games/compute.
// The body is a whole round (players, holes, games); nothing is read from or written
// to the database. The mobile app uses it to preview results before scores are saved.
func ComputeGames(rules games.Rules) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in results.RoundInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		in.Rules = &rules

		summary, err := results.Aggregate(in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(summary)
	}
}
