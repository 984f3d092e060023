package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/golf-wagers/internal/database"
	"github.com/trentd187/golf-wagers/internal/games"
	"github.com/trentd187/golf-wagers/internal/settlement"
)

// respondError maps domain errors onto HTTP statuses. Anything unrecognised is
// logged and hidden behind a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var (
		invalidInput *games.InvalidInputError
		invalidStl   *settlement.InvalidSettlementError
		authErr      *settlement.AuthorizationError
		guardErr     *settlement.StateGuardError
		notFound     *settlement.NotFoundError
	)
	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &invalidInput), errors.As(err, &invalidStl):
		status = fiber.StatusBadRequest
	case errors.As(err, &authErr):
		status = fiber.StatusForbidden
	case errors.As(err, &notFound), errors.Is(err, database.ErrRoundNotFound):
		status = fiber.StatusNotFound
	case errors.As(err, &guardErr):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
