package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/golf-wagers/internal/database"
	"github.com/trentd187/golf-wagers/internal/games"
	"github.com/trentd187/golf-wagers/internal/middleware"
	"github.com/trentd187/golf-wagers/internal/models"
	"github.com/trentd187/golf-wagers/internal/results"
	"github.com/trentd187/golf-wagers/internal/settlement"
)

// RoundSource loads stored rounds and closes them out. *database.RoundStore is the
// production implementation.
type RoundSource interface {
	LoadRound(ctx context.Context, roundID string) (database.Round, error)
	CompleteRound(ctx context.Context, roundID string, at time.Time) error
}

// CreatedNotifier tells payers about settlements seeded from a completed round.
type CreatedNotifier interface {
	SettlementsCreated(ctx context.Context, settlements []settlement.Settlement) error
}

// RoundResultsResponse is the body of GET /rounds/:id/results.
type RoundResultsResponse struct {
	RoundID string          `json:"roundId"`
	Status  string          `json:"status"`
	Summary results.Summary `json:"summary"`
}

// CompleteRoundResponse is the body of POST /rounds/:id/complete.
type CompleteRoundResponse struct {
	RoundID     string                  `json:"roundId"`
	Summary     results.Summary         `json:"summary"`
	Settlements []settlement.Settlement `json:"settlements"`
}

// canViewRound: players see their own rounds, admins and managers see every round.
func canViewRound(c *fiber.Ctx, round database.Round) bool {
	switch models.UserRole(middleware.UserRole(c)) {
	case models.UserRoleAdmin, models.UserRoleManager:
		return true
	}
	return round.HasPlayer(middleware.UserID(c))
}

// GetRoundResults handles GET /api/v1/rounds/:id/results.
// Results are recomputed from the stored scores on every request, so a score
// correction shows up immediately.
func GetRoundResults(rounds RoundSource, rules games.Rules) fiber.Handler {
	return func(c *fiber.Ctx) error {
		round, err := rounds.LoadRound(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		if !canViewRound(c, round) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you are not part of this round"})
		}

		summary, err := aggregate(round, rules)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(RoundResultsResponse{RoundID: round.ID, Status: string(round.Status), Summary: summary})
	}
}

// CompleteRound handles POST /api/v1/rounds/:id/complete.
//
// Order matters here:
//  1. The games are computed once up front, so bad game setup is a 400 and nothing
//     has been written yet.
//  2. The round is flipped to completed. From then on its scores are final.
//  3. The round is re-read and settlements are seeded from those final scores in a
//     single batch.
//
// If step 3 fails the round is already completed with no settlements, and calling
// the endpoint again seeds them from the same scores. Repeating the call after a
// success returns the settlements that already exist; payers are only notified by
// the call that created them.
func CompleteRound(rounds RoundSource, settlements *settlement.Service, notifier CreatedNotifier, rules games.Rules) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		round, err := rounds.LoadRound(ctx, c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		if _, err := aggregate(round, rules); err != nil {
			return respondError(c, err)
		}

		if err := rounds.CompleteRound(ctx, round.ID, time.Now().UTC()); err != nil {
			return respondError(c, err)
		}

		// Scores may have been edited between the first read and the status flip.
		round, err = rounds.LoadRound(ctx, round.ID)
		if err != nil {
			return respondError(c, err)
		}
		summary, err := aggregate(round, rules)
		if err != nil {
			return respondError(c, err)
		}

		seeded, created, err := settlements.CreateFromNet(ctx, round.ID, summary.Net)
		if err != nil {
			return respondError(c, err)
		}
		if created && notifier != nil {
			if err := notifier.SettlementsCreated(ctx, seeded); err != nil {
				log.Printf("round %s: notify settlements created: %v", round.ID, err)
			}
		}

		return c.JSON(CompleteRoundResponse{RoundID: round.ID, Summary: summary, Settlements: seeded})
	}
}

// aggregate computes a stored round's games with the server's rule table.
func aggregate(round database.Round, rules games.Rules) (results.Summary, error) {
	in := round.Input
	in.Rules = &rules
	return results.Aggregate(in)
}
