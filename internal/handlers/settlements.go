package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/golf-wagers/internal/middleware"
	"github.com/trentd187/golf-wagers/internal/settlement"
)

// transitionFunc is the shape shared by MarkPaid, ConfirmReceipt and Dispute.
type transitionFunc func(ctx context.Context, id, actorID string) (settlement.Settlement, error)

// ListSettlements handles GET /api/v1/settlements: everything the caller pays or is paid.
func ListSettlements(svc *settlement.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.ListForUser(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		if list == nil {
			list = []settlement.Settlement{}
		}
		return c.JSON(list)
	}
}

// GetSettlement handles GET /api/v1/settlements/:id. Only the two parties can read it.
func GetSettlement(svc *settlement.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := svc.Get(c.UserContext(), c.Params("id"), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(st)
	}
}

// MarkSettlementPaid handles POST /api/v1/settlements/:id/paid (payer only).
func MarkSettlementPaid(svc *settlement.Service) fiber.Handler {
	return transitionHandler(svc.MarkPaid)
}

// ConfirmSettlement handles POST /api/v1/settlements/:id/confirm (payee only).
func ConfirmSettlement(svc *settlement.Service) fiber.Handler {
	return transitionHandler(svc.ConfirmReceipt)
}

// DisputeSettlement handles POST /api/v1/settlements/:id/dispute (payee only).
func DisputeSettlement(svc *settlement.Service) fiber.Handler {
	return transitionHandler(svc.Dispute)
}

func transitionHandler(apply transitionFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := apply(c.UserContext(), c.Params("id"), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(st)
	}
}
