package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/trentd187/golf-wagers/internal/settlement"
)

const (
	EventSettlementPaid    = "settlement.paid"    // Sent to the payee
	EventSettlementCreated = "settlement.created" // Sent to the payer when a round completes
)

// SettlementNotifier publishes settlement events through a Hub. It satisfies
// settlement.Notifier.
type SettlementNotifier struct {
	hub *Hub
}

func NewSettlementNotifier(hub *Hub) *SettlementNotifier {
	return &SettlementNotifier{hub: hub}
}

// SettlementPaid tells the payee that the payer marked the settlement paid.
func (n *SettlementNotifier) SettlementPaid(_ context.Context, s settlement.Settlement) error {
	if err := n.hub.Publish(s.ToUserID, Event{Type: EventSettlementPaid, Data: s}); err != nil {
		return fmt.Errorf("notify %s: %w", s.ToUserID, err)
	}
	return nil
}

// SettlementsCreated tells every payer what they owe after a round completes.
// It tries every settlement and returns the failures joined together.
func (n *SettlementNotifier) SettlementsCreated(_ context.Context, settlements []settlement.Settlement) error {
	var errs []error
	for _, s := range settlements {
		if err := n.hub.Publish(s.FromUserID, Event{Type: EventSettlementCreated, Data: s}); err != nil {
			errs = append(errs, fmt.Errorf("notify %s: %w", s.FromUserID, err))
		}
	}
	return errors.Join(errs...)
}
