package settlement

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the persistence boundary for settlements.
//
// Transition must be atomic: it moves the record to status to only if its current
// status is still from, and returns ErrStatusConflict otherwise. Two concurrent
// MarkPaid calls therefore cannot both succeed.
//
// CreateBatch must be all-or-nothing. A round's settlements only balance as a set,
// so a half-written batch would leave money unaccounted for.
type Store interface {
	Create(ctx context.Context, s Settlement) error
	CreateBatch(ctx context.Context, batch []Settlement) error
	Get(ctx context.Context, id string) (Settlement, error)
	ListByUser(ctx context.Context, userID string) ([]Settlement, error)
	ListByRound(ctx context.Context, roundID string) ([]Settlement, error)
	Transition(ctx context.Context, id string, from, to Status, at time.Time) (Settlement, error)
}

// Notifier tells a payee that a settlement was marked paid. It is fire-and-forget:
// the service logs a failure and carries on.
type Notifier interface {
	SettlementPaid(ctx context.Context, s Settlement) error
}

// CreateInput describes one obligation to record.
type CreateInput struct {
	RoundID    string
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
}

// Service applies the settlement lifecycle on top of a Store.
type Service struct {
	store    Store
	notifier Notifier
	clock    func() time.Time
	newID    func() (string, error)
}

// NewService wires a settlement service. A nil notifier disables notifications;
// nil clock and id generator fall back to time.Now and random UUIDs.
func NewService(store Store, notifier Notifier, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = func() (string, error) {
			id, err := uuid.NewRandom()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		}
	}
	return &Service{store: store, notifier: notifier, clock: clock, newID: newID}
}

// Create records a new PENDING settlement.
func (s *Service) Create(ctx context.Context, in CreateInput) (Settlement, error) {
	if s == nil || s.store == nil {
		return Settlement{}, ErrStoreNotConfigured
	}
	st, err := s.newSettlement(in)
	if err != nil {
		return Settlement{}, err
	}
	if err := s.store.Create(ctx, st); err != nil {
		return Settlement{}, err
	}
	return st, nil
}

// newSettlement validates in and builds the PENDING record, without storing it.
func (s *Service) newSettlement(in CreateInput) (Settlement, error) {
	// Ids arrive from JWT claims and JSON bodies; stray whitespace must not make
	// "alice" and "alice " two different people.
	from := strings.TrimSpace(in.FromUserID)
	to := strings.TrimSpace(in.ToUserID)
	switch {
	case strings.TrimSpace(in.RoundID) == "":
		return Settlement{}, &InvalidSettlementError{Reason: "round id is required"}
	case from == "" || to == "":
		return Settlement{}, &InvalidSettlementError{Reason: "payer and payee are required"}
	case from == to:
		return Settlement{}, &InvalidSettlementError{Reason: "payer and payee must differ"}
	}

	// Money is stored as NUMERIC(10,2), so anything finer than a cent is rounded here
	// rather than silently by postgres.
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return Settlement{}, &InvalidSettlementError{Reason: "amount must be positive, got " + in.Amount.String()}
	}

	id, err := s.newID()
	if err != nil {
		return Settlement{}, err
	}
	return Settlement{
		ID:         id,
		RoundID:    strings.TrimSpace(in.RoundID),
		FromUserID: from,
		ToUserID:   to,
		Amount:     amount,
		Status:     StatusPending,
		CreatedAt:  s.now(),
	}, nil
}

// CreateFromNet seeds a round's settlements from its net positions. It is
// idempotent per round: if the round already has settlements they are returned
// unchanged and nothing new is created. created reports whether this call wrote
// them, so callers notify payers exactly once.
//
// The whole set is written with one CreateBatch. A failure leaves the round with no
// settlements at all, and the next call seeds it again from scratch.
func (s *Service) CreateFromNet(ctx context.Context, roundID string, net map[string]decimal.Decimal) (settlements []Settlement, created bool, err error) {
	if s == nil || s.store == nil {
		return nil, false, ErrStoreNotConfigured
	}

	// Already seeded (by an earlier call or a concurrent one): hand back what exists.
	existing, err := s.store.ListByRound(ctx, roundID)
	if err != nil {
		return nil, false, err
	}
	if len(existing) > 0 {
		return existing, false, nil
	}

	pairs, err := PairsFromNet(net)
	if err != nil {
		return nil, false, err
	}

	// Build and validate every record before touching the store.
	batch := make([]Settlement, 0, len(pairs))
	for _, p := range pairs {
		st, err := s.newSettlement(CreateInput{RoundID: roundID, FromUserID: p.FromUserID, ToUserID: p.ToUserID, Amount: p.Amount})
		if err != nil {
			return nil, false, err
		}
		batch = append(batch, st)
	}

	switch err := s.store.CreateBatch(ctx, batch); {
	case errors.Is(err, ErrConflict):
		// Another request seeded the round between our list and our insert.
		// The pairing is deterministic, so its set is the one we would have written.
		existing, err := s.store.ListByRound(ctx, roundID)
		return existing, false, err
	case err != nil:
		return nil, false, err
	}
	return batch, true, nil
}

// MarkPaid moves a PENDING settlement to PAID. Only the payer may do this.
// On success the payee is notified.
func (s *Service) MarkPaid(ctx context.Context, id, actorID string) (Settlement, error) {
	st, err := s.transition(ctx, id, actorID, ActionMarkPaid)
	if err != nil {
		return Settlement{}, err
	}
	if s.notifier != nil {
		if err := s.notifier.SettlementPaid(ctx, st); err != nil {
			log.Printf("settlement %s: notify payee %s: %v", st.ID, st.ToUserID, err)
		}
	}
	return st, nil
}

// ConfirmReceipt moves a PAID settlement to SETTLED. Only the payee may do this.
func (s *Service) ConfirmReceipt(ctx context.Context, id, actorID string) (Settlement, error) {
	return s.transition(ctx, id, actorID, ActionConfirmReceipt)
}

// Dispute moves a PAID settlement to DISPUTED. Only the payee may do this.
func (s *Service) Dispute(ctx context.Context, id, actorID string) (Settlement, error) {
	return s.transition(ctx, id, actorID, ActionDispute)
}

// Get returns a settlement the actor is a party to.
func (s *Service) Get(ctx context.Context, id, actorID string) (Settlement, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return Settlement{}, err
	}
	if !st.Involves(actorID) {
		return Settlement{}, &AuthorizationError{SettlementID: id, ActorID: actorID, Action: ActionView}
	}
	return st, nil
}

// ListForUser returns every settlement where the user pays or is paid.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Settlement, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	return s.store.ListByUser(ctx, userID)
}

// ListForRound returns the settlements seeded for a round.
func (s *Service) ListForRound(ctx context.Context, roundID string) ([]Settlement, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	return s.store.ListByRound(ctx, roundID)
}

// transition checks the actor first and the status second, so the wrong user always
// gets an AuthorizationError no matter where the record is in its lifecycle.
func (s *Service) transition(ctx context.Context, id, actorID string, action Action) (Settlement, error) {
	// Look up which status the action starts from, where it goes and who may do it.
	r := rules[action]
	st, err := s.load(ctx, id)
	if err != nil {
		return Settlement{}, err
	}
	if actorID == "" || r.actor(st) != actorID {
		return Settlement{}, &AuthorizationError{SettlementID: id, ActorID: actorID, Action: action}
	}
	if !CanTransition(st.Status, r.to) {
		return Settlement{}, &StateGuardError{SettlementID: id, Action: action, Status: st.Status}
	}

	// The checks above ran on a snapshot. The store repeats the status check
	// atomically, so a concurrent writer cannot slip in between.
	updated, err := s.store.Transition(ctx, id, r.from, r.to, s.now())
	switch {
	case errors.Is(err, ErrStatusConflict):
		// Someone else moved it first; report the status they left it in.
		current, getErr := s.load(ctx, id)
		if getErr != nil {
			return Settlement{}, getErr
		}
		return Settlement{}, &StateGuardError{SettlementID: id, Action: action, Status: current.Status}
	case errors.Is(err, ErrNotFound):
		return Settlement{}, &NotFoundError{SettlementID: id}
	case err != nil:
		return Settlement{}, err
	}
	return updated, nil
}

func (s *Service) load(ctx context.Context, id string) (Settlement, error) {
	if s == nil || s.store == nil {
		return Settlement{}, ErrStoreNotConfigured
	}
	st, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Settlement{}, &NotFoundError{SettlementID: id}
	}
	return st, err
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}
