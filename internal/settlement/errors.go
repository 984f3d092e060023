package settlement

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a Store when no settlement has the requested id.
	ErrNotFound = errors.New("settlement not found")
	// ErrStatusConflict is returned by Store.Transition when the stored status no
	// longer matches the expected one. Another writer got there first.
	ErrStatusConflict = errors.New("settlement status changed concurrently")
	// ErrConflict is returned by Store.Create when the round already has a
	// settlement for the same payer and payee.
	ErrConflict = errors.New("settlement already exists")
	// ErrStoreNotConfigured indicates the service is missing persistence wiring.
	ErrStoreNotConfigured = errors.New("settlement store is not configured")
)

// AuthorizationError means the acting user is not the party allowed to perform the action.
type AuthorizationError struct {
	SettlementID string
	ActorID      string
	Action       Action
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %q may not %s settlement %s", e.ActorID, e.Action, e.SettlementID)
}

// StateGuardError means the right user tried an action the current status does not allow.
type StateGuardError struct {
	SettlementID string
	Action       Action
	Status       Status
}

func (e *StateGuardError) Error() string {
	return fmt.Sprintf("cannot %s settlement %s while it is %s", e.Action, e.SettlementID, e.Status)
}

// NotFoundError means no settlement has the given id.
type NotFoundError struct {
	SettlementID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("settlement %s not found", e.SettlementID)
}

// InvalidSettlementError rejects a settlement that should never be created:
// a non-positive amount, a payer paying themselves, net positions that don't balance.
type InvalidSettlementError struct {
	Reason string
}

func (e *InvalidSettlementError) Error() string {
	return "invalid settlement: " + e.Reason
}
