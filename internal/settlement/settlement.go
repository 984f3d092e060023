// Package settlement tracks the money players owe each other after a round.
//
// A settlement is one payer→payee obligation. It is created PENDING when the round
// completes, the payer marks it PAID once they have sent the money, and the payee
// confirms receipt to move it to SETTLED. A payee who never received the money can
// dispute a PAID settlement instead; disputes are resolved by hand outside this package.
//
// Records only ever move forward and are never deleted, so the table doubles as an
// audit trail.
package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is where a settlement is in its lifecycle. Stored as an upper-case string
// so the database column reads the same as the API.
type Status string

const (
	StatusPending  Status = "PENDING"  // Created at round completion, nothing paid yet
	StatusPaid     Status = "PAID"     // Payer says the money was sent
	StatusSettled  Status = "SETTLED"  // Payee confirmed receipt; terminal
	StatusDisputed Status = "DISPUTED" // Payee says the money never arrived; terminal here
)

// Action names a user-initiated transition. It shows up in error messages and logs.
type Action string

const (
	ActionMarkPaid       Action = "mark_paid"
	ActionConfirmReceipt Action = "confirm_receipt"
	ActionDispute        Action = "dispute"
	ActionView           Action = "view"
)

// Settlement is one obligation from FromUserID to ToUserID.
type Settlement struct {
	ID          string          `json:"id"`
	RoundID     string          `json:"roundId"`
	FromUserID  string          `json:"fromUserId"` // Payer
	ToUserID    string          `json:"toUserId"`   // Payee
	Amount      decimal.Decimal `json:"amount"`     // Always positive, in cents
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	PaidAt      *time.Time      `json:"paidAt,omitempty"`
	ConfirmedAt *time.Time      `json:"confirmedAt,omitempty"`
	DisputedAt  *time.Time      `json:"disputedAt,omitempty"`
}

// Involves reports whether the user is the payer or the payee.
func (s Settlement) Involves(userID string) bool {
	return userID != "" && (s.FromUserID == userID || s.ToUserID == userID)
}

// Advance returns a copy of s moved to status to, with the matching timestamp set.
// It does not check whether the move is allowed; stores call it after their own
// compare-and-set on the current status.
func (s Settlement) Advance(to Status, at time.Time) Settlement {
	s.Status = to
	switch to {
	case StatusPaid:
		s.PaidAt = &at
	case StatusSettled:
		s.ConfirmedAt = &at
	case StatusDisputed:
		s.DisputedAt = &at
	}
	return s
}

// CanTransition reports whether a settlement may move from one status to another.
// The answer comes from the action table below, which the service also applies, so
// the two cannot drift apart.
func CanTransition(from, to Status) bool {
	for _, r := range rules {
		if r.from == from && r.to == to {
			return true
		}
	}
	return false
}

// rule binds an action to the only status it may start from, the status it moves
// to, and the party allowed to perform it.
type rule struct {
	from  Status
	to    Status
	actor func(Settlement) string
}

var rules = map[Action]rule{
	ActionMarkPaid:       {from: StatusPending, to: StatusPaid, actor: func(s Settlement) string { return s.FromUserID }},
	ActionConfirmReceipt: {from: StatusPaid, to: StatusSettled, actor: func(s Settlement) string { return s.ToUserID }},
	ActionDispute:        {from: StatusPaid, to: StatusDisputed, actor: func(s Settlement) string { return s.ToUserID }},
}
