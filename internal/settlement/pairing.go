package settlement

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Pair is one payment needed to clear a round's net positions.
type Pair struct {
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
}

// PairsFromNet turns net positions (positive = owed money, negative = owes money)
// into payments. It repeatedly matches the largest debtor with the largest creditor,
// which settles n players in at most n-1 payments.
//
// The positions must sum to exactly zero. They may carry fractions of a cent (a
// point rate of 0.125 does that); see centPositions for how they are rounded.
// Ties are broken by user id so the same positions always produce the same pairs.
func PairsFromNet(net map[string]decimal.Decimal) ([]Pair, error) {
	type position struct {
		userID string
		amount decimal.Decimal
	}

	rounded, err := centPositions(net)
	if err != nil {
		return nil, err
	}

	// Split into the two sides; anyone who rounds to zero has nothing to settle.
	var debtors, creditors []position
	for id, v := range rounded {
		switch {
		case v.IsNegative():
			debtors = append(debtors, position{id, v.Neg()})
		case v.IsPositive():
			creditors = append(creditors, position{id, v})
		}
	}

	byAmount := func(ps []position) {
		sort.Slice(ps, func(i, j int) bool {
			if c := ps[i].amount.Cmp(ps[j].amount); c != 0 {
				return c > 0
			}
			return ps[i].userID < ps[j].userID
		})
	}

	var pairs []Pair
	for len(debtors) > 0 && len(creditors) > 0 {
		byAmount(debtors)
		byAmount(creditors)
		d, c := &debtors[0], &creditors[0]

		amount := decimal.Min(d.amount, c.amount)
		pairs = append(pairs, Pair{FromUserID: d.userID, ToUserID: c.userID, Amount: amount})
		d.amount = d.amount.Sub(amount)
		c.amount = c.amount.Sub(amount)

		if d.amount.IsZero() {
			debtors = debtors[1:]
		}
		if c.amount.IsZero() {
			creditors = creditors[1:]
		}
	}
	return pairs, nil
}

// centPositions rounds every position to cents and keeps the total at zero.
// Rounding each player on their own can leave the group a cent or two out (three
// players at 0.125, 0.125 and -0.25 round to 0.13, 0.13 and -0.25). The stray cents
// are taken back from the players whose rounding moved furthest in that direction,
// ties by user id, so nobody is ever moved by more than a cent.
func centPositions(net map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	ids := make([]string, 0, len(net))
	exact := decimal.Zero
	for id, v := range net {
		if id == "" {
			return nil, &InvalidSettlementError{Reason: "net position without a user id"}
		}
		ids = append(ids, id)
		exact = exact.Add(v)
	}
	if !exact.IsZero() {
		return nil, &InvalidSettlementError{Reason: "net positions sum to " + exact.String() + ", not zero"}
	}
	sort.Strings(ids)

	rounded := make(map[string]decimal.Decimal, len(net))
	sum := decimal.Zero
	for _, id := range ids {
		rounded[id] = net[id].Round(2)
		sum = sum.Add(rounded[id])
	}
	if sum.IsZero() {
		return rounded, nil
	}

	// drift is how far rounding pushed each player; a positive sum is undone from
	// the largest upward drifts, a negative sum from the largest downward ones.
	drift := func(id string) decimal.Decimal { return rounded[id].Sub(net[id]) }
	step := decimal.New(1, -2)
	if sum.IsPositive() {
		step = step.Neg()
		sort.SliceStable(ids, func(i, j int) bool { return drift(ids[i]).GreaterThan(drift(ids[j])) })
	} else {
		sort.SliceStable(ids, func(i, j int) bool { return drift(ids[i]).LessThan(drift(ids[j])) })
	}
	for i := 0; !sum.IsZero(); i++ {
		if i == len(ids) {
			return nil, &InvalidSettlementError{Reason: "cannot balance net positions to the cent"}
		}
		rounded[ids[i]] = rounded[ids[i]].Add(step)
		sum = sum.Add(step)
	}
	return rounded, nil
}
