package games

import "github.com/shopspring/decimal"

// BankerMatch is the banker against one opponent on one hole.
type BankerMatch struct {
	OpponentID  string          `json:"opponentId"`
	BankerNet   int             `json:"bankerNet"`
	OpponentNet int             `json:"opponentNet"`
	WinnerID    *string         `json:"winnerId"` // nil on a push
	Amount      decimal.Decimal `json:"amount"`
}

// BankerHole lists the independent 1v1 matches the banker played on a hole.
type BankerHole struct {
	HoleNumber int           `json:"holeNumber"`
	BankerID   string        `json:"bankerId"`
	Matches    []BankerMatch `json:"matches"`
}

// BankerResult holds every hole's matches and the resulting money.
type BankerResult struct {
	Holes     []BankerHole `json:"holes"`
	Standings []Standing   `json:"standings"`
}

func (*BankerResult) Format() Format                      { return FormatBanker }
func (r *BankerResult) Money() map[string]decimal.Decimal { return standingsMoney(r.Standings) }

// Banker rotates the bank hole by hole through Options.BankerOrder (player order by
// default). On each hole the banker plays every other player on net score for the
// bet; a match where either side has no score is not played.
func Banker(in Input) (*BankerResult, error) {
	r, err := prepare(FormatBanker, in, 2, 4)
	if err != nil {
		return nil, err
	}

	// The bank passes around in this order, one hole each, wrapping after the last.
	order := r.opts.BankerOrder
	if len(order) == 0 {
		order = r.ids()
	}
	for _, id := range order {
		if !r.known(id) {
			return nil, invalid(r.format, "banker %q is not in the group", id)
		}
	}

	l := newLedger(len(r.players))
	res := &BankerResult{Holes: []BankerHole{}}

	for i, h := range r.holes {
		bankerID := order[i%len(order)]
		b := r.index[bankerID]
		hole := BankerHole{HoleNumber: h.Number, BankerID: bankerID, Matches: []BankerMatch{}}

		// The banker plays a separate 1v1 match against every other player. If the
		// banker has no score on the hole, there is nothing to play against.
		bankerNet, bankerPlayed := r.net(b, h.Number)
		for o := range r.players {
			if !bankerPlayed {
				break
			}
			oppNet, ok := r.net(o, h.Number)
			if o == b || !ok {
				continue
			}
			m := BankerMatch{
				OpponentID:  r.id(o),
				BankerNet:   bankerNet,
				OpponentNet: oppNet,
				Amount:      decimal.Zero,
			}
			// A halved match leaves WinnerID nil and moves no money.
			switch {
			case bankerNet < oppNet:
				m.WinnerID, m.Amount = &bankerID, r.bet
				l.transfer(o, b, r.bet)
			case oppNet < bankerNet:
				winner := r.id(o)
				m.WinnerID, m.Amount = &winner, r.bet
				l.transfer(b, o, r.bet)
			}
			hole.Matches = append(hole.Matches, m)
		}
		res.Holes = append(res.Holes, hole)
	}

	res.Standings = r.standings(l, nil)
	return res, nil
}
