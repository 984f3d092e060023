package games

import "github.com/shopspring/decimal"

// StablefordResult lists each player's points and the money they settle on.
// Rate is the money value of one point (the bet amount).
type StablefordResult struct {
	Rate      decimal.Decimal `json:"rate"`
	Standings []Standing      `json:"standings"` // Points = Stableford points
}

func (*StablefordResult) Format() Format                      { return FormatStableford }
func (r *StablefordResult) Money() map[string]decimal.Decimal { return standingsMoney(r.Standings) }

// Stableford scores each played hole from net strokes relative to par using the
// rule table. Money is the bet amount times each player's points above or below
// the field average, so the group's money always sums to zero.
func Stableford(in Input) (*StablefordResult, error) {
	r, err := prepare(FormatStableford, in, 2, 4)
	if err != nil {
		return nil, err
	}

	points := make([]int, len(r.players))
	for i := range r.players {
		for _, h := range r.holes {
			net, ok := r.net(i, h.Number)
			if !ok {
				continue
			}
			points[i] += r.rules.Stableford.Points(net - h.Par)
		}
	}

	ids := r.ids()
	money := relativeToField(ids, points, r.bet)

	standings := make([]Standing, len(r.players))
	for i, id := range ids {
		standings[i] = Standing{PlayerID: id, Points: points[i], Money: money[id]}
	}
	return &StablefordResult{Rate: r.bet, Standings: standings}, nil
}
