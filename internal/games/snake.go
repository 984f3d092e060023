package games

import "github.com/shopspring/decimal"

// SnakeEvent records a hole where a player three-putted and took (or kept) the snake.
type SnakeEvent struct {
	HoleNumber int    `json:"holeNumber"`
	PlayerID   string `json:"playerId"`
	Putts      int    `json:"putts"`
}

// SnakeResult names the final holder and how the penalty was split.
type SnakeResult struct {
	HolderID  *string         `json:"holderId"` // nil if nobody three-putted
	Penalty   decimal.Decimal `json:"penalty"`
	Events    []SnakeEvent    `json:"events"`
	Standings []Standing      `json:"standings"`
}

func (*SnakeResult) Format() Format                      { return FormatSnake }
func (r *SnakeResult) Money() map[string]decimal.Decimal { return standingsMoney(r.Standings) }

// Snake walks the holes in order and hands the snake to whoever reaches the
// three-putt threshold. When several players do so on the same hole the one with
// the most putts takes it; if that is still level the current holder keeps it,
// otherwise the first of them in player order. Strokes play no part.
//
// The holder after the last hole pays the penalty (Options.SnakePenalty, or the bet
// amount) split evenly across the rest of the group.
func Snake(in Input) (*SnakeResult, error) {
	r, err := prepare(FormatSnake, in, 2, 4)
	if err != nil {
		return nil, err
	}

	penalty := r.bet
	if r.opts.SnakePenalty != nil {
		if r.opts.SnakePenalty.IsNegative() {
			return nil, invalid(r.format, "snake penalty must not be negative")
		}
		if !WholeCents(*r.opts.SnakePenalty) {
			return nil, invalid(r.format, "snake penalty %s is finer than a cent", *r.opts.SnakePenalty)
		}
		penalty = *r.opts.SnakePenalty
	}

	holder := -1
	res := &SnakeResult{Penalty: penalty, Events: []SnakeEvent{}}

	for _, h := range r.holes {
		taker, most := -1, 0
		holderTied := false
		for i := range r.players {
			putts, ok := r.players[i].Putts(h.Number)
			if !ok || putts < r.rules.SnakePuttThreshold {
				continue
			}
			switch {
			case putts > most:
				taker, most, holderTied = i, putts, i == holder
			case putts == most && i == holder:
				holderTied = true
			}
		}
		if taker < 0 {
			continue
		}
		if holderTied {
			taker = holder
		}
		holder = taker
		res.Events = append(res.Events, SnakeEvent{HoleNumber: h.Number, PlayerID: r.id(taker), Putts: most})
	}

	n := len(r.players)
	amounts := make([]decimal.Decimal, n)
	for i := range amounts {
		amounts[i] = decimal.Zero
	}
	if holder >= 0 {
		id := r.id(holder)
		res.HolderID = &id
		share := penalty.Div(decimal.NewFromInt(int64(n - 1)))
		for i := range amounts {
			if i == holder {
				amounts[i] = penalty.Neg()
			} else {
				amounts[i] = share
			}
		}
		amounts = balanceCents(amounts)
	}

	res.Standings = r.standings(ledger(amounts), nil)
	return res, nil
}
