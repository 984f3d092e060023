package games

import "github.com/shopspring/decimal"

// Skin is one won skin. Holes is how many holes' worth of stake it carried
// (1 plus any tied holes carried into it).
type Skin struct {
	HoleNumber int             `json:"holeNumber"`
	WinnerID   string          `json:"winnerId"`
	Holes      int             `json:"holes"`
	Value      decimal.Decimal `json:"value"`
}

// SkinsResult tracks the pot as well as the money: every hole adds one bet to the
// pot, and the pot always reconciles as TotalWon + Carryover + Pushed == TotalPot.
type SkinsResult struct {
	Skins     []Skin          `json:"skins"`
	TotalPot  decimal.Decimal `json:"totalPot"`
	TotalWon  decimal.Decimal `json:"totalWon"`
	Carryover decimal.Decimal `json:"carryover"` // Unresolved after the last hole; nobody wins it
	Pushed    decimal.Decimal `json:"pushed"`    // Voided by ties when carryover is switched off
	Standings []Standing      `json:"standings"` // Points = skins (holes) won
}

func (*SkinsResult) Format() Format                      { return FormatSkins }
func (r *SkinsResult) Money() map[string]decimal.Decimal { return standingsMoney(r.Standings) }

// Skins awards each hole to the player with the strictly lowest net score. A tie
// (or a hole fewer than two players have finished) carries the stake to the next
// hole. Each won skin is paid to the winner by every other player.
func Skins(in Input) (*SkinsResult, error) {
	r, err := prepare(FormatSkins, in, 2, 4)
	if err != nil {
		return nil, err
	}

	n := len(r.players)
	l := newLedger(n)     // money per player index
	won := make([]int, n) // holes' worth of skins each player took
	res := &SkinsResult{
		Skins:     []Skin{},
		TotalPot:  r.bet.Mul(decimal.NewFromInt(int64(len(r.holes)))),
		TotalWon:  decimal.Zero,
		Carryover: decimal.Zero,
		Pushed:    decimal.Zero,
	}

	// pending counts the holes riding on the current skin: 1 on a fresh hole, more
	// after a run of ties. It resets to 0 whenever a skin is won or pushed.
	pending := 0
	for _, h := range r.holes {
		pending++

		winner, decided := r.lowestNet(h.Number)
		if !decided {
			// Tied (or not enough scores). With carryover on, the stake simply rides
			// to the next hole; with it off, the stake is voided and recorded as pushed.
			if r.opts.SkinsNoCarryover {
				res.Pushed = res.Pushed.Add(r.bet.Mul(decimal.NewFromInt(int64(pending))))
				pending = 0
			}
			continue
		}

		// A clear winner takes every hole that was riding, and each opponent pays
		// the full value of the skin.
		value := r.bet.Mul(decimal.NewFromInt(int64(pending)))
		res.Skins = append(res.Skins, Skin{
			HoleNumber: h.Number,
			WinnerID:   r.id(winner),
			Holes:      pending,
			Value:      value,
		})
		res.TotalWon = res.TotalWon.Add(value)
		won[winner] += pending
		for i := 0; i < n; i++ {
			if i != winner {
				l.transfer(i, winner, value)
			}
		}
		pending = 0
	}

	// Anything still riding after the last hole is nobody's: it stays as carryover.
	res.Carryover = r.bet.Mul(decimal.NewFromInt(int64(pending)))
	res.Standings = r.standings(l, won)
	return res, nil
}

// lowestNet returns the index of the sole lowest net scorer on a hole. decided is
// false when the low score is shared or fewer than two players have played it.
func (r *round) lowestNet(hole int) (int, bool) {
	best, bestNet, played, shared := -1, 0, 0, false
	for i := range r.players {
		net, ok := r.net(i, hole)
		if !ok {
			continue
		}
		played++
		switch {
		case best < 0 || net < bestNet:
			best, bestNet, shared = i, net, false
		case net == bestNet:
			shared = true
		}
	}
	if played < 2 || shared {
		return -1, false
	}
	return best, true
}
