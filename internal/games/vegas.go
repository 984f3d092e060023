package games

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// VegasTeams pairs four players into two teams.
type VegasTeams [2][2]string

// VegasHole is one hole of Vegas. Numbers are the combined team numbers; Points is
// the difference the winning team collects.
type VegasHole struct {
	HoleNumber  int     `json:"holeNumber"`
	Numbers     [2]int  `json:"numbers"`
	Flipped     [2]bool `json:"flipped"`     // Team number was flipped because of a blow-up hole
	WinningTeam *int    `json:"winningTeam"` // 0 or 1; nil on a push
	Points      int     `json:"points"`
}

// VegasResult holds the hole-by-hole numbers, the running team points and money.
type VegasResult struct {
	Teams      VegasTeams  `json:"teams"`
	Holes      []VegasHole `json:"holes"`
	TeamPoints [2]int      `json:"teamPoints"` // Points won by each team
	Standings  []Standing  `json:"standings"`
}

func (*VegasResult) Format() Format                      { return FormatVegas }
func (r *VegasResult) Money() map[string]decimal.Decimal { return standingsMoney(r.Standings) }

// Vegas plays two teams of two on gross score. Each team's scores on a hole make a
// number with the lower score first (4 and 5 make 45). If a teammate reaches the flip
// threshold the higher score goes first instead (4 and 10 make 104). The lower number
// wins the difference; each winner collects difference × bet from one loser.
// Holes where any of the four players has no score are skipped.
func Vegas(in Input) (*VegasResult, error) {
	r, err := prepare(FormatVegas, in, 4, 4)
	if err != nil {
		return nil, err
	}

	// Default pairing is the first two players against the last two.
	teams := VegasTeams{{r.id(0), r.id(1)}, {r.id(2), r.id(3)}}
	if r.opts.VegasTeams != nil {
		teams = *r.opts.VegasTeams
	}
	// idx[team][member] is the player index; every player must appear exactly once.
	var idx [2][2]int
	used := make(map[string]bool, 4)
	for t := 0; t < 2; t++ {
		for m := 0; m < 2; m++ {
			id := teams[t][m]
			if !r.known(id) {
				return nil, invalid(r.format, "team player %q is not in the group", id)
			}
			if used[id] {
				return nil, invalid(r.format, "player %q is on a team twice", id)
			}
			used[id] = true
			idx[t][m] = r.index[id]
		}
	}

	l := newLedger(4)
	res := &VegasResult{Teams: teams, Holes: []VegasHole{}}

	for _, h := range r.holes {
		hole := VegasHole{HoleNumber: h.Number}
		played := true
		for t := 0; t < 2; t++ {
			a, okA := r.gross(idx[t][0], h.Number)
			b, okB := r.gross(idx[t][1], h.Number)
			if !okA || !okB {
				played = false
				break
			}
			hole.Numbers[t], hole.Flipped[t] = vegasNumber(a, b, r.rules.VegasFlipThreshold)
		}
		if !played {
			continue
		}

		// Lower number wins by the difference (45 vs 56 is 11 points), and each
		// winner collects that many bets from the loser across from them.
		diff := hole.Numbers[1] - hole.Numbers[0]
		if diff != 0 {
			winner, loser := 0, 1
			if diff < 0 {
				winner, loser, diff = 1, 0, -diff
			}
			hole.WinningTeam = &winner
			hole.Points = diff
			res.TeamPoints[winner] += diff

			amount := r.bet.Mul(decimal.NewFromInt(int64(diff)))
			for m := 0; m < 2; m++ {
				l.transfer(idx[loser][m], idx[winner][m], amount)
			}
		}
		res.Holes = append(res.Holes, hole)
	}

	res.Standings = r.standings(l, nil)
	return res, nil
}

// vegasNumber joins two scores into a team number, low score first unless the high
// score reached the flip threshold.
func vegasNumber(a, b, flipAt int) (int, bool) {
	low, high := a, b
	if low > high {
		low, high = high, low
	}
	if high >= flipAt {
		return concatDigits(high, low), true
	}
	return concatDigits(low, high), false
}

func concatDigits(first, second int) int {
	n, _ := strconv.Atoi(strconv.Itoa(first) + strconv.Itoa(second))
	return n
}
