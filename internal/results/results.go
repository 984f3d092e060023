// Package results merges the side games configured for a round into one view:
// every game's result, each player's net money across all of them, and a simple
// gross/net leaderboard.
//
// Aggregate is pure. It is called whenever someone opens the round results and
// again when the round completes, at which point the net positions seed settlements.
package results

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/trentd187/golf-wagers/internal/games"
	"github.com/trentd187/golf-wagers/internal/golf"
)

// GameConfig is one game the group agreed to play.
// PointRate converts a points format (Wolf, Nines, Bingo Bango Bongo) into money;
// it is ignored for formats that already settle in money.
type GameConfig struct {
	Format    games.Format     `json:"format"`
	BetAmount decimal.Decimal  `json:"betAmount"`
	Options   games.Options    `json:"options"`
	PointRate *decimal.Decimal `json:"pointRate,omitempty"`
}

// RoundInput is the round data shared by every game plus the list of games.
type RoundInput struct {
	Players []golf.Player `json:"players"`
	Holes   []golf.Hole   `json:"holes"`
	Games   []GameConfig  `json:"games"`

	Rules *games.Rules `json:"-"`
}

// PlayerTotal is one line of the leaderboard. Only played holes count.
type PlayerTotal struct {
	PlayerID    string `json:"playerId"`
	HolesPlayed int    `json:"holesPlayed"`
	Gross       int    `json:"gross"`
	Net         int    `json:"net"`
	NetToPar    int    `json:"netToPar"`
}

// Summary is the aggregated outcome of a round.
type Summary struct {
	Results map[games.Format]games.Result `json:"results"`

	// Money is each game's contribution per player, after point conversion.
	// Points formats without a rate have no entry here.
	Money map[games.Format]map[string]decimal.Decimal `json:"money"`

	// Net is the sum of Money per player. Every player has an entry, even at zero.
	Net map[string]decimal.Decimal `json:"net"`

	// Unconverted lists points formats that were computed but left out of Net
	// because the game had no point rate.
	Unconverted []games.Format `json:"unconverted,omitempty"`

	Totals []PlayerTotal `json:"totals"`
}

// Aggregate runs the configured games and merges their money into net positions.
// Any calculator error aborts the whole aggregation; there is no partial summary.
func Aggregate(in RoundInput) (Summary, error) {
	seen := make(map[games.Format]bool, len(in.Games))
	for _, g := range in.Games {
		if seen[g.Format] {
			return Summary{}, &games.InvalidInputError{Format: g.Format, Reason: "game configured twice for the round"}
		}
		seen[g.Format] = true
		if g.PointRate != nil && g.PointRate.IsNegative() {
			return Summary{}, &games.InvalidInputError{Format: g.Format, Reason: "point rate must not be negative"}
		}
		// A rate like 0.125 would project points to fractions of a cent.
		if g.PointRate != nil && !games.WholeCents(*g.PointRate) {
			return Summary{}, &games.InvalidInputError{Format: g.Format, Reason: "point rate " + g.PointRate.String() + " is finer than a cent"}
		}
	}

	s := Summary{
		Results: make(map[games.Format]games.Result, len(in.Games)),
		Money:   make(map[games.Format]map[string]decimal.Decimal, len(in.Games)),
		Net:     make(map[string]decimal.Decimal, len(in.Players)),
	}
	for _, p := range in.Players {
		s.Net[p.ID] = decimal.Zero
	}

	for _, g := range in.Games {
		res, err := games.Compute(g.Format, games.Input{
			Players:   in.Players,
			Holes:     in.Holes,
			BetAmount: g.BetAmount,
			Options:   g.Options,
			Rules:     in.Rules,
		})
		if err != nil {
			return Summary{}, err
		}
		s.Results[g.Format] = res

		var money map[string]decimal.Decimal
		switch r := res.(type) {
		case games.MoneyResult:
			money = r.Money()
		case games.PointsResult:
			if g.PointRate == nil {
				s.Unconverted = append(s.Unconverted, g.Format)
				continue
			}
			money = r.Project(*g.PointRate)
		default:
			return Summary{}, fmt.Errorf("results: %s returned %T, which carries neither money nor points", g.Format, res)
		}

		s.Money[g.Format] = money
		for id, amount := range money {
			s.Net[id] = s.Net[id].Add(amount)
		}
	}

	s.Totals = Leaderboard(in.Players, in.Holes)
	return s, nil
}

// Leaderboard totals gross and net strokes per player over the holes they have played.
func Leaderboard(players []golf.Player, holes []golf.Hole) []PlayerTotal {
	out := make([]PlayerTotal, 0, len(players))
	for _, p := range players {
		alloc := golf.AllocateStrokes(p.CourseHandicap, holes)
		t := PlayerTotal{PlayerID: p.ID}
		for _, h := range holes {
			gross, ok := p.Strokes(h.Number)
			if !ok {
				continue
			}
			net := gross - alloc[h.Number]
			t.HolesPlayed++
			t.Gross += gross
			t.Net += net
			t.NetToPar += net - h.Par
		}
		out = append(out, t)
	}
	return out
}
