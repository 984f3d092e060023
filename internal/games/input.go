package games

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/trentd187/golf-wagers/internal/golf"
)

// holesPerRound is the only round length the calculators accept.
const holesPerRound = 18

// Input is everything a calculator needs for one game in one round.
type Input struct {
	Players   []golf.Player   `json:"players"`
	Holes     []golf.Hole     `json:"holes"`
	BetAmount decimal.Decimal `json:"betAmount"`
	Options   Options         `json:"options"`

	// Rules overrides DefaultRules when set. It comes from server configuration,
	// never from the request body.
	Rules *Rules `json:"-"`
}

// Options carries the format-specific extras. Each calculator reads only its own fields.
type Options struct {
	Wolf             []WolfDecision   `json:"wolf,omitempty"`             // One decision per hole, made on the course
	BingoBangoBongo  []BBBAward       `json:"bingoBangoBongo,omitempty"`  // Who won each of the three awards per hole
	VegasTeams       *VegasTeams      `json:"vegasTeams,omitempty"`       // Defaults to players 1+2 vs 3+4
	BankerOrder      []string         `json:"bankerOrder,omitempty"`      // Banker rotation; defaults to player order
	SnakePenalty     *decimal.Decimal `json:"snakePenalty,omitempty"`     // Defaults to the bet amount
	SkinsNoCarryover bool             `json:"skinsNoCarryover,omitempty"` // Void tied skins instead of carrying them
}

// round is the validated, pre-computed view of an Input that the calculators work on.
type round struct {
	format  Format
	players []golf.Player
	holes   []golf.Hole   // Ordered by hole number
	strokes []map[int]int // Handicap strokes per hole, indexed like players
	index   map[string]int
	bet     decimal.Decimal
	rules   Rules
	opts    Options
}

// prepare validates the input shape shared by every format and allocates
// handicap strokes. minPlayers/maxPlayers bound the group size for the format.
func prepare(f Format, in Input, minPlayers, maxPlayers int) (*round, error) {
	rules := DefaultRules()
	if in.Rules != nil {
		if err := in.Rules.Validate(); err != nil {
			return nil, invalid(f, "%v", err)
		}
		rules = *in.Rules
	}

	if len(in.Holes) != holesPerRound {
		return nil, invalid(f, "expected %d holes, got %d", holesPerRound, len(in.Holes))
	}
	seenNumber := make(map[int]bool, len(in.Holes))
	seenRank := make(map[int]bool, len(in.Holes))
	for _, h := range in.Holes {
		if h.Number < 1 || h.Number > holesPerRound {
			return nil, invalid(f, "hole number %d out of range", h.Number)
		}
		if seenNumber[h.Number] {
			return nil, invalid(f, "hole %d listed twice", h.Number)
		}
		seenNumber[h.Number] = true
		if h.Par < 3 || h.Par > 5 {
			return nil, invalid(f, "hole %d has par %d", h.Number, h.Par)
		}
		if h.HandicapRank < 1 || h.HandicapRank > holesPerRound {
			return nil, invalid(f, "hole %d has handicap rank %d", h.Number, h.HandicapRank)
		}
		if seenRank[h.HandicapRank] {
			return nil, invalid(f, "handicap rank %d used twice", h.HandicapRank)
		}
		seenRank[h.HandicapRank] = true
	}

	if n := len(in.Players); n < minPlayers || n > maxPlayers {
		if minPlayers == maxPlayers {
			return nil, invalid(f, "requires exactly %d players, got %d", minPlayers, n)
		}
		return nil, invalid(f, "requires %d to %d players, got %d", minPlayers, maxPlayers, n)
	}

	if in.BetAmount.IsNegative() {
		return nil, invalid(f, "bet amount must not be negative")
	}
	if !WholeCents(in.BetAmount) {
		return nil, invalid(f, "bet amount %s is finer than a cent", in.BetAmount)
	}

	holes := make([]golf.Hole, len(in.Holes))
	copy(holes, in.Holes)
	sort.Slice(holes, func(i, j int) bool { return holes[i].Number < holes[j].Number })

	r := &round{
		format:  f,
		players: in.Players,
		holes:   holes,
		strokes: make([]map[int]int, len(in.Players)),
		index:   make(map[string]int, len(in.Players)),
		bet:     in.BetAmount,
		rules:   rules,
		opts:    in.Options,
	}

	for i, p := range in.Players {
		if p.ID == "" {
			return nil, invalid(f, "player %d has no id", i+1)
		}
		if _, dup := r.index[p.ID]; dup {
			return nil, invalid(f, "player %q listed twice", p.ID)
		}
		r.index[p.ID] = i

		if p.Scores == nil {
			return nil, invalid(f, "player %q is missing from scores", p.ID)
		}
		seen := make(map[int]bool, len(p.Scores))
		for _, s := range p.Scores {
			if !seenNumber[s.HoleNumber] {
				return nil, invalid(f, "player %q has a score for unknown hole %d", p.ID, s.HoleNumber)
			}
			if seen[s.HoleNumber] {
				return nil, invalid(f, "player %q has two scores for hole %d", p.ID, s.HoleNumber)
			}
			seen[s.HoleNumber] = true
			if s.Strokes != nil && *s.Strokes < 1 {
				return nil, invalid(f, "player %q has %d strokes on hole %d", p.ID, *s.Strokes, s.HoleNumber)
			}
			if s.Putts != nil && *s.Putts < 0 {
				return nil, invalid(f, "player %q has %d putts on hole %d", p.ID, *s.Putts, s.HoleNumber)
			}
		}

		r.strokes[i] = golf.AllocateStrokes(p.CourseHandicap, holes)
	}

	return r, nil
}

// net returns player i's net score on a hole and whether the hole was played.
func (r *round) net(i, hole int) (int, bool) {
	return golf.NetStrokes(r.players[i], hole, r.strokes[i])
}

// gross returns player i's gross score on a hole and whether the hole was played.
func (r *round) gross(i, hole int) (int, bool) {
	return r.players[i].Strokes(hole)
}

func (r *round) known(id string) bool {
	_, ok := r.index[id]
	return ok
}

func (r *round) hasHole(number int) bool {
	return number >= 1 && number <= len(r.holes)
}

func (r *round) id(i int) string {
	return r.players[i].ID
}

func (r *round) ids() []string {
	ids := make([]string, len(r.players))
	for i := range r.players {
		ids[i] = r.id(i)
	}
	return ids
}

// ledger accumulates money per player index.
type ledger []decimal.Decimal

func newLedger(n int) ledger {
	l := make(ledger, n)
	for i := range l {
		l[i] = decimal.Zero
	}
	return l
}

// transfer moves amount from one player to another.
func (l ledger) transfer(from, to int, amount decimal.Decimal) {
	l[from] = l[from].Sub(amount)
	l[to] = l[to].Add(amount)
}

func (r *round) standings(l ledger, points []int) []Standing {
	out := make([]Standing, len(r.players))
	for i := range r.players {
		out[i] = Standing{PlayerID: r.id(i), Money: l[i]}
		if points != nil {
			out[i].Points = points[i]
		}
	}
	return out
}

// WholeCents reports whether d is a money amount with at most two decimal places.
// Bets, penalties and point rates must be; settlements are paid in cents.
func WholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// balanceCents rounds every amount to cents and then nudges the first players by a
// cent at a time until the rounded amounts sum to exactly zero again.
func balanceCents(amounts []decimal.Decimal) []decimal.Decimal {
	cent := decimal.New(1, -2)
	out := make([]decimal.Decimal, len(amounts))
	sum := decimal.Zero
	for i, a := range amounts {
		out[i] = a.Round(2)
		sum = sum.Add(out[i])
	}
	for i := 0; !sum.IsZero() && len(out) > 0; i = (i + 1) % len(out) {
		if sum.IsPositive() {
			out[i] = out[i].Sub(cent)
			sum = sum.Sub(cent)
		} else {
			out[i] = out[i].Add(cent)
			sum = sum.Add(cent)
		}
	}
	return out
}

// relativeToField converts per-player totals into zero-sum money: each player wins
// or loses rate times the distance between their total and the field average.
func relativeToField(ids []string, totals []int, rate decimal.Decimal) map[string]decimal.Decimal {
	n := int64(len(totals))
	sum := 0
	for _, t := range totals {
		sum += t
	}
	amounts := make([]decimal.Decimal, len(totals))
	for i, t := range totals {
		diff := decimal.NewFromInt(n*int64(t) - int64(sum))
		amounts[i] = rate.Mul(diff).Div(decimal.NewFromInt(n))
	}
	amounts = balanceCents(amounts)

	out := make(map[string]decimal.Decimal, len(ids))
	for i, id := range ids {
		out[id] = amounts[i]
	}
	return out
}

// pairwise converts per-player totals into zero-sum money by settling every pair of
// players on the difference of their totals.
func pairwise(ids []string, totals []int, rate decimal.Decimal) map[string]decimal.Decimal {
	n := len(totals)
	sum := 0
	for _, t := range totals {
		sum += t
	}
	out := make(map[string]decimal.Decimal, len(ids))
	for i, id := range ids {
		out[id] = rate.Mul(decimal.NewFromInt(int64(n*totals[i] - sum)))
	}
	return out
}
