package games

import "github.com/shopspring/decimal"

// BBBAward records who won each of the three Bingo Bango Bongo points on a hole.
// An empty ID means nobody was credited with that point.
type BBBAward struct {
	HoleNumber int    `json:"holeNumber"`
	Bingo      string `json:"bingo,omitempty"` // First ball on the green
	Bango      string `json:"bango,omitempty"` // Closest to the pin once all balls are on
	Bongo      string `json:"bongo,omitempty"` // First ball in the hole
}

// BBBStanding breaks a player's points down by award.
type BBBStanding struct {
	PlayerID string `json:"playerId"`
	Bingo    int    `json:"bingo"`
	Bango    int    `json:"bango"`
	Bongo    int    `json:"bongo"`
	Points   int    `json:"points"`
}

// BingoBangoBongoResult totals the attributed awards.
type BingoBangoBongoResult struct {
	Standings []BBBStanding `json:"standings"`
}

func (*BingoBangoBongoResult) Format() Format { return FormatBingoBangoBongo }

func (r *BingoBangoBongoResult) Points() map[string]int {
	out := make(map[string]int, len(r.Standings))
	for _, s := range r.Standings {
		out[s.PlayerID] = s.Points
	}
	return out
}

// Project settles every pair of players on their point difference at rate per point.
func (r *BingoBangoBongoResult) Project(rate decimal.Decimal) map[string]decimal.Decimal {
	ids := make([]string, len(r.Standings))
	totals := make([]int, len(r.Standings))
	for i, s := range r.Standings {
		ids[i], totals[i] = s.PlayerID, s.Points
	}
	return pairwise(ids, totals, rate)
}

// BingoBangoBongo adds up the awards supplied in Options.BingoBangoBongo. The
// calculator cannot tell who was closest to the pin from scores, so it only
// aggregates what the group recorded.
func BingoBangoBongo(in Input) (*BingoBangoBongoResult, error) {
	r, err := prepare(FormatBingoBangoBongo, in, 2, 4)
	if err != nil {
		return nil, err
	}

	standings := make([]BBBStanding, len(r.players))
	for i := range standings {
		standings[i].PlayerID = r.id(i)
	}

	seen := make(map[int]bool, len(r.opts.BingoBangoBongo))
	for _, a := range r.opts.BingoBangoBongo {
		if !r.hasHole(a.HoleNumber) {
			return nil, invalid(r.format, "award for unknown hole %d", a.HoleNumber)
		}
		if seen[a.HoleNumber] {
			return nil, invalid(r.format, "two awards for hole %d", a.HoleNumber)
		}
		seen[a.HoleNumber] = true

		for _, id := range []string{a.Bingo, a.Bango, a.Bongo} {
			if id != "" && !r.known(id) {
				return nil, invalid(r.format, "hole %d: %q is not in the group", a.HoleNumber, id)
			}
		}
		if a.Bingo != "" {
			s := &standings[r.index[a.Bingo]]
			s.Bingo++
			s.Points++
		}
		if a.Bango != "" {
			s := &standings[r.index[a.Bango]]
			s.Bango++
			s.Points++
		}
		if a.Bongo != "" {
			s := &standings[r.index[a.Bongo]]
			s.Bongo++
			s.Points++
		}
	}

	return &BingoBangoBongoResult{Standings: standings}, nil
}
