package games

import "github.com/shopspring/decimal"

// WolfDecision is what the wolf chose on one hole. The rotation and the choice are
// made on the course; the calculator only scores them.
type WolfDecision struct {
	HoleNumber int    `json:"holeNumber"`
	WolfID     string `json:"wolfId"`
	PartnerID  string `json:"partnerId,omitempty"` // Empty when the wolf goes alone
	LoneWolf   bool   `json:"loneWolf"`
	Blind      bool   `json:"blind"` // Went alone before anyone teed off; only valid with LoneWolf
}

// WolfOutcome says which side took a wolf hole.
type WolfOutcome string

const (
	WolfOutcomeWolf     WolfOutcome = "wolf"     // Wolf (and partner) had the better ball
	WolfOutcomeField    WolfOutcome = "field"    // The other side had the better ball
	WolfOutcomePush     WolfOutcome = "push"     // Best balls tied
	WolfOutcomeUnplayed WolfOutcome = "unplayed" // A side has no score on the hole yet
)

// WolfHole is the scored result of one decision.
type WolfHole struct {
	HoleNumber int            `json:"holeNumber"`
	WolfID     string         `json:"wolfId"`
	PartnerID  string         `json:"partnerId,omitempty"`
	LoneWolf   bool           `json:"loneWolf"`
	Blind      bool           `json:"blind"`
	WolfNet    *int           `json:"wolfNet"`  // Best net ball of the wolf's side
	FieldNet   *int           `json:"fieldNet"` // Best net ball of the other side
	Outcome    WolfOutcome    `json:"outcome"`
	Points     map[string]int `json:"points"` // Sums to zero
}

// WolfResult holds per-hole outcomes and point totals. Points convert to money
// through Project.
type WolfResult struct {
	Holes     []WolfHole       `json:"holes"`
	Standings []PointsStanding `json:"standings"`
}

func (*WolfResult) Format() Format             { return FormatWolf }
func (r *WolfResult) Points() map[string]int { return standingsPoints(r.Standings) }

// Project converts points to money. Wolf points are already zero-sum, so each
// point is worth rate.
func (r *WolfResult) Project(rate decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(r.Standings))
	for _, s := range r.Standings {
		out[s.PlayerID] = rate.Mul(decimal.NewFromInt(int64(s.Points)))
	}
	return out
}

// Wolf scores every hole that has a decision. The two sides compare their best net
// ball; every player on the winning side collects pointValue × multiplier from every
// player on the losing side (multiplier 1 with a partner, the lone or blind
// multiplier when the wolf went alone). Ties and holes without a decision score nothing.
func Wolf(in Input) (*WolfResult, error) {
	r, err := prepare(FormatWolf, in, 3, 4)
	if err != nil {
		return nil, err
	}

	n := len(r.players)
	totals := make([]int, n)
	res := &WolfResult{Holes: []WolfHole{}}
	seen := make(map[int]bool, len(r.opts.Wolf)) // holes that already have a decision

	// Only holes with a recorded decision are scored. The rotation is the group's
	// business; the decisions say who was wolf and what they chose.
	for _, d := range r.opts.Wolf {
		if err := r.checkWolfDecision(d, seen); err != nil {
			return nil, err
		}

		// Split the group into the wolf's side (wolf plus partner, or wolf alone)
		// and the field (everyone else).
		wolfSide := []int{r.index[d.WolfID]}
		if d.PartnerID != "" {
			wolfSide = append(wolfSide, r.index[d.PartnerID])
		}
		onWolfSide := make(map[int]bool, len(wolfSide))
		for _, i := range wolfSide {
			onWolfSide[i] = true
		}
		var field []int
		for i := 0; i < n; i++ {
			if !onWolfSide[i] {
				field = append(field, i)
			}
		}

		hole := WolfHole{
			HoleNumber: d.HoleNumber,
			WolfID:     d.WolfID,
			PartnerID:  d.PartnerID,
			LoneWolf:   d.LoneWolf,
			Blind:      d.Blind,
			Points:     make(map[string]int, n),
		}
		for i := 0; i < n; i++ {
			hole.Points[r.id(i)] = 0
		}

		// Each side plays its best net ball. A side with no score at all means the
		// hole cannot be judged yet.
		hole.WolfNet = r.bestNet(wolfSide, d.HoleNumber)
		hole.FieldNet = r.bestNet(field, d.HoleNumber)

		var winners, losers []int
		switch {
		case hole.WolfNet == nil || hole.FieldNet == nil:
			hole.Outcome = WolfOutcomeUnplayed
		case *hole.WolfNet < *hole.FieldNet:
			hole.Outcome = WolfOutcomeWolf
			winners, losers = wolfSide, field
		case *hole.FieldNet < *hole.WolfNet:
			hole.Outcome = WolfOutcomeField
			winners, losers = field, wolfSide
		default:
			hole.Outcome = WolfOutcomePush
		}

		// Going alone raises the stake; going alone before anyone teed off (blind)
		// raises it further. Blind implies lone, so check it first.
		stake := r.rules.WolfPointValue
		switch {
		case d.Blind:
			stake *= r.rules.WolfBlindMultiplier
		case d.LoneWolf:
			stake *= r.rules.WolfLoneMultiplier
		}
		// Every winner takes the stake from every loser. A lone wolf who wins 1v3
		// collects three stakes; one who loses pays three.
		for _, w := range winners {
			for _, lo := range losers {
				totals[w] += stake
				totals[lo] -= stake
				hole.Points[r.id(w)] += stake
				hole.Points[r.id(lo)] -= stake
			}
		}

		res.Holes = append(res.Holes, hole)
	}

	res.Standings = make([]PointsStanding, n)
	for i := 0; i < n; i++ {
		res.Standings[i] = PointsStanding{PlayerID: r.id(i), Points: totals[i]}
	}
	return res, nil
}

func (r *round) checkWolfDecision(d WolfDecision, seen map[int]bool) error {
	switch {
	case !r.hasHole(d.HoleNumber):
		return invalid(r.format, "wolf decision for unknown hole %d", d.HoleNumber)
	case seen[d.HoleNumber]:
		return invalid(r.format, "two wolf decisions for hole %d", d.HoleNumber)
	case !r.known(d.WolfID):
		return invalid(r.format, "hole %d: wolf %q is not in the group", d.HoleNumber, d.WolfID)
	case d.LoneWolf && d.PartnerID != "":
		return invalid(r.format, "hole %d: a lone wolf cannot have a partner", d.HoleNumber)
	case !d.LoneWolf && d.PartnerID == "":
		return invalid(r.format, "hole %d: wolf needs a partner or must go alone", d.HoleNumber)
	case d.Blind && !d.LoneWolf:
		return invalid(r.format, "hole %d: only a lone wolf can go blind", d.HoleNumber)
	case d.PartnerID != "" && !r.known(d.PartnerID):
		return invalid(r.format, "hole %d: partner %q is not in the group", d.HoleNumber, d.PartnerID)
	case d.PartnerID == d.WolfID:
		return invalid(r.format, "hole %d: the wolf cannot partner themselves", d.HoleNumber)
	}
	seen[d.HoleNumber] = true
	return nil
}

// bestNet returns the lowest net score on a hole among the given players, or nil
// when none of them has played it.
func (r *round) bestNet(players []int, hole int) *int {
	var best *int
	for _, i := range players {
		net, ok := r.net(i, hole)
		if !ok {
			continue
		}
		if best == nil || net < *best {
			v := net
			best = &v
		}
	}
	return best
}
