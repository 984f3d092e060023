package games

import "github.com/shopspring/decimal"

// MatchStatus is the outcome of a match or a Nassau segment.
type MatchStatus string

const (
	MatchWon MatchStatus = "WON" // One player won more holes
	MatchTie MatchStatus = "TIE" // Holes won are level (or nothing has been played)
)

// Segment is one head-to-head match over a run of holes.
type Segment struct {
	WinnerID    *string     `json:"winnerId"`
	Margin      int         `json:"margin"`      // Holes won by the leader minus holes won by the trailer
	HolesPlayed int         `json:"holesPlayed"` // Holes both players have a score on
	Status      MatchStatus `json:"status"`
}

// NassauResult is three independent matches: front nine, back nine and overall.
type NassauResult struct {
	Front     Segment    `json:"front"`
	Back      Segment    `json:"back"`
	Overall   Segment    `json:"overall"`
	Standings []Standing `json:"standings"`
}

func (*NassauResult) Format() Format                      { return FormatNassau }
func (r *NassauResult) Money() map[string]decimal.Decimal { return standingsMoney(r.Standings) }

// Nassau plays the two players against each other on net score over holes 1–9,
// 10–18 and 1–18. Each segment winner collects the bet from the loser.
func Nassau(in Input) (*NassauResult, error) {
	r, err := prepare(FormatNassau, in, 2, 2)
	if err != nil {
		return nil, err
	}

	l := newLedger(2)
	settle := func(seg Segment, diff int) Segment {
		switch {
		case diff > 0:
			l.transfer(1, 0, r.bet)
		case diff < 0:
			l.transfer(0, 1, r.bet)
		}
		return seg
	}

	front, frontDiff := r.segment(1, 9)
	back, backDiff := r.segment(10, 18)
	overall, overallDiff := r.segment(1, 18)

	return &NassauResult{
		Front:     settle(front, frontDiff),
		Back:      settle(back, backDiff),
		Overall:   settle(overall, overallDiff),
		Standings: r.standings(l, nil),
	}, nil
}

// MatchPlayResult is a single 18-hole match paid per hole of margin.
type MatchPlayResult struct {
	WinnerID    *string     `json:"winnerId"`
	HolesUp     int         `json:"holesUp"`
	HolesPlayed int         `json:"holesPlayed"`
	Status      MatchStatus `json:"status"`
	Standings   []Standing  `json:"standings"`
}

func (*MatchPlayResult) Format() Format                      { return FormatMatchPlay }
func (r *MatchPlayResult) Money() map[string]decimal.Decimal { return standingsMoney(r.Standings) }

// MatchPlay scores holes like a Nassau segment over all 18 holes; the loser pays the
// bet once for every hole the winner finished up.
func MatchPlay(in Input) (*MatchPlayResult, error) {
	r, err := prepare(FormatMatchPlay, in, 2, 2)
	if err != nil {
		return nil, err
	}

	seg, diff := r.segment(1, 18)
	l := newLedger(2)
	amount := r.bet.Mul(decimal.NewFromInt(int64(seg.Margin)))
	switch {
	case diff > 0:
		l.transfer(1, 0, amount)
	case diff < 0:
		l.transfer(0, 1, amount)
	}

	return &MatchPlayResult{
		WinnerID:    seg.WinnerID,
		HolesUp:     seg.Margin,
		HolesPlayed: seg.HolesPlayed,
		Status:      seg.Status,
		Standings:   r.standings(l, nil),
	}, nil
}

// segment compares players 0 and 1 on net score over holes from..to, counting only
// holes both have played. diff is holes won by player 0 minus holes won by player 1.
func (r *round) segment(from, to int) (Segment, int) {
	seg := Segment{Status: MatchTie}
	diff := 0
	for hole := from; hole <= to; hole++ {
		a, okA := r.net(0, hole)
		b, okB := r.net(1, hole)
		if !okA || !okB {
			continue
		}
		seg.HolesPlayed++
		switch {
		case a < b:
			diff++
		case b < a:
			diff--
		}
	}

	switch {
	case diff > 0:
		id := r.id(0)
		seg.WinnerID, seg.Margin, seg.Status = &id, diff, MatchWon
	case diff < 0:
		id := r.id(1)
		seg.WinnerID, seg.Margin, seg.Status = &id, -diff, MatchWon
	}
	return seg, diff
}
