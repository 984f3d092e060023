package games

import "github.com/shopspring/decimal"

// NinesHole is the 9-point split on one hole.
type NinesHole struct {
	HoleNumber int            `json:"holeNumber"`
	Points     map[string]int `json:"points"`
}

// NinesStanding keeps the front, back and overall totals apart.
type NinesStanding struct {
	PlayerID string `json:"playerId"`
	Front    int    `json:"front"`
	Back     int    `json:"back"`
	Total    int    `json:"total"`
}

// NinesResult holds the per-hole splits for holes all three players finished.
type NinesResult struct {
	Holes     []NinesHole     `json:"holes"`
	Standings []NinesStanding `json:"standings"`
}

func (*NinesResult) Format() Format { return FormatNines }

func (r *NinesResult) Points() map[string]int {
	out := make(map[string]int, len(r.Standings))
	for _, s := range r.Standings {
		out[s.PlayerID] = s.Total
	}
	return out
}

// Project settles every pair of players on the difference of their totals at rate
// per point. Nines points are not zero-sum on their own (each hole hands out 9).
func (r *NinesResult) Project(rate decimal.Decimal) map[string]decimal.Decimal {
	ids := make([]string, len(r.Standings))
	totals := make([]int, len(r.Standings))
	for i, s := range r.Standings {
		ids[i], totals[i] = s.PlayerID, s.Total
	}
	return pairwise(ids, totals, rate)
}

// Nines splits 9 points per hole among exactly three players by net score:
// 5-3-1 with a clear order, 4-4-1 when two tie for low, 5-2-2 when two tie behind
// the low score, and 3-3-3 when all three tie. Holes not yet finished by all three
// players are skipped.
func Nines(in Input) (*NinesResult, error) {
	r, err := prepare(FormatNines, in, 3, 3)
	if err != nil {
		return nil, err
	}

	standings := make([]NinesStanding, 3)
	for i := range standings {
		standings[i].PlayerID = r.id(i)
	}
	res := &NinesResult{Holes: []NinesHole{}}

	for _, h := range r.holes {
		var nets [3]int
		played := true
		for i := 0; i < 3; i++ {
			net, ok := r.net(i, h.Number)
			if !ok {
				played = false
				break
			}
			nets[i] = net
		}
		if !played {
			continue
		}

		split := ninesSplit(nets)
		hole := NinesHole{HoleNumber: h.Number, Points: make(map[string]int, 3)}
		for i := 0; i < 3; i++ {
			hole.Points[r.id(i)] = split[i]
			if h.Number <= 9 {
				standings[i].Front += split[i]
			} else {
				standings[i].Back += split[i]
			}
			standings[i].Total += split[i]
		}
		res.Holes = append(res.Holes, hole)
	}

	res.Standings = standings
	return res, nil
}

// ninesSplit returns the points for each of three net scores. The result always sums to 9.
func ninesSplit(nets [3]int) [3]int {
	var out [3]int
	for i := 0; i < 3; i++ {
		better, tied := 0, 0
		for j := 0; j < 3; j++ {
			if j == i {
				continue
			}
			switch {
			case nets[j] < nets[i]:
				better++
			case nets[j] == nets[i]:
				tied++
			}
		}
		out[i] = ninesPoints(better, tied)
	}
	return out
}

// ninesPoints is the share for a player with `better` players ahead and `tied`
// players level with them.
func ninesPoints(better, tied int) int {
	switch {
	case tied == 2:
		return 3 // Three-way tie
	case better == 0 && tied == 1:
		return 4 // Tied for low
	case better == 0:
		return 5 // Outright low
	case better == 1 && tied == 1:
		return 2 // Tied behind the low score
	case better == 1:
		return 3 // Clear second
	default:
		return 1 // Last, alone or behind a tie for low
	}
}
