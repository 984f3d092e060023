package golf

import "sort"

// AllocateStrokes decides how many handicap strokes a player receives on each hole.
// The result maps hole number -> strokes (negative for "plus" handicaps).
//
// Every hole gets floor(|handicap| / holes) strokes. The remaining |handicap| mod holes
// strokes go one each to the hardest holes (lowest HandicapRank, ties by lower hole
// number). A plus handicap gives strokes back instead, starting from the easiest holes
// (highest HandicapRank, ties by higher hole number).
//
// A nil handicap means the player plays at gross: every hole maps to 0.
func AllocateStrokes(courseHandicap *int, holes []Hole) map[int]int {
	alloc := make(map[int]int, len(holes))
	for _, h := range holes {
		alloc[h.Number] = 0
	}
	if courseHandicap == nil || len(holes) == 0 {
		return alloc
	}

	hcp := *courseHandicap
	sign := 1
	if hcp < 0 {
		sign = -1
		hcp = -hcp
	}

	base := hcp / len(holes)
	extra := hcp % len(holes)

	ordered := make([]Hole, len(holes))
	copy(ordered, holes)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.HandicapRank != b.HandicapRank {
			if sign > 0 {
				return a.HandicapRank < b.HandicapRank
			}
			return a.HandicapRank > b.HandicapRank
		}
		if sign > 0 {
			return a.Number < b.Number
		}
		return a.Number > b.Number
	})

	for i, h := range ordered {
		strokes := base
		if i < extra {
			strokes++
		}
		alloc[h.Number] = strokes * sign
	}
	return alloc
}

// NetStrokes returns a player's net score on a hole (gross minus allocated strokes)
// and whether the hole has been played.
func NetStrokes(p Player, holeNumber int, alloc map[int]int) (int, bool) {
	gross, ok := p.Strokes(holeNumber)
	if !ok {
		return 0, false
	}
	return gross - alloc[holeNumber], true
}
