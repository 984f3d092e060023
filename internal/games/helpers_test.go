package games

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/trentd187/golf-wagers/internal/golf"
)

// courseHoles returns 18 par-4 holes where hole n is ranked n (hole 1 hardest).
func courseHoles() []golf.Hole {
	holes := make([]golf.Hole, 18)
	for i := range holes {
		holes[i] = golf.Hole{Number: i + 1, Par: 4, HandicapRank: i + 1}
	}
	return holes
}

// player builds a player from gross strokes per hole starting at hole 1.
// A 0 leaves that hole unplayed.
func player(id string, hcp *int, strokes ...int) golf.Player {
	p := golf.Player{ID: id, CourseHandicap: hcp, Scores: []golf.HoleScore{}}
	for i, s := range strokes {
		if s == 0 {
			continue
		}
		p.Scores = append(p.Scores, golf.HoleScore{HoleNumber: i + 1, Strokes: golf.Int(s)})
	}
	return p
}

// every repeats v for all 18 holes.
func every(v int) []int {
	out := make([]int, 18)
	for i := range out {
		out[i] = v
	}
	return out
}

func withPutts(p golf.Player, putts map[int]int) golf.Player {
	for i := range p.Scores {
		if v, ok := putts[p.Scores[i].HoleNumber]; ok {
			p.Scores[i].Putts = golf.Int(v)
		}
	}
	return p
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertZeroSum(t *testing.T, m map[string]decimal.Decimal) {
	t.Helper()
	sum := decimal.Zero
	for _, v := range m {
		sum = sum.Add(v)
	}
	if !sum.IsZero() {
		t.Fatalf("expected money to sum to zero, got %s (%v)", sum, m)
	}
}

func assertMoney(t *testing.T, m map[string]decimal.Decimal, id string, want string) {
	t.Helper()
	got, ok := m[id]
	if !ok {
		t.Fatalf("no money entry for %q", id)
	}
	if !got.Equal(money(want)) {
		t.Fatalf("%s: expected %s, got %s", id, want, got)
	}
}
