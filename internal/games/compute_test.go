package games

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/trentd187/golf-wagers/internal/golf"
)

func groupOf(n int) []golf.Player {
	players := make([]golf.Player, n)
	for i := range players {
		players[i] = player(string(rune('a'+i)), nil, every(4)...)
	}
	return players
}

func TestComputeDispatchesEveryFormat(t *testing.T) {
	sizes := map[Format]int{
		FormatNassau:    2,
		FormatMatchPlay: 2,
		FormatNines:     3,
		FormatWolf:      3,
		FormatVegas:     4,
	}
	for _, f := range Formats() {
		n, ok := sizes[f]
		if !ok {
			n = 3
		}
		res, err := Compute(f, Input{Players: groupOf(n), Holes: courseHoles(), BetAmount: money("1")})
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if res.Format() != f {
			t.Fatalf("expected format %s, got %s", f, res.Format())
		}
		_, isMoney := res.(MoneyResult)
		_, isPoints := res.(PointsResult)
		if isMoney == isPoints {
			t.Fatalf("%s: expected exactly one of money or points, got money=%v points=%v", f, isMoney, isPoints)
		}
	}
}

func TestComputeUnknownFormat(t *testing.T) {
	res, err := Compute("horse", Input{Players: groupOf(2), Holes: courseHoles()})
	if res != nil {
		t.Fatalf("expected nil result, got %#v", res)
	}
	var invalidErr *InvalidInputError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestComputeReturnsNilResultOnError(t *testing.T) {
	res, err := Compute(FormatSkins, Input{Players: groupOf(2), Holes: courseHoles()[:17]})
	if err == nil {
		t.Fatal("expected an error")
	}
	if res != nil {
		t.Fatalf("expected a nil interface, got %#v", res)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("bingo_bango_bongo")
	if err != nil || f != FormatBingoBangoBongo {
		t.Fatalf("expected bingo_bango_bongo, got %q (%v)", f, err)
	}
	if _, err := ParseFormat("Nassau"); err == nil {
		t.Fatal("expected formats to be case-sensitive")
	}
}

func TestInvalidInput(t *testing.T) {
	base := func() Input {
		return Input{Players: groupOf(2), Holes: courseHoles(), BetAmount: money("1")}
	}
	tests := map[string]func(in *Input){
		"seventeen holes":     func(in *Input) { in.Holes = in.Holes[:17] },
		"duplicate hole":      func(in *Input) { in.Holes[1].Number = 1 },
		"hole out of range":   func(in *Input) { in.Holes[17].Number = 19 },
		"bad par":             func(in *Input) { in.Holes[0].Par = 6 },
		"duplicate rank":      func(in *Input) { in.Holes[1].HandicapRank = 1 },
		"negative bet":        func(in *Input) { in.BetAmount = money("-1") },
		"sub-cent bet":        func(in *Input) { in.BetAmount = money("0.125") },
		"missing player id":   func(in *Input) { in.Players[0].ID = "" },
		"duplicate player":    func(in *Input) { in.Players[1].ID = in.Players[0].ID },
		"missing scores":      func(in *Input) { in.Players[1].Scores = nil },
		"negative strokes":    func(in *Input) { in.Players[0].Scores[0].Strokes = golf.Int(-1) },
		"zero strokes":        func(in *Input) { in.Players[0].Scores[0].Strokes = golf.Int(0) },
		"negative putts":      func(in *Input) { in.Players[0].Scores[0].Putts = golf.Int(-1) },
		"unknown hole score":  func(in *Input) { in.Players[0].Scores[0].HoleNumber = 20 },
		"repeated hole score": func(in *Input) { in.Players[0].Scores[1].HoleNumber = 1 },
		"one player":          func(in *Input) { in.Players = in.Players[:1] },
		"bad rules": func(in *Input) {
			rules := DefaultRules()
			rules.SnakePuttThreshold = 0
			in.Rules = &rules
		},
	}

	for name, mutate := range tests {
		for _, f := range []Format{FormatNassau, FormatSkins} {
			in := base()
			mutate(&in)
			_, err := Compute(f, in)
			var invalidErr *InvalidInputError
			if !errors.As(err, &invalidErr) {
				t.Fatalf("%s/%s: expected InvalidInputError, got %v", name, f, err)
			}
			if invalidErr.Format != f {
				t.Fatalf("%s: expected format %s on the error, got %q", name, f, invalidErr.Format)
			}
		}
	}
}

func TestSnakePenaltyMustBeWholeCents(t *testing.T) {
	penalty := money("2.505")
	_, err := Compute(FormatSnake, Input{
		Players:   groupOf(3),
		Holes:     courseHoles(),
		BetAmount: money("1"),
		Options:   Options{SnakePenalty: &penalty},
	})
	var invalidErr *InvalidInputError
	if !errors.As(err, &invalidErr) || invalidErr.Format != FormatSnake {
		t.Fatalf("expected snake InvalidInputError, got %v", err)
	}
}

func TestEmptyScoresAreNotAnError(t *testing.T) {
	players := []golf.Player{
		{ID: "a", Scores: []golf.HoleScore{}},
		{ID: "b", Scores: []golf.HoleScore{{HoleNumber: 1}}},
	}
	res, err := Nassau(Input{Players: players, Holes: courseHoles(), BetAmount: money("1")})
	if err != nil {
		t.Fatalf("nassau: %v", err)
	}
	if res.Overall.HolesPlayed != 0 || res.Overall.Status != MatchTie {
		t.Fatalf("expected an unplayed tie, got %+v", res.Overall)
	}
}

// randomGroup builds n players with random handicaps and scores; roughly one hole
// in ten is left unplayed.
func randomGroup(rng *rand.Rand, n int) []golf.Player {
	players := make([]golf.Player, n)
	for i := range players {
		p := golf.Player{ID: string(rune('a' + i)), Scores: []golf.HoleScore{}}
		if rng.Intn(4) > 0 {
			p.CourseHandicap = golf.Int(rng.Intn(65) - 10)
		}
		for hole := 1; hole <= 18; hole++ {
			if rng.Intn(10) == 0 {
				continue
			}
			p.Scores = append(p.Scores, golf.HoleScore{
				HoleNumber: hole,
				Strokes:    golf.Int(2 + rng.Intn(9)),
				Putts:      golf.Int(rng.Intn(5)),
			})
		}
		players[i] = p
	}
	return players
}

func randomWolf(rng *rand.Rand, ids []string) []WolfDecision {
	var out []WolfDecision
	for hole := 1; hole <= 18; hole++ {
		wolf := ids[(hole-1)%len(ids)]
		d := WolfDecision{HoleNumber: hole, WolfID: wolf}
		switch rng.Intn(3) {
		case 0:
			d.LoneWolf = true
			d.Blind = rng.Intn(2) == 0
		default:
			for d.PartnerID == "" || d.PartnerID == wolf {
				d.PartnerID = ids[rng.Intn(len(ids))]
			}
		}
		out = append(out, d)
	}
	return out
}

func TestMoneyIsZeroSumForRandomRounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	holes := courseHoles()
	rng.Shuffle(len(holes), func(i, j int) {
		holes[i].HandicapRank, holes[j].HandicapRank = holes[j].HandicapRank, holes[i].HandicapRank
	})

	for iter := 0; iter < 200; iter++ {
		n := 2 + rng.Intn(3)
		players := randomGroup(rng, n)
		ids := make([]string, n)
		for i, p := range players {
			ids[i] = p.ID
		}
		bet := decimal.New(int64(1+rng.Intn(2000)), -2)

		formats := []Format{FormatSkins, FormatStableford, FormatSnake, FormatBanker, FormatBingoBangoBongo}
		switch n {
		case 2:
			formats = append(formats, FormatNassau, FormatMatchPlay)
		case 3:
			formats = append(formats, FormatNines, FormatWolf)
		case 4:
			formats = append(formats, FormatVegas, FormatWolf)
		}

		for _, f := range formats {
			in := Input{Players: players, Holes: holes, BetAmount: bet}
			if f == FormatWolf {
				in.Options.Wolf = randomWolf(rng, ids)
			}
			res, err := Compute(f, in)
			if err != nil {
				t.Fatalf("iteration %d, %s: %v", iter, f, err)
			}
			switch r := res.(type) {
			case MoneyResult:
				assertZeroSum(t, r.Money())
			case PointsResult:
				assertZeroSum(t, r.Project(bet))
			}
			if s, ok := res.(*SkinsResult); ok {
				assertPot(t, s)
			}
			if w, ok := res.(*WolfResult); ok {
				sum := 0
				for _, p := range w.Points() {
					sum += p
				}
				if sum != 0 {
					t.Fatalf("iteration %d: wolf points sum to %d", iter, sum)
				}
			}
		}
	}
}

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if rules != DefaultRules() {
		t.Fatalf("expected default rules, got %+v", rules)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := "vegas_flip_threshold: 9\nstableford:\n  albatross: 8\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	rules, err = LoadRules(path)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if rules.VegasFlipThreshold != 9 || rules.Stableford.Albatross != 8 {
		t.Fatalf("expected overrides to apply, got %+v", rules)
	}
	if rules.Stableford.Par != 2 || rules.WolfLoneMultiplier != 2 {
		t.Fatalf("expected untouched keys to keep defaults, got %+v", rules)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("wolf_point_value: 0\nstableford:\n  birdie: 1\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	_, err = LoadRules(bad)
	if err == nil {
		t.Fatal("expected invalid rules to fail")
	}
	for _, want := range []string{"wolf_point_value", "stableford points"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}

	if _, err := LoadRules(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected a missing file to fail")
	}
}
