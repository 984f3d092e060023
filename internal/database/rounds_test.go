package database

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trentd187/golf-wagers/internal/games"
	"github.com/trentd187/golf-wagers/internal/models"
	"github.com/trentd187/golf-wagers/internal/results"
	"github.com/trentd187/golf-wagers/internal/settlement"
)

func intPtr(v int) *int { return &v }

// storedRound builds a round the way LoadRound's preloads return it: holes and
// scores in arbitrary order, one hole unplayed by the second player.
func storedRound(t *testing.T, options string) models.Round {
	t.Helper()
	tee := models.Tee{ID: uuid.New()}
	for n := 18; n >= 1; n-- {
		tee.Holes = append(tee.Holes, models.Hole{TeeID: tee.ID, HoleNumber: n, Par: 4, StrokeIndex: n})
	}

	alice := models.RoundPlayer{UserID: uuid.New(), CourseHandicap: intPtr(10)}
	bob := models.RoundPlayer{UserID: uuid.New(), CourseHandicap: intPtr(15)}
	for n := 18; n >= 1; n-- {
		alice.Scores = append(alice.Scores, models.Score{HoleNumber: n, GrossScore: intPtr(3), Putts: intPtr(1)})
		if n != 18 {
			bob.Scores = append(bob.Scores, models.Score{HoleNumber: n, GrossScore: intPtr(4)})
		}
	}
	bob.Scores = append(bob.Scores, models.Score{HoleNumber: 18, Putts: intPtr(2)})

	return models.Round{
		ID:      uuid.New(),
		Tee:     tee,
		Status:  models.RoundStatusActive,
		Players: []models.RoundPlayer{alice, bob},
		Games: []models.RoundGame{
			{Format: "nassau", BetAmount: decimal.NewFromInt(5)},
			{Format: "skins", BetAmount: decimal.NewFromInt(1), Options: options},
			{Format: "bingo_bango_bongo", PointRate: decimal.NewNullDecimal(decimal.RequireFromString("0.5"))},
		},
	}
}

func TestToRoundInput(t *testing.T) {
	round := storedRound(t, `{"skinsNoCarryover": true}`)
	in, err := ToRoundInput(round)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if len(in.Holes) != 18 || in.Holes[0].Number != 1 || in.Holes[17].HandicapRank != 18 {
		t.Fatalf("expected 18 holes in order, got %+v", in.Holes)
	}
	if in.Players[0].ID != round.Players[0].UserID.String() {
		t.Fatalf("expected player ids to be user ids, got %q", in.Players[0].ID)
	}
	if got := in.Players[0].Scores[0]; got.HoleNumber != 1 || *got.Strokes != 3 || *got.Putts != 1 {
		t.Fatalf("unexpected first score: %+v", got)
	}
	if _, played := in.Players[1].Strokes(18); played {
		t.Fatal("a score row without strokes must stay unplayed")
	}

	if len(in.Games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(in.Games))
	}
	if !in.Games[1].Options.SkinsNoCarryover {
		t.Fatal("expected skins options to be decoded")
	}
	if in.Games[0].PointRate != nil || in.Games[2].PointRate == nil || !in.Games[2].PointRate.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("unexpected point rates: %v, %v", in.Games[0].PointRate, in.Games[2].PointRate)
	}

	sum, err := results.Aggregate(in)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if _, ok := sum.Results[games.FormatNassau]; !ok {
		t.Fatal("expected a nassau result")
	}
}

func TestToRoundInputRejectsBadGames(t *testing.T) {
	round := storedRound(t, `{not json`)
	if _, err := ToRoundInput(round); err == nil {
		t.Fatal("expected malformed options to fail")
	}

	round = storedRound(t, "")
	round.Games[0].Format = "horse"
	_, err := ToRoundInput(round)
	var invalidErr *games.InvalidInputError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidInputError for an unknown format, got %v", err)
	}
}

func TestRoundHasPlayer(t *testing.T) {
	in, err := ToRoundInput(storedRound(t, ""))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	r := Round{Input: in}
	if !r.HasPlayer(in.Players[1].ID) || r.HasPlayer(uuid.NewString()) {
		t.Fatal("HasPlayer did not match the round's players")
	}
}

func TestSettlementModelConversion(t *testing.T) {
	paid := time.Date(2026, 5, 2, 18, 0, 0, 0, time.FixedZone("PDT", -7*3600))
	st := settlement.Settlement{
		ID:         uuid.NewString(),
		RoundID:    uuid.NewString(),
		FromUserID: uuid.NewString(),
		ToUserID:   uuid.NewString(),
		Amount:     decimal.RequireFromString("25.00"),
		Status:     settlement.StatusPaid,
		CreatedAt:  paid.Add(-time.Hour).UTC(),
		PaidAt:     &paid,
	}
	row, err := toSettlementModel(st)
	if err != nil {
		t.Fatalf("to model: %v", err)
	}
	back := fromSettlementModel(row)
	if back.ID != st.ID || back.Status != st.Status || !back.Amount.Equal(st.Amount) {
		t.Fatalf("expected %+v, got %+v", st, back)
	}
	if back.PaidAt == nil || !back.PaidAt.Equal(paid) || back.PaidAt.Location() != time.UTC {
		t.Fatalf("expected paidAt normalised to UTC, got %v", back.PaidAt)
	}

	st.FromUserID = "X"
	if _, err := toSettlementModel(st); err == nil {
		t.Fatal("expected a non-uuid user id to fail")
	}
}
