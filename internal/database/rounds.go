package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trentd187/golf-wagers/internal/games"
	"github.com/trentd187/golf-wagers/internal/golf"
	"github.com/trentd187/golf-wagers/internal/models"
	"github.com/trentd187/golf-wagers/internal/results"
)

// ErrRoundNotFound is returned when no round has the requested id.
var ErrRoundNotFound = errors.New("round not found")

// Round is a stored round in the shape the results aggregator takes.
type Round struct {
	ID     string
	Status models.RoundStatus
	Input  results.RoundInput
}

// HasPlayer reports whether the user plays in the round.
func (r Round) HasPlayer(userID string) bool {
	for _, p := range r.Input.Players {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// RoundStore reads rounds with their players, scores, holes and games.
type RoundStore struct {
	db *gorm.DB
}

func NewRoundStore(db *gorm.DB) *RoundStore {
	return &RoundStore{db: db}
}

// LoadRound fetches everything needed to compute a round's results.
func (s *RoundStore) LoadRound(ctx context.Context, roundID string) (Round, error) {
	id, err := uuid.Parse(roundID)
	if err != nil {
		return Round{}, ErrRoundNotFound
	}

	var round models.Round
	err = s.db.WithContext(ctx).
		Preload("Tee.Holes").
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Preload("Players.Scores").
		Preload("Games", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		First(&round, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Round{}, ErrRoundNotFound
	}
	if err != nil {
		return Round{}, err
	}

	in, err := ToRoundInput(round)
	if err != nil {
		return Round{}, fmt.Errorf("round %s: %w", roundID, err)
	}
	return Round{ID: round.ID.String(), Status: round.Status, Input: in}, nil
}

// CompleteRound marks the round completed. Completing an already completed round
// keeps the original completion time.
func (s *RoundStore) CompleteRound(ctx context.Context, roundID string, at time.Time) error {
	id, err := uuid.Parse(roundID)
	if err != nil {
		return ErrRoundNotFound
	}
	res := s.db.WithContext(ctx).Model(&models.Round{}).
		Where("id = ? AND status <> ?", id, models.RoundStatusCompleted).
		Updates(map[string]any{"status": models.RoundStatusCompleted, "completed_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Round{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrRoundNotFound
		}
	}
	return nil
}

// ToRoundInput converts a round loaded with its tee holes, players, scores and
// games. Player ids are user ids, so net positions map straight onto settlements.
func ToRoundInput(round models.Round) (results.RoundInput, error) {
	in := results.RoundInput{
		Holes:   make([]golf.Hole, 0, len(round.Tee.Holes)),
		Players: make([]golf.Player, 0, len(round.Players)),
		Games:   make([]results.GameConfig, 0, len(round.Games)),
	}

	for _, h := range round.Tee.Holes {
		in.Holes = append(in.Holes, golf.Hole{Number: h.HoleNumber, Par: h.Par, HandicapRank: h.StrokeIndex})
	}
	sort.Slice(in.Holes, func(i, j int) bool { return in.Holes[i].Number < in.Holes[j].Number })

	for _, rp := range round.Players {
		p := golf.Player{
			ID:             rp.UserID.String(),
			CourseHandicap: rp.CourseHandicap,
			Scores:         make([]golf.HoleScore, 0, len(rp.Scores)),
		}
		for _, sc := range rp.Scores {
			p.Scores = append(p.Scores, golf.HoleScore{HoleNumber: sc.HoleNumber, Strokes: sc.GrossScore, Putts: sc.Putts})
		}
		sort.Slice(p.Scores, func(i, j int) bool { return p.Scores[i].HoleNumber < p.Scores[j].HoleNumber })
		in.Players = append(in.Players, p)
	}

	for _, g := range round.Games {
		format, err := games.ParseFormat(g.Format)
		if err != nil {
			return results.RoundInput{}, err
		}
		cfg := results.GameConfig{Format: format, BetAmount: g.BetAmount}
		if g.PointRate.Valid {
			rate := g.PointRate.Decimal
			cfg.PointRate = &rate
		}
		if opts := strings.TrimSpace(g.Options); opts != "" {
			if err := json.Unmarshal([]byte(opts), &cfg.Options); err != nil {
				return results.RoundInput{}, fmt.Errorf("%s options: %w", format, err)
			}
		}
		in.Games = append(in.Games, cfg)
	}
	return in, nil
}
