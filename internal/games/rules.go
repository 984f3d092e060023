package games

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules holds the tunable constants of the formats. Groups disagree on some of
// these (how punitive Vegas is, what a lone wolf is worth), so they live in a YAML
// file instead of in code. DefaultRules is used when no file is configured.
type Rules struct {
	Stableford          StablefordTable `yaml:"stableford"`
	VegasFlipThreshold  int             `yaml:"vegas_flip_threshold"`  // Gross score at which a team's digits flip
	WolfPointValue      int             `yaml:"wolf_point_value"`      // Points each loser pays each winner on a partnered hole
	WolfLoneMultiplier  int             `yaml:"wolf_lone_multiplier"`  // Multiplier when the wolf goes alone
	WolfBlindMultiplier int             `yaml:"wolf_blind_multiplier"` // Multiplier when the wolf goes alone before anyone tees off
	SnakePuttThreshold  int             `yaml:"snake_putt_threshold"`  // Putts on a hole that hand a player the snake
}

// StablefordTable maps net score relative to par to points.
type StablefordTable struct {
	DoubleBogeyOrWorse int `yaml:"double_bogey_or_worse"`
	Bogey              int `yaml:"bogey"`
	Par                int `yaml:"par"`
	Birdie             int `yaml:"birdie"`
	Eagle              int `yaml:"eagle"`
	Albatross          int `yaml:"albatross"` // Also used for anything better than albatross
}

// Points returns the Stableford points for a net score that is diff strokes over par.
func (t StablefordTable) Points(diff int) int {
	switch {
	case diff >= 2:
		return t.DoubleBogeyOrWorse
	case diff == 1:
		return t.Bogey
	case diff == 0:
		return t.Par
	case diff == -1:
		return t.Birdie
	case diff == -2:
		return t.Eagle
	default:
		return t.Albatross
	}
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		Stableford: StablefordTable{
			DoubleBogeyOrWorse: 0,
			Bogey:              1,
			Par:                2,
			Birdie:             3,
			Eagle:              4,
			Albatross:          5,
		},
		VegasFlipThreshold:  10,
		WolfPointValue:      1,
		WolfLoneMultiplier:  2,
		WolfBlindMultiplier: 3,
		SnakePuttThreshold:  3,
	}
}

// LoadRules reads a YAML rule file on top of DefaultRules, so the file only needs
// the keys it wants to change. An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate checks the semantic constraints of a rule set and reports every
// problem it finds at once.
func (r Rules) Validate() error {
	var errs []string

	if r.VegasFlipThreshold < 1 {
		errs = append(errs, "vegas_flip_threshold must be >= 1")
	}
	if r.WolfPointValue < 1 {
		errs = append(errs, "wolf_point_value must be >= 1")
	}
	if r.WolfLoneMultiplier < 1 {
		errs = append(errs, "wolf_lone_multiplier must be >= 1")
	}
	if r.WolfBlindMultiplier < r.WolfLoneMultiplier {
		errs = append(errs, "wolf_blind_multiplier must be >= wolf_lone_multiplier")
	}
	if r.SnakePuttThreshold < 1 {
		errs = append(errs, "snake_putt_threshold must be >= 1")
	}

	t := r.Stableford
	if t.DoubleBogeyOrWorse < 0 {
		errs = append(errs, "stableford.double_bogey_or_worse must be >= 0")
	}
	ladder := []int{t.DoubleBogeyOrWorse, t.Bogey, t.Par, t.Birdie, t.Eagle, t.Albatross}
	for i := 1; i < len(ladder); i++ {
		if ladder[i] < ladder[i-1] {
			errs = append(errs, "stableford points must not decrease as scores improve")
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid rules: %s", strings.Join(errs, "; "))
	}
	return nil
}
