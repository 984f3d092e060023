// Package golf holds the plain round data every wager calculation starts from:
// the holes of a course, the players in a group, and the strokes and putts they
// recorded on each hole.
//
// These types are deliberately free of database or HTTP concerns. The database
// package converts stored rows into them, and the games package consumes them.
package golf

// Hole describes one hole of the course as played from a specific tee.
// HandicapRank is the hole's stroke index: 1 is the hardest hole and receives
// the first handicap stroke, 18 is the easiest.
type Hole struct {
	Number       int `json:"holeNumber"`   // 1–18
	Par          int `json:"par"`          // 3, 4 or 5
	HandicapRank int `json:"handicapRank"` // 1–18, unique within a course
}

// HoleScore is what a player recorded on one hole.
// Both fields are pointers because "not played yet" (nil) is different from any number.
type HoleScore struct {
	HoleNumber int  `json:"holeNumber"`
	Strokes    *int `json:"strokes"` // Gross strokes; nil = hole not yet played
	Putts      *int `json:"putts"`   // Putts on the green; nil = not recorded
}

// Player is one participant in the group.
// CourseHandicap is nil when the player has no established handicap; such a
// player simply plays at gross.
type Player struct {
	ID             string      `json:"id"`
	CourseHandicap *int        `json:"courseHandicap"`
	Scores         []HoleScore `json:"scores"`
}

// Score returns the player's recorded score for a hole, if one exists.
func (p Player) Score(holeNumber int) (HoleScore, bool) {
	for _, s := range p.Scores {
		if s.HoleNumber == holeNumber {
			return s, true
		}
	}
	return HoleScore{}, false
}

// Strokes returns the gross strokes on a hole and whether the hole has been played.
func (p Player) Strokes(holeNumber int) (int, bool) {
	s, ok := p.Score(holeNumber)
	if !ok || s.Strokes == nil {
		return 0, false
	}
	return *s.Strokes, true
}

// Putts returns the putts on a hole and whether they were recorded.
func (p Player) Putts(holeNumber int) (int, bool) {
	s, ok := p.Score(holeNumber)
	if !ok || s.Putts == nil {
		return 0, false
	}
	return *s.Putts, true
}

// Int returns a pointer to v. Handy for building scores and handicaps in literals.
func Int(v int) *int {
	return &v
}
