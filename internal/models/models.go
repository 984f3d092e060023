// Package models defines the structs that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go values.
// The struct field tags (the backtick strings like `gorm:"..."`) tell GORM how to handle
// each field: its column type, constraints, default values, and relationships.
//
// The data model covers one casual round and the money riding on it:
//   - Users play Rounds at a Course from a set of Tees
//   - Each RoundPlayer records one Score per hole
//   - RoundGames list the side games (Nassau, Skins, Wolf, ...) the group agreed to play
//   - Settlements record who owes whom once the round is completed
//
// The schema itself lives in migrations/; these structs must stay in step with it.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Enums ---
// Named string types plus constants: type-safe in Go, human-readable in the database.
// Each one matches a postgres ENUM type created by the initial migration.

// UserRole represents a user's global permission level across the entire platform.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"   // Full access: manage users, rounds, everything
	UserRoleManager UserRole = "manager" // Can set up and complete rounds
	UserRoleUser    UserRole = "user"    // Regular player: plays rounds and settles up
)

// RoundStatus tracks the lifecycle of a round.
// Scores may change while a round is active; completing it freezes the results and
// seeds the settlements.
type RoundStatus string

const (
	RoundStatusScheduled RoundStatus = "scheduled"
	RoundStatusActive    RoundStatus = "active"
	RoundStatusCompleted RoundStatus = "completed"
)

// TeeGender indicates which gender a set of tees is rated for.
type TeeGender string

const (
	TeeGenderMens   TeeGender = "mens"
	TeeGenderWomens TeeGender = "womens"
	TeeGenderUnisex TeeGender = "unisex"
)

// --- Models ---

// User represents a registered person in the system.
// Users are created automatically the first time a Clerk-authenticated user hits the API.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClerkID     *string   `gorm:"uniqueIndex:idx_users_clerk_id"` // Clerk's user ID (e.g. "user_2abc123")
	DisplayName string    `gorm:"not null"`
	Email       string    `gorm:"uniqueIndex;not null"`
	AvatarURL   *string
	Role        UserRole `gorm:"type:user_role;not null;default:'user'"` // Synced from the JWT "role" claim
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Course is a golf course; its holes hang off each Tee.
type Course struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	City      string    `gorm:"not null;default:''"`
	State     string    `gorm:"not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Tees      []Tee `gorm:"foreignKey:CourseID"`
}

// Tee is one set of tee boxes on a course (e.g. "Blue", "White").
// Par and hole rankings can differ between tee sets, so holes belong to the tee.
type Tee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseID     uuid.UUID `gorm:"type:uuid;not null"`
	Course       Course    `gorm:"foreignKey:CourseID"`
	Name         string    `gorm:"not null"`
	Gender       TeeGender `gorm:"type:tee_gender;not null"`
	CourseRating float64   `gorm:"type:decimal(4,1);not null"`
	SlopeRating  int       `gorm:"not null"`
	Par          int       `gorm:"not null"`
	Holes        []Hole    `gorm:"foreignKey:TeeID"`
}

// Hole stores per-hole details for a specific set of tees.
// StrokeIndex is the handicap ranking: 1 = hardest hole, gets the first handicap stroke.
type Hole struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeeID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tee_hole"`
	HoleNumber  int       `gorm:"not null;uniqueIndex:idx_tee_hole"`
	Par         int       `gorm:"not null"`
	StrokeIndex int       `gorm:"not null"`
	Yardage     *int
}

// Round is one outing by a group of players on a course.
type Round struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseID      uuid.UUID     `gorm:"type:uuid;not null"`
	Course        Course        `gorm:"foreignKey:CourseID"`
	TeeID         uuid.UUID     `gorm:"type:uuid;not null"` // Tee set whose holes the games are computed on
	Tee           Tee           `gorm:"foreignKey:TeeID"`
	ScheduledDate time.Time     `gorm:"not null"`
	Status        RoundStatus   `gorm:"type:round_status;not null;default:'scheduled'"`
	CreatedBy     uuid.UUID     `gorm:"type:uuid;not null"`
	CompletedAt   *time.Time    // Set once, when the round is completed
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Players       []RoundPlayer `gorm:"foreignKey:RoundID"`
	Games         []RoundGame   `gorm:"foreignKey:RoundID"`
}

// RoundPlayer links a User to a Round and carries the handicap they play off.
type RoundPlayer struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoundID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_round_user"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_round_user"`
	User           User      `gorm:"foreignKey:UserID"`
	HandicapIndex  *float64  `gorm:"type:decimal(4,1)"` // WHS index at the time of the round
	CourseHandicap *int      // Strokes received on this course and tee; nil plays at gross
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Scores         []Score `gorm:"foreignKey:RoundPlayerID"`
}

// Score is what a player recorded on one hole.
// GrossScore is nullable: a row can exist for a hole (e.g. putts entered first)
// before the strokes are in, and an unplayed hole is never treated as zero.
type Score struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoundPlayerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_round_player_hole"`
	HoleNumber    int       `gorm:"not null;uniqueIndex:idx_round_player_hole"`
	GrossScore    *int
	Putts         *int
	EnteredBy     uuid.UUID `gorm:"type:uuid;not null"`
	EnteredAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// RoundGame is one side game configured for a round.
// Options holds the format-specific extras (wolf decisions, vegas teams, ...) as JSON
// in the same shape the compute endpoint accepts.
type RoundGame struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoundID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_round_format"`
	Format    string              `gorm:"type:game_format;not null;uniqueIndex:idx_round_format"`
	BetAmount decimal.Decimal     `gorm:"type:numeric(10,2);not null;default:0"`
	PointRate decimal.NullDecimal `gorm:"type:numeric(10,2)"` // Money per point for points formats; NULL = report points only
	Options   string              `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Settlement is one payer→payee obligation created when a round completes.
// Rows are never deleted; Status only moves forward.
type Settlement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RoundID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_settlement_pair"`
	FromUserID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_settlement_pair"`
	ToUserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_settlement_pair"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Status      string          `gorm:"type:settlement_status;not null;default:'PENDING'"`
	CreatedAt   time.Time
	PaidAt      *time.Time
	ConfirmedAt *time.Time
	DisputedAt  *time.Time
}
