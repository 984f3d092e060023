// Package games computes who owes whom for the side games a group plays during a round.
//
// Every format is a pure function of the round data (players, holes, scores), the bet
// amount and a few format-specific options. Nothing here touches a database or a
// clock, so the calculators are safe to call concurrently and as often as scores change.
//
// Callers that don't care which format they are running go through Compute, which
// dispatches on Format and returns the Result interface. Callers that do care can
// call the typed function (Nassau, Skins, ...) and get the concrete result struct.
package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Format identifies a wagering format. Like the enums in the models package it is a
// named string so the value stored in the database is human-readable.
type Format string

const (
	FormatNassau          Format = "nassau"            // Front 9, back 9 and overall 18 as three matches
	FormatSkins           Format = "skins"             // Each hole is a skin; ties carry over
	FormatMatchPlay       Format = "match_play"        // Holes won minus holes lost, paid per hole
	FormatWolf            Format = "wolf"              // Rotating wolf picks a partner or goes alone
	FormatNines           Format = "nines"             // Three players split 9 points per hole
	FormatStableford      Format = "stableford"        // Points per hole from net score vs par
	FormatBingoBangoBongo Format = "bingo_bango_bongo" // First on, closest once on, first in
	FormatVegas           Format = "vegas"             // Two teams of two combine scores into a number
	FormatSnake           Format = "snake"             // Last player to three-putt pays the field
	FormatBanker          Format = "banker"            // Rotating banker plays everyone else 1v1
)

// Formats lists every supported format in a stable order.
func Formats() []Format {
	return []Format{
		FormatNassau,
		FormatSkins,
		FormatMatchPlay,
		FormatWolf,
		FormatNines,
		FormatStableford,
		FormatBingoBangoBongo,
		FormatVegas,
		FormatSnake,
		FormatBanker,
	}
}

// ParseFormat converts a stored or user-supplied string into a Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", &InvalidInputError{Reason: fmt.Sprintf("unknown game format %q", s)}
}

// Result is the output of any calculator.
type Result interface {
	Format() Format
}

// MoneyResult is implemented by formats that settle directly in money.
// The returned amounts always sum to zero across the group.
type MoneyResult interface {
	Result
	Money() map[string]decimal.Decimal
}

// PointsResult is implemented by formats that score points. Project converts
// points to money at the given per-point rate; the projection is zero-sum.
type PointsResult interface {
	Result
	Points() map[string]int
	Project(rate decimal.Decimal) map[string]decimal.Decimal
}

// Standing is one player's line in a money-settled result.
type Standing struct {
	PlayerID string          `json:"playerId"`
	Points   int             `json:"points,omitempty"` // Format-specific count (skins won, Stableford points, ...)
	Money    decimal.Decimal `json:"money"`
}

// PointsStanding is one player's line in a points-scored result.
type PointsStanding struct {
	PlayerID string `json:"playerId"`
	Points   int    `json:"points"`
}

// Compute runs the calculator for the given format.
func Compute(format Format, in Input) (Result, error) {
	switch format {
	case FormatNassau:
		return wrap(Nassau(in))
	case FormatSkins:
		return wrap(Skins(in))
	case FormatMatchPlay:
		return wrap(MatchPlay(in))
	case FormatWolf:
		return wrap(Wolf(in))
	case FormatNines:
		return wrap(Nines(in))
	case FormatStableford:
		return wrap(Stableford(in))
	case FormatBingoBangoBongo:
		return wrap(BingoBangoBongo(in))
	case FormatVegas:
		return wrap(Vegas(in))
	case FormatSnake:
		return wrap(Snake(in))
	case FormatBanker:
		return wrap(Banker(in))
	default:
		return nil, &InvalidInputError{Format: format, Reason: "unknown game format"}
	}
}

// wrap keeps a typed nil pointer from leaking out of Compute as a non-nil interface.
func wrap[T Result](r T, err error) (Result, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}

func standingsMoney(standings []Standing) map[string]decimal.Decimal {
	money := make(map[string]decimal.Decimal, len(standings))
	for _, s := range standings {
		money[s.PlayerID] = s.Money
	}
	return money
}

func standingsPoints(standings []PointsStanding) map[string]int {
	points := make(map[string]int, len(standings))
	for _, s := range standings {
		points[s.PlayerID] = s.Points
	}
	return points
}
