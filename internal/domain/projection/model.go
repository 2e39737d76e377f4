package projection

import (
	"fmt"
	"time"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
)

// Record is one published pre-game projection. Records are immutable once
// written: syncing actual results appends Result rows and never rewrites the
// projection.
type Record struct {
	ID              string
	Week            int
	Year            int
	PlayerID        string
	PlayerName      string
	Position        player.Position
	ProjectedPoints float64
	CreatedAt       time.Time
}

func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("projection record id is required")
	}
	if r.Week <= 0 {
		return fmt.Errorf("projection week is required")
	}
	if r.Year <= 0 {
		return fmt.Errorf("projection year is required")
	}
	if r.PlayerName == "" {
		return fmt.Errorf("projection player name is required")
	}
	if _, ok := player.AllPositions[r.Position]; !ok {
		return fmt.Errorf("invalid projection position: %s", r.Position)
	}

	return nil
}

// Result pairs a stored projection with the points the player actually scored
// that week. ProjectedPoints is denormalized from the record so accuracy math
// never needs a join.
type Result struct {
	ID              string
	Week            int
	Year            int
	PlayerID        string
	PlayerName      string
	Position        player.Position
	ProjectedPoints float64
	ActualPoints    float64
	AccuracyPct     float64
	CreatedAt       time.Time
}

func (r Result) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("projection result id is required")
	}
	if r.Week <= 0 {
		return fmt.Errorf("result week is required")
	}
	if r.Year <= 0 {
		return fmt.Errorf("result year is required")
	}
	if r.PlayerName == "" {
		return fmt.Errorf("result player name is required")
	}
	if _, ok := player.AllPositions[r.Position]; !ok {
		return fmt.Errorf("invalid result position: %s", r.Position)
	}

	return nil
}

// StatProjection is a transient projected stat line as fetched from the
// projection feed. PlayerID is filled by identity resolution and stays empty
// for unresolved names, which routes bonus lookups to the league-average path.
// Opponent is the opposing team ID when the schedule is known; defenses use it
// for expected return yardage.
type StatProjection struct {
	PlayerName string
	PlayerID   string
	TeamID     string
	Opponent   string
	Position   player.Position
	Week       int
	Year       int
	Stats      scoring.StatLine
}
