package roster

import (
	"fmt"
	"time"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
)

// Roster is the set of players a user owns for one season.
type Roster struct {
	UserID    string
	Year      int
	PlayerIDs []string
	UpdatedAt time.Time
}

func (r Roster) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("roster user id is required")
	}
	if r.Year <= 0 {
		return fmt.Errorf("roster year is required")
	}
	if len(r.PlayerIDs) == 0 {
		return fmt.Errorf("roster players are required")
	}

	seen := make(map[string]struct{}, len(r.PlayerIDs))
	for _, id := range r.PlayerIDs {
		if id == "" {
			return fmt.Errorf("roster player id is required")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate player in roster: %s", id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// SlotName identifies one starting lineup slot.
type SlotName string

const (
	SlotQB   SlotName = "QB"
	SlotRB1  SlotName = "RB1"
	SlotRB2  SlotName = "RB2"
	SlotWR1  SlotName = "WR1"
	SlotWR2  SlotName = "WR2"
	SlotTE   SlotName = "TE"
	SlotFlex SlotName = "FLEX"
	SlotK    SlotName = "K"
	SlotDST  SlotName = "DST"
)

// SlotOrder is the display order of the starting lineup.
var SlotOrder = []SlotName{
	SlotQB, SlotRB1, SlotRB2, SlotWR1, SlotWR2, SlotTE, SlotFlex, SlotK, SlotDST,
}

// Slot is one filled (or empty) lineup position. An empty PlayerID means the
// roster had nobody left for the slot.
type Slot struct {
	Name            SlotName
	PlayerID        string
	PlayerName      string
	Position        player.Position
	ProjectedPoints float64
}

func (s Slot) Filled() bool {
	return s.PlayerID != ""
}

// Lineup is a greedy best-fit starting lineup for one week.
type Lineup struct {
	UserID      string
	Week        int
	Year        int
	Slots       []Slot
	TotalPoints float64
}
