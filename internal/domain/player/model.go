package player

import (
	"fmt"
	"strings"
)

// Position represents the fantasy-relevant NFL position groups.
type Position string

const (
	PositionQuarterback  Position = "QB"
	PositionRunningBack  Position = "RB"
	PositionWideReceiver Position = "WR"
	PositionTightEnd     Position = "TE"
	PositionKicker       Position = "K"
	PositionDefense      Position = "DST"
)

var AllPositions = map[Position]struct{}{
	PositionQuarterback:  {},
	PositionRunningBack:  {},
	PositionWideReceiver: {},
	PositionTightEnd:     {},
	PositionKicker:       {},
	PositionDefense:      {},
}

// FlexEligible lists positions allowed in the FLEX lineup slot.
var FlexEligible = map[Position]struct{}{
	PositionRunningBack:  {},
	PositionWideReceiver: {},
	PositionTightEnd:     {},
}

// Class groups positions by the scoring formula they use.
type Class string

const (
	ClassOffense Class = "offense"
	ClassKicker  Class = "kicker"
	ClassDefense Class = "defense"
)

func ClassOf(pos Position) (Class, bool) {
	switch pos {
	case PositionQuarterback, PositionRunningBack, PositionWideReceiver, PositionTightEnd:
		return ClassOffense, true
	case PositionKicker:
		return ClassKicker, true
	case PositionDefense:
		return ClassDefense, true
	default:
		return "", false
	}
}

func NormalizePosition(raw string) (Position, bool) {
	candidate := Position(strings.ToUpper(strings.TrimSpace(raw)))
	switch candidate {
	case "D/ST", "DEF", "D":
		candidate = PositionDefense
	case "PK":
		candidate = PositionKicker
	}
	_, ok := AllPositions[candidate]
	return candidate, ok
}

// Player is a scoreable NFL athlete or team defense unit.
type Player struct {
	ID       string
	Name     string
	TeamID   string
	Position Position
	IsActive bool
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}

	return nil
}
