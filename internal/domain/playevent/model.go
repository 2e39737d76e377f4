package playevent

import "fmt"

// Type classifies a scoring play pulled from play-by-play data.
type Type string

const (
	TypeRushingTouchdown   Type = "rushing_td"
	TypeReceivingTouchdown Type = "receiving_td"
	TypeReturnTouchdown    Type = "return_td"
	TypeFieldGoal          Type = "field_goal"
)

var AllTypes = map[Type]struct{}{
	TypeRushingTouchdown:   {},
	TypeReceivingTouchdown: {},
	TypeReturnTouchdown:    {},
	TypeFieldGoal:          {},
}

func (t Type) Touchdown() bool {
	switch t {
	case TypeRushingTouchdown, TypeReceivingTouchdown, TypeReturnTouchdown:
		return true
	default:
		return false
	}
}

// Event is one scoring play from a historical season. ActorID carries the
// canonical player ID resolved at ingestion; it stays empty when the raw name
// could not be resolved, which keeps the play out of per-actor distributions.
// Made is meaningful for field goals only and is always true for touchdowns.
type Event struct {
	ID        string
	Season    int
	Week      int
	Type      Type
	ActorID   string
	ActorName string
	Yards     float64
	Made      bool
}

func (e Event) Validate() error {
	if e.Season <= 0 {
		return fmt.Errorf("play event season is required")
	}
	if e.Week <= 0 {
		return fmt.Errorf("play event week is required")
	}
	if _, ok := AllTypes[e.Type]; !ok {
		return fmt.Errorf("invalid play event type: %s", e.Type)
	}
	if e.ActorName == "" {
		return fmt.Errorf("play event actor name is required")
	}
	if e.Yards < 0 {
		return fmt.Errorf("play event yards must not be negative")
	}

	return nil
}
