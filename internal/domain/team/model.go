package team

import "fmt"

// DefaultLeagueAvgReturnYards is the league-wide average return yards allowed
// per game, used when a team has no recorded return stats.
const DefaultLeagueAvgReturnYards = 62.5

// Team is an NFL franchise. ID is the standard abbreviation (CIN, KC, ...).
type Team struct {
	ID   string
	Name string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// ReturnStats tracks kick and punt return yards a team allowed over a season.
// Opposing defenses earn one fantasy point per ten yards returned against this
// team.
type ReturnStats struct {
	TeamID             string
	Season             int
	ReturnYardsAllowed float64
	Games              int
}

func (r ReturnStats) Validate() error {
	if r.TeamID == "" {
		return fmt.Errorf("return stats team id is required")
	}
	if r.Season <= 0 {
		return fmt.Errorf("return stats season is required")
	}
	if r.ReturnYardsAllowed < 0 {
		return fmt.Errorf("return yards allowed must not be negative")
	}
	if r.Games < 0 {
		return fmt.Errorf("games must not be negative")
	}

	return nil
}

// PerGame averages the allowed return yards over games played, falling back
// to the league average when no games are recorded.
func (r ReturnStats) PerGame() float64 {
	if r.Games <= 0 {
		return DefaultLeagueAvgReturnYards
	}
	return r.ReturnYardsAllowed / float64(r.Games)
}
