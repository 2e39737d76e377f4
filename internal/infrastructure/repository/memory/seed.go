package memory

import (
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/playevent"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/team"
)

const (
	// SeedYear is the projection year the dev environment works against.
	SeedYear = 2025
	// SeedPatternSeason is the completed season whose plays feed patterns.
	SeedPatternSeason = 2024
)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "KC", Name: "Kansas City Chiefs"},
		{ID: "BUF", Name: "Buffalo Bills"},
		{ID: "CIN", Name: "Cincinnati Bengals"},
		{ID: "SF", Name: "San Francisco 49ers"},
		{ID: "PHI", Name: "Philadelphia Eagles"},
		{ID: "DAL", Name: "Dallas Cowboys"},
		{ID: "BAL", Name: "Baltimore Ravens"},
		{ID: "DET", Name: "Detroit Lions"},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "qb-01", Name: "Patrick Mahomes", TeamID: "KC", Position: player.PositionQuarterback, IsActive: true},
		{ID: "qb-02", Name: "Josh Allen", TeamID: "BUF", Position: player.PositionQuarterback, IsActive: true},
		{ID: "qb-03", Name: "Joe Burrow", TeamID: "CIN", Position: player.PositionQuarterback, IsActive: true},
		{ID: "rb-01", Name: "Christian McCaffrey", TeamID: "SF", Position: player.PositionRunningBack, IsActive: true},
		{ID: "rb-02", Name: "Saquon Barkley", TeamID: "PHI", Position: player.PositionRunningBack, IsActive: true},
		{ID: "rb-03", Name: "Isiah Pacheco", TeamID: "KC", Position: player.PositionRunningBack, IsActive: true},
		{ID: "rb-04", Name: "James Cook", TeamID: "BUF", Position: player.PositionRunningBack, IsActive: true},
		{ID: "wr-01", Name: "Ja'Marr Chase", TeamID: "CIN", Position: player.PositionWideReceiver, IsActive: true},
		{ID: "wr-02", Name: "CeeDee Lamb", TeamID: "DAL", Position: player.PositionWideReceiver, IsActive: true},
		{ID: "wr-03", Name: "Amon-Ra St. Brown", TeamID: "DET", Position: player.PositionWideReceiver, IsActive: true},
		{ID: "wr-04", Name: "Deebo Samuel", TeamID: "SF", Position: player.PositionWideReceiver, IsActive: true},
		{ID: "wr-05", Name: "A.J. Brown", TeamID: "PHI", Position: player.PositionWideReceiver, IsActive: true},
		{ID: "wr-06", Name: "Odell Beckham Jr.", TeamID: "BAL", Position: player.PositionWideReceiver, IsActive: true},
		{ID: "te-01", Name: "Travis Kelce", TeamID: "KC", Position: player.PositionTightEnd, IsActive: true},
		{ID: "te-02", Name: "George Kittle", TeamID: "SF", Position: player.PositionTightEnd, IsActive: true},
		{ID: "te-03", Name: "Sam LaPorta", TeamID: "DET", Position: player.PositionTightEnd, IsActive: true},
		{ID: "k-01", Name: "Harrison Butker", TeamID: "KC", Position: player.PositionKicker, IsActive: true},
		{ID: "k-02", Name: "Justin Tucker", TeamID: "BAL", Position: player.PositionKicker, IsActive: true},
		{ID: "k-03", Name: "Jake Elliott", TeamID: "PHI", Position: player.PositionKicker, IsActive: true},
		{ID: "dst-sf", Name: "San Francisco 49ers", TeamID: "SF", Position: player.PositionDefense, IsActive: true},
		{ID: "dst-bal", Name: "Baltimore Ravens", TeamID: "BAL", Position: player.PositionDefense, IsActive: true},
		{ID: "dst-dal", Name: "Dallas Cowboys", TeamID: "DAL", Position: player.PositionDefense, IsActive: true},
	}
}

// SeedPlayEvents covers the pattern thresholds: Barkley and Chase clear the
// three-touchdown minimum, Butker clears five made field goals, Kelce and
// Tucker stay below and exercise the league-average fallback.
func SeedPlayEvents() []playevent.Event {
	return []playevent.Event{
		{ID: "pe-2024-001", Season: SeedPatternSeason, Week: 1, Type: playevent.TypeRushingTouchdown, ActorID: "rb-02", ActorName: "Saquon Barkley", Yards: 3, Made: true},
		{ID: "pe-2024-002", Season: SeedPatternSeason, Week: 3, Type: playevent.TypeRushingTouchdown, ActorID: "rb-02", ActorName: "Saquon Barkley", Yards: 12, Made: true},
		{ID: "pe-2024-003", Season: SeedPatternSeason, Week: 6, Type: playevent.TypeRushingTouchdown, ActorID: "rb-02", ActorName: "Saquon Barkley", Yards: 45, Made: true},
		{ID: "pe-2024-004", Season: SeedPatternSeason, Week: 11, Type: playevent.TypeRushingTouchdown, ActorID: "rb-02", ActorName: "Saquon Barkley", Yards: 62, Made: true},
		{ID: "pe-2024-005", Season: SeedPatternSeason, Week: 2, Type: playevent.TypeReceivingTouchdown, ActorID: "wr-01", ActorName: "Ja'Marr Chase", Yards: 8, Made: true},
		{ID: "pe-2024-006", Season: SeedPatternSeason, Week: 7, Type: playevent.TypeReceivingTouchdown, ActorID: "wr-01", ActorName: "Ja'Marr Chase", Yards: 55, Made: true},
		{ID: "pe-2024-007", Season: SeedPatternSeason, Week: 13, Type: playevent.TypeReceivingTouchdown, ActorID: "wr-01", ActorName: "Ja'Marr Chase", Yards: 70, Made: true},
		{ID: "pe-2024-008", Season: SeedPatternSeason, Week: 4, Type: playevent.TypeReceivingTouchdown, ActorID: "wr-04", ActorName: "Deebo Samuel", Yards: 15, Made: true},
		{ID: "pe-2024-009", Season: SeedPatternSeason, Week: 9, Type: playevent.TypeReceivingTouchdown, ActorID: "wr-04", ActorName: "Deebo Samuel", Yards: 44, Made: true},
		{ID: "pe-2024-010", Season: SeedPatternSeason, Week: 14, Type: playevent.TypeReturnTouchdown, ActorID: "wr-04", ActorName: "Deebo Samuel", Yards: 98, Made: true},
		{ID: "pe-2024-011", Season: SeedPatternSeason, Week: 5, Type: playevent.TypeReceivingTouchdown, ActorID: "te-01", ActorName: "Travis Kelce", Yards: 11, Made: true},
		{ID: "pe-2024-012", Season: SeedPatternSeason, Week: 12, Type: playevent.TypeReceivingTouchdown, ActorID: "te-01", ActorName: "Travis Kelce", Yards: 27, Made: true},
		{ID: "pe-2024-013", Season: SeedPatternSeason, Week: 1, Type: playevent.TypeFieldGoal, ActorID: "k-01", ActorName: "Harrison Butker", Yards: 21, Made: true},
		{ID: "pe-2024-014", Season: SeedPatternSeason, Week: 2, Type: playevent.TypeFieldGoal, ActorID: "k-01", ActorName: "Harrison Butker", Yards: 33, Made: true},
		{ID: "pe-2024-015", Season: SeedPatternSeason, Week: 5, Type: playevent.TypeFieldGoal, ActorID: "k-01", ActorName: "Harrison Butker", Yards: 38, Made: true},
		{ID: "pe-2024-016", Season: SeedPatternSeason, Week: 8, Type: playevent.TypeFieldGoal, ActorID: "k-01", ActorName: "Harrison Butker", Yards: 45, Made: true},
		{ID: "pe-2024-017", Season: SeedPatternSeason, Week: 10, Type: playevent.TypeFieldGoal, ActorID: "k-01", ActorName: "Harrison Butker", Yards: 52, Made: true},
		{ID: "pe-2024-018", Season: SeedPatternSeason, Week: 15, Type: playevent.TypeFieldGoal, ActorID: "k-01", ActorName: "Harrison Butker", Yards: 19, Made: true},
		{ID: "pe-2024-019", Season: SeedPatternSeason, Week: 16, Type: playevent.TypeFieldGoal, ActorID: "k-01", ActorName: "Harrison Butker", Yards: 49, Made: false},
		{ID: "pe-2024-020", Season: SeedPatternSeason, Week: 3, Type: playevent.TypeFieldGoal, ActorID: "k-02", ActorName: "Justin Tucker", Yards: 28, Made: true},
		{ID: "pe-2024-021", Season: SeedPatternSeason, Week: 6, Type: playevent.TypeFieldGoal, ActorID: "k-02", ActorName: "Justin Tucker", Yards: 41, Made: true},
		{ID: "pe-2024-022", Season: SeedPatternSeason, Week: 9, Type: playevent.TypeFieldGoal, ActorID: "k-02", ActorName: "Justin Tucker", Yards: 54, Made: true},
		{ID: "pe-2024-023", Season: SeedPatternSeason, Week: 13, Type: playevent.TypeFieldGoal, ActorID: "k-02", ActorName: "Justin Tucker", Yards: 36, Made: true},
		{ID: "pe-2024-024", Season: SeedPatternSeason, Week: 7, Type: playevent.TypeRushingTouchdown, ActorID: "", ActorName: "Dareke Young", Yards: 5, Made: true},
	}
}

func SeedTeamReturnStats() []team.ReturnStats {
	return []team.ReturnStats{
		{TeamID: "KC", Season: SeedPatternSeason, ReturnYardsAllowed: 680, Games: 17},
		{TeamID: "BUF", Season: SeedPatternSeason, ReturnYardsAllowed: 740, Games: 17},
		{TeamID: "CIN", Season: SeedPatternSeason, ReturnYardsAllowed: 1020, Games: 17},
		{TeamID: "SF", Season: SeedPatternSeason, ReturnYardsAllowed: 520, Games: 17},
		{TeamID: "PHI", Season: SeedPatternSeason, ReturnYardsAllowed: 890, Games: 17},
		{TeamID: "DAL", Season: SeedPatternSeason, ReturnYardsAllowed: 950, Games: 17},
		{TeamID: "BAL", Season: SeedPatternSeason, ReturnYardsAllowed: 610, Games: 17},
		{TeamID: "DET", Season: SeedPatternSeason, ReturnYardsAllowed: 1105, Games: 17},
	}
}
