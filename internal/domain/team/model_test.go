package team

import "testing"

func TestReturnStatsPerGame(t *testing.T) {
	stats := ReturnStats{TeamID: "CIN", Season: 2025, ReturnYardsAllowed: 680, Games: 10}
	if got := stats.PerGame(); got != 68.0 {
		t.Fatalf("PerGame = %v, want 68.0", got)
	}

	// No games recorded falls back to the league average.
	empty := ReturnStats{TeamID: "KC", Season: 2025}
	if got := empty.PerGame(); got != DefaultLeagueAvgReturnYards {
		t.Fatalf("PerGame = %v, want %v", got, DefaultLeagueAvgReturnYards)
	}
}

func TestReturnStatsValidate(t *testing.T) {
	valid := ReturnStats{TeamID: "CIN", Season: 2025, ReturnYardsAllowed: 680, Games: 10}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid stats, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ReturnStats)
	}{
		{"missing team", func(r *ReturnStats) { r.TeamID = "" }},
		{"missing season", func(r *ReturnStats) { r.Season = 0 }},
		{"negative yards", func(r *ReturnStats) { r.ReturnYardsAllowed = -1 }},
		{"negative games", func(r *ReturnStats) { r.Games = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := valid
			tt.mutate(&stats)
			if err := stats.Validate(); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
