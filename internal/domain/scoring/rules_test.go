package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
)

func TestScoreOffenseEndToEnd(t *testing.T) {
	rules := DefaultRules()
	stats := StatLine{
		StatRushingAttempts:     20,
		StatRushingYards:        150,
		StatRushingTouchdowns:   1,
		StatReceptions:          5,
		StatReceivingYards:      50,
		StatReceivingTouchdowns: 0,
		StatFumblesLost:         0,
	}

	// 20*0.2 + 150*0.1 + 6 + 5 + 50*0.1 + rushing 100+ bonus 5 = 40.0
	got := ScoreOffense(stats, player.PositionRunningBack, rules.Offense)
	if got != 40.0 {
		t.Fatalf("ScoreOffense = %v, want 40.0", got)
	}

	// A single 10-yard touchdown earns no length bonus.
	bonus := ScoreTouchdowns([]TouchdownEvent{{Kind: TouchdownRushing, Yards: 10}}, rules.Offense)
	if bonus != 0 {
		t.Fatalf("ScoreTouchdowns = %v, want 0", bonus)
	}
}

func TestScoreOffenseCumulativeRushingBonus(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name  string
		yards float64
		bonus float64
	}{
		{"below tier one", 99, 0},
		{"tier one only", 150, 5},
		{"both tiers stack", 250, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := ScoreOffense(StatLine{StatRushingYards: tt.yards}, player.PositionRunningBack, rules.Offense)
			want := Round1(tt.yards*rules.Offense.RushingYard + tt.bonus)
			if base != want {
				t.Fatalf("ScoreOffense(%v rushing yards) = %v, want %v", tt.yards, base, want)
			}
		})
	}
}

func TestScoreOffensePassingBonusNonCumulative(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name  string
		yards float64
		bonus float64
	}{
		{"below both tiers", 299, 0},
		{"mid tier only", 350, 3},
		{"top tier only", 420, 5},
		{"exact lower boundary", 300, 3},
		{"exact upper boundary", 400, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreOffense(StatLine{StatPassingYards: tt.yards}, player.PositionQuarterback, rules.Offense)
			want := Round1(tt.yards*rules.Offense.PassingYard + tt.bonus)
			if got != want {
				t.Fatalf("ScoreOffense(%v passing yards) = %v, want %v", tt.yards, got, want)
			}
		})
	}
}

func TestScoreOffenseSacksQuarterbackOnly(t *testing.T) {
	rules := DefaultRules()
	stats := StatLine{StatSacks: 4}

	if got := ScoreOffense(stats, player.PositionQuarterback, rules.Offense); got != -4.0 {
		t.Fatalf("quarterback sacks = %v, want -4.0", got)
	}
	if got := ScoreOffense(stats, player.PositionRunningBack, rules.Offense); got != 0.0 {
		t.Fatalf("running back sacks = %v, want 0.0", got)
	}
}

func TestScoreOffenseDoublingCounts(t *testing.T) {
	rules := DefaultRules()
	// Yardage below every bonus tier, so the score is purely linear and
	// doubling each count doubles it exactly.
	stats := StatLine{
		StatCompletions:       10,
		StatPassingYards:      120,
		StatPassingTouchdowns: 1,
		StatRushingYards:      40,
		StatReceptions:        3,
	}
	doubled := make(StatLine, len(stats))
	for k, v := range stats {
		doubled[k] = v * 2
	}

	single := ScoreOffense(stats, player.PositionQuarterback, rules.Offense)
	twice := ScoreOffense(doubled, player.PositionQuarterback, rules.Offense)
	if twice != Round1(single*2) {
		t.Fatalf("doubled counts scored %v, want %v", twice, Round1(single*2))
	}
}

func TestScoreTouchdowns(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name   string
		events []TouchdownEvent
		want   float64
	}{
		{
			name: "per touchdown highest band only",
			events: []TouchdownEvent{
				{Kind: TouchdownRushing, Yards: 45},
				{Kind: TouchdownReceiving, Yards: 55},
			},
			want: 8,
		},
		{
			name:   "length list wins over aggregate counts",
			events: []TouchdownEvent{{Kind: TouchdownRushing, Yards: 45}},
			want:   3,
		},
		{
			name:   "passing touchdowns qualify",
			events: []TouchdownEvent{{Kind: TouchdownPassing, Yards: 60}},
			want:   5,
		},
		{
			name:   "return touchdowns never qualify",
			events: []TouchdownEvent{{Kind: TouchdownReturn, Yards: 98}},
			want:   0,
		},
		{
			name:   "short touchdowns earn nothing",
			events: []TouchdownEvent{{Kind: TouchdownRushing, Yards: 39}},
			want:   0,
		},
		{
			name:   "empty input",
			events: nil,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreTouchdowns(tt.events, rules.Offense); got != tt.want {
				t.Fatalf("ScoreTouchdowns = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreKicker(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name  string
		stats StatLine
		want  float64
	}{
		{
			name: "distance breakdown",
			stats: StatLine{
				StatPointsAfterMade:  2,
				StatFieldGoals30to39: 1,
				StatFieldGoals50Plus: 1,
			},
			want: 10.0,
		},
		{
			name: "flat rate without breakdown",
			stats: StatLine{
				StatPointsAfterMade: 1,
				StatFieldGoalsMade:  2,
			},
			want: 7.4,
		},
		{
			name: "present zero band key still counts as breakdown",
			stats: StatLine{
				StatFieldGoalsMade:  2,
				StatFieldGoals0to19: 0,
			},
			want: 0.0,
		},
		{
			name:  "empty line",
			stats: StatLine{},
			want:  0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreKicker(tt.stats, rules.Kicker); got != tt.want {
				t.Fatalf("ScoreKicker = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreDefense(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name  string
		stats StatLine
		want  float64
	}{
		{
			name: "end to end",
			stats: StatLine{
				StatSacks:         3,
				StatInterceptions: 1,
				StatPointsAllowed: 17,
				StatYardsAllowed:  250,
			},
			// 3 + 2 + points-allowed band 14-20 (+1) + no yards band = 6.0
			want: 6.0,
		},
		{
			name:  "shutout",
			stats: StatLine{StatPointsAllowed: 0, StatYardsAllowed: 80},
			want:  13.0,
		},
		{
			name:  "blowout allowed",
			stats: StatLine{StatPointsAllowed: 42, StatYardsAllowed: 450},
			want:  -4.0,
		},
		{
			name: "missing points and yards use defaults",
			// Default 20 points allowed lands in the 14-20 band, default 300
			// yards falls outside the only yards band.
			stats: StatLine{},
			want:  1.0,
		},
		{
			name: "return production",
			stats: StatLine{
				StatPointsAllowed:    21,
				StatYardsAllowed:     320,
				StatReturnTouchdowns: 1,
				StatReturnYards:      85,
				StatTwoPointReturns:  1,
			},
			want: 16.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreDefense(tt.stats, rules.Defense); got != tt.want {
				t.Fatalf("ScoreDefense = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreDispatch(t *testing.T) {
	rules := DefaultRules()

	kicker := Score(StatLine{StatPointsAfterMade: 3}, player.PositionKicker, rules)
	if kicker != 3.0 {
		t.Fatalf("kicker dispatch = %v, want 3.0", kicker)
	}

	defense := Score(StatLine{StatSacks: 2, StatPointsAllowed: 10, StatYardsAllowed: 280}, player.PositionDefense, rules)
	if defense != 6.0 {
		t.Fatalf("defense dispatch = %v, want 6.0", defense)
	}

	offense := Score(StatLine{StatReceptions: 4, StatReceivingYards: 60}, player.PositionWideReceiver, rules)
	if offense != 10.0 {
		t.Fatalf("offense dispatch = %v, want 10.0", offense)
	}
}

func TestBandTableMatch(t *testing.T) {
	table := BandTable{
		{Lower: 0, Upper: 1, Value: 10},
		{Lower: 1, Upper: 7, Value: 7},
		{Lower: 35, Upper: math.Inf(1), Value: -4},
	}

	tests := []struct {
		in    float64
		value float64
		ok    bool
	}{
		{0, 10, true},
		{0.5, 10, true},
		{1, 7, true},
		{6.9, 7, true},
		{7, 0, false},
		{34.9, 0, false},
		{35, -4, true},
		{1000, -4, true},
	}

	for _, tt := range tests {
		value, ok := table.Match(tt.in)
		if ok != tt.ok || value != tt.value {
			t.Fatalf("Match(%v) = (%v, %v), want (%v, %v)", tt.in, value, ok, tt.value, tt.ok)
		}
	}
}

func TestRulesValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Rules)
	}{
		{
			name: "overlapping bands",
			mutate: func(r *Rules) {
				r.Defense.PointsAllowedBands = BandTable{
					{Lower: 0, Upper: 10, Value: 10},
					{Lower: 5, Upper: 15, Value: 7},
				}
			},
		},
		{
			name: "inverted bounds",
			mutate: func(r *Rules) {
				r.Offense.PassingYardageBonus = BandTable{{Lower: 400, Upper: 300, Value: 3}}
			},
		},
		{
			name: "thresholds not ascending",
			mutate: func(r *Rules) {
				r.Offense.RushingYardageBonus = ThresholdTable{{At: 200, Value: 10}, {At: 100, Value: 5}}
			},
		},
		{
			name: "kicker band count mismatch",
			mutate: func(r *Rules) {
				r.Kicker.DistanceBands = r.Kicker.DistanceBands[:3]
			},
		},
	}

	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules should validate, got %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			tt.mutate(&rules)

			err := rules.Validate()
			if !errors.Is(err, ErrInvalidBandConfiguration) {
				t.Fatalf("expected ErrInvalidBandConfiguration, got %v", err)
			}
		})
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{4.04, 4.0},
		{4.06, 4.1},
		{-2.25, -2.3},
		{39.999999999999996, 40.0},
	}

	for _, tt := range tests {
		if got := Round1(tt.in); got != tt.want {
			t.Fatalf("Round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
