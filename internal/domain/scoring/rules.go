package scoring

import (
	"fmt"
	"math"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
)

// OffenseRules holds linear event rates and yardage bonus tiers for the
// QB/RB/WR/TE position class.
type OffenseRules struct {
	Completion         float64
	PassingYard        float64
	PassingTouchdown   float64
	Interception       float64
	SackTaken          float64
	RushingAttempt     float64
	RushingYard        float64
	RushingTouchdown   float64
	Reception          float64
	ReceivingYard      float64
	ReceivingTouchdown float64
	ReturnYard         float64
	ReturnTouchdown    float64
	FumbleLost         float64
	FumbleRecoveryTD   float64
	TwoPointConversion float64

	// PassingYardageBonus tiers are mutually exclusive: one band matches at
	// most. Rushing and receiving tiers stack once their thresholds are met.
	PassingYardageBonus   BandTable
	RushingYardageBonus   ThresholdTable
	ReceivingYardageBonus ThresholdTable

	// TouchdownLengthBonus applies per individual touchdown, highest matching
	// band only. Return touchdowns earn no length bonus.
	TouchdownLengthBonus BandTable
}

// KickerRules holds the point-after rate and field-goal distance tiers. The
// flat rate applies when a stat line carries only an aggregate made count.
type KickerRules struct {
	PointAfter    float64
	DistanceBands BandTable
	FlatFieldGoal float64
}

// DefenseRules holds linear event rates plus the points-allowed and
// yards-allowed tier tables for team defense and special teams.
type DefenseRules struct {
	Sack               float64
	Interception       float64
	FumbleRecovery     float64
	FumbleForced       float64
	Safety             float64
	DefensiveTouchdown float64
	BlockedKick        float64
	ReturnTouchdown    float64
	ReturnYard         float64
	TwoPointReturn     float64

	PointsAllowedBands BandTable
	YardsAllowedBands  BandTable

	// Defaults substitute for absent points/yards allowed so missing data
	// never lands in the richest band.
	DefaultPointsAllowed float64
	DefaultYardsAllowed  float64
}

// Rules is the full scoring rule set. It is a plain value: construct once,
// validate, and pass by value into every scorer call.
type Rules struct {
	Offense OffenseRules
	Kicker  KickerRules
	Defense DefenseRules
}

func DefaultRules() Rules {
	return Rules{
		Offense: OffenseRules{
			Completion:         1,
			PassingYard:        1.0 / 25,
			PassingTouchdown:   4,
			Interception:       -2,
			SackTaken:          -1,
			RushingAttempt:     0.2,
			RushingYard:        0.1,
			RushingTouchdown:   6,
			Reception:          1,
			ReceivingYard:      0.1,
			ReceivingTouchdown: 6,
			ReturnYard:         0.1,
			ReturnTouchdown:    5,
			FumbleLost:         -2,
			FumbleRecoveryTD:   6,
			TwoPointConversion: 2,
			PassingYardageBonus: BandTable{
				{Lower: 300, Upper: 400, Value: 3},
				{Lower: 400, Upper: math.Inf(1), Value: 5},
			},
			RushingYardageBonus: ThresholdTable{
				{At: 100, Value: 5},
				{At: 200, Value: 10},
			},
			ReceivingYardageBonus: ThresholdTable{
				{At: 100, Value: 5},
				{At: 200, Value: 10},
			},
			TouchdownLengthBonus: BandTable{
				{Lower: 40, Upper: 50, Value: 3},
				{Lower: 50, Upper: math.Inf(1), Value: 5},
			},
		},
		Kicker: KickerRules{
			PointAfter: 1,
			DistanceBands: BandTable{
				{Lower: 0, Upper: 20, Value: 3},
				{Lower: 20, Upper: 30, Value: 3},
				{Lower: 30, Upper: 40, Value: 3},
				{Lower: 40, Upper: 50, Value: 3},
				{Lower: 50, Upper: math.Inf(1), Value: 5},
			},
			FlatFieldGoal: 3.2,
		},
		Defense: DefenseRules{
			Sack:               1,
			Interception:       2,
			FumbleRecovery:     2,
			FumbleForced:       1,
			Safety:             2,
			DefensiveTouchdown: 6,
			BlockedKick:        2,
			ReturnTouchdown:    6,
			ReturnYard:         0.1,
			TwoPointReturn:     2,
			PointsAllowedBands: BandTable{
				{Lower: 0, Upper: 1, Value: 10},
				{Lower: 1, Upper: 7, Value: 7},
				{Lower: 7, Upper: 14, Value: 4},
				{Lower: 14, Upper: 21, Value: 1},
				{Lower: 21, Upper: 28, Value: 0},
				{Lower: 28, Upper: 35, Value: -1},
				{Lower: 35, Upper: math.Inf(1), Value: -4},
			},
			YardsAllowedBands: BandTable{
				{Lower: 0, Upper: 100, Value: 3},
			},
			DefaultPointsAllowed: 20,
			DefaultYardsAllowed:  300,
		},
	}
}

// Validate rejects malformed tier tables. Scorers assume a validated rule set;
// callers must fail fast at load time rather than score with bad bands.
func (r Rules) Validate() error {
	if err := r.Offense.PassingYardageBonus.Validate(); err != nil {
		return fmt.Errorf("passing yardage bonus: %w", err)
	}
	if err := r.Offense.RushingYardageBonus.Validate(); err != nil {
		return fmt.Errorf("rushing yardage bonus: %w", err)
	}
	if err := r.Offense.ReceivingYardageBonus.Validate(); err != nil {
		return fmt.Errorf("receiving yardage bonus: %w", err)
	}
	if err := r.Offense.TouchdownLengthBonus.Validate(); err != nil {
		return fmt.Errorf("touchdown length bonus: %w", err)
	}
	if err := r.Kicker.DistanceBands.Validate(); err != nil {
		return fmt.Errorf("kicker distance bands: %w", err)
	}
	if len(r.Kicker.DistanceBands) != len(FieldGoalBandStats) {
		return fmt.Errorf("%w: kicker distance bands must pair with the %d band stat keys",
			ErrInvalidBandConfiguration, len(FieldGoalBandStats))
	}
	if err := r.Defense.PointsAllowedBands.Validate(); err != nil {
		return fmt.Errorf("points allowed bands: %w", err)
	}
	if err := r.Defense.YardsAllowedBands.Validate(); err != nil {
		return fmt.Errorf("yards allowed bands: %w", err)
	}

	return nil
}

// Round1 rounds to one decimal place. Every published point total in the
// system goes through this.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Score computes the fantasy point total for one stat line. Positions outside
// the kicker and defense classes score with the offense formula, which also
// covers rare skill positions. Scorers are deterministic and total: absent
// stats contribute zero.
func Score(stats StatLine, pos player.Position, rules Rules) float64 {
	switch pos {
	case player.PositionKicker:
		return ScoreKicker(stats, rules.Kicker)
	case player.PositionDefense:
		return ScoreDefense(stats, rules.Defense)
	default:
		return ScoreOffense(stats, pos, rules.Offense)
	}
}

func ScoreOffense(stats StatLine, pos player.Position, rules OffenseRules) float64 {
	points := stats[StatCompletions]*rules.Completion +
		stats[StatPassingYards]*rules.PassingYard +
		stats[StatPassingTouchdowns]*rules.PassingTouchdown +
		stats[StatInterceptions]*rules.Interception +
		stats[StatRushingAttempts]*rules.RushingAttempt +
		stats[StatRushingYards]*rules.RushingYard +
		stats[StatRushingTouchdowns]*rules.RushingTouchdown +
		stats[StatReceptions]*rules.Reception +
		stats[StatReceivingYards]*rules.ReceivingYard +
		stats[StatReceivingTouchdowns]*rules.ReceivingTouchdown +
		stats[StatReturnYards]*rules.ReturnYard +
		stats[StatReturnTouchdowns]*rules.ReturnTouchdown +
		stats[StatFumblesLost]*rules.FumbleLost +
		stats[StatFumbleRecoveryTDs]*rules.FumbleRecoveryTD +
		stats[StatTwoPointConversions]*rules.TwoPointConversion

	// Sacks count against quarterbacks only.
	if pos == player.PositionQuarterback {
		points += stats[StatSacks] * rules.SackTaken
	}

	if bonus, ok := rules.PassingYardageBonus.Match(stats[StatPassingYards]); ok {
		points += bonus
	}
	points += rules.RushingYardageBonus.Bonus(stats[StatRushingYards])
	points += rules.ReceivingYardageBonus.Bonus(stats[StatReceivingYards])

	return Round1(points)
}

func ScoreKicker(stats StatLine, rules KickerRules) float64 {
	points := stats[StatPointsAfterMade] * rules.PointAfter

	if kickerStatsBanded(stats) {
		for i, key := range FieldGoalBandStats {
			points += stats[key] * rules.DistanceBands[i].Value
		}
	} else {
		points += stats[StatFieldGoalsMade] * rules.FlatFieldGoal
	}

	return Round1(points)
}

// kickerStatsBanded reports whether the line carries a field-goal distance
// breakdown. A present-but-zero band key still counts as a breakdown.
func kickerStatsBanded(stats StatLine) bool {
	for _, key := range FieldGoalBandStats {
		if _, ok := stats[key]; ok {
			return true
		}
	}
	return false
}

func ScoreDefense(stats StatLine, rules DefenseRules) float64 {
	points := stats[StatSacks]*rules.Sack +
		stats[StatInterceptions]*rules.Interception +
		stats[StatFumbleRecoveries]*rules.FumbleRecovery +
		stats[StatFumblesForced]*rules.FumbleForced +
		stats[StatSafeties]*rules.Safety +
		stats[StatDefensiveTouchdowns]*rules.DefensiveTouchdown +
		stats[StatBlockedKicks]*rules.BlockedKick +
		stats[StatReturnTouchdowns]*rules.ReturnTouchdown +
		stats[StatReturnYards]*rules.ReturnYard +
		stats[StatTwoPointReturns]*rules.TwoPointReturn

	pointsAllowed := rules.DefaultPointsAllowed
	if v, ok := stats[StatPointsAllowed]; ok {
		pointsAllowed = v
	}
	if bonus, ok := rules.PointsAllowedBands.Match(pointsAllowed); ok {
		points += bonus
	}

	yardsAllowed := rules.DefaultYardsAllowed
	if v, ok := stats[StatYardsAllowed]; ok {
		yardsAllowed = v
	}
	if bonus, ok := rules.YardsAllowedBands.Match(yardsAllowed); ok {
		points += bonus
	}

	return Round1(points)
}

// ScoreTouchdowns awards the per-touchdown length bonus over individual
// observed touchdowns: highest matching band only, once per touchdown. Return
// touchdowns never qualify.
func ScoreTouchdowns(events []TouchdownEvent, rules OffenseRules) float64 {
	var points float64
	for _, ev := range events {
		if ev.Kind == TouchdownReturn {
			continue
		}
		if bonus, ok := rules.TouchdownLengthBonus.Match(ev.Yards); ok {
			points += bonus
		}
	}

	return Round1(points)
}
