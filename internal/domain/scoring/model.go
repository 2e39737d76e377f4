package scoring

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidBandConfiguration = errors.New("invalid band configuration")

// StatLine maps stat keys to per-game counts for one player or defensive unit.
// Missing keys read as zero and unknown keys are ignored, so scorers stay total
// over sparse inputs.
type StatLine map[string]float64

// Stat keys shared by stat providers, projection feeds and the scorers. The
// sacks and interceptions keys are read per position class: a QB line counts
// sacks taken and picks thrown, a defense line counts sacks made and picks
// caught.
const (
	StatCompletions         = "completions"
	StatPassingYards        = "passing_yards"
	StatPassingTouchdowns   = "passing_tds"
	StatInterceptions       = "interceptions"
	StatSacks               = "sacks"
	StatRushingAttempts     = "rushing_attempts"
	StatRushingYards        = "rushing_yards"
	StatRushingTouchdowns   = "rushing_tds"
	StatReceptions          = "receptions"
	StatReceivingYards      = "receiving_yards"
	StatReceivingTouchdowns = "receiving_tds"
	StatReturnYards         = "return_yards"
	StatReturnTouchdowns    = "return_tds"
	StatFumblesLost         = "fumbles_lost"
	StatFumbleRecoveryTDs   = "fumble_recovered_tds"
	StatTwoPointConversions = "two_point_conversions"

	StatPointsAfterMade  = "pats_made"
	StatFieldGoalsMade   = "field_goals_made"
	StatFieldGoals0to19  = "fg_made_0_19"
	StatFieldGoals20to29 = "fg_made_20_29"
	StatFieldGoals30to39 = "fg_made_30_39"
	StatFieldGoals40to49 = "fg_made_40_49"
	StatFieldGoals50Plus = "fg_made_50_plus"

	StatFumbleRecoveries    = "fumble_recoveries"
	StatFumblesForced       = "fumbles_forced"
	StatSafeties            = "safeties"
	StatDefensiveTouchdowns = "defensive_tds"
	StatBlockedKicks        = "blocked_kicks"
	StatTwoPointReturns     = "two_point_returns"
	StatPointsAllowed       = "points_allowed"
	StatYardsAllowed        = "yards_allowed"
)

// FieldGoalBandStats lists the per-band made-kick stat keys in the same order
// as KickerRules.DistanceBands.
var FieldGoalBandStats = []string{
	StatFieldGoals0to19,
	StatFieldGoals20to29,
	StatFieldGoals30to39,
	StatFieldGoals40to49,
	StatFieldGoals50Plus,
}

// Band is one value tier over a half-open range: Lower inclusive, Upper
// exclusive. Open-ended tiers use math.Inf(1) as Upper.
type Band struct {
	Lower float64
	Upper float64
	Value float64
}

func (b Band) Contains(v float64) bool {
	return v >= b.Lower && v < b.Upper
}

// BandTable is an ordered list of non-overlapping bands scanned
// first-match-wins. Tables may be non-exhaustive; values outside every band
// earn nothing.
type BandTable []Band

func (t BandTable) Match(v float64) (float64, bool) {
	for _, b := range t {
		if b.Contains(v) {
			return b.Value, true
		}
	}
	return 0, false
}

func (t BandTable) Validate() error {
	for i, b := range t {
		if math.IsNaN(b.Lower) || math.IsNaN(b.Upper) {
			return fmt.Errorf("%w: band %d has NaN bound", ErrInvalidBandConfiguration, i)
		}
		if b.Lower >= b.Upper {
			return fmt.Errorf("%w: band %d bounds inverted [%g, %g)", ErrInvalidBandConfiguration, i, b.Lower, b.Upper)
		}
		if i > 0 && b.Lower < t[i-1].Upper {
			return fmt.Errorf("%w: band %d overlaps previous [%g, %g)", ErrInvalidBandConfiguration, i, b.Lower, b.Upper)
		}
	}

	return nil
}

// Threshold awards Value once a metric reaches At. Unlike bands, thresholds
// stack: every threshold at or below the metric applies.
type Threshold struct {
	At    float64
	Value float64
}

type ThresholdTable []Threshold

func (t ThresholdTable) Bonus(v float64) float64 {
	var total float64
	for _, th := range t {
		if v >= th.At {
			total += th.Value
		}
	}
	return total
}

func (t ThresholdTable) Validate() error {
	for i, th := range t {
		if math.IsNaN(th.At) {
			return fmt.Errorf("%w: threshold %d has NaN bound", ErrInvalidBandConfiguration, i)
		}
		if i > 0 && th.At <= t[i-1].At {
			return fmt.Errorf("%w: threshold %d not ascending (%g after %g)", ErrInvalidBandConfiguration, i, th.At, t[i-1].At)
		}
	}

	return nil
}

// TouchdownKind tags an individual touchdown with how it was scored.
type TouchdownKind string

const (
	TouchdownPassing   TouchdownKind = "passing"
	TouchdownRushing   TouchdownKind = "rushing"
	TouchdownReceiving TouchdownKind = "receiving"
	TouchdownReturn    TouchdownKind = "return"
)

// TouchdownEvent is one observed touchdown with its length in yards. The
// length-bonus scorer consumes these individually; aggregate touchdown counts
// in a StatLine never feed the length bonus.
type TouchdownEvent struct {
	Kind  TouchdownKind
	Yards float64
}
