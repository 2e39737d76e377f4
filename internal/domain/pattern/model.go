package pattern

import (
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/playevent"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
)

// Thresholds sets the minimum sample sizes an actor needs before earning a
// distribution of their own. Actors below threshold fall back to the league
// averages.
type Thresholds struct {
	TouchdownMinSamples int
	FieldGoalMinSamples int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		TouchdownMinSamples: 3,
		FieldGoalMinSamples: 5,
	}
}

// League-average band fractions, aligned with the default bonus band tables.
// Roughly 5% of touchdowns go 40-49 yards and 3% go 50 or more; made field
// goals split {0-19: 5%, 20-29: 20%, 30-39: 35%, 40-49: 30%, 50+: 10%}.
var (
	FallbackTouchdownShares = []float64{0.05, 0.03}
	FallbackFieldGoalShares = []float64{0.05, 0.20, 0.35, 0.30, 0.10}
)

// Share is one distance band inside an actor's distribution.
type Share struct {
	Lower    float64
	Upper    float64
	Count    int
	Fraction float64
}

// Distribution is one actor's distance profile. Total counts every qualifying
// play, so band fractions sum to at most 1 even when the bands are not
// exhaustive.
type Distribution struct {
	ActorID  string
	Total    int
	AvgYards float64
	Shares   []Share
}

func (d Distribution) fractions() []float64 {
	out := make([]float64, len(d.Shares))
	for i, s := range d.Shares {
		out[i] = s.Fraction
	}
	return out
}

// Model holds per-actor distance distributions plus the rule set they were
// built against. Read-only after Build and safe to share across scoring calls.
type Model struct {
	Season     int
	Rules      scoring.Rules
	Touchdowns map[string]Distribution
	FieldGoals map[string]Distribution
}

// Build partitions a season of scoring plays into per-actor touchdown-length
// and field-goal-distance distributions. Touchdown denominators count all of
// an actor's touchdowns regardless of type; field-goal denominators count made
// kicks only. Plays without a resolved actor ID are skipped.
func Build(season int, events []playevent.Event, rules scoring.Rules, th Thresholds) *Model {
	tdYards := make(map[string][]float64)
	fgYards := make(map[string][]float64)

	for _, ev := range events {
		if ev.ActorID == "" {
			continue
		}
		switch {
		case ev.Type == playevent.TypeFieldGoal:
			if !ev.Made {
				continue
			}
			fgYards[ev.ActorID] = append(fgYards[ev.ActorID], ev.Yards)
		case ev.Type.Touchdown():
			tdYards[ev.ActorID] = append(tdYards[ev.ActorID], ev.Yards)
		}
	}

	model := &Model{
		Season:     season,
		Rules:      rules,
		Touchdowns: make(map[string]Distribution, len(tdYards)),
		FieldGoals: make(map[string]Distribution, len(fgYards)),
	}

	for actorID, yards := range tdYards {
		if len(yards) < th.TouchdownMinSamples {
			continue
		}
		model.Touchdowns[actorID] = distribute(actorID, yards, rules.Offense.TouchdownLengthBonus)
	}
	for actorID, yards := range fgYards {
		if len(yards) < th.FieldGoalMinSamples {
			continue
		}
		model.FieldGoals[actorID] = distribute(actorID, yards, rules.Kicker.DistanceBands)
	}

	return model
}

func distribute(actorID string, yards []float64, bands scoring.BandTable) Distribution {
	shares := make([]Share, len(bands))
	for i, b := range bands {
		shares[i] = Share{Lower: b.Lower, Upper: b.Upper}
	}

	var sum float64
	for _, y := range yards {
		sum += y
		for i, b := range bands {
			if b.Contains(y) {
				shares[i].Count++
				break
			}
		}
	}

	total := len(yards)
	for i := range shares {
		shares[i].Fraction = float64(shares[i].Count) / float64(total)
	}

	return Distribution{
		ActorID:  actorID,
		Total:    total,
		AvgYards: sum / float64(total),
		Shares:   shares,
	}
}

// ExpectedTouchdownBonus converts a projected touchdown count into expected
// length-bonus points: projected count times band fraction times band value,
// summed. Unknown or below-threshold actors use the league-average shares.
// Never fails.
func (m *Model) ExpectedTouchdownBonus(actorID string, projectedTDs float64) float64 {
	fractions := FallbackTouchdownShares
	if d, ok := m.Touchdowns[actorID]; ok {
		fractions = d.fractions()
	}

	var points float64
	for i, b := range m.Rules.Offense.TouchdownLengthBonus {
		if i >= len(fractions) {
			break
		}
		points += projectedTDs * fractions[i] * b.Value
	}

	return scoring.Round1(points)
}

// ExpectedFieldGoalPoints converts projected field-goal and point-after counts
// into expected kicker points using the kicker's distance distribution, or the
// league-average shares for unknown kickers. Never fails.
func (m *Model) ExpectedFieldGoalPoints(kickerID string, projectedFGs, projectedPATs float64) float64 {
	points := projectedPATs * m.Rules.Kicker.PointAfter

	fractions := FallbackFieldGoalShares
	if d, ok := m.FieldGoals[kickerID]; ok {
		fractions = d.fractions()
	}
	for i, b := range m.Rules.Kicker.DistanceBands {
		if i >= len(fractions) {
			break
		}
		points += projectedFGs * fractions[i] * b.Value
	}

	return scoring.Round1(points)
}
