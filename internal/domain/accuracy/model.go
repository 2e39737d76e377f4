package accuracy

import (
	"math"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
)

// Sample is one historical (projected, actual) pair for a position.
type Sample struct {
	Position  player.Position
	Projected float64
	Actual    float64
}

// ConfidenceInterval widens a point projection into a display range. The
// bands are advisory and never alter the point estimate.
type ConfidenceInterval struct {
	OneSigma     float64
	TwoSigma     float64
	MeanAbsError float64
	Samples      int
}

// Intervals summarizes projection error per position. OneSigma is the
// population standard deviation of (actual - projected), TwoSigma is exactly
// double the published OneSigma, MeanAbsError the mean absolute miss.
// Positions without samples are omitted rather than fabricated.
func Intervals(samples []Sample) map[player.Position]ConfidenceInterval {
	errorsByPos := make(map[player.Position][]float64)
	for _, s := range samples {
		errorsByPos[s.Position] = append(errorsByPos[s.Position], s.Actual-s.Projected)
	}

	out := make(map[player.Position]ConfidenceInterval, len(errorsByPos))
	for pos, errs := range errorsByPos {
		n := float64(len(errs))

		var mean float64
		for _, e := range errs {
			mean += e
		}
		mean /= n

		var variance, absSum float64
		for _, e := range errs {
			variance += (e - mean) * (e - mean)
			absSum += math.Abs(e)
		}
		variance /= n

		oneSigma := scoring.Round1(math.Sqrt(variance))
		out[pos] = ConfidenceInterval{
			OneSigma:     oneSigma,
			TwoSigma:     oneSigma * 2,
			MeanAbsError: scoring.Round1(absSum / n),
			Samples:      len(errs),
		}
	}

	return out
}

// Pct scores how close a projection landed, as a percentage. The projection
// floor of 1 keeps tiny projections from exploding the ratio; big misses go
// negative on purpose so the worst-projection report can sort on them.
func Pct(projected, actual float64) float64 {
	return scoring.Round1((1 - math.Abs(actual-projected)/math.Max(projected, 1)) * 100)
}
