package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/accuracy"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/projection"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
)

type accuracyResultsReader interface {
	ListResultsByYear(ctx context.Context, year int) ([]projection.Result, error)
}

// AccuracyService summarizes how the published projections performed over a
// season.
type AccuracyService struct {
	resultsRepo accuracyResultsReader
}

type PositionInterval struct {
	Position     player.Position `json:"position"`
	OneSigma     float64         `json:"one_sigma"`
	TwoSigma     float64         `json:"two_sigma"`
	MeanAbsError float64         `json:"mean_abs_error"`
	Samples      int             `json:"samples"`
}

type WeekAccuracySummary struct {
	Week            int     `json:"week"`
	Samples         int     `json:"samples"`
	MeanAccuracyPct float64 `json:"mean_accuracy_pct"`
}

type SeasonAccuracyReport struct {
	Year            int                   `json:"year"`
	Samples         int                   `json:"samples"`
	MeanAccuracyPct float64               `json:"mean_accuracy_pct"`
	Weeks           []WeekAccuracySummary `json:"weeks"`
	Intervals       []PositionInterval    `json:"intervals"`
}

func NewAccuracyService(resultsRepo accuracyResultsReader) *AccuracyService {
	return &AccuracyService{resultsRepo: resultsRepo}
}

// ConfidenceIntervals computes per-position error bands from every result
// stored for a year. Positions without results are absent from the map.
func (s *AccuracyService) ConfidenceIntervals(ctx context.Context, year int) (map[player.Position]accuracy.ConfidenceInterval, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccuracyService.ConfidenceIntervals")
	defer span.End()

	results, err := s.resultsForYear(ctx, year)
	if err != nil {
		return nil, err
	}

	samples := make([]accuracy.Sample, 0, len(results))
	for _, result := range results {
		samples = append(samples, accuracy.Sample{
			Position:  result.Position,
			Projected: result.ProjectedPoints,
			Actual:    result.ActualPoints,
		})
	}
	return accuracy.Intervals(samples), nil
}

// SeasonReport aggregates a year of results into weekly accuracy means and
// per-position confidence intervals.
func (s *AccuracyService) SeasonReport(ctx context.Context, year int) (SeasonAccuracyReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccuracyService.SeasonReport")
	defer span.End()

	results, err := s.resultsForYear(ctx, year)
	if err != nil {
		return SeasonAccuracyReport{}, err
	}
	if len(results) == 0 {
		return SeasonAccuracyReport{}, fmt.Errorf("%w: no results recorded for year %d", ErrNotFound, year)
	}

	report := SeasonAccuracyReport{Year: year, Samples: len(results)}

	var accSum float64
	weekSamples := make(map[int]int)
	weekAccSum := make(map[int]float64)
	samples := make([]accuracy.Sample, 0, len(results))
	for _, result := range results {
		accSum += result.AccuracyPct
		weekSamples[result.Week]++
		weekAccSum[result.Week] += result.AccuracyPct
		samples = append(samples, accuracy.Sample{
			Position:  result.Position,
			Projected: result.ProjectedPoints,
			Actual:    result.ActualPoints,
		})
	}
	report.MeanAccuracyPct = scoring.Round1(accSum / float64(len(results)))

	weeks := make([]int, 0, len(weekSamples))
	for week := range weekSamples {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)
	for _, week := range weeks {
		report.Weeks = append(report.Weeks, WeekAccuracySummary{
			Week:            week,
			Samples:         weekSamples[week],
			MeanAccuracyPct: scoring.Round1(weekAccSum[week] / float64(weekSamples[week])),
		})
	}

	intervals := accuracy.Intervals(samples)
	for _, pos := range projectionPositions {
		interval, ok := intervals[pos]
		if !ok {
			continue
		}
		report.Intervals = append(report.Intervals, PositionInterval{
			Position:     pos,
			OneSigma:     interval.OneSigma,
			TwoSigma:     interval.TwoSigma,
			MeanAbsError: interval.MeanAbsError,
			Samples:      interval.Samples,
		})
	}

	return report, nil
}

func (s *AccuracyService) resultsForYear(ctx context.Context, year int) ([]projection.Result, error) {
	if year <= 0 {
		return nil, fmt.Errorf("%w: year is required", ErrInvalidInput)
	}

	results, err := s.resultsRepo.ListResultsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list results for year %d: %w", year, err)
	}
	return results, nil
}
