package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/accuracy"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/playevent"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/projection"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
	idgen "github.com/riskibarqy/gridiron-fantasy/internal/platform/id"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/logging"
)

const reportHighlightSize = 5

type resultStatsProvider interface {
	FetchWeekStats(ctx context.Context, season, week int) ([]ExternalPlayerWeekStats, error)
	FetchScoringPlays(ctx context.Context, season, week int) ([]ExternalScoringPlay, error)
}

// ResultService scores what actually happened in a week and appends it next
// to the published projections.
type ResultService struct {
	provider       resultStatsProvider
	playerRepo     player.Repository
	projectionRepo projection.Repository
	rules          scoring.Rules
	idGen          idgen.Generator
	logger         *logging.Logger
	now            func() time.Time
}

type ResultSyncSummary struct {
	Week        int   `json:"week"`
	Year        int   `json:"year"`
	StatLines   int   `json:"stat_lines"`
	Projections int   `json:"projections"`
	Matched     int   `json:"matched"`
	Unmatched   int   `json:"unmatched"`
	Saved       int   `json:"saved"`
	Skipped     int   `json:"skipped"`
	DurationMS  int64 `json:"duration_ms"`
}

type PositionAccuracy struct {
	Position        player.Position `json:"position"`
	Samples         int             `json:"samples"`
	MeanAccuracyPct float64         `json:"mean_accuracy_pct"`
	MeanError       float64         `json:"mean_error"`
}

type WeekAccuracyReport struct {
	Week            int                 `json:"week"`
	Year            int                 `json:"year"`
	Samples         int                 `json:"samples"`
	MeanAccuracyPct float64             `json:"mean_accuracy_pct"`
	Positions       []PositionAccuracy  `json:"positions"`
	Best            []projection.Result `json:"best"`
	Worst           []projection.Result `json:"worst"`
}

func NewResultService(
	provider resultStatsProvider,
	playerRepo player.Repository,
	projectionRepo projection.Repository,
	rules scoring.Rules,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ResultService {
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ResultService{
		provider:       provider,
		playerRepo:     playerRepo,
		projectionRepo: projectionRepo,
		rules:          rules,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

// SyncWeek fetches the week's actual stat lines and scoring plays, scores them
// and appends a result row for every projection with matching actuals.
// Projections without actuals stay unmatched; result rows are never rewritten.
func (s *ResultService) SyncWeek(ctx context.Context, week, year int) (ResultSyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.SyncWeek")
	defer span.End()

	if err := validateWeek(week, year); err != nil {
		return ResultSyncSummary{}, err
	}
	if s.provider == nil {
		return ResultSyncSummary{}, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	started := s.now()

	statLines, err := s.provider.FetchWeekStats(ctx, year, week)
	if err != nil {
		return ResultSyncSummary{}, fmt.Errorf("fetch week stats week=%d year=%d: %w", week, year, err)
	}
	plays, err := s.provider.FetchScoringPlays(ctx, year, week)
	if err != nil {
		return ResultSyncSummary{}, fmt.Errorf("fetch scoring plays week=%d year=%d: %w", week, year, err)
	}

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return ResultSyncSummary{}, fmt.Errorf("list players for identity resolution: %w", err)
	}
	resolver := player.NewResolver(players)

	actuals := s.collectActuals(ctx, statLines, plays, resolver)

	records, err := s.projectionRepo.ListRecords(ctx, week, year)
	if err != nil {
		return ResultSyncSummary{}, fmt.Errorf("list projection records: %w", err)
	}
	saved, err := s.projectionRepo.ListResults(ctx, week, year)
	if err != nil {
		return ResultSyncSummary{}, fmt.Errorf("list existing results: %w", err)
	}
	recorded := make(map[string]struct{}, len(saved))
	for _, result := range saved {
		recorded[projectionKey(result.PlayerID, result.PlayerName)] = struct{}{}
	}

	summary := ResultSyncSummary{
		Week:        week,
		Year:        year,
		StatLines:   len(statLines),
		Projections: len(records),
	}

	results := make([]projection.Result, 0, len(records))
	for _, record := range records {
		key := projectionKey(record.PlayerID, record.PlayerName)
		actual, played := actuals[key]
		if !played {
			summary.Unmatched++
			continue
		}
		summary.Matched++

		if _, exists := recorded[key]; exists {
			summary.Skipped++
			continue
		}
		recorded[key] = struct{}{}

		actualPoints := s.scoreActual(record.Position, actual)
		resultID, err := s.idGen.NewID()
		if err != nil {
			return ResultSyncSummary{}, fmt.Errorf("generate result id: %w", err)
		}
		results = append(results, projection.Result{
			ID:              resultID,
			Week:            week,
			Year:            year,
			PlayerID:        record.PlayerID,
			PlayerName:      record.PlayerName,
			Position:        record.Position,
			ProjectedPoints: record.ProjectedPoints,
			ActualPoints:    actualPoints,
			AccuracyPct:     accuracy.Pct(record.ProjectedPoints, actualPoints),
			CreatedAt:       s.now().UTC(),
		})
	}

	if len(results) > 0 {
		if err := s.projectionRepo.SaveResults(ctx, results); err != nil {
			return ResultSyncSummary{}, fmt.Errorf("save results: %w", err)
		}
	}
	summary.Saved = len(results)
	summary.DurationMS = time.Since(started).Milliseconds()

	s.logger.InfoContext(ctx, "result sync finished",
		"week", week,
		"year", year,
		"matched", summary.Matched,
		"unmatched", summary.Unmatched,
		"saved", summary.Saved,
	)
	return summary, nil
}

// WeekReport aggregates the stored results of a week into per-position mean
// accuracy plus the best and worst projections.
func (s *ResultService) WeekReport(ctx context.Context, week, year int) (WeekAccuracyReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.WeekReport")
	defer span.End()

	if err := validateWeek(week, year); err != nil {
		return WeekAccuracyReport{}, err
	}

	results, err := s.projectionRepo.ListResults(ctx, week, year)
	if err != nil {
		return WeekAccuracyReport{}, fmt.Errorf("list results: %w", err)
	}
	if len(results) == 0 {
		return WeekAccuracyReport{}, fmt.Errorf("%w: no results recorded for week %d year %d", ErrNotFound, week, year)
	}

	report := WeekAccuracyReport{Week: week, Year: year, Samples: len(results)}

	var accSum float64
	accByPos := make(map[player.Position]*PositionAccuracy, len(projectionPositions))
	errByPos := make(map[player.Position]float64, len(projectionPositions))
	for _, result := range results {
		accSum += result.AccuracyPct

		agg, ok := accByPos[result.Position]
		if !ok {
			agg = &PositionAccuracy{Position: result.Position}
			accByPos[result.Position] = agg
		}
		agg.Samples++
		agg.MeanAccuracyPct += result.AccuracyPct
		errByPos[result.Position] += result.ActualPoints - result.ProjectedPoints
	}
	report.MeanAccuracyPct = scoring.Round1(accSum / float64(len(results)))

	for _, pos := range projectionPositions {
		agg, ok := accByPos[pos]
		if !ok {
			continue
		}
		agg.MeanAccuracyPct = scoring.Round1(agg.MeanAccuracyPct / float64(agg.Samples))
		agg.MeanError = scoring.Round1(errByPos[pos] / float64(agg.Samples))
		report.Positions = append(report.Positions, *agg)
	}

	ranked := append([]projection.Result(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AccuracyPct > ranked[j].AccuracyPct
	})
	top := reportHighlightSize
	if top > len(ranked) {
		top = len(ranked)
	}
	report.Best = append(report.Best, ranked[:top]...)
	for i := len(ranked) - 1; i >= len(ranked)-top; i-- {
		report.Worst = append(report.Worst, ranked[i])
	}

	return report, nil
}

type actualPerformance struct {
	stats      scoring.StatLine
	touchdowns []scoring.TouchdownEvent
}

// collectActuals indexes stat lines and per-touchdown events by player key.
// A receiving touchdown credits the passer too, so quarterback lines pick up
// their long-completion bonuses.
func (s *ResultService) collectActuals(ctx context.Context, statLines []ExternalPlayerWeekStats, plays []ExternalScoringPlay, resolver *player.Resolver) map[string]actualPerformance {
	actuals := make(map[string]actualPerformance, len(statLines))

	for _, line := range statLines {
		name := strings.TrimSpace(line.PlayerName)
		if name == "" {
			s.logger.WarnContext(ctx, "skip stat line without a player name", "team_id", line.TeamID)
			continue
		}
		playerID := strings.TrimSpace(line.PlayerID)
		if playerID == "" {
			playerID, _ = resolver.Resolve(name)
		}

		stats := make(scoring.StatLine, len(line.Stats))
		for key, value := range line.Stats {
			stats[key] = value
		}

		key := projectionKey(playerID, name)
		entry := actuals[key]
		entry.stats = stats
		actuals[key] = entry
	}

	appendTouchdown := func(playerID, name string, kind scoring.TouchdownKind, yards float64) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if playerID = strings.TrimSpace(playerID); playerID == "" {
			playerID, _ = resolver.Resolve(name)
		}
		key := projectionKey(playerID, name)
		entry := actuals[key]
		entry.touchdowns = append(entry.touchdowns, scoring.TouchdownEvent{Kind: kind, Yards: yards})
		actuals[key] = entry
	}

	for _, play := range plays {
		switch playevent.Type(strings.TrimSpace(play.PlayType)) {
		case playevent.TypeRushingTouchdown:
			appendTouchdown(play.PlayerID, play.PlayerName, scoring.TouchdownRushing, play.Yards)
		case playevent.TypeReceivingTouchdown:
			appendTouchdown(play.PlayerID, play.PlayerName, scoring.TouchdownReceiving, play.Yards)
			appendTouchdown(play.PasserID, play.PasserName, scoring.TouchdownPassing, play.Yards)
		case playevent.TypeReturnTouchdown:
			appendTouchdown(play.PlayerID, play.PlayerName, scoring.TouchdownReturn, play.Yards)
		}
	}

	return actuals
}

func (s *ResultService) scoreActual(pos player.Position, actual actualPerformance) float64 {
	base := scoring.Score(actual.stats, pos, s.rules)

	var bonus float64
	if class, _ := player.ClassOf(pos); class == player.ClassOffense {
		bonus = scoring.ScoreTouchdowns(actual.touchdowns, s.rules.Offense)
	}
	return scoring.Round1(base + bonus)
}
