package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/projection"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/team"
	idgen "github.com/riskibarqy/gridiron-fantasy/internal/platform/id"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/logging"
)

const (
	firstSeasonWeek = 1
	lastSeasonWeek  = 18

	projectionFeedWorkers = 4
)

// ProjectionFeedProvider fetches projected stat lines for one position and
// week from the projection source.
type ProjectionFeedProvider interface {
	FetchWeekProjections(ctx context.Context, week, year int, pos player.Position) ([]ExternalPlayerProjection, error)
}

// ExternalPlayerProjection is a raw feed row before identity resolution.
type ExternalPlayerProjection struct {
	PlayerID   string
	PlayerName string
	TeamID     string
	Opponent   string
	Position   string
	Stats      map[string]float64
}

type patternBonusProvider interface {
	ExpectedTouchdownBonus(ctx context.Context, season int, actorID string, projectedTDs float64) (float64, error)
	ExpectedFieldGoalPoints(ctx context.Context, season int, kickerID string, projectedFGs, projectedPATs float64) (float64, error)
}

var projectionPositions = []player.Position{
	player.PositionQuarterback,
	player.PositionRunningBack,
	player.PositionWideReceiver,
	player.PositionTightEnd,
	player.PositionKicker,
	player.PositionDefense,
}

// ProjectionService turns feed stat lines into published projection records.
// Pattern bonuses and opponent return stats come from the prior season, the
// last one with complete play data.
type ProjectionService struct {
	feed           ProjectionFeedProvider
	playerRepo     player.Repository
	teamRepo       team.Repository
	projectionRepo projection.Repository
	patterns       patternBonusProvider
	rules          scoring.Rules
	idGen          idgen.Generator
	logger         *logging.Logger
	now            func() time.Time
}

type ProjectionRefreshSummary struct {
	Week       int   `json:"week"`
	Year       int   `json:"year"`
	Fetched    int   `json:"fetched"`
	Resolved   int   `json:"resolved"`
	Unresolved int   `json:"unresolved"`
	Saved      int   `json:"saved"`
	Skipped    int   `json:"skipped"`
	DurationMS int64 `json:"duration_ms"`
}

func NewProjectionService(
	feed ProjectionFeedProvider,
	playerRepo player.Repository,
	teamRepo team.Repository,
	projectionRepo projection.Repository,
	patterns patternBonusProvider,
	rules scoring.Rules,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ProjectionService {
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ProjectionService{
		feed:           feed,
		playerRepo:     playerRepo,
		teamRepo:       teamRepo,
		projectionRepo: projectionRepo,
		patterns:       patterns,
		rules:          rules,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

// RefreshWeek fetches the feed for every position, resolves identities,
// adjusts each line with pattern bonuses and publishes the records. Player
// weeks that already hold a record are skipped, never rewritten.
func (s *ProjectionService) RefreshWeek(ctx context.Context, week, year int) (ProjectionRefreshSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.RefreshWeek")
	defer span.End()

	if err := validateWeek(week, year); err != nil {
		return ProjectionRefreshSummary{}, err
	}
	if s.feed == nil {
		return ProjectionRefreshSummary{}, fmt.Errorf("%w: projection feed is not configured", ErrDependencyUnavailable)
	}

	started := s.now()

	fetchPool := pool.NewWithResults[[]ExternalPlayerProjection]().
		WithContext(ctx).
		WithMaxGoroutines(projectionFeedWorkers)
	for _, pos := range projectionPositions {
		pos := pos
		fetchPool.Go(func(ctx context.Context) ([]ExternalPlayerProjection, error) {
			items, err := s.feed.FetchWeekProjections(ctx, week, year, pos)
			if err != nil {
				return nil, fmt.Errorf("fetch %s projections week=%d year=%d: %w", pos, week, year, err)
			}
			return items, nil
		})
	}
	batches, err := fetchPool.Wait()
	if err != nil {
		return ProjectionRefreshSummary{}, err
	}

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return ProjectionRefreshSummary{}, fmt.Errorf("list players for identity resolution: %w", err)
	}
	resolver := player.NewResolver(players)

	summary := ProjectionRefreshSummary{Week: week, Year: year}
	items := make([]projection.StatProjection, 0, 256)
	for _, batch := range batches {
		for _, raw := range batch {
			summary.Fetched++

			item, ok := s.toStatProjection(ctx, raw, week, year, resolver)
			if !ok {
				summary.Skipped++
				continue
			}
			if item.PlayerID == "" {
				summary.Unresolved++
			} else {
				summary.Resolved++
			}
			items = append(items, item)
		}
	}

	existing, err := s.projectionRepo.ListRecords(ctx, week, year)
	if err != nil {
		return ProjectionRefreshSummary{}, fmt.Errorf("list existing projection records: %w", err)
	}
	recorded := make(map[string]struct{}, len(existing))
	for _, record := range existing {
		recorded[projectionKey(record.PlayerID, record.PlayerName)] = struct{}{}
	}

	records := make([]projection.Record, 0, len(items))
	for _, item := range items {
		key := projectionKey(item.PlayerID, item.PlayerName)
		if _, exists := recorded[key]; exists {
			summary.Skipped++
			continue
		}
		recorded[key] = struct{}{}

		points, err := s.Adjust(ctx, item)
		if err != nil {
			return ProjectionRefreshSummary{}, err
		}

		recordID, err := s.idGen.NewID()
		if err != nil {
			return ProjectionRefreshSummary{}, fmt.Errorf("generate projection record id: %w", err)
		}
		records = append(records, projection.Record{
			ID:              recordID,
			Week:            week,
			Year:            year,
			PlayerID:        item.PlayerID,
			PlayerName:      item.PlayerName,
			Position:        item.Position,
			ProjectedPoints: points,
			CreatedAt:       s.now().UTC(),
		})
	}

	if len(records) > 0 {
		if err := s.projectionRepo.SaveRecords(ctx, records); err != nil {
			return ProjectionRefreshSummary{}, fmt.Errorf("save projection records: %w", err)
		}
	}
	summary.Saved = len(records)
	summary.DurationMS = time.Since(started).Milliseconds()

	s.logger.InfoContext(ctx, "projection refresh finished",
		"week", week,
		"year", year,
		"fetched", summary.Fetched,
		"saved", summary.Saved,
		"unresolved", summary.Unresolved,
		"duration_ms", summary.DurationMS,
	)
	return summary, nil
}

// ListWeek returns the published records for a week, optionally filtered by
// position, highest projection first.
func (s *ProjectionService) ListWeek(ctx context.Context, week, year int, rawPosition string) ([]projection.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.ListWeek")
	defer span.End()

	if err := validateWeek(week, year); err != nil {
		return nil, err
	}

	var filter player.Position
	if raw := strings.TrimSpace(rawPosition); raw != "" {
		pos, ok := player.NormalizePosition(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, raw)
		}
		filter = pos
	}

	records, err := s.projectionRepo.ListRecords(ctx, week, year)
	if err != nil {
		return nil, fmt.Errorf("list projection records: %w", err)
	}

	filtered := make([]projection.Record, 0, len(records))
	for _, record := range records {
		if filter != "" && record.Position != filter {
			continue
		}
		filtered = append(filtered, record)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].ProjectedPoints != filtered[j].ProjectedPoints {
			return filtered[i].ProjectedPoints > filtered[j].ProjectedPoints
		}
		return filtered[i].PlayerName < filtered[j].PlayerName
	})
	return filtered, nil
}

// Adjust computes the published projection for one stat line: base points from
// the rules, plus the expected touchdown length bonus for offense, the
// pattern-weighted kick points for kickers, or the expected opponent return
// yardage points for defenses.
func (s *ProjectionService) Adjust(ctx context.Context, item projection.StatProjection) (float64, error) {
	class, ok := player.ClassOf(item.Position)
	if !ok {
		return 0, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, item.Position)
	}

	patternSeason := item.Year - 1
	base := scoring.Score(item.Stats, item.Position, s.rules)

	switch class {
	case player.ClassKicker:
		// The aggregate feed line carries no distance split, so the flat
		// per-kick value is replaced with the kicker's distance pattern.
		points, err := s.patterns.ExpectedFieldGoalPoints(ctx, patternSeason, item.PlayerID,
			item.Stats[scoring.StatFieldGoalsMade], item.Stats[scoring.StatPointsAfterMade])
		if err != nil {
			return 0, err
		}
		return points, nil

	case player.ClassDefense:
		perGame, err := s.opponentReturnYardsPerGame(ctx, item.Opponent, patternSeason)
		if err != nil {
			return 0, err
		}
		return scoring.Round1(base + perGame/10), nil

	default:
		projectedTDs := item.Stats[scoring.StatPassingTouchdowns] +
			item.Stats[scoring.StatRushingTouchdowns] +
			item.Stats[scoring.StatReceivingTouchdowns]
		bonus, err := s.patterns.ExpectedTouchdownBonus(ctx, patternSeason, item.PlayerID, projectedTDs)
		if err != nil {
			return 0, err
		}
		return scoring.Round1(base + bonus), nil
	}
}

func (s *ProjectionService) toStatProjection(ctx context.Context, raw ExternalPlayerProjection, week, year int, resolver *player.Resolver) (projection.StatProjection, bool) {
	name := strings.TrimSpace(raw.PlayerName)
	if name == "" {
		s.logger.WarnContext(ctx, "skip projection row without a player name", "team_id", raw.TeamID)
		return projection.StatProjection{}, false
	}
	pos, ok := player.NormalizePosition(raw.Position)
	if !ok {
		s.logger.WarnContext(ctx, "skip projection row with unknown position", "player_name", name, "position", raw.Position)
		return projection.StatProjection{}, false
	}

	playerID := strings.TrimSpace(raw.PlayerID)
	if playerID == "" {
		playerID, _ = resolver.Resolve(name)
	}

	stats := make(scoring.StatLine, len(raw.Stats))
	for key, value := range raw.Stats {
		stats[key] = value
	}

	return projection.StatProjection{
		PlayerName: name,
		PlayerID:   playerID,
		TeamID:     strings.TrimSpace(raw.TeamID),
		Opponent:   strings.TrimSpace(raw.Opponent),
		Position:   pos,
		Week:       week,
		Year:       year,
		Stats:      stats,
	}, true
}

func (s *ProjectionService) opponentReturnYardsPerGame(ctx context.Context, opponentID string, season int) (float64, error) {
	if opponentID == "" {
		return team.DefaultLeagueAvgReturnYards, nil
	}

	stats, exists, err := s.teamRepo.GetReturnStats(ctx, opponentID, season)
	if err != nil {
		return 0, fmt.Errorf("get return stats for team %s: %w", opponentID, err)
	}
	if !exists {
		return team.DefaultLeagueAvgReturnYards, nil
	}
	return stats.PerGame(), nil
}

func validateWeek(week, year int) error {
	if week < firstSeasonWeek || week > lastSeasonWeek {
		return fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, firstSeasonWeek, lastSeasonWeek)
	}
	if year <= 0 {
		return fmt.Errorf("%w: year is required", ErrInvalidInput)
	}
	return nil
}

// projectionKey identifies a player-week row. Resolved rows key on the
// canonical player ID; unresolved rows fall back to the normalized name so
// repeated refreshes stay idempotent.
func projectionKey(playerID, playerName string) string {
	if playerID != "" {
		return "id:" + playerID
	}
	return "name:" + player.NameKey(playerName)
}
