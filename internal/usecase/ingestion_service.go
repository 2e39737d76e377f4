package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/playevent"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/team"
	idgen "github.com/riskibarqy/gridiron-fantasy/internal/platform/id"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/logging"
)

// StatsProvider is the stats-provider surface the ingestion and result flows
// consume. The gridirondata client implements it.
type StatsProvider interface {
	FetchPlayers(ctx context.Context) ([]ExternalPlayer, error)
	FetchTeams(ctx context.Context) ([]ExternalTeam, error)
	FetchWeekStats(ctx context.Context, season, week int) ([]ExternalPlayerWeekStats, error)
	FetchScoringPlays(ctx context.Context, season, week int) ([]ExternalScoringPlay, error)
	FetchTeamReturnStats(ctx context.Context, season int) ([]ExternalTeamReturnStats, error)
}

type ExternalPlayer struct {
	ID       string
	Name     string
	TeamID   string
	Position string
	Active   bool
}

type ExternalTeam struct {
	ID   string
	Name string
}

type ExternalPlayerWeekStats struct {
	PlayerID   string
	PlayerName string
	TeamID     string
	Position   string
	Season     int
	Week       int
	Stats      map[string]float64
}

// ExternalScoringPlay is one scoring play from play-by-play data. Passer
// fields are set on receiving touchdowns so the throwing quarterback can be
// credited separately from the scorer.
type ExternalScoringPlay struct {
	Season     int
	Week       int
	PlayType   string
	PlayerID   string
	PlayerName string
	PasserID   string
	PasserName string
	Yards      float64
	Made       bool
}

type ExternalTeamReturnStats struct {
	TeamID             string
	Season             int
	ReturnYardsAllowed float64
	Games              int
}

type patternInvalidator interface {
	Invalidate(season int)
}

const (
	defaultIngestWorkers     = 4
	ingestionRunHistoryLimit = 20

	ingestStatusSuccess = "success"
	ingestStatusFailed  = "failed"
	ingestStatusSkipped = "skipped"

	ingestRunRunning   = "running"
	ingestRunCompleted = "completed"
	ingestRunFailed    = "failed"

	ingestKindScoringPlays = "scoring_plays"
	ingestKindReturnStats  = "return_stats"
)

// IngestionService pulls historical scoring plays into the play-event store so
// pattern models can rebuild locally. Week fetches fan out over a bounded
// worker pool; finished runs stay queryable for a while.
type IngestionService struct {
	provider   StatsProvider
	playerRepo player.Repository
	teamRepo   team.Repository
	eventRepo  playevent.Repository
	patterns   patternInvalidator
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time

	mu       sync.Mutex
	runs     map[string]IngestionRun
	runOrder []string
}

type IngestSeasonInput struct {
	Season     int
	Weeks      []int
	MaxWorkers int
}

type IngestionTaskResult struct {
	Kind       string `json:"kind"`
	Week       int    `json:"week,omitempty"`
	Status     string `json:"status"`
	Records    int    `json:"records"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

type IngestionRun struct {
	ID           string                `json:"id"`
	Season       int                   `json:"season"`
	Weeks        []int                 `json:"weeks"`
	Status       string                `json:"status"`
	StartedAt    time.Time             `json:"started_at"`
	FinishedAt   time.Time             `json:"finished_at"`
	WorkerCount  int                   `json:"worker_count"`
	SuccessCount int                   `json:"success_count"`
	FailedCount  int                   `json:"failed_count"`
	SkippedCount int                   `json:"skipped_count"`
	EventCount   int                   `json:"event_count"`
	Unresolved   int                   `json:"unresolved_actors"`
	Tasks        []IngestionTaskResult `json:"tasks"`
}

type ReferenceSyncSummary struct {
	Teams   int `json:"teams"`
	Players int `json:"players"`
}

func NewIngestionService(
	provider StatsProvider,
	playerRepo player.Repository,
	teamRepo team.Repository,
	eventRepo playevent.Repository,
	patterns patternInvalidator,
	idGen idgen.Generator,
	logger *logging.Logger,
) *IngestionService {
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionService{
		provider:   provider,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		eventRepo:  eventRepo,
		patterns:   patterns,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
		runs:       make(map[string]IngestionRun),
	}
}

// SyncReferenceData refreshes the team and player pools from the stats
// provider. Ingestion runs it first so identity resolution works against the
// current rosters.
func (s *IngestionService) SyncReferenceData(ctx context.Context) (ReferenceSyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.SyncReferenceData")
	defer span.End()

	if s.provider == nil {
		return ReferenceSyncSummary{}, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	rawTeams, err := s.provider.FetchTeams(ctx)
	if err != nil {
		return ReferenceSyncSummary{}, fmt.Errorf("fetch teams: %w", err)
	}
	teams := make([]team.Team, 0, len(rawTeams))
	for _, raw := range rawTeams {
		item := team.Team{
			ID:   strings.ToUpper(strings.TrimSpace(raw.ID)),
			Name: strings.TrimSpace(raw.Name),
		}
		if err := item.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid team row", "team_id", raw.ID, "error", err)
			continue
		}
		teams = append(teams, item)
	}
	if len(teams) > 0 {
		if err := s.teamRepo.Upsert(ctx, teams); err != nil {
			return ReferenceSyncSummary{}, fmt.Errorf("upsert teams: %w", err)
		}
	}

	rawPlayers, err := s.provider.FetchPlayers(ctx)
	if err != nil {
		return ReferenceSyncSummary{}, fmt.Errorf("fetch players: %w", err)
	}
	players := make([]player.Player, 0, len(rawPlayers))
	for _, raw := range rawPlayers {
		pos, ok := player.NormalizePosition(raw.Position)
		if !ok {
			s.logger.WarnContext(ctx, "skip player with unknown position", "player_id", raw.ID, "position", raw.Position)
			continue
		}
		item := player.Player{
			ID:       strings.TrimSpace(raw.ID),
			Name:     strings.TrimSpace(raw.Name),
			TeamID:   strings.ToUpper(strings.TrimSpace(raw.TeamID)),
			Position: pos,
			IsActive: raw.Active,
		}
		if err := item.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid player row", "player_id", raw.ID, "error", err)
			continue
		}
		players = append(players, item)
	}
	if len(players) > 0 {
		if err := s.playerRepo.Upsert(ctx, players); err != nil {
			return ReferenceSyncSummary{}, fmt.Errorf("upsert players: %w", err)
		}
	}

	return ReferenceSyncSummary{Teams: len(teams), Players: len(players)}, nil
}

// IngestSeason pulls the season's scoring plays week by week over a worker
// pool, resolves scorer identities and lands the play events, then refreshes
// the season's team return stats. The memoized pattern model for the season is
// dropped afterwards so the next lookup sees the new plays.
func (s *IngestionService) IngestSeason(ctx context.Context, input IngestSeasonInput) (IngestionRun, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestSeason")
	defer span.End()

	if input.Season <= 0 {
		return IngestionRun{}, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}
	weeks, err := normalizeIngestWeeks(input.Weeks)
	if err != nil {
		return IngestionRun{}, err
	}
	if s.provider == nil {
		return IngestionRun{}, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	if _, err := s.SyncReferenceData(ctx); err != nil {
		return IngestionRun{}, fmt.Errorf("sync reference data before ingest: %w", err)
	}

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return IngestionRun{}, fmt.Errorf("list players for identity resolution: %w", err)
	}
	resolver := player.NewResolver(players)

	runID, err := s.idGen.NewID()
	if err != nil {
		return IngestionRun{}, fmt.Errorf("generate run id: %w", err)
	}

	workerCount := normalizeIngestWorkerCount(input.MaxWorkers, len(weeks))
	run := IngestionRun{
		ID:          runID,
		Season:      input.Season,
		Weeks:       weeks,
		Status:      ingestRunRunning,
		StartedAt:   s.now().UTC(),
		WorkerCount: workerCount,
		Tasks:       make([]IngestionTaskResult, 0, len(weeks)+1),
	}
	s.storeRun(run)

	results := make(chan IngestionTaskResult, len(weeks))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32
	var eventCount atomic.Int32
	var unresolvedCount atomic.Int32

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return IngestionRun{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, week := range weeks {
		week := week
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := IngestionTaskResult{Kind: ingestKindScoringPlays, Week: week}

			records, unresolved, status, message := s.ingestWeek(ctx, input.Season, week, resolver)
			row.Records = records
			row.Status = status
			row.Message = message
			row.DurationMs = time.Since(start).Milliseconds()

			switch status {
			case ingestStatusSuccess:
				successCount.Add(1)
			case ingestStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}
			eventCount.Add(int32(records))
			unresolvedCount.Add(int32(unresolved))

			results <- row
		}); err != nil {
			workers.Done()
			return IngestionRun{}, fmt.Errorf("submit week to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		run.Tasks = append(run.Tasks, row)
	}
	sort.SliceStable(run.Tasks, func(i, j int) bool {
		return run.Tasks[i].Week < run.Tasks[j].Week
	})

	returnRow := s.ingestReturnStats(ctx, input.Season)
	switch returnRow.Status {
	case ingestStatusSuccess:
		successCount.Add(1)
	case ingestStatusSkipped:
		skippedCount.Add(1)
	default:
		failedCount.Add(1)
	}
	run.Tasks = append(run.Tasks, returnRow)

	run.SuccessCount = int(successCount.Load())
	run.FailedCount = int(failedCount.Load())
	run.SkippedCount = int(skippedCount.Load())
	run.EventCount = int(eventCount.Load())
	run.Unresolved = int(unresolvedCount.Load())
	run.FinishedAt = s.now().UTC()
	run.Status = ingestRunCompleted
	if run.FailedCount > 0 {
		run.Status = ingestRunFailed
	}
	s.storeRun(run)

	if run.EventCount > 0 && s.patterns != nil {
		s.patterns.Invalidate(input.Season)
	}

	s.logger.InfoContext(ctx, "season ingestion finished",
		"run_id", run.ID,
		"season", run.Season,
		"status", run.Status,
		"events", run.EventCount,
		"unresolved", run.Unresolved,
		"failed_tasks", run.FailedCount,
	)
	return run, nil
}

// Run returns one finished or in-flight ingestion run.
func (s *IngestionService) Run(ctx context.Context, runID string) (IngestionRun, error) {
	_, span := startUsecaseSpan(ctx, "usecase.IngestionService.Run")
	defer span.End()

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return IngestionRun{}, fmt.Errorf("%w: run_id is required", ErrInvalidInput)
	}

	s.mu.Lock()
	run, ok := s.runs[runID]
	s.mu.Unlock()
	if !ok {
		return IngestionRun{}, fmt.Errorf("%w: ingestion run=%s", ErrNotFound, runID)
	}
	return run, nil
}

// RecentRuns lists the newest ingestion runs, most recent first.
func (s *IngestionService) RecentRuns(ctx context.Context, limit int) []IngestionRun {
	_, span := startUsecaseSpan(ctx, "usecase.IngestionService.RecentRuns")
	defer span.End()

	if limit <= 0 {
		limit = ingestionRunHistoryLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runs := make([]IngestionRun, 0, limit)
	for i := len(s.runOrder) - 1; i >= 0 && len(runs) < limit; i-- {
		if run, ok := s.runs[s.runOrder[i]]; ok {
			runs = append(runs, run)
		}
	}
	return runs
}

func (s *IngestionService) ingestWeek(ctx context.Context, season, week int, resolver *player.Resolver) (int, int, string, string) {
	plays, err := s.provider.FetchScoringPlays(ctx, season, week)
	if err != nil {
		return 0, 0, ingestStatusFailed, fmt.Sprintf("fetch scoring plays: %v", err)
	}

	events := make([]playevent.Event, 0, len(plays))
	unresolved := 0
	for _, play := range plays {
		playType := playevent.Type(strings.TrimSpace(play.PlayType))
		if _, ok := playevent.AllTypes[playType]; !ok {
			s.logger.WarnContext(ctx, "skip scoring play with unknown type", "play_type", play.PlayType, "week", week)
			continue
		}
		name := strings.TrimSpace(play.PlayerName)
		if name == "" {
			s.logger.WarnContext(ctx, "skip scoring play without an actor name", "play_type", play.PlayType, "week", week)
			continue
		}

		actorID := strings.TrimSpace(play.PlayerID)
		if actorID == "" {
			actorID, _ = resolver.Resolve(name)
		}
		if actorID == "" {
			unresolved++
		}

		made := play.Made
		if playType.Touchdown() {
			made = true
		}

		eventID, err := s.idGen.NewID()
		if err != nil {
			return 0, unresolved, ingestStatusFailed, fmt.Sprintf("generate event id: %v", err)
		}
		event := playevent.Event{
			ID:        eventID,
			Season:    season,
			Week:      week,
			Type:      playType,
			ActorID:   actorID,
			ActorName: name,
			Yards:     play.Yards,
			Made:      made,
		}
		if err := event.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid scoring play", "week", week, "error", err)
			continue
		}
		events = append(events, event)
	}

	if len(events) == 0 {
		return 0, unresolved, ingestStatusSkipped, "no scoring plays for week"
	}
	if err := s.eventRepo.SaveBatch(ctx, events); err != nil {
		return 0, unresolved, ingestStatusFailed, fmt.Sprintf("save play events: %v", err)
	}
	return len(events), unresolved, ingestStatusSuccess, ""
}

func (s *IngestionService) ingestReturnStats(ctx context.Context, season int) IngestionTaskResult {
	start := time.Now()
	row := IngestionTaskResult{Kind: ingestKindReturnStats}

	items, err := s.provider.FetchTeamReturnStats(ctx, season)
	if err != nil {
		row.Status = ingestStatusFailed
		row.Message = fmt.Sprintf("fetch team return stats: %v", err)
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}

	stats := make([]team.ReturnStats, 0, len(items))
	for _, item := range items {
		stat := team.ReturnStats{
			TeamID:             strings.ToUpper(strings.TrimSpace(item.TeamID)),
			Season:             season,
			ReturnYardsAllowed: item.ReturnYardsAllowed,
			Games:              item.Games,
		}
		if err := stat.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid return stats row", "team_id", item.TeamID, "error", err)
			continue
		}
		stats = append(stats, stat)
	}

	if len(stats) == 0 {
		row.Status = ingestStatusSkipped
		row.Message = "no return stats for season"
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}
	if err := s.teamRepo.UpsertReturnStats(ctx, stats); err != nil {
		row.Status = ingestStatusFailed
		row.Message = fmt.Sprintf("upsert team return stats: %v", err)
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}

	row.Status = ingestStatusSuccess
	row.Records = len(stats)
	row.DurationMs = time.Since(start).Milliseconds()
	return row
}

func (s *IngestionService) storeRun(run IngestionRun) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; !exists {
		s.runOrder = append(s.runOrder, run.ID)
		if len(s.runOrder) > ingestionRunHistoryLimit {
			drop := s.runOrder[0]
			s.runOrder = s.runOrder[1:]
			delete(s.runs, drop)
		}
	}
	s.runs[run.ID] = run
}

func normalizeIngestWeeks(weeks []int) ([]int, error) {
	if len(weeks) == 0 {
		all := make([]int, 0, lastSeasonWeek)
		for week := firstSeasonWeek; week <= lastSeasonWeek; week++ {
			all = append(all, week)
		}
		return all, nil
	}

	seen := make(map[int]struct{}, len(weeks))
	cleaned := make([]int, 0, len(weeks))
	for _, week := range weeks {
		if week < firstSeasonWeek || week > lastSeasonWeek {
			return nil, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, firstSeasonWeek, lastSeasonWeek)
		}
		if _, dup := seen[week]; dup {
			continue
		}
		seen[week] = struct{}{}
		cleaned = append(cleaned, week)
	}
	sort.Ints(cleaned)
	return cleaned, nil
}

func normalizeIngestWorkerCount(requested, taskCount int) int {
	count := requested
	if count <= 0 {
		count = defaultIngestWorkers
	}
	if taskCount > 0 && count > taskCount {
		count = taskCount
	}
	if count < 1 {
		count = 1
	}
	return count
}
