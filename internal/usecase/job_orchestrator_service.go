package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/jobscheduler"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/logging"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

const (
	jobPathRefreshProjections = "/v1/internal/jobs/refresh-projections"
	jobPathSyncResults        = "/v1/internal/jobs/sync-results"
	jobPathIngestSeason       = "/v1/internal/jobs/ingest-season"

	jobNameRefreshProjections = "refresh-projections"
	jobNameSyncResults        = "sync-results"
	jobNameIngestSeason       = "ingest-season"
)

type JobOrchestratorConfig struct {
	// ProjectionInterval is the cadence of the self-chaining projection
	// refresh during a game week.
	ProjectionInterval time.Duration
	// ResultsInterval buckets result syncs so a week's actuals land once a
	// day even when several refresh cycles fire.
	ResultsInterval time.Duration
	// IngestInterval buckets full-season ingest requests.
	IngestInterval time.Duration
}

type JobRunInput struct {
	Week  int
	Year  int
	Force bool
}

type JobIngestInput struct {
	Season     int
	Weeks      []int
	MaxWorkers int
}

type JobRunResult struct {
	Mode             string                    `json:"mode"`
	QueuedCount      int                       `json:"queued_count"`
	QueuedOperations []string                  `json:"queued_operations"`
	Projections      *ProjectionRefreshSummary `json:"projections,omitempty"`
	Results          *ResultSyncSummary        `json:"results,omitempty"`
	Ingestion        *IngestionRun             `json:"ingestion,omitempty"`
}

// JobOrchestratorService runs the queue-delivered jobs and keeps the chain
// alive: every projection refresh re-enqueues the next one and queues a
// result sync for the week before. Dispatches are recorded so the dashboard
// can show what the queue has been doing.
type JobOrchestratorService struct {
	projectionSvc *ProjectionService
	resultSvc     *ResultService
	ingestionSvc  *IngestionService
	queue         JobQueue
	dispatchRepo  jobscheduler.Repository
	cfg           JobOrchestratorConfig
	logger        *logging.Logger
	now           func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobOrchestratorService(
	projectionSvc *ProjectionService,
	resultSvc *ResultService,
	ingestionSvc *IngestionService,
	queue JobQueue,
	dispatchRepo jobscheduler.Repository,
	cfg JobOrchestratorConfig,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ProjectionInterval <= 0 {
		cfg.ProjectionInterval = 6 * time.Hour
	}
	if cfg.ResultsInterval <= 0 {
		cfg.ResultsInterval = 24 * time.Hour
	}
	if cfg.IngestInterval <= 0 {
		cfg.IngestInterval = 24 * time.Hour
	}

	return &JobOrchestratorService{
		projectionSvc: projectionSvc,
		resultSvc:     resultSvc,
		ingestionSvc:  ingestionSvc,
		queue:         queue,
		dispatchRepo:  dispatchRepo,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

// Bootstrap seeds the job chain by enqueueing an immediate projection refresh
// for the given week.
func (s *JobOrchestratorService) Bootstrap(ctx context.Context, input JobRunInput) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.Bootstrap")
	defer span.End()

	if err := validateWeek(input.Week, input.Year); err != nil {
		return JobRunResult{}, err
	}

	result := JobRunResult{Mode: "bootstrap", QueuedOperations: make([]string, 0, 1)}
	if err := s.EnqueueProjectionRefresh(ctx, input.Week, input.Year, 0); err != nil {
		return JobRunResult{}, err
	}
	result.QueuedCount++
	result.QueuedOperations = append(result.QueuedOperations, jobNameRefreshProjections+":"+weekScope(input.Week, input.Year))
	return result, nil
}

// RunProjectionRefresh executes a delivered refresh job, then re-enqueues the
// next refresh and a result sync for the previous week.
func (s *JobOrchestratorService) RunProjectionRefresh(ctx context.Context, input JobRunInput) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RunProjectionRefresh")
	defer span.End()

	if s.projectionSvc == nil {
		return JobRunResult{}, fmt.Errorf("%w: projection service is not configured", ErrDependencyUnavailable)
	}

	summary, err := s.projectionSvc.RefreshWeek(ctx, input.Week, input.Year)
	if err != nil {
		return JobRunResult{}, err
	}

	result := JobRunResult{
		Mode:             jobNameRefreshProjections,
		Projections:      &summary,
		QueuedOperations: make([]string, 0, 2),
	}

	delay := s.cfg.ProjectionInterval
	if input.Force {
		delay = 0
	}
	if err := s.EnqueueProjectionRefresh(ctx, input.Week, input.Year, delay); err != nil {
		return JobRunResult{}, err
	}
	result.QueuedCount++
	result.QueuedOperations = append(result.QueuedOperations, jobNameRefreshProjections+":"+weekScope(input.Week, input.Year))

	if input.Week > firstSeasonWeek {
		if err := s.EnqueueResultSync(ctx, input.Week-1, input.Year, 0); err != nil {
			return JobRunResult{}, err
		}
		result.QueuedCount++
		result.QueuedOperations = append(result.QueuedOperations, jobNameSyncResults+":"+weekScope(input.Week-1, input.Year))
	}

	return result, nil
}

// RunResultSync executes a delivered result-sync job.
func (s *JobOrchestratorService) RunResultSync(ctx context.Context, input JobRunInput) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RunResultSync")
	defer span.End()

	if s.resultSvc == nil {
		return JobRunResult{}, fmt.Errorf("%w: result service is not configured", ErrDependencyUnavailable)
	}

	summary, err := s.resultSvc.SyncWeek(ctx, input.Week, input.Year)
	if err != nil {
		return JobRunResult{}, err
	}
	return JobRunResult{Mode: jobNameSyncResults, Results: &summary}, nil
}

// RunSeasonIngest executes a delivered season-ingest job.
func (s *JobOrchestratorService) RunSeasonIngest(ctx context.Context, input JobIngestInput) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RunSeasonIngest")
	defer span.End()

	if s.ingestionSvc == nil {
		return JobRunResult{}, fmt.Errorf("%w: ingestion service is not configured", ErrDependencyUnavailable)
	}

	run, err := s.ingestionSvc.IngestSeason(ctx, IngestSeasonInput{
		Season:     input.Season,
		Weeks:      input.Weeks,
		MaxWorkers: input.MaxWorkers,
	})
	if err != nil {
		return JobRunResult{}, err
	}
	return JobRunResult{Mode: jobNameIngestSeason, Ingestion: &run}, nil
}

// EnqueueProjectionRefresh queues a refresh for a week. The dedup key is
// bucketed on the refresh interval so repeated triggers collapse.
func (s *JobOrchestratorService) EnqueueProjectionRefresh(ctx context.Context, week, year int, delay time.Duration) error {
	if err := validateWeek(week, year); err != nil {
		return err
	}

	now := s.now().UTC()
	dedupID := dedupKey(jobNameRefreshProjections, weekScope(week, year), now.Add(delay), s.cfg.ProjectionInterval)
	payload := map[string]any{
		"week":        week,
		"year":        year,
		"dispatch_id": dedupID,
	}
	return s.enqueue(ctx, jobNameRefreshProjections, jobPathRefreshProjections, dedupID, payload, delay, now)
}

// EnqueueResultSync queues a result sync for a week, bucketed daily.
func (s *JobOrchestratorService) EnqueueResultSync(ctx context.Context, week, year int, delay time.Duration) error {
	if err := validateWeek(week, year); err != nil {
		return err
	}

	now := s.now().UTC()
	dedupID := dedupKey(jobNameSyncResults, weekScope(week, year), now.Add(delay), s.cfg.ResultsInterval)
	payload := map[string]any{
		"week":        week,
		"year":        year,
		"dispatch_id": dedupID,
	}
	return s.enqueue(ctx, jobNameSyncResults, jobPathSyncResults, dedupID, payload, delay, now)
}

// EnqueueSeasonIngest queues a full-season play-event ingest.
func (s *JobOrchestratorService) EnqueueSeasonIngest(ctx context.Context, season int, weeks []int, delay time.Duration) error {
	if season <= 0 {
		return fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	now := s.now().UTC()
	dedupID := dedupKey(jobNameIngestSeason, strconv.Itoa(season), now.Add(delay), s.cfg.IngestInterval)
	payload := map[string]any{
		"season":      season,
		"weeks":       weeks,
		"dispatch_id": dedupID,
	}
	return s.enqueue(ctx, jobNameIngestSeason, jobPathIngestSeason, dedupID, payload, delay, now)
}

func (s *JobOrchestratorService) enqueue(ctx context.Context, jobName, jobPath, dedupID string, payload map[string]any, delay time.Duration, now time.Time) error {
	if err := s.queue.Enqueue(ctx, jobPath, payload, delay, dedupID); err != nil {
		s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
			DispatchID:   dedupID,
			JobName:      jobName,
			JobPath:      jobPath,
			DedupID:      dedupID,
			Status:       jobscheduler.StatusFailed,
			Payload:      payload,
			ErrorMessage: err.Error(),
			OccurredAt:   now,
		})
		return fmt.Errorf("enqueue %s: %w", jobName, err)
	}
	s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
		DispatchID: dedupID,
		JobName:    jobName,
		JobPath:    jobPath,
		DedupID:    dedupID,
		Status:     jobscheduler.StatusSent,
		Payload:    payload,
		OccurredAt: now,
	})
	return nil
}

func (s *JobOrchestratorService) recordDispatchEvent(ctx context.Context, event jobscheduler.DispatchEvent) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}

func weekScope(week, year int) string {
	return strconv.Itoa(year) + "w" + strconv.Itoa(week)
}

func dedupKey(prefix, scope string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	scope = sanitizeDedupSegment(scope)
	return prefix + "-" + scope + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}
