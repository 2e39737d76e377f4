package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/jobscheduler"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/logging"
)

var orchestratorTestNow = time.Date(2025, time.September, 7, 10, 30, 0, 0, time.UTC)

func newTestOrchestrator(queue JobQueue, dispatchRepo jobscheduler.Repository) *JobOrchestratorService {
	service := NewJobOrchestratorService(nil, nil, nil, queue, dispatchRepo, JobOrchestratorConfig{
		ProjectionInterval: 6 * time.Hour,
		ResultsInterval:    24 * time.Hour,
		IngestInterval:     24 * time.Hour,
	}, logging.NewNop())
	service.now = func() time.Time { return orchestratorTestNow }
	return service
}

func TestJobOrchestratorService_EnqueueProjectionRefresh_DedupBuckets(t *testing.T) {
	t.Parallel()

	queue := &captureJobQueue{}
	dispatchRepo := &stubDispatchRepo{}
	service := newTestOrchestrator(queue, dispatchRepo)

	if err := service.EnqueueProjectionRefresh(context.Background(), 1, 2025, 0); err != nil {
		t.Fatalf("EnqueueProjectionRefresh error: %v", err)
	}
	if err := service.EnqueueProjectionRefresh(context.Background(), 1, 2025, 0); err != nil {
		t.Fatalf("EnqueueProjectionRefresh error: %v", err)
	}

	if len(queue.calls) != 2 {
		t.Fatalf("expected 2 enqueues, got %+v", queue.calls)
	}
	// 10:30 truncated to the 6h refresh interval lands in the 06:00 bucket.
	wantDedup := "refresh-projections-2025w1-20250907T060000Z"
	if queue.calls[0].dedupID != wantDedup {
		t.Fatalf("unexpected dedup id: got=%s want=%s", queue.calls[0].dedupID, wantDedup)
	}
	if queue.calls[1].dedupID != wantDedup {
		t.Fatalf("repeated triggers in a bucket must share the dedup id, got %s", queue.calls[1].dedupID)
	}
	if queue.calls[0].path != jobPathRefreshProjections {
		t.Fatalf("unexpected job path: %s", queue.calls[0].path)
	}
	if queue.calls[0].payload["week"] != 1 || queue.calls[0].payload["year"] != 2025 || queue.calls[0].payload["dispatch_id"] != wantDedup {
		t.Fatalf("unexpected payload: %+v", queue.calls[0].payload)
	}

	// A delay past the bucket boundary moves the slot.
	if err := service.EnqueueProjectionRefresh(context.Background(), 1, 2025, 8*time.Hour); err != nil {
		t.Fatalf("EnqueueProjectionRefresh error: %v", err)
	}
	delayed := queue.calls[2]
	if delayed.dedupID != "refresh-projections-2025w1-20250907T180000Z" {
		t.Fatalf("unexpected delayed dedup id: %s", delayed.dedupID)
	}
	if delayed.delay != 8*time.Hour {
		t.Fatalf("unexpected delay: %v", delayed.delay)
	}

	if len(dispatchRepo.events) != 3 {
		t.Fatalf("expected 3 dispatch events, got %+v", dispatchRepo.events)
	}
	for _, event := range dispatchRepo.events {
		if event.Status != jobscheduler.StatusSent {
			t.Fatalf("expected sent status, got %+v", event)
		}
		if event.DispatchID == "" || event.DispatchID != event.DedupID {
			t.Fatalf("dispatch id must mirror the dedup id: %+v", event)
		}
		if event.JobName != jobNameRefreshProjections {
			t.Fatalf("unexpected job name: %+v", event)
		}
	}
}

func TestJobOrchestratorService_EnqueueFailureRecordsDispatch(t *testing.T) {
	t.Parallel()

	queue := &captureJobQueue{err: errors.New("queue down")}
	dispatchRepo := &stubDispatchRepo{}
	service := newTestOrchestrator(queue, dispatchRepo)

	err := service.EnqueueResultSync(context.Background(), 2, 2025, 0)
	if err == nil {
		t.Fatalf("expected enqueue error")
	}
	if len(dispatchRepo.events) != 1 {
		t.Fatalf("expected one failed dispatch event, got %+v", dispatchRepo.events)
	}
	event := dispatchRepo.events[0]
	if event.Status != jobscheduler.StatusFailed || event.ErrorMessage != "queue down" {
		t.Fatalf("unexpected dispatch event: %+v", event)
	}
	if event.JobName != jobNameSyncResults || event.JobPath != jobPathSyncResults {
		t.Fatalf("unexpected dispatch target: %+v", event)
	}
}

func TestJobOrchestratorService_EnqueueSeasonIngest(t *testing.T) {
	t.Parallel()

	queue := &captureJobQueue{}
	service := newTestOrchestrator(queue, &stubDispatchRepo{})

	if err := service.EnqueueSeasonIngest(context.Background(), 2024, []int{1, 2}, 0); err != nil {
		t.Fatalf("EnqueueSeasonIngest error: %v", err)
	}
	call := queue.calls[0]
	if call.dedupID != "ingest-season-2024-20250907T000000Z" {
		t.Fatalf("unexpected dedup id: %s", call.dedupID)
	}
	if call.payload["season"] != 2024 {
		t.Fatalf("unexpected payload: %+v", call.payload)
	}

	if err := service.EnqueueSeasonIngest(context.Background(), 0, nil, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for season 0, got %v", err)
	}
}

func TestJobOrchestratorService_Bootstrap(t *testing.T) {
	t.Parallel()

	queue := &captureJobQueue{}
	service := newTestOrchestrator(queue, &stubDispatchRepo{})

	got, err := service.Bootstrap(context.Background(), JobRunInput{Week: 1, Year: 2025})
	if err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}
	if got.Mode != "bootstrap" || got.QueuedCount != 1 {
		t.Fatalf("unexpected bootstrap result: %+v", got)
	}
	if len(got.QueuedOperations) != 1 || got.QueuedOperations[0] != "refresh-projections:2025w1" {
		t.Fatalf("unexpected operations: %+v", got.QueuedOperations)
	}
	if len(queue.calls) != 1 || queue.calls[0].delay != 0 {
		t.Fatalf("bootstrap must enqueue immediately: %+v", queue.calls)
	}

	if _, err := service.Bootstrap(context.Background(), JobRunInput{Week: 0, Year: 2025}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for week 0, got %v", err)
	}
}

func TestJobOrchestratorService_RunProjectionRefresh_ChainsNextJobs(t *testing.T) {
	t.Parallel()

	projectionSvc := NewProjectionService(
		&stubProjectionFeed{}, &stubRosterPlayerRepo{}, &stubProjectionTeamRepo{},
		&stubProjectionStore{}, &stubProjectionPatterns{},
		scoring.DefaultRules(), &seqIDGenerator{prefix: "proj"}, logging.NewNop(),
	)
	queue := &captureJobQueue{}
	service := NewJobOrchestratorService(projectionSvc, nil, nil, queue, &stubDispatchRepo{}, JobOrchestratorConfig{
		ProjectionInterval: 6 * time.Hour,
		ResultsInterval:    24 * time.Hour,
		IngestInterval:     24 * time.Hour,
	}, logging.NewNop())
	service.now = func() time.Time { return orchestratorTestNow }

	got, err := service.RunProjectionRefresh(context.Background(), JobRunInput{Week: 3, Year: 2025})
	if err != nil {
		t.Fatalf("RunProjectionRefresh error: %v", err)
	}

	if got.Mode != jobNameRefreshProjections || got.Projections == nil {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.Projections.Fetched != 0 || got.Projections.Saved != 0 {
		t.Fatalf("empty feed should refresh nothing: %+v", got.Projections)
	}
	if got.QueuedCount != 2 {
		t.Fatalf("expected the next refresh plus a result sync, got %+v", got)
	}
	if got.QueuedOperations[0] != "refresh-projections:2025w3" || got.QueuedOperations[1] != "sync-results:2025w2" {
		t.Fatalf("unexpected operations: %+v", got.QueuedOperations)
	}

	if len(queue.calls) != 2 {
		t.Fatalf("expected 2 enqueues, got %+v", queue.calls)
	}
	refresh := queue.calls[0]
	if refresh.path != jobPathRefreshProjections || refresh.delay != 6*time.Hour {
		t.Fatalf("next refresh must wait out the interval: %+v", refresh)
	}
	sync := queue.calls[1]
	if sync.path != jobPathSyncResults || sync.delay != 0 {
		t.Fatalf("result sync must run immediately: %+v", sync)
	}
	if sync.payload["week"] != 2 {
		t.Fatalf("result sync must target the previous week: %+v", sync.payload)
	}
}

func TestJobOrchestratorService_RunProjectionRefresh_ForceAndFirstWeek(t *testing.T) {
	t.Parallel()

	projectionSvc := NewProjectionService(
		&stubProjectionFeed{}, &stubRosterPlayerRepo{}, &stubProjectionTeamRepo{},
		&stubProjectionStore{}, &stubProjectionPatterns{},
		scoring.DefaultRules(), &seqIDGenerator{prefix: "proj"}, logging.NewNop(),
	)
	queue := &captureJobQueue{}
	service := NewJobOrchestratorService(projectionSvc, nil, nil, queue, &stubDispatchRepo{}, JobOrchestratorConfig{}, logging.NewNop())
	service.now = func() time.Time { return orchestratorTestNow }

	got, err := service.RunProjectionRefresh(context.Background(), JobRunInput{Week: 1, Year: 2025, Force: true})
	if err != nil {
		t.Fatalf("RunProjectionRefresh error: %v", err)
	}
	// Week 1 has no previous week to sync.
	if got.QueuedCount != 1 {
		t.Fatalf("unexpected queue count: %+v", got)
	}
	if queue.calls[0].delay != 0 {
		t.Fatalf("forced refresh must re-enqueue immediately: %+v", queue.calls[0])
	}
}

func TestJobOrchestratorService_RunsRequireServices(t *testing.T) {
	t.Parallel()

	service := newTestOrchestrator(&captureJobQueue{}, &stubDispatchRepo{})

	if _, err := service.RunProjectionRefresh(context.Background(), JobRunInput{Week: 1, Year: 2025}); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if _, err := service.RunResultSync(context.Background(), JobRunInput{Week: 1, Year: 2025}); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if _, err := service.RunSeasonIngest(context.Background(), JobIngestInput{Season: 2024}); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

type queueCall struct {
	path    string
	payload map[string]any
	delay   time.Duration
	dedupID string
}

type captureJobQueue struct {
	calls []queueCall
	err   error
}

func (q *captureJobQueue) Enqueue(_ context.Context, path string, payload any, delay time.Duration, dedupID string) error {
	if q.err != nil {
		return q.err
	}
	body, _ := payload.(map[string]any)
	q.calls = append(q.calls, queueCall{path: path, payload: body, delay: delay, dedupID: dedupID})
	return nil
}

type stubDispatchRepo struct {
	events []jobscheduler.DispatchEvent
}

func (s *stubDispatchRepo) UpsertEvent(_ context.Context, event jobscheduler.DispatchEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *stubDispatchRepo) ListRecent(_ context.Context, limit int) ([]jobscheduler.DispatchEvent, error) {
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]jobscheduler.DispatchEvent, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
