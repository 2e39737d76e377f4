package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/jobscheduler"
)

const dashboardTestYear = 2025

func TestDashboardService_Get(t *testing.T) {
	t.Parallel()

	events := &stubDashboardEvents{counts: map[int]int{1: 10, 2: 5}}
	counters := &stubDashboardCounters{
		recordCounts: map[int]int{1: 8, 3: 2},
		resultCounts: map[int]int{1: 6},
	}
	patterns := &stubDashboardPatterns{states: []PatternCacheState{
		{Season: dashboardTestYear - 1, BuiltAt: time.Now().UTC(), TouchdownActors: 12, FieldGoalKickers: 4},
	}}
	dispatchRepo := &stubDispatchRepo{events: []jobscheduler.DispatchEvent{
		{DispatchID: "d-1", JobName: "refresh-projections", Status: jobscheduler.StatusSent},
		{DispatchID: "d-2", JobName: "sync-results", Status: jobscheduler.StatusCompleted},
	}}
	runs := &stubDashboardRuns{runs: []IngestionRun{{ID: "run-1", Season: dashboardTestYear - 1, Status: "completed"}}}
	service := NewDashboardService(events, counters, patterns, dispatchRepo, runs)

	got, err := service.Get(context.Background(), dashboardTestYear)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	if got.Year != dashboardTestYear || got.PatternSeason != dashboardTestYear-1 {
		t.Fatalf("unexpected years: %+v", got)
	}
	if got.GeneratedAt.IsZero() {
		t.Fatalf("expected a generation timestamp")
	}
	// Play events count against the pattern season, not the projection year.
	if len(events.seasons) != 1 || events.seasons[0] != dashboardTestYear-1 {
		t.Fatalf("unexpected event seasons: %+v", events.seasons)
	}

	want := []WeekActivity{
		{Week: 1, PlayEvents: 10, Projections: 8, Results: 6},
		{Week: 2, PlayEvents: 5},
		{Week: 3, Projections: 2},
	}
	if len(got.Weeks) != len(want) {
		t.Fatalf("expected %d week rows, got %+v", len(want), got.Weeks)
	}
	for i, row := range got.Weeks {
		if row != want[i] {
			t.Fatalf("week row %d: got=%+v want=%+v", i, row, want[i])
		}
	}

	if len(got.PatternCache) != 1 || got.PatternCache[0].TouchdownActors != 12 {
		t.Fatalf("unexpected pattern cache: %+v", got.PatternCache)
	}
	if len(got.RecentDispatches) != 2 {
		t.Fatalf("unexpected dispatches: %+v", got.RecentDispatches)
	}
	if len(got.RecentRuns) != 1 || runs.limit != dashboardRunLimit {
		t.Fatalf("unexpected runs: %+v limit=%d", got.RecentRuns, runs.limit)
	}
}

func TestDashboardService_Get_OptionalSourcesMayBeAbsent(t *testing.T) {
	t.Parallel()

	service := NewDashboardService(
		&stubDashboardEvents{counts: map[int]int{1: 3}},
		&stubDashboardCounters{},
		nil, nil, nil,
	)

	got, err := service.Get(context.Background(), dashboardTestYear)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(got.Weeks) != 1 || got.Weeks[0].PlayEvents != 3 {
		t.Fatalf("unexpected weeks: %+v", got.Weeks)
	}
	if got.PatternCache != nil || got.RecentDispatches != nil || got.RecentRuns != nil {
		t.Fatalf("absent sources must stay empty: %+v", got)
	}
}

func TestDashboardService_Get_RequiresYear(t *testing.T) {
	t.Parallel()

	service := NewDashboardService(&stubDashboardEvents{}, &stubDashboardCounters{}, nil, nil, nil)

	if _, err := service.Get(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for year 0, got %v", err)
	}
}

type stubDashboardEvents struct {
	counts  map[int]int
	seasons []int
}

func (s *stubDashboardEvents) CountByWeek(_ context.Context, season int) (map[int]int, error) {
	s.seasons = append(s.seasons, season)
	return s.counts, nil
}

type stubDashboardCounters struct {
	recordCounts map[int]int
	resultCounts map[int]int
}

func (s *stubDashboardCounters) CountRecordsByWeek(_ context.Context, _ int) (map[int]int, error) {
	return s.recordCounts, nil
}

func (s *stubDashboardCounters) CountResultsByWeek(_ context.Context, _ int) (map[int]int, error) {
	return s.resultCounts, nil
}

type stubDashboardPatterns struct {
	states []PatternCacheState
}

func (s *stubDashboardPatterns) CacheState() []PatternCacheState {
	return s.states
}

type stubDashboardRuns struct {
	runs  []IngestionRun
	limit int
}

func (s *stubDashboardRuns) RecentRuns(_ context.Context, limit int) []IngestionRun {
	s.limit = limit
	return s.runs
}
