package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/jobscheduler"
)

const (
	dashboardDispatchLimit = 10
	dashboardRunLimit      = 5
)

// OpsDashboard is the operational snapshot for a projection year: what has
// been ingested, published and synced, and what the job queue did recently.
type OpsDashboard struct {
	Year             int
	PatternSeason    int
	GeneratedAt      time.Time
	Weeks            []WeekActivity
	PatternCache     []PatternCacheState
	RecentDispatches []jobscheduler.DispatchEvent
	RecentRuns       []IngestionRun
}

// WeekActivity counts stored rows per week. PlayEvents counts the prior
// season's scoring plays that feed this year's patterns; Projections and
// Results count the projection year itself.
type WeekActivity struct {
	Week        int
	PlayEvents  int
	Projections int
	Results     int
}

type dashboardEventCounter interface {
	CountByWeek(ctx context.Context, season int) (map[int]int, error)
}

type dashboardProjectionCounter interface {
	CountRecordsByWeek(ctx context.Context, year int) (map[int]int, error)
	CountResultsByWeek(ctx context.Context, year int) (map[int]int, error)
}

type dashboardPatternProvider interface {
	CacheState() []PatternCacheState
}

type dashboardDispatchReader interface {
	ListRecent(ctx context.Context, limit int) ([]jobscheduler.DispatchEvent, error)
}

type dashboardRunProvider interface {
	RecentRuns(ctx context.Context, limit int) []IngestionRun
}

type DashboardService struct {
	eventRepo      dashboardEventCounter
	projectionRepo dashboardProjectionCounter
	patterns       dashboardPatternProvider
	dispatchRepo   dashboardDispatchReader
	runs           dashboardRunProvider
	now            func() time.Time
}

func NewDashboardService(
	eventRepo dashboardEventCounter,
	projectionRepo dashboardProjectionCounter,
	patterns dashboardPatternProvider,
	dispatchRepo dashboardDispatchReader,
	runs dashboardRunProvider,
) *DashboardService {
	return &DashboardService{
		eventRepo:      eventRepo,
		projectionRepo: projectionRepo,
		patterns:       patterns,
		dispatchRepo:   dispatchRepo,
		runs:           runs,
		now:            time.Now,
	}
}

func (s *DashboardService) Get(ctx context.Context, year int) (OpsDashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer span.End()

	if year <= 0 {
		return OpsDashboard{}, fmt.Errorf("%w: year is required", ErrInvalidInput)
	}
	patternSeason := year - 1

	events, err := s.eventRepo.CountByWeek(ctx, patternSeason)
	if err != nil {
		return OpsDashboard{}, fmt.Errorf("count play events by week: %w", err)
	}
	records, err := s.projectionRepo.CountRecordsByWeek(ctx, year)
	if err != nil {
		return OpsDashboard{}, fmt.Errorf("count projection records by week: %w", err)
	}
	results, err := s.projectionRepo.CountResultsByWeek(ctx, year)
	if err != nil {
		return OpsDashboard{}, fmt.Errorf("count results by week: %w", err)
	}

	dashboard := OpsDashboard{
		Year:          year,
		PatternSeason: patternSeason,
		GeneratedAt:   s.now().UTC(),
		Weeks:         mergeWeekActivity(events, records, results),
	}

	if s.patterns != nil {
		dashboard.PatternCache = s.patterns.CacheState()
	}
	if s.dispatchRepo != nil {
		dispatches, err := s.dispatchRepo.ListRecent(ctx, dashboardDispatchLimit)
		if err != nil {
			return OpsDashboard{}, fmt.Errorf("list recent job dispatches: %w", err)
		}
		dashboard.RecentDispatches = dispatches
	}
	if s.runs != nil {
		dashboard.RecentRuns = s.runs.RecentRuns(ctx, dashboardRunLimit)
	}

	return dashboard, nil
}

func mergeWeekActivity(events, records, results map[int]int) []WeekActivity {
	weeks := make(map[int]struct{}, len(events)+len(records)+len(results))
	for week := range events {
		weeks[week] = struct{}{}
	}
	for week := range records {
		weeks[week] = struct{}{}
	}
	for week := range results {
		weeks[week] = struct{}{}
	}

	merged := make([]WeekActivity, 0, len(weeks))
	for week := range weeks {
		merged = append(merged, WeekActivity{
			Week:        week,
			PlayEvents:  events[week],
			Projections: records[week],
			Results:     results[week],
		})
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Week < merged[j].Week
	})
	return merged
}
