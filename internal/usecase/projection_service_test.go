package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/projection"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/team"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/logging"
)

const (
	projectionTestWeek = 1
	projectionTestYear = 2025
)

func TestProjectionService_RefreshWeek(t *testing.T) {
	t.Parallel()

	feed := &stubProjectionFeed{rows: map[player.Position][]ExternalPlayerProjection{
		player.PositionQuarterback: {
			// No feed ID: identity resolution has to find Burrow by name.
			{PlayerName: "Joe Burrow", TeamID: "CIN", Position: "QB", Stats: map[string]float64{
				scoring.StatCompletions:       20,
				scoring.StatPassingYards:      250,
				scoring.StatPassingTouchdowns: 1.8,
			}},
		},
		player.PositionRunningBack: {
			// Already has a record for the week, so the refresh must skip it.
			{PlayerID: "p-gibbs", PlayerName: "Jahmyr Gibbs", TeamID: "DET", Position: "RB", Stats: map[string]float64{
				scoring.StatRushingAttempts: 16,
				scoring.StatRushingYards:    85,
			}},
		},
		player.PositionWideReceiver: {
			{PlayerName: "Mystery Man", TeamID: "JAX", Position: "WR", Stats: map[string]float64{
				scoring.StatReceptions: 4,
			}},
			{PlayerID: "x-1", PlayerName: "Long Snapper", TeamID: "JAX", Position: "LS"},
		},
		player.PositionKicker: {
			{PlayerID: "k-aubrey", PlayerName: "Brandon Aubrey", TeamID: "DAL", Position: "K", Stats: map[string]float64{
				scoring.StatFieldGoalsMade:  2.1,
				scoring.StatPointsAfterMade: 2.9,
			}},
		},
		player.PositionDefense: {
			{PlayerID: "dst-sf", PlayerName: "49ers D/ST", TeamID: "SF", Opponent: "KC", Position: "DST", Stats: map[string]float64{
				scoring.StatSacks:         2.5,
				scoring.StatInterceptions: 0.9,
			}},
		},
	}}
	playerRepo := &stubRosterPlayerRepo{pool: map[string]player.Player{
		"p-burrow": {ID: "p-burrow", Name: "Joe Burrow", TeamID: "CIN", Position: player.PositionQuarterback, IsActive: true},
	}}
	teamRepo := &stubProjectionTeamRepo{returnStats: map[string]team.ReturnStats{
		"KC": {TeamID: "KC", Season: projectionTestYear - 1, ReturnYardsAllowed: 408, Games: 17},
	}}
	store := &stubProjectionStore{records: []projection.Record{
		{ID: "rec-existing", Week: projectionTestWeek, Year: projectionTestYear, PlayerID: "p-gibbs", PlayerName: "Jahmyr Gibbs", Position: player.PositionRunningBack, ProjectedPoints: 18.2},
	}}
	patterns := &stubProjectionPatterns{tdBonus: 1.7, fgPoints: 9.4}

	service := NewProjectionService(
		feed, playerRepo, teamRepo, store, patterns,
		scoring.DefaultRules(), &seqIDGenerator{prefix: "proj"}, logging.NewNop(),
	)

	summary, err := service.RefreshWeek(context.Background(), projectionTestWeek, projectionTestYear)
	if err != nil {
		t.Fatalf("RefreshWeek error: %v", err)
	}

	if summary.Fetched != 6 || summary.Resolved != 4 || summary.Unresolved != 1 || summary.Skipped != 2 || summary.Saved != 4 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	byName := make(map[string]projection.Record, len(store.savedRecords))
	for _, record := range store.savedRecords {
		byName[record.PlayerName] = record
	}
	if len(byName) != 4 {
		t.Fatalf("expected 4 saved records, got %+v", store.savedRecords)
	}

	// 20 completions + 10 passing-yard points + 1.8*4 TD points, plus the
	// pattern bonus for 1.8 projected touchdowns.
	burrow := byName["Joe Burrow"]
	if burrow.PlayerID != "p-burrow" {
		t.Fatalf("Burrow should resolve by name: %+v", burrow)
	}
	if burrow.ProjectedPoints != 38.9 {
		t.Fatalf("unexpected Burrow points: got=%v want=38.9", burrow.ProjectedPoints)
	}

	// The unresolved receiver still publishes, without a player ID.
	mystery := byName["Mystery Man"]
	if mystery.PlayerID != "" || mystery.ProjectedPoints != 4 {
		t.Fatalf("unexpected unresolved record: %+v", mystery)
	}

	// Kickers replace the flat per-kick value with the distance pattern.
	if byName["Brandon Aubrey"].ProjectedPoints != 9.4 {
		t.Fatalf("unexpected kicker points: got=%v want=9.4", byName["Brandon Aubrey"].ProjectedPoints)
	}

	// Defense: 2.5 sacks + 1.8 pick points + 1 for the default points-allowed
	// band, plus 24 opponent return yards per game at a point per ten.
	if byName["49ers D/ST"].ProjectedPoints != 7.7 {
		t.Fatalf("unexpected defense points: got=%v want=7.7", byName["49ers D/ST"].ProjectedPoints)
	}

	for _, season := range patterns.tdSeasons {
		if season != projectionTestYear-1 {
			t.Fatalf("touchdown bonuses must use the prior season, got %d", season)
		}
	}
	for _, season := range patterns.fgSeasons {
		if season != projectionTestYear-1 {
			t.Fatalf("kick patterns must use the prior season, got %d", season)
		}
	}

	for _, record := range store.savedRecords {
		if record.ID == "" || record.CreatedAt.IsZero() {
			t.Fatalf("saved record missing ID or timestamp: %+v", record)
		}
	}
}

func TestProjectionService_RefreshWeek_Validation(t *testing.T) {
	t.Parallel()

	withFeed := NewProjectionService(
		&stubProjectionFeed{}, &stubRosterPlayerRepo{}, &stubProjectionTeamRepo{},
		&stubProjectionStore{}, &stubProjectionPatterns{},
		scoring.DefaultRules(), &seqIDGenerator{prefix: "proj"}, logging.NewNop(),
	)
	if _, err := withFeed.RefreshWeek(context.Background(), 0, projectionTestYear); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for week 0, got %v", err)
	}
	if _, err := withFeed.RefreshWeek(context.Background(), lastSeasonWeek+1, projectionTestYear); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for week past the season, got %v", err)
	}

	noFeed := NewProjectionService(
		nil, &stubRosterPlayerRepo{}, &stubProjectionTeamRepo{},
		&stubProjectionStore{}, &stubProjectionPatterns{},
		scoring.DefaultRules(), &seqIDGenerator{prefix: "proj"}, logging.NewNop(),
	)
	if _, err := noFeed.RefreshWeek(context.Background(), projectionTestWeek, projectionTestYear); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable without a feed, got %v", err)
	}
}

func TestProjectionService_Adjust_DefenseWithoutOpponentUsesLeagueAverage(t *testing.T) {
	t.Parallel()

	service := NewProjectionService(
		&stubProjectionFeed{}, &stubRosterPlayerRepo{}, &stubProjectionTeamRepo{},
		&stubProjectionStore{}, &stubProjectionPatterns{},
		scoring.DefaultRules(), &seqIDGenerator{prefix: "proj"}, logging.NewNop(),
	)

	got, err := service.Adjust(context.Background(), projection.StatProjection{
		PlayerName: "Ravens D/ST",
		PlayerID:   "dst-bal",
		Position:   player.PositionDefense,
		Week:       projectionTestWeek,
		Year:       projectionTestYear,
		Stats: scoring.StatLine{
			scoring.StatSacks: 3,
		},
	})
	if err != nil {
		t.Fatalf("Adjust error: %v", err)
	}
	// 3 sacks + 1 for the default points-allowed band + 62.5 league-average
	// return yards per game at a point per ten.
	if got != 10.3 {
		t.Fatalf("unexpected defense projection: got=%v want=10.3", got)
	}
}

func TestProjectionService_ListWeek(t *testing.T) {
	t.Parallel()

	store := &stubProjectionStore{records: []projection.Record{
		{ID: "r-1", Week: projectionTestWeek, Year: projectionTestYear, PlayerID: "rb-a", PlayerName: "Back A", Position: player.PositionRunningBack, ProjectedPoints: 12.5},
		{ID: "r-2", Week: projectionTestWeek, Year: projectionTestYear, PlayerID: "rb-b", PlayerName: "Back B", Position: player.PositionRunningBack, ProjectedPoints: 17.1},
		{ID: "r-3", Week: projectionTestWeek, Year: projectionTestYear, PlayerID: "qb-a", PlayerName: "Passer A", Position: player.PositionQuarterback, ProjectedPoints: 22},
		{ID: "r-4", Week: projectionTestWeek + 1, Year: projectionTestYear, PlayerID: "rb-c", PlayerName: "Back C", Position: player.PositionRunningBack, ProjectedPoints: 30},
	}}
	service := NewProjectionService(
		&stubProjectionFeed{}, &stubRosterPlayerRepo{}, &stubProjectionTeamRepo{},
		store, &stubProjectionPatterns{},
		scoring.DefaultRules(), &seqIDGenerator{prefix: "proj"}, logging.NewNop(),
	)

	got, err := service.ListWeek(context.Background(), projectionTestWeek, projectionTestYear, "rb")
	if err != nil {
		t.Fatalf("ListWeek error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 running backs, got %+v", got)
	}
	if got[0].PlayerID != "rb-b" || got[1].PlayerID != "rb-a" {
		t.Fatalf("expected highest projection first, got %+v", got)
	}

	all, err := service.ListWeek(context.Background(), projectionTestWeek, projectionTestYear, "")
	if err != nil {
		t.Fatalf("ListWeek error: %v", err)
	}
	if len(all) != 3 || all[0].PlayerID != "qb-a" {
		t.Fatalf("unexpected unfiltered list: %+v", all)
	}

	if _, err := service.ListWeek(context.Background(), projectionTestWeek, projectionTestYear, "COACH"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown position, got %v", err)
	}
}

type stubProjectionFeed struct {
	rows map[player.Position][]ExternalPlayerProjection
	err  error
}

func (s *stubProjectionFeed) FetchWeekProjections(_ context.Context, _, _ int, pos player.Position) ([]ExternalPlayerProjection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[pos], nil
}

type stubProjectionTeamRepo struct {
	teams       map[string]team.Team
	returnStats map[string]team.ReturnStats
}

func (s *stubProjectionTeamRepo) List(_ context.Context) ([]team.Team, error) {
	out := make([]team.Team, 0, len(s.teams))
	for _, item := range s.teams {
		out = append(out, item)
	}
	return out, nil
}

func (s *stubProjectionTeamRepo) GetByID(_ context.Context, id string) (team.Team, bool, error) {
	item, ok := s.teams[id]
	return item, ok, nil
}

func (s *stubProjectionTeamRepo) Upsert(_ context.Context, teams []team.Team) error {
	if s.teams == nil {
		s.teams = make(map[string]team.Team, len(teams))
	}
	for _, item := range teams {
		s.teams[item.ID] = item
	}
	return nil
}

func (s *stubProjectionTeamRepo) GetReturnStats(_ context.Context, teamID string, _ int) (team.ReturnStats, bool, error) {
	stats, ok := s.returnStats[teamID]
	return stats, ok, nil
}

func (s *stubProjectionTeamRepo) ListReturnStats(_ context.Context, _ int) ([]team.ReturnStats, error) {
	out := make([]team.ReturnStats, 0, len(s.returnStats))
	for _, stats := range s.returnStats {
		out = append(out, stats)
	}
	return out, nil
}

func (s *stubProjectionTeamRepo) UpsertReturnStats(_ context.Context, stats []team.ReturnStats) error {
	if s.returnStats == nil {
		s.returnStats = make(map[string]team.ReturnStats, len(stats))
	}
	for _, item := range stats {
		s.returnStats[item.TeamID] = item
	}
	return nil
}

type stubProjectionStore struct {
	records      []projection.Record
	results      []projection.Result
	savedRecords []projection.Record
	savedResults []projection.Result
}

func (s *stubProjectionStore) SaveRecords(_ context.Context, records []projection.Record) error {
	s.savedRecords = append(s.savedRecords, records...)
	s.records = append(s.records, records...)
	return nil
}

func (s *stubProjectionStore) ListRecords(_ context.Context, week, year int) ([]projection.Record, error) {
	out := make([]projection.Record, 0, len(s.records))
	for _, record := range s.records {
		if record.Week == week && record.Year == year {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *stubProjectionStore) CountRecordsByWeek(_ context.Context, year int) (map[int]int, error) {
	counts := make(map[int]int)
	for _, record := range s.records {
		if record.Year == year {
			counts[record.Week]++
		}
	}
	return counts, nil
}

func (s *stubProjectionStore) SaveResults(_ context.Context, results []projection.Result) error {
	s.savedResults = append(s.savedResults, results...)
	s.results = append(s.results, results...)
	return nil
}

func (s *stubProjectionStore) ListResults(_ context.Context, week, year int) ([]projection.Result, error) {
	out := make([]projection.Result, 0, len(s.results))
	for _, result := range s.results {
		if result.Week == week && result.Year == year {
			out = append(out, result)
		}
	}
	return out, nil
}

func (s *stubProjectionStore) ListResultsByYear(_ context.Context, year int) ([]projection.Result, error) {
	out := make([]projection.Result, 0, len(s.results))
	for _, result := range s.results {
		if result.Year == year {
			out = append(out, result)
		}
	}
	return out, nil
}

func (s *stubProjectionStore) CountResultsByWeek(_ context.Context, year int) (map[int]int, error) {
	counts := make(map[int]int)
	for _, result := range s.results {
		if result.Year == year {
			counts[result.Week]++
		}
	}
	return counts, nil
}

type stubProjectionPatterns struct {
	tdBonus   float64
	fgPoints  float64
	tdSeasons []int
	fgSeasons []int
}

func (s *stubProjectionPatterns) ExpectedTouchdownBonus(_ context.Context, season int, _ string, projectedTDs float64) (float64, error) {
	if projectedTDs <= 0 {
		return 0, nil
	}
	s.tdSeasons = append(s.tdSeasons, season)
	return s.tdBonus, nil
}

func (s *stubProjectionPatterns) ExpectedFieldGoalPoints(_ context.Context, season int, _ string, _, _ float64) (float64, error) {
	s.fgSeasons = append(s.fgSeasons, season)
	return s.fgPoints, nil
}

// seqIDGenerator hands out deterministic IDs; the mutex matters because
// ingestion generates IDs from its worker pool.
type seqIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n), nil
}
