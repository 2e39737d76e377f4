package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/projection"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/logging"
)

const (
	resultTestWeek = 2
	resultTestYear = 2025
)

func TestResultService_SyncWeek(t *testing.T) {
	t.Parallel()

	provider := &stubResultProvider{
		stats: []ExternalPlayerWeekStats{
			// No feed ID: the line must resolve to Bijan through the name key.
			{PlayerName: "B.Robinson", TeamID: "ATL", Stats: map[string]float64{
				scoring.StatRushingAttempts:   18,
				scoring.StatRushingYards:      105,
				scoring.StatRushingTouchdowns: 1,
			}},
			{PlayerID: "p-dak", PlayerName: "Dak Prescott", TeamID: "DAL", Stats: map[string]float64{
				scoring.StatCompletions:       20,
				scoring.StatPassingYards:      250,
				scoring.StatPassingTouchdowns: 2,
			}},
			{PlayerID: "p-ceedee", PlayerName: "CeeDee Lamb", TeamID: "DAL", Stats: map[string]float64{
				scoring.StatReceptions:          6,
				scoring.StatReceivingYards:      110,
				scoring.StatReceivingTouchdowns: 1,
			}},
		},
		plays: []ExternalScoringPlay{
			{Season: resultTestYear, Week: resultTestWeek, PlayType: "rushing_td", PlayerID: "p-bijan", PlayerName: "Bijan Robinson", Yards: 62},
			{Season: resultTestYear, Week: resultTestWeek, PlayType: "receiving_td", PlayerID: "p-ceedee", PlayerName: "CeeDee Lamb", PasserID: "p-dak", PasserName: "Dak Prescott", Yards: 55},
		},
	}
	playerRepo := &stubRosterPlayerRepo{pool: map[string]player.Player{
		"p-bijan": {ID: "p-bijan", Name: "Bijan Robinson", TeamID: "ATL", Position: player.PositionRunningBack, IsActive: true},
	}}
	store := &stubProjectionStore{records: []projection.Record{
		{ID: "rec-1", Week: resultTestWeek, Year: resultTestYear, PlayerID: "p-bijan", PlayerName: "Bijan Robinson", Position: player.PositionRunningBack, ProjectedPoints: 28},
		{ID: "rec-2", Week: resultTestWeek, Year: resultTestYear, PlayerID: "p-dak", PlayerName: "Dak Prescott", Position: player.PositionQuarterback, ProjectedPoints: 40},
		{ID: "rec-3", Week: resultTestWeek, Year: resultTestYear, PlayerID: "p-ceedee", PlayerName: "CeeDee Lamb", Position: player.PositionWideReceiver, ProjectedPoints: 30},
		{ID: "rec-4", Week: resultTestWeek, Year: resultTestYear, PlayerID: "p-ghost", PlayerName: "Ghost Guy", Position: player.PositionRunningBack, ProjectedPoints: 10},
	}}
	service := NewResultService(
		provider, playerRepo, store,
		scoring.DefaultRules(), &seqIDGenerator{prefix: "res"}, logging.NewNop(),
	)

	summary, err := service.SyncWeek(context.Background(), resultTestWeek, resultTestYear)
	if err != nil {
		t.Fatalf("SyncWeek error: %v", err)
	}

	if summary.StatLines != 3 || summary.Projections != 4 {
		t.Fatalf("unexpected summary inputs: %+v", summary)
	}
	if summary.Matched != 3 || summary.Unmatched != 1 || summary.Saved != 3 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary outcome: %+v", summary)
	}

	byID := make(map[string]projection.Result, len(store.savedResults))
	for _, result := range store.savedResults {
		byID[result.PlayerID] = result
	}

	// 3.6 attempts + 10.5 yards + 6 TD + 5 century bonus, plus 5 for the
	// 62-yard score.
	bijan := byID["p-bijan"]
	if bijan.ActualPoints != 30.1 {
		t.Fatalf("unexpected Bijan actual: got=%v want=30.1", bijan.ActualPoints)
	}
	if bijan.AccuracyPct != 92.5 {
		t.Fatalf("unexpected Bijan accuracy: got=%v want=92.5", bijan.AccuracyPct)
	}

	// The receiving touchdown credits the passer: 38 from the line plus 5 for
	// the 55-yard completion.
	dak := byID["p-dak"]
	if dak.ActualPoints != 43 {
		t.Fatalf("unexpected Dak actual: got=%v want=43", dak.ActualPoints)
	}

	ceedee := byID["p-ceedee"]
	if ceedee.ActualPoints != 33 || ceedee.AccuracyPct != 90 {
		t.Fatalf("unexpected CeeDee result: %+v", ceedee)
	}

	if _, saved := byID["p-ghost"]; saved {
		t.Fatalf("projection without actuals must stay unmatched: %+v", byID)
	}
}

func TestResultService_SyncWeek_NeverRewritesResults(t *testing.T) {
	t.Parallel()

	provider := &stubResultProvider{
		stats: []ExternalPlayerWeekStats{
			{PlayerID: "p-bijan", PlayerName: "Bijan Robinson", Stats: map[string]float64{
				scoring.StatRushingYards: 80,
			}},
		},
	}
	store := &stubProjectionStore{
		records: []projection.Record{
			{ID: "rec-1", Week: resultTestWeek, Year: resultTestYear, PlayerID: "p-bijan", PlayerName: "Bijan Robinson", Position: player.PositionRunningBack, ProjectedPoints: 28},
		},
		results: []projection.Result{
			{ID: "res-1", Week: resultTestWeek, Year: resultTestYear, PlayerID: "p-bijan", PlayerName: "Bijan Robinson", Position: player.PositionRunningBack, ProjectedPoints: 28, ActualPoints: 8, AccuracyPct: 28.6},
		},
	}
	service := NewResultService(
		provider, &stubRosterPlayerRepo{}, store,
		scoring.DefaultRules(), &seqIDGenerator{prefix: "res"}, logging.NewNop(),
	)

	summary, err := service.SyncWeek(context.Background(), resultTestWeek, resultTestYear)
	if err != nil {
		t.Fatalf("SyncWeek error: %v", err)
	}
	if summary.Matched != 1 || summary.Skipped != 1 || summary.Saved != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(store.savedResults) != 0 {
		t.Fatalf("existing results must not be rewritten: %+v", store.savedResults)
	}
}

func TestResultService_SyncWeek_Validation(t *testing.T) {
	t.Parallel()

	noProvider := NewResultService(
		nil, &stubRosterPlayerRepo{}, &stubProjectionStore{},
		scoring.DefaultRules(), &seqIDGenerator{prefix: "res"}, logging.NewNop(),
	)
	if _, err := noProvider.SyncWeek(context.Background(), resultTestWeek, resultTestYear); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable without a provider, got %v", err)
	}
	if _, err := noProvider.SyncWeek(context.Background(), 0, resultTestYear); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for week 0, got %v", err)
	}
}

func TestResultService_WeekReport(t *testing.T) {
	t.Parallel()

	store := &stubProjectionStore{results: []projection.Result{
		{ID: "res-1", Week: resultTestWeek, Year: resultTestYear, PlayerID: "qb-a", PlayerName: "Passer", Position: player.PositionQuarterback, ProjectedPoints: 30, ActualPoints: 30, AccuracyPct: 100},
		{ID: "res-2", Week: resultTestWeek, Year: resultTestYear, PlayerID: "rb-a", PlayerName: "Back One", Position: player.PositionRunningBack, ProjectedPoints: 20, ActualPoints: 22, AccuracyPct: 90},
		{ID: "res-3", Week: resultTestWeek, Year: resultTestYear, PlayerID: "rb-b", PlayerName: "Back Two", Position: player.PositionRunningBack, ProjectedPoints: 20, ActualPoints: 16, AccuracyPct: 70},
	}}
	service := NewResultService(
		&stubResultProvider{}, &stubRosterPlayerRepo{}, store,
		scoring.DefaultRules(), &seqIDGenerator{prefix: "res"}, logging.NewNop(),
	)

	got, err := service.WeekReport(context.Background(), resultTestWeek, resultTestYear)
	if err != nil {
		t.Fatalf("WeekReport error: %v", err)
	}

	if got.Samples != 3 || got.MeanAccuracyPct != 86.7 {
		t.Fatalf("unexpected report totals: %+v", got)
	}
	if len(got.Positions) != 2 {
		t.Fatalf("expected 2 position rows, got %+v", got.Positions)
	}
	// QB ahead of RB in the fixed position order.
	qb := got.Positions[0]
	if qb.Position != player.PositionQuarterback || qb.Samples != 1 || qb.MeanAccuracyPct != 100 || qb.MeanError != 0 {
		t.Fatalf("unexpected QB row: %+v", qb)
	}
	rb := got.Positions[1]
	if rb.Position != player.PositionRunningBack || rb.Samples != 2 || rb.MeanAccuracyPct != 80 || rb.MeanError != -1 {
		t.Fatalf("unexpected RB row: %+v", rb)
	}

	if len(got.Best) != 3 || got.Best[0].AccuracyPct != 100 {
		t.Fatalf("unexpected best list: %+v", got.Best)
	}
	if len(got.Worst) != 3 || got.Worst[0].AccuracyPct != 70 {
		t.Fatalf("unexpected worst list: %+v", got.Worst)
	}

	if _, err := service.WeekReport(context.Background(), resultTestWeek+1, resultTestYear); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an empty week, got %v", err)
	}
}

type stubResultProvider struct {
	stats []ExternalPlayerWeekStats
	plays []ExternalScoringPlay
	err   error
}

func (s *stubResultProvider) FetchWeekStats(_ context.Context, _, _ int) ([]ExternalPlayerWeekStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func (s *stubResultProvider) FetchScoringPlays(_ context.Context, _, _ int) ([]ExternalScoringPlay, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.plays, nil
}
