package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/projection"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/roster"
)

func TestLineupService_Optimal_FillsEverySlot(t *testing.T) {
	t.Parallel()

	pool := map[string]player.Player{
		"qb1":  {ID: "qb1", Name: "Starter QB", TeamID: "BUF", Position: player.PositionQuarterback, IsActive: true},
		"qb2":  {ID: "qb2", Name: "Backup QB", TeamID: "DAL", Position: player.PositionQuarterback, IsActive: true},
		"rb1":  {ID: "rb1", Name: "Lead Back", TeamID: "DET", Position: player.PositionRunningBack, IsActive: true},
		"rb2":  {ID: "rb2", Name: "Second Back", TeamID: "SF", Position: player.PositionRunningBack, IsActive: true},
		"rb3":  {ID: "rb3", Name: "Third Back", TeamID: "MIA", Position: player.PositionRunningBack, IsActive: true},
		"rb4":  {ID: "rb4", Name: "Injured Back", TeamID: "NYJ", Position: player.PositionRunningBack, IsActive: false},
		"wr1":  {ID: "wr1", Name: "Alpha Receiver", TeamID: "CIN", Position: player.PositionWideReceiver, IsActive: true},
		"wr2":  {ID: "wr2", Name: "Slot Receiver", TeamID: "KC", Position: player.PositionWideReceiver, IsActive: true},
		"te1":  {ID: "te1", Name: "Move TE", TeamID: "LV", Position: player.PositionTightEnd, IsActive: true},
		"k1":   {ID: "k1", Name: "Reliable Kicker", TeamID: "DAL", Position: player.PositionKicker, IsActive: true},
		"dst1": {ID: "dst1", Name: "Stout Defense", TeamID: "PHI", Position: player.PositionDefense, IsActive: true},
	}
	rosterRepo := newStubRosterRepo()
	rosterRepo.items[rosterKey(rosterTestUserID, rosterTestYear)] = roster.Roster{
		UserID: rosterTestUserID,
		Year:   rosterTestYear,
		PlayerIDs: []string{
			"qb1", "qb2", "rb1", "rb2", "rb3", "rb4", "wr1", "wr2", "te1", "k1", "dst1",
		},
	}
	projections := &stubLineupProjections{points: map[string]float64{
		"qb1": 20.5, "qb2": 18, "rb1": 15, "rb2": 12, "rb3": 11,
		"rb4": 50, "wr1": 14, "wr2": 9, "te1": 8, "k1": 7, "dst1": 6,
	}}
	service := NewLineupService(rosterRepo, &stubRosterPlayerRepo{pool: pool}, projections)

	got, err := service.Optimal(context.Background(), rosterTestUserID, 3, rosterTestYear)
	if err != nil {
		t.Fatalf("Optimal error: %v", err)
	}

	if got.Week != 3 || got.Year != rosterTestYear || len(got.Slots) != len(roster.SlotOrder) {
		t.Fatalf("unexpected lineup shape: %+v", got)
	}
	want := map[roster.SlotName]string{
		roster.SlotQB:   "qb1",
		roster.SlotRB1:  "rb1",
		roster.SlotRB2:  "rb2",
		roster.SlotWR1:  "wr1",
		roster.SlotWR2:  "wr2",
		roster.SlotTE:   "te1",
		roster.SlotFlex: "rb3",
		roster.SlotK:    "k1",
		roster.SlotDST:  "dst1",
	}
	for _, slot := range got.Slots {
		if slot.PlayerID != want[slot.Name] {
			t.Fatalf("slot %s: got %s want %s", slot.Name, slot.PlayerID, want[slot.Name])
		}
	}
	// 20.5+15+12+14+9+8+11+7+6; the benched QB and the inactive back stay out.
	if got.TotalPoints != 102.5 {
		t.Fatalf("unexpected total: got=%v want=102.5", got.TotalPoints)
	}
}

func TestLineupService_Optimal_SparseRosterLeavesSlotsEmpty(t *testing.T) {
	t.Parallel()

	pool := map[string]player.Player{
		"qb1": {ID: "qb1", Name: "Only QB", TeamID: "BUF", Position: player.PositionQuarterback, IsActive: true},
		"te1": {ID: "te1", Name: "Only TE", TeamID: "LV", Position: player.PositionTightEnd, IsActive: true},
	}
	rosterRepo := newStubRosterRepo()
	rosterRepo.items[rosterKey(rosterTestUserID, rosterTestYear)] = roster.Roster{
		UserID:    rosterTestUserID,
		Year:      rosterTestYear,
		PlayerIDs: []string{"qb1", "te1"},
	}
	// No projection row for the TE: it still starts, at zero points.
	projections := &stubLineupProjections{points: map[string]float64{"qb1": 19.5}}
	service := NewLineupService(rosterRepo, &stubRosterPlayerRepo{pool: pool}, projections)

	got, err := service.Optimal(context.Background(), rosterTestUserID, 3, rosterTestYear)
	if err != nil {
		t.Fatalf("Optimal error: %v", err)
	}

	filled := 0
	for _, slot := range got.Slots {
		if slot.Filled() {
			filled++
		}
		switch slot.Name {
		case roster.SlotQB:
			if slot.PlayerID != "qb1" {
				t.Fatalf("QB slot not filled: %+v", slot)
			}
		case roster.SlotTE:
			if slot.PlayerID != "te1" || slot.ProjectedPoints != 0 {
				t.Fatalf("TE slot should start at zero points: %+v", slot)
			}
		}
	}
	if filled != 2 {
		t.Fatalf("expected 2 filled slots, got %d: %+v", filled, got.Slots)
	}
	if got.TotalPoints != 19.5 {
		t.Fatalf("unexpected total: got=%v want=19.5", got.TotalPoints)
	}
}

func TestLineupService_Optimal_Errors(t *testing.T) {
	t.Parallel()

	service := NewLineupService(newStubRosterRepo(), &stubRosterPlayerRepo{}, &stubLineupProjections{})

	if _, err := service.Optimal(context.Background(), rosterTestUserID, 3, rosterTestYear); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing roster, got %v", err)
	}
	if _, err := service.Optimal(context.Background(), "  ", 3, rosterTestYear); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank user, got %v", err)
	}
	if _, err := service.Optimal(context.Background(), rosterTestUserID, 19, rosterTestYear); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for week out of range, got %v", err)
	}
}

type stubLineupProjections struct {
	points map[string]float64
}

func (s *stubLineupProjections) ListRecords(_ context.Context, week, year int) ([]projection.Record, error) {
	out := make([]projection.Record, 0, len(s.points))
	for id, pts := range s.points {
		out = append(out, projection.Record{
			ID:              "rec-" + id,
			Week:            week,
			Year:            year,
			PlayerID:        id,
			ProjectedPoints: pts,
		})
	}
	return out, nil
}
