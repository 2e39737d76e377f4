package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/roster"
)

const (
	rosterTestUserID = "user-1"
	rosterTestYear   = 2025
)

func TestRosterService_Save_NormalizesAndStores(t *testing.T) {
	t.Parallel()

	rosterRepo := newStubRosterRepo()
	playerRepo := &stubRosterPlayerRepo{pool: map[string]player.Player{
		"p-allen": {ID: "p-allen", Name: "Josh Allen", TeamID: "BUF", Position: player.PositionQuarterback, IsActive: true},
		"p-gibbs": {ID: "p-gibbs", Name: "Jahmyr Gibbs", TeamID: "DET", Position: player.PositionRunningBack, IsActive: true},
	}}
	service := NewRosterService(rosterRepo, playerRepo)

	got, err := service.Save(context.Background(), rosterTestUserID, rosterTestYear, []string{" p-allen ", "p-gibbs"})
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if len(got.PlayerIDs) != 2 || got.PlayerIDs[0] != "p-allen" || got.PlayerIDs[1] != "p-gibbs" {
		t.Fatalf("unexpected normalized ids: %+v", got.PlayerIDs)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatalf("expected UpdatedAt to be stamped")
	}

	stored, exists, err := rosterRepo.Get(context.Background(), rosterTestUserID, rosterTestYear)
	if err != nil || !exists {
		t.Fatalf("stored roster missing: exists=%v err=%v", exists, err)
	}
	if len(stored.PlayerIDs) != 2 {
		t.Fatalf("unexpected stored roster: %+v", stored)
	}
}

func TestRosterService_Save_RejectsUnknownPlayers(t *testing.T) {
	t.Parallel()

	rosterRepo := newStubRosterRepo()
	playerRepo := &stubRosterPlayerRepo{pool: map[string]player.Player{
		"p-allen": {ID: "p-allen", Name: "Josh Allen", TeamID: "BUF", Position: player.PositionQuarterback, IsActive: true},
	}}
	service := NewRosterService(rosterRepo, playerRepo)

	_, err := service.Save(context.Background(), rosterTestUserID, rosterTestYear, []string{"p-allen", "p-missing"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown player, got %v", err)
	}
	if len(rosterRepo.items) != 0 {
		t.Fatalf("nothing should be stored on validation failure, got %+v", rosterRepo.items)
	}
}

func TestRosterService_Save_InvalidInputs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		userID    string
		year      int
		playerIDs []string
	}{
		{name: "blank user", userID: "  ", year: rosterTestYear, playerIDs: []string{"p-allen"}},
		{name: "zero year", userID: rosterTestUserID, year: 0, playerIDs: []string{"p-allen"}},
		{name: "empty roster", userID: rosterTestUserID, year: rosterTestYear, playerIDs: nil},
		{name: "blank player id", userID: rosterTestUserID, year: rosterTestYear, playerIDs: []string{"p-allen", "  "}},
		{name: "duplicate player", userID: rosterTestUserID, year: rosterTestYear, playerIDs: []string{"p-allen", "p-allen"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service := NewRosterService(newStubRosterRepo(), &stubRosterPlayerRepo{pool: map[string]player.Player{
				"p-allen": {ID: "p-allen", Name: "Josh Allen", TeamID: "BUF", Position: player.PositionQuarterback, IsActive: true},
			}})
			_, err := service.Save(context.Background(), tc.userID, tc.year, tc.playerIDs)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRosterService_Get(t *testing.T) {
	t.Parallel()

	rosterRepo := newStubRosterRepo()
	rosterRepo.items[rosterKey(rosterTestUserID, rosterTestYear)] = roster.Roster{
		UserID:    rosterTestUserID,
		Year:      rosterTestYear,
		PlayerIDs: []string{"p-allen"},
	}
	service := NewRosterService(rosterRepo, &stubRosterPlayerRepo{})

	got, err := service.Get(context.Background(), rosterTestUserID, rosterTestYear)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.UserID != rosterTestUserID || len(got.PlayerIDs) != 1 {
		t.Fatalf("unexpected roster: %+v", got)
	}

	_, err = service.Get(context.Background(), "user-unknown", rosterTestYear)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type stubRosterRepo struct {
	items map[string]roster.Roster
}

func newStubRosterRepo() *stubRosterRepo {
	return &stubRosterRepo{items: make(map[string]roster.Roster)}
}

func (s *stubRosterRepo) Get(_ context.Context, userID string, year int) (roster.Roster, bool, error) {
	item, ok := s.items[rosterKey(userID, year)]
	return item, ok, nil
}

func (s *stubRosterRepo) Upsert(_ context.Context, r roster.Roster) error {
	s.items[rosterKey(r.UserID, r.Year)] = r
	return nil
}

type stubRosterPlayerRepo struct {
	pool map[string]player.Player
}

func (s *stubRosterPlayerRepo) GetByID(_ context.Context, id string) (player.Player, bool, error) {
	p, ok := s.pool[id]
	return p, ok, nil
}

func (s *stubRosterPlayerRepo) GetByIDs(_ context.Context, ids []string) ([]player.Player, error) {
	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.pool[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRosterPlayerRepo) List(_ context.Context) ([]player.Player, error) {
	out := make([]player.Player, 0, len(s.pool))
	for _, p := range s.pool {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubRosterPlayerRepo) ListByPosition(_ context.Context, pos player.Position) ([]player.Player, error) {
	out := make([]player.Player, 0, len(s.pool))
	for _, p := range s.pool {
		if p.Position == pos {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRosterPlayerRepo) Upsert(_ context.Context, players []player.Player) error {
	if s.pool == nil {
		s.pool = make(map[string]player.Player, len(players))
	}
	for _, p := range players {
		s.pool[p.ID] = p
	}
	return nil
}

func rosterKey(userID string, year int) string {
	return fmt.Sprintf("%s:%d", userID, year)
}
