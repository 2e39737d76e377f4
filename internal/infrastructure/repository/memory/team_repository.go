package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/team"
)

type TeamRepository struct {
	mu          sync.RWMutex
	teams       map[string]team.Team
	order       []string
	returnStats map[string]team.ReturnStats
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	repo := &TeamRepository{
		teams:       make(map[string]team.Team, len(teams)),
		returnStats: make(map[string]team.ReturnStats),
	}
	for _, item := range teams {
		if _, exists := repo.teams[item.ID]; !exists {
			repo.order = append(repo.order, item.ID)
		}
		repo.teams[item.ID] = item
	}
	return repo
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.teams[id])
	}
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[id]
	return item, ok, nil
}

func (r *TeamRepository) Upsert(_ context.Context, teams []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range teams {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		if _, exists := r.teams[id]; !exists {
			r.order = append(r.order, id)
		}
		r.teams[id] = item
	}
	return nil
}

func (r *TeamRepository) GetReturnStats(_ context.Context, teamID string, season int) (team.ReturnStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats, ok := r.returnStats[returnStatsKey(teamID, season)]
	return stats, ok, nil
}

func (r *TeamRepository) ListReturnStats(_ context.Context, season int) ([]team.ReturnStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.ReturnStats, 0, len(r.returnStats))
	for _, stats := range r.returnStats {
		if stats.Season == season {
			out = append(out, stats)
		}
	}
	return out, nil
}

func (r *TeamRepository) UpsertReturnStats(_ context.Context, stats []team.ReturnStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range stats {
		if strings.TrimSpace(item.TeamID) == "" {
			continue
		}
		r.returnStats[returnStatsKey(item.TeamID, item.Season)] = item
	}
	return nil
}

func returnStatsKey(teamID string, season int) string {
	return fmt.Sprintf("%s|%d", teamID, season)
}
