package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[string]player.Player
	order   []string
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	repo := &PlayerRepository{players: make(map[string]player.Player, len(players))}
	for _, p := range players {
		if _, exists := repo.players[p.ID]; !exists {
			repo.order = append(repo.order, p.ID)
		}
		repo.players[p.ID] = p
	}
	return repo
}

func (r *PlayerRepository) GetByID(_ context.Context, id string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[id]
	return p, ok, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, ids []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := r.players[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out, nil
}

func (r *PlayerRepository) ListByPosition(_ context.Context, pos player.Position) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.order))
	for _, id := range r.order {
		if p := r.players[id]; p.Position == pos {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, players []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			continue
		}
		if _, exists := r.players[id]; !exists {
			r.order = append(r.order, id)
		}
		r.players[id] = p
	}
	return nil
}
