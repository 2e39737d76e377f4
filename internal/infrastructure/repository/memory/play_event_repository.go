package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/playevent"
)

type PlayEventRepository struct {
	mu     sync.RWMutex
	events map[string]playevent.Event
	order  []string
}

func NewPlayEventRepository(events []playevent.Event) *PlayEventRepository {
	repo := &PlayEventRepository{events: make(map[string]playevent.Event, len(events))}
	for _, event := range events {
		if _, exists := repo.events[event.ID]; !exists {
			repo.order = append(repo.order, event.ID)
		}
		repo.events[event.ID] = event
	}
	return repo
}

func (r *PlayEventRepository) SaveBatch(_ context.Context, events []playevent.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range events {
		id := strings.TrimSpace(event.ID)
		if id == "" {
			continue
		}
		if _, exists := r.events[id]; !exists {
			r.order = append(r.order, id)
		}
		r.events[id] = event
	}
	return nil
}

func (r *PlayEventRepository) ListBySeason(_ context.Context, season int) ([]playevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playevent.Event, 0, len(r.order))
	for _, id := range r.order {
		if event := r.events[id]; event.Season == season {
			out = append(out, event)
		}
	}
	return out, nil
}

func (r *PlayEventRepository) ListBySeasonWeek(_ context.Context, season, week int) ([]playevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playevent.Event, 0, len(r.order))
	for _, id := range r.order {
		if event := r.events[id]; event.Season == season && event.Week == week {
			out = append(out, event)
		}
	}
	return out, nil
}

func (r *PlayEventRepository) CountByWeek(_ context.Context, season int) (map[int]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[int]int)
	for _, event := range r.events {
		if event.Season == season {
			counts[event.Week]++
		}
	}
	return counts, nil
}
