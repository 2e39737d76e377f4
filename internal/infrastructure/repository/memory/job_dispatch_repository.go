package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/jobscheduler"
)

type JobDispatchRepository struct {
	mu     sync.RWMutex
	events map[string]jobscheduler.DispatchEvent
}

func NewJobDispatchRepository() *JobDispatchRepository {
	return &JobDispatchRepository{events: make(map[string]jobscheduler.DispatchEvent)}
}

func (r *JobDispatchRepository) UpsertEvent(_ context.Context, event jobscheduler.DispatchEvent) error {
	if strings.TrimSpace(event.DispatchID) == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[event.DispatchID+"|"+string(event.Status)] = event
	return nil
}

func (r *JobDispatchRepository) ListRecent(_ context.Context, limit int) ([]jobscheduler.DispatchEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]jobscheduler.DispatchEvent, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, event)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
