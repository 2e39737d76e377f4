package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/roster"
)

type RosterRepository struct {
	mu      sync.RWMutex
	rosters map[string]roster.Roster
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{rosters: make(map[string]roster.Roster)}
}

func (r *RosterRepository) Get(_ context.Context, userID string, year int) (roster.Roster, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rosters[rosterKey(userID, year)]
	return item, ok, nil
}

func (r *RosterRepository) Upsert(_ context.Context, item roster.Roster) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rosters[rosterKey(item.UserID, item.Year)] = item
	return nil
}

func rosterKey(userID string, year int) string {
	return fmt.Sprintf("%s|%d", userID, year)
}
