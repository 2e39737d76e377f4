package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/projection"
)

// ProjectionRepository holds projection records and results. Both stores skip
// rows whose player-week already exists, which keeps published projections and
// synced results immutable.
type ProjectionRepository struct {
	mu          sync.RWMutex
	records     map[string]projection.Record
	recordOrder []string
	results     map[string]projection.Result
	resultOrder []string
}

func NewProjectionRepository() *ProjectionRepository {
	return &ProjectionRepository{
		records: make(map[string]projection.Record),
		results: make(map[string]projection.Result),
	}
}

func (r *ProjectionRepository) SaveRecords(_ context.Context, records []projection.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range records {
		key := playerWeekKey(record.Year, record.Week, record.PlayerID, record.PlayerName)
		if _, exists := r.records[key]; exists {
			continue
		}
		r.records[key] = record
		r.recordOrder = append(r.recordOrder, key)
	}
	return nil
}

func (r *ProjectionRepository) ListRecords(_ context.Context, week, year int) ([]projection.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]projection.Record, 0, len(r.recordOrder))
	for _, key := range r.recordOrder {
		if record := r.records[key]; record.Week == week && record.Year == year {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *ProjectionRepository) CountRecordsByWeek(_ context.Context, year int) (map[int]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[int]int)
	for _, record := range r.records {
		if record.Year == year {
			counts[record.Week]++
		}
	}
	return counts, nil
}

func (r *ProjectionRepository) SaveResults(_ context.Context, results []projection.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, result := range results {
		key := playerWeekKey(result.Year, result.Week, result.PlayerID, result.PlayerName)
		if _, exists := r.results[key]; exists {
			continue
		}
		r.results[key] = result
		r.resultOrder = append(r.resultOrder, key)
	}
	return nil
}

func (r *ProjectionRepository) ListResults(_ context.Context, week, year int) ([]projection.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]projection.Result, 0, len(r.resultOrder))
	for _, key := range r.resultOrder {
		if result := r.results[key]; result.Week == week && result.Year == year {
			out = append(out, result)
		}
	}
	return out, nil
}

func (r *ProjectionRepository) ListResultsByYear(_ context.Context, year int) ([]projection.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]projection.Result, 0, len(r.resultOrder))
	for _, key := range r.resultOrder {
		if result := r.results[key]; result.Year == year {
			out = append(out, result)
		}
	}
	return out, nil
}

func (r *ProjectionRepository) CountResultsByWeek(_ context.Context, year int) (map[int]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[int]int)
	for _, result := range r.results {
		if result.Year == year {
			counts[result.Week]++
		}
	}
	return counts, nil
}

// playerWeekKey identifies a player-week. Unresolved rows key on the
// lowercased name so refreshes without a canonical ID still dedupe.
func playerWeekKey(year, week int, playerID, playerName string) string {
	identity := "id:" + playerID
	if playerID == "" {
		identity = "name:" + strings.ToLower(strings.TrimSpace(playerName))
	}
	return fmt.Sprintf("%d|%d|%s", year, week, identity)
}
