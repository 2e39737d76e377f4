package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/pattern"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/playevent"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/resilience"
)

const defaultPatternRebuildInterval = 15 * time.Minute

// PatternService memoizes one pattern model per season. Builds run behind a
// singleflight so a cold cache under concurrent projection refreshes loads the
// season exactly once.
type PatternService struct {
	eventRepo  playevent.Repository
	rules      scoring.Rules
	thresholds pattern.Thresholds
	now        func() time.Time

	buildFlight resilience.SingleFlight
	mu          sync.Mutex
	models      map[int]patternCacheEntry
	rebuildTTL  time.Duration
}

type patternCacheEntry struct {
	model   *pattern.Model
	builtAt time.Time
}

type PatternCacheState struct {
	Season           int       `json:"season"`
	BuiltAt          time.Time `json:"built_at"`
	TouchdownActors  int       `json:"touchdown_actors"`
	FieldGoalKickers int       `json:"field_goal_kickers"`
}

func NewPatternService(eventRepo playevent.Repository, rules scoring.Rules) *PatternService {
	return &PatternService{
		eventRepo:  eventRepo,
		rules:      rules,
		thresholds: pattern.DefaultThresholds(),
		now:        time.Now,
		models:     make(map[int]patternCacheEntry),
		rebuildTTL: defaultPatternRebuildInterval,
	}
}

// Model returns the memoized pattern model for a season, building it from the
// stored play events when the cache is cold or stale.
func (s *PatternService) Model(ctx context.Context, season int) (*pattern.Model, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PatternService.Model")
	defer span.End()

	if season <= 0 {
		return nil, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	if model, ok := s.cached(season); ok {
		return model, nil
	}

	key := fmt.Sprintf("pattern:build:%d", season)
	value, err, _ := s.buildFlight.Do(key, func() (any, error) {
		if model, ok := s.cached(season); ok {
			return model, nil
		}

		events, err := s.eventRepo.ListBySeason(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("list play events for season %d: %w", season, err)
		}

		model := pattern.Build(season, events, s.rules, s.thresholds)
		s.mu.Lock()
		s.models[season] = patternCacheEntry{model: model, builtAt: s.now().UTC()}
		s.mu.Unlock()
		return model, nil
	})
	if err != nil {
		return nil, err
	}

	model, ok := value.(*pattern.Model)
	if !ok || model == nil {
		return nil, fmt.Errorf("%w: pattern build returned no model", ErrDependencyUnavailable)
	}
	return model, nil
}

// ExpectedTouchdownBonus converts a projected touchdown count into expected
// length-bonus points using the season's distributions. Non-positive
// projections short-circuit to zero.
func (s *PatternService) ExpectedTouchdownBonus(ctx context.Context, season int, actorID string, projectedTDs float64) (float64, error) {
	if projectedTDs <= 0 {
		return 0, nil
	}
	model, err := s.Model(ctx, season)
	if err != nil {
		return 0, err
	}
	return model.ExpectedTouchdownBonus(actorID, projectedTDs), nil
}

// ExpectedFieldGoalPoints converts projected field-goal and point-after counts
// into expected kicker points using the season's distance distributions.
func (s *PatternService) ExpectedFieldGoalPoints(ctx context.Context, season int, kickerID string, projectedFGs, projectedPATs float64) (float64, error) {
	if projectedFGs < 0 || projectedPATs < 0 {
		return 0, fmt.Errorf("%w: projected kick counts cannot be negative", ErrInvalidInput)
	}
	model, err := s.Model(ctx, season)
	if err != nil {
		return 0, err
	}
	return model.ExpectedFieldGoalPoints(kickerID, projectedFGs, projectedPATs), nil
}

// TouchdownDistributions returns the season's per-actor touchdown-length
// distributions ordered by volume for reporting.
func (s *PatternService) TouchdownDistributions(ctx context.Context, season int) ([]pattern.Distribution, error) {
	model, err := s.Model(ctx, season)
	if err != nil {
		return nil, err
	}
	return sortDistributions(model.Touchdowns), nil
}

// FieldGoalDistributions returns the season's per-kicker distance
// distributions ordered by volume.
func (s *PatternService) FieldGoalDistributions(ctx context.Context, season int) ([]pattern.Distribution, error) {
	model, err := s.Model(ctx, season)
	if err != nil {
		return nil, err
	}
	return sortDistributions(model.FieldGoals), nil
}

// Invalidate drops the memoized model for a season. Ingestion calls it after
// landing new play events so the next lookup rebuilds.
func (s *PatternService) Invalidate(season int) {
	s.mu.Lock()
	delete(s.models, season)
	s.mu.Unlock()
}

// CacheState snapshots the memoized seasons for the ops dashboard.
func (s *PatternService) CacheState() []PatternCacheState {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]PatternCacheState, 0, len(s.models))
	for season, entry := range s.models {
		states = append(states, PatternCacheState{
			Season:           season,
			BuiltAt:          entry.builtAt,
			TouchdownActors:  len(entry.model.Touchdowns),
			FieldGoalKickers: len(entry.model.FieldGoals),
		})
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].Season > states[j].Season
	})
	return states
}

func (s *PatternService) cached(season int) (*pattern.Model, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.models[season]
	if !ok {
		return nil, false
	}
	if s.rebuildTTL > 0 && s.now().UTC().Sub(entry.builtAt) >= s.rebuildTTL {
		return nil, false
	}
	return entry.model, true
}

func sortDistributions(byActor map[string]pattern.Distribution) []pattern.Distribution {
	items := make([]pattern.Distribution, 0, len(byActor))
	for _, d := range byActor {
		items = append(items, d)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Total != items[j].Total {
			return items[i].Total > items[j].Total
		}
		return items[i].ActorID < items[j].ActorID
	})
	return items
}
