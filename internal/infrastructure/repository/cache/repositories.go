package cache

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/playevent"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/projection"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/roster"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/team"
	basecache "github.com/riskibarqy/gridiron-fantasy/internal/platform/cache"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	key := "team:id:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, teams []team.Team) error {
	if err := r.next.Upsert(ctx, teams); err != nil {
		return err
	}
	r.cache.Delete(ctx, "team:list")
	for _, item := range teams {
		r.cache.Delete(ctx, "team:id:"+item.ID)
	}
	return nil
}

func (r *TeamRepository) GetReturnStats(ctx context.Context, teamID string, season int) (team.ReturnStats, bool, error) {
	key := returnStatsKey(teamID, season)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetReturnStats(ctx, teamID, season)
		if err != nil {
			return nil, err
		}
		return cachedReturnStatsByTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.ReturnStats{}, false, err
	}

	cached, _ := v.(cachedReturnStatsByTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) ListReturnStats(ctx context.Context, season int) ([]team.ReturnStats, error) {
	key := returnStatsPrefix + "season:" + strconv.Itoa(season)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListReturnStats(ctx, season)
		if err != nil {
			return nil, err
		}
		return append([]team.ReturnStats(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.ReturnStats)
	return append([]team.ReturnStats(nil), items...), nil
}

func (r *TeamRepository) UpsertReturnStats(ctx context.Context, stats []team.ReturnStats) error {
	if err := r.next.UpsertReturnStats(ctx, stats); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, returnStatsPrefix)
	return nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

type cachedReturnStatsByTeam struct {
	value  team.ReturnStats
	exists bool
}

const returnStatsPrefix = "team:return-stats:"

func returnStatsKey(teamID string, season int) string {
	return returnStatsPrefix + "team:" + teamID + ":" + strconv.Itoa(season)
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	key := "player:id:" + playerID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	ids := append([]string(nil), playerIDs...)
	sort.Strings(ids)
	key := "player:ids:" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, playerIDs)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, "player:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) ListByPosition(ctx context.Context, pos player.Position) ([]player.Player, error) {
	key := "player:position:" + string(pos)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByPosition(ctx, pos)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, players []player.Player) error {
	if err := r.next.Upsert(ctx, players); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}

type PlayEventRepository struct {
	next  playevent.Repository
	cache *basecache.Store
}

func NewPlayEventRepository(next playevent.Repository, cache *basecache.Store) *PlayEventRepository {
	return &PlayEventRepository{next: next, cache: cache}
}

func (r *PlayEventRepository) SaveBatch(ctx context.Context, events []playevent.Event) error {
	if err := r.next.SaveBatch(ctx, events); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "play-event:")
	return nil
}

func (r *PlayEventRepository) ListBySeason(ctx context.Context, season int) ([]playevent.Event, error) {
	key := "play-event:season:" + strconv.Itoa(season)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, season)
		if err != nil {
			return nil, err
		}
		return append([]playevent.Event(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]playevent.Event)
	return append([]playevent.Event(nil), items...), nil
}

func (r *PlayEventRepository) ListBySeasonWeek(ctx context.Context, season, week int) ([]playevent.Event, error) {
	key := "play-event:week:" + strconv.Itoa(season) + ":" + strconv.Itoa(week)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeasonWeek(ctx, season, week)
		if err != nil {
			return nil, err
		}
		return append([]playevent.Event(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]playevent.Event)
	return append([]playevent.Event(nil), items...), nil
}

func (r *PlayEventRepository) CountByWeek(ctx context.Context, season int) (map[int]int, error) {
	return r.next.CountByWeek(ctx, season)
}

type ProjectionRepository struct {
	next  projection.Repository
	cache *basecache.Store
}

func NewProjectionRepository(next projection.Repository, cache *basecache.Store) *ProjectionRepository {
	return &ProjectionRepository{next: next, cache: cache}
}

func (r *ProjectionRepository) SaveRecords(ctx context.Context, records []projection.Record) error {
	if err := r.next.SaveRecords(ctx, records); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "projection:records:")
	return nil
}

func (r *ProjectionRepository) ListRecords(ctx context.Context, week, year int) ([]projection.Record, error) {
	key := "projection:records:" + strconv.Itoa(year) + ":" + strconv.Itoa(week)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListRecords(ctx, week, year)
		if err != nil {
			return nil, err
		}
		return append([]projection.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]projection.Record)
	return append([]projection.Record(nil), items...), nil
}

func (r *ProjectionRepository) CountRecordsByWeek(ctx context.Context, year int) (map[int]int, error) {
	return r.next.CountRecordsByWeek(ctx, year)
}

func (r *ProjectionRepository) SaveResults(ctx context.Context, results []projection.Result) error {
	if err := r.next.SaveResults(ctx, results); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "projection:results:")
	return nil
}

func (r *ProjectionRepository) ListResults(ctx context.Context, week, year int) ([]projection.Result, error) {
	key := "projection:results:" + strconv.Itoa(year) + ":" + strconv.Itoa(week)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListResults(ctx, week, year)
		if err != nil {
			return nil, err
		}
		return append([]projection.Result(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]projection.Result)
	return append([]projection.Result(nil), items...), nil
}

func (r *ProjectionRepository) ListResultsByYear(ctx context.Context, year int) ([]projection.Result, error) {
	key := "projection:results:year:" + strconv.Itoa(year)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListResultsByYear(ctx, year)
		if err != nil {
			return nil, err
		}
		return append([]projection.Result(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]projection.Result)
	return append([]projection.Result(nil), items...), nil
}

func (r *ProjectionRepository) CountResultsByWeek(ctx context.Context, year int) (map[int]int, error) {
	return r.next.CountResultsByWeek(ctx, year)
}

type RosterRepository struct {
	next  roster.Repository
	cache *basecache.Store
}

func NewRosterRepository(next roster.Repository, cache *basecache.Store) *RosterRepository {
	return &RosterRepository{next: next, cache: cache}
}

func (r *RosterRepository) Get(ctx context.Context, userID string, year int) (roster.Roster, bool, error) {
	key := rosterKey(userID, year)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Get(ctx, userID, year)
		if err != nil {
			return nil, err
		}
		return cachedRosterByUserYear{
			value:  cloneRoster(item),
			exists: exists,
		}, nil
	})
	if err != nil {
		return roster.Roster{}, false, err
	}

	cached, _ := v.(cachedRosterByUserYear)
	return cloneRoster(cached.value), cached.exists, nil
}

func (r *RosterRepository) Upsert(ctx context.Context, item roster.Roster) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, rosterKey(item.UserID, item.Year))
	return nil
}

type cachedRosterByUserYear struct {
	value  roster.Roster
	exists bool
}

func cloneRoster(item roster.Roster) roster.Roster {
	out := item
	out.PlayerIDs = append([]string(nil), item.PlayerIDs...)
	return out
}

func rosterKey(userID string, year int) string {
	return "roster:user:" + userID + ":year:" + strconv.Itoa(year)
}
