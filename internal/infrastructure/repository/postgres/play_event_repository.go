package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/playevent"
	qb "github.com/riskibarqy/gridiron-fantasy/internal/platform/querybuilder"
)

type PlayEventRepository struct {
	db *sqlx.DB
}

var playEventSelectColumns = []string{
	"id",
	"public_id",
	"season",
	"week",
	"event_type",
	"actor_public_id",
	"actor_name",
	"yards",
	"made",
	"created_at",
	"deleted_at",
}

func NewPlayEventRepository(db *sqlx.DB) *PlayEventRepository {
	return &PlayEventRepository{db: db}
}

func (r *PlayEventRepository) SaveBatch(ctx context.Context, events []playevent.Event) error {
	for _, event := range events {
		publicID := strings.TrimSpace(event.ID)
		if publicID == "" {
			continue
		}

		model := playEventInsertModel{
			PublicID:  publicID,
			Season:    event.Season,
			Week:      event.Week,
			EventType: string(event.Type),
			ActorID:   optionalString(event.ActorID),
			ActorName: event.ActorName,
			Yards:     event.Yards,
			Made:      event.Made,
		}

		query, args, err := qb.InsertModel("play_events", model, `ON CONFLICT (public_id) WHERE deleted_at IS NULL
DO NOTHING`)
		if err != nil {
			return fmt.Errorf("build insert play event query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert play event public_id=%s: %w", publicID, err)
		}
	}

	return nil
}

func (r *PlayEventRepository) ListBySeason(ctx context.Context, season int) ([]playevent.Event, error) {
	query, args, err := qb.Select(playEventSelectColumns...).From("play_events").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("week", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list play events by season query: %w", err)
	}

	var rows []playEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list play events season=%d: %w", season, err)
	}

	return playEventsFromRows(rows), nil
}

func (r *PlayEventRepository) ListBySeasonWeek(ctx context.Context, season, week int) ([]playevent.Event, error) {
	query, args, err := qb.Select(playEventSelectColumns...).From("play_events").
		Where(
			qb.Eq("season", season),
			qb.Eq("week", week),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list play events by week query: %w", err)
	}

	var rows []playEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list play events season=%d week=%d: %w", season, week, err)
	}

	return playEventsFromRows(rows), nil
}

func (r *PlayEventRepository) CountByWeek(ctx context.Context, season int) (map[int]int, error) {
	query, args, err := qb.Select("week", "COUNT(1) AS plays").From("play_events").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		GroupBy("week").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count play events by week query: %w", err)
	}

	var rows []struct {
		Week  int `db:"week"`
		Plays int `db:"plays"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count play events season=%d: %w", season, err)
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Week] = row.Plays
	}
	return counts, nil
}

func playEventsFromRows(rows []playEventTableModel) []playevent.Event {
	out := make([]playevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, playevent.Event{
			ID:        row.PublicID,
			Season:    row.Season,
			Week:      row.Week,
			Type:      playevent.Type(row.EventType),
			ActorID:   row.ActorID.String,
			ActorName: row.ActorName,
			Yards:     row.Yards,
			Made:      row.Made,
		})
	}
	return out
}
