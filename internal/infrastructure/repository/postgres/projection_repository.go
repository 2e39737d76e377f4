package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/projection"
	qb "github.com/riskibarqy/gridiron-fantasy/internal/platform/querybuilder"
)

// ProjectionRepository stores projection records and their synced results.
// Both tables carry a unique player-week identity index, so replays insert
// nothing and published rows stay immutable.
type ProjectionRepository struct {
	db *sqlx.DB
}

var projectionRecordSelectColumns = []string{
	"id",
	"public_id",
	"week",
	"year",
	"player_public_id",
	"player_name",
	"position",
	"projected_points",
	"created_at",
	"deleted_at",
}

var projectionResultSelectColumns = []string{
	"id",
	"public_id",
	"week",
	"year",
	"player_public_id",
	"player_name",
	"position",
	"projected_points",
	"actual_points",
	"accuracy_pct",
	"created_at",
	"deleted_at",
}

// playerWeekConflictTarget matches the unique expression index on both
// projection tables: resolved rows key on the player id, unresolved rows on
// the lowercased name.
const playerWeekConflictTarget = `(year, week, COALESCE('id:' || player_public_id, 'name:' || LOWER(player_name))) WHERE deleted_at IS NULL`

func NewProjectionRepository(db *sqlx.DB) *ProjectionRepository {
	return &ProjectionRepository{db: db}
}

func (r *ProjectionRepository) SaveRecords(ctx context.Context, records []projection.Record) error {
	for _, record := range records {
		publicID := strings.TrimSpace(record.ID)
		if publicID == "" {
			continue
		}

		model := projectionRecordInsertModel{
			PublicID:        publicID,
			Week:            record.Week,
			Year:            record.Year,
			PlayerID:        optionalString(record.PlayerID),
			PlayerName:      record.PlayerName,
			Position:        string(record.Position),
			ProjectedPoints: record.ProjectedPoints,
		}

		query, args, err := qb.InsertModel("projection_records", model,
			"ON CONFLICT "+playerWeekConflictTarget+"\nDO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert projection record query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert projection record public_id=%s: %w", publicID, err)
		}
	}

	return nil
}

func (r *ProjectionRepository) ListRecords(ctx context.Context, week, year int) ([]projection.Record, error) {
	query, args, err := qb.Select(projectionRecordSelectColumns...).From("projection_records").
		Where(
			qb.Eq("week", week),
			qb.Eq("year", year),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list projection records query: %w", err)
	}

	var rows []projectionRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list projection records week=%d year=%d: %w", week, year, err)
	}

	out := make([]projection.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, recordFromRow(row))
	}
	return out, nil
}

func (r *ProjectionRepository) CountRecordsByWeek(ctx context.Context, year int) (map[int]int, error) {
	return r.countByWeek(ctx, "projection_records", year)
}

func (r *ProjectionRepository) SaveResults(ctx context.Context, results []projection.Result) error {
	for _, result := range results {
		publicID := strings.TrimSpace(result.ID)
		if publicID == "" {
			continue
		}

		model := projectionResultInsertModel{
			PublicID:        publicID,
			Week:            result.Week,
			Year:            result.Year,
			PlayerID:        optionalString(result.PlayerID),
			PlayerName:      result.PlayerName,
			Position:        string(result.Position),
			ProjectedPoints: result.ProjectedPoints,
			ActualPoints:    result.ActualPoints,
			AccuracyPct:     result.AccuracyPct,
		}

		query, args, err := qb.InsertModel("projection_results", model,
			"ON CONFLICT "+playerWeekConflictTarget+"\nDO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert projection result query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert projection result public_id=%s: %w", publicID, err)
		}
	}

	return nil
}

func (r *ProjectionRepository) ListResults(ctx context.Context, week, year int) ([]projection.Result, error) {
	query, args, err := qb.Select(projectionResultSelectColumns...).From("projection_results").
		Where(
			qb.Eq("week", week),
			qb.Eq("year", year),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list projection results query: %w", err)
	}

	var rows []projectionResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list projection results week=%d year=%d: %w", week, year, err)
	}

	return resultsFromRows(rows), nil
}

func (r *ProjectionRepository) ListResultsByYear(ctx context.Context, year int) ([]projection.Result, error) {
	query, args, err := qb.Select(projectionResultSelectColumns...).From("projection_results").
		Where(
			qb.Eq("year", year),
			qb.IsNull("deleted_at"),
		).
		OrderBy("week", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list projection results by year query: %w", err)
	}

	var rows []projectionResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list projection results year=%d: %w", year, err)
	}

	return resultsFromRows(rows), nil
}

func (r *ProjectionRepository) CountResultsByWeek(ctx context.Context, year int) (map[int]int, error) {
	return r.countByWeek(ctx, "projection_results", year)
}

func (r *ProjectionRepository) countByWeek(ctx context.Context, table string, year int) (map[int]int, error) {
	query, args, err := qb.Select("week", "COUNT(1) AS rows_count").From(table).
		Where(
			qb.Eq("year", year),
			qb.IsNull("deleted_at"),
		).
		GroupBy("week").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count %s by week query: %w", table, err)
	}

	var rows []struct {
		Week      int `db:"week"`
		RowsCount int `db:"rows_count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count %s year=%d: %w", table, year, err)
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Week] = row.RowsCount
	}
	return counts, nil
}

func recordFromRow(row projectionRecordTableModel) projection.Record {
	return projection.Record{
		ID:              row.PublicID,
		Week:            row.Week,
		Year:            row.Year,
		PlayerID:        row.PlayerID.String,
		PlayerName:      row.PlayerName,
		Position:        player.Position(row.Position),
		ProjectedPoints: row.ProjectedPoints,
		CreatedAt:       row.CreatedAt,
	}
}

func resultsFromRows(rows []projectionResultTableModel) []projection.Result {
	out := make([]projection.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, projection.Result{
			ID:              row.PublicID,
			Week:            row.Week,
			Year:            row.Year,
			PlayerID:        row.PlayerID.String,
			PlayerName:      row.PlayerName,
			Position:        player.Position(row.Position),
			ProjectedPoints: row.ProjectedPoints,
			ActualPoints:    row.ActualPoints,
			AccuracyPct:     row.AccuracyPct,
			CreatedAt:       row.CreatedAt,
		})
	}
	return out
}
