package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/roster"
	qb "github.com/riskibarqy/gridiron-fantasy/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func rosterBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"id",
		"user_id",
		"year",
		"player_ids",
		"created_at",
		"updated_at",
		"deleted_at",
	).From("rosters")
}

func (r *RosterRepository) Get(ctx context.Context, userID string, year int) (roster.Roster, bool, error) {
	query, args, err := rosterBaseSelectBuilder().
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("year", year),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return roster.Roster{}, false, fmt.Errorf("build get roster query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.getSingleParam(ctx, userID, year)
		}
		if isNotFound(err) {
			return roster.Roster{}, false, nil
		}
		return roster.Roster{}, false, fmt.Errorf("get roster: %w", err)
	}

	return rosterFromRow(row), true, nil
}

// getSingleParam collapses both filters into one array parameter for poolers
// that lose track of multi-parameter prepared statements.
func (r *RosterRepository) getSingleParam(ctx context.Context, userID string, year int) (roster.Roster, bool, error) {
	query, _, err := rosterBaseSelectBuilder().
		Where(
			qb.Expr("user_id = ($1::text[])[1]"),
			qb.Expr("year = (($1::text[])[2])::int"),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return roster.Roster{}, false, fmt.Errorf("build get roster single param fallback query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, pq.Array([]string{userID, strconv.Itoa(year)})); err != nil {
		if isUnnamedPreparedStatementMissing(err) {
			return r.getLiteral(ctx, userID, year)
		}
		if isNotFound(err) {
			return roster.Roster{}, false, nil
		}
		return roster.Roster{}, false, fmt.Errorf("get roster fallback: %w", err)
	}

	return rosterFromRow(row), true, nil
}

func (r *RosterRepository) getLiteral(ctx context.Context, userID string, year int) (roster.Roster, bool, error) {
	query, args, err := rosterBaseSelectBuilder().
		Where(
			qb.EqLiteral("user_id", userID),
			qb.Expr("year = "+strconv.Itoa(year)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return roster.Roster{}, false, fmt.Errorf("build get roster literal fallback query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Roster{}, false, nil
		}
		return roster.Roster{}, false, fmt.Errorf("get roster literal fallback: %w", err)
	}

	return rosterFromRow(row), true, nil
}

func (r *RosterRepository) Upsert(ctx context.Context, item roster.Roster) error {
	updatedAt := item.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	model := rosterInsertModel{
		UserID:    item.UserID,
		Year:      item.Year,
		PlayerIDs: pq.StringArray(item.PlayerIDs),
		UpdatedAt: updatedAt,
	}

	query, args, err := qb.InsertModel("rosters", model, `ON CONFLICT (user_id, year) WHERE deleted_at IS NULL
DO UPDATE SET
    player_ids = EXCLUDED.player_ids,
    updated_at = EXCLUDED.updated_at,
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert roster query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert roster user=%s year=%d: %w", item.UserID, item.Year, err)
	}

	return nil
}

func rosterFromRow(row rosterTableModel) roster.Roster {
	return roster.Roster{
		UserID:    row.UserID,
		Year:      row.Year,
		PlayerIDs: []string(row.PlayerIDs),
		UpdatedAt: row.UpdatedAt,
	}
}
