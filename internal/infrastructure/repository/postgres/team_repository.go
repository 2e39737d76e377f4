package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/team"
	qb "github.com/riskibarqy/gridiron-fantasy/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

var teamSelectColumns = []string{
	"id",
	"public_id",
	"name",
	"created_at",
	"updated_at",
	"deleted_at",
}

var teamReturnStatsSelectColumns = []string{
	"id",
	"team_public_id",
	"season",
	"return_yards_allowed",
	"games",
	"created_at",
	"updated_at",
	"deleted_at",
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{ID: row.PublicID, Name: row.Name})
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team public_id=%s: %w", id, err)
	}

	return team.Team{ID: row.PublicID, Name: row.Name}, true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, teams []team.Team) error {
	for _, item := range teams {
		publicID := strings.TrimSpace(item.ID)
		if publicID == "" {
			continue
		}

		model := teamInsertModel{PublicID: publicID, Name: item.Name}
		query, args, err := qb.InsertModel("teams", model, `ON CONFLICT (public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    name = EXCLUDED.name,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert team query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert team public_id=%s: %w", publicID, err)
		}
	}

	return nil
}

func (r *TeamRepository) GetReturnStats(ctx context.Context, teamID string, season int) (team.ReturnStats, bool, error) {
	query, args, err := qb.Select(teamReturnStatsSelectColumns...).From("team_return_stats").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.ReturnStats{}, false, fmt.Errorf("build get team return stats query: %w", err)
	}

	var row teamReturnStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.ReturnStats{}, false, nil
		}
		return team.ReturnStats{}, false, fmt.Errorf("get team return stats team=%s season=%d: %w", teamID, season, err)
	}

	return returnStatsFromRow(row), true, nil
}

func (r *TeamRepository) ListReturnStats(ctx context.Context, season int) ([]team.ReturnStats, error) {
	query, args, err := qb.Select(teamReturnStatsSelectColumns...).From("team_return_stats").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team return stats query: %w", err)
	}

	var rows []teamReturnStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team return stats season=%d: %w", season, err)
	}

	out := make([]team.ReturnStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, returnStatsFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) UpsertReturnStats(ctx context.Context, stats []team.ReturnStats) error {
	for _, item := range stats {
		teamID := strings.TrimSpace(item.TeamID)
		if teamID == "" {
			continue
		}

		model := teamReturnStatsInsertModel{
			TeamID:             teamID,
			Season:             item.Season,
			ReturnYardsAllowed: item.ReturnYardsAllowed,
			Games:              item.Games,
		}

		query, args, err := qb.InsertModel("team_return_stats", model, `ON CONFLICT (team_public_id, season) WHERE deleted_at IS NULL
DO UPDATE SET
    return_yards_allowed = EXCLUDED.return_yards_allowed,
    games = EXCLUDED.games,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert team return stats query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert team return stats team=%s season=%d: %w", teamID, item.Season, err)
		}
	}

	return nil
}

func returnStatsFromRow(row teamReturnStatsTableModel) team.ReturnStats {
	return team.ReturnStats{
		TeamID:             row.TeamID,
		Season:             row.Season,
		ReturnYardsAllowed: row.ReturnYardsAllowed,
		Games:              row.Games,
	}
}
