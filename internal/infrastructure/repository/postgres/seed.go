package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/gridiron-fantasy/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the dev dataset into an empty database: teams, players,
// one pattern season of scoring plays, and return-yardage stats. A database
// that already has teams is left alone.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (public_id, name)
VALUES (:public_id, :name)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id": t.ID,
			"name":      t.Name,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	for _, p := range memory.SeedPlayers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO players (public_id, team_public_id, name, position, is_active)
VALUES (:public_id, :team_public_id, :name, :position, TRUE)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":      p.ID,
			"team_public_id": p.TeamID,
			"name":           p.Name,
			"position":       string(p.Position),
		})
		if err != nil {
			return fmt.Errorf("bind seed player %s query: %w", p.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}

	for _, e := range memory.SeedPlayEvents() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO play_events (public_id, season, week, event_type, actor_public_id, actor_name, yards, made)
VALUES (:public_id, :season, :week, :event_type, :actor_public_id, :actor_name, :yards, :made)
ON CONFLICT (public_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":       e.ID,
			"season":          e.Season,
			"week":            e.Week,
			"event_type":      string(e.Type),
			"actor_public_id": optionalString(e.ActorID),
			"actor_name":      e.ActorName,
			"yards":           e.Yards,
			"made":            e.Made,
		})
		if err != nil {
			return fmt.Errorf("bind seed play event %s query: %w", e.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed play event %s: %w", e.ID, err)
		}
	}

	for _, s := range memory.SeedTeamReturnStats() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO team_return_stats (team_public_id, season, return_yards_allowed, games)
VALUES (:team_public_id, :season, :return_yards_allowed, :games)
ON CONFLICT (team_public_id, season) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"team_public_id":       s.TeamID,
			"season":               s.Season,
			"return_yards_allowed": s.ReturnYardsAllowed,
			"games":                s.Games,
		})
		if err != nil {
			return fmt.Errorf("bind seed return stats %s query: %w", s.TeamID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed return stats %s: %w", s.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
