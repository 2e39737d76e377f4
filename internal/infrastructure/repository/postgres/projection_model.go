package postgres

import (
	"database/sql"
	"time"
)

type projectionRecordTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	Week            int            `db:"week"`
	Year            int            `db:"year"`
	PlayerID        sql.NullString `db:"player_public_id"`
	PlayerName      string         `db:"player_name"`
	Position        string         `db:"position"`
	ProjectedPoints float64        `db:"projected_points"`
	CreatedAt       time.Time      `db:"created_at"`
	DeletedAt       *time.Time     `db:"deleted_at"`
}

type projectionRecordInsertModel struct {
	PublicID        string  `db:"public_id"`
	Week            int     `db:"week"`
	Year            int     `db:"year"`
	PlayerID        *string `db:"player_public_id"`
	PlayerName      string  `db:"player_name"`
	Position        string  `db:"position"`
	ProjectedPoints float64 `db:"projected_points"`
}

type projectionResultTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	Week            int            `db:"week"`
	Year            int            `db:"year"`
	PlayerID        sql.NullString `db:"player_public_id"`
	PlayerName      string         `db:"player_name"`
	Position        string         `db:"position"`
	ProjectedPoints float64        `db:"projected_points"`
	ActualPoints    float64        `db:"actual_points"`
	AccuracyPct     float64        `db:"accuracy_pct"`
	CreatedAt       time.Time      `db:"created_at"`
	DeletedAt       *time.Time     `db:"deleted_at"`
}

type projectionResultInsertModel struct {
	PublicID        string  `db:"public_id"`
	Week            int     `db:"week"`
	Year            int     `db:"year"`
	PlayerID        *string `db:"player_public_id"`
	PlayerName      string  `db:"player_name"`
	Position        string  `db:"position"`
	ProjectedPoints float64 `db:"projected_points"`
	ActualPoints    float64 `db:"actual_points"`
	AccuracyPct     float64 `db:"accuracy_pct"`
}
