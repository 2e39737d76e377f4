package postgres

import (
	"database/sql"
	"time"
)

type playEventTableModel struct {
	ID        int64          `db:"id"`
	PublicID  string         `db:"public_id"`
	Season    int            `db:"season"`
	Week      int            `db:"week"`
	EventType string         `db:"event_type"`
	ActorID   sql.NullString `db:"actor_public_id"`
	ActorName string         `db:"actor_name"`
	Yards     float64        `db:"yards"`
	Made      bool           `db:"made"`
	CreatedAt time.Time      `db:"created_at"`
	DeletedAt *time.Time     `db:"deleted_at"`
}

type playEventInsertModel struct {
	PublicID  string  `db:"public_id"`
	Season    int     `db:"season"`
	Week      int     `db:"week"`
	EventType string  `db:"event_type"`
	ActorID   *string `db:"actor_public_id"`
	ActorName string  `db:"actor_name"`
	Yards     float64 `db:"yards"`
	Made      bool    `db:"made"`
}
