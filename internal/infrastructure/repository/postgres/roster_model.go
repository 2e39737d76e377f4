package postgres

import (
	"time"

	"github.com/lib/pq"
)

type rosterTableModel struct {
	ID        int64          `db:"id"`
	UserID    string         `db:"user_id"`
	Year      int            `db:"year"`
	PlayerIDs pq.StringArray `db:"player_ids"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	DeletedAt *time.Time     `db:"deleted_at"`
}

type rosterInsertModel struct {
	UserID    string         `db:"user_id"`
	Year      int            `db:"year"`
	PlayerIDs pq.StringArray `db:"player_ids"`
	UpdatedAt time.Time      `db:"updated_at"`
}
