package postgres

import "time"

type teamTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
}

type teamReturnStatsTableModel struct {
	ID                 int64      `db:"id"`
	TeamID             string     `db:"team_public_id"`
	Season             int        `db:"season"`
	ReturnYardsAllowed float64    `db:"return_yards_allowed"`
	Games              int        `db:"games"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	DeletedAt          *time.Time `db:"deleted_at"`
}

type teamReturnStatsInsertModel struct {
	TeamID             string  `db:"team_public_id"`
	Season             int     `db:"season"`
	ReturnYardsAllowed float64 `db:"return_yards_allowed"`
	Games              int     `db:"games"`
}
