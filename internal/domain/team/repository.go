package team

import "context"

type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id string) (Team, bool, error)
	Upsert(ctx context.Context, teams []Team) error

	GetReturnStats(ctx context.Context, teamID string, season int) (ReturnStats, bool, error)
	ListReturnStats(ctx context.Context, season int) ([]ReturnStats, error)
	UpsertReturnStats(ctx context.Context, stats []ReturnStats) error
}
