package playevent

import "context"

// Repository persists scoring plays so pattern models can rebuild without
// refetching a season from the stats provider.
type Repository interface {
	SaveBatch(ctx context.Context, events []Event) error
	ListBySeason(ctx context.Context, season int) ([]Event, error)
	ListBySeasonWeek(ctx context.Context, season, week int) ([]Event, error)
	CountByWeek(ctx context.Context, season int) (map[int]int, error)
}
