package projection

import "context"

// Repository persists projection records and their paired results.
type Repository interface {
	// SaveRecords inserts new projection rows. Player-weeks that already have
	// a record are left untouched so published projections stay immutable.
	SaveRecords(ctx context.Context, records []Record) error
	ListRecords(ctx context.Context, week, year int) ([]Record, error)
	CountRecordsByWeek(ctx context.Context, year int) (map[int]int, error)

	SaveResults(ctx context.Context, results []Result) error
	ListResults(ctx context.Context, week, year int) ([]Result, error)
	ListResultsByYear(ctx context.Context, year int) ([]Result, error)
	CountResultsByWeek(ctx context.Context, year int) (map[int]int, error)
}
