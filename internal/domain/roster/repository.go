package roster

import "context"

type Repository interface {
	Get(ctx context.Context, userID string, year int) (Roster, bool, error)
	Upsert(ctx context.Context, r Roster) error
}
