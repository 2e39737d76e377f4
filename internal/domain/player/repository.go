package player

import "context"

// Repository abstracts player storage. Implementations must be safe for
// concurrent use.
type Repository interface {
	GetByID(ctx context.Context, id string) (Player, bool, error)
	GetByIDs(ctx context.Context, ids []string) ([]Player, error)
	List(ctx context.Context) ([]Player, error)
	ListByPosition(ctx context.Context, pos Position) ([]Player, error)
	Upsert(ctx context.Context, players []Player) error
}
