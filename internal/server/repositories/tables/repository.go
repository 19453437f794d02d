package tables

import (
	"context"

	"github.com/dmitrijs2005/dailyquote/internal/wire"
)

// Repository runs generic table operations on behalf of userID. An empty
// userID is an anonymous caller and may only read public tables.
type Repository interface {
	Select(ctx context.Context, q wire.Query, userID string) ([]wire.Row, error)
	Insert(ctx context.Context, table string, rows []wire.Row, userID string) ([]wire.Row, error)
	Delete(ctx context.Context, table string, filters []wire.Filter, userID string) (int64, error)
}
