package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dailyquote/internal/wire"
)

// SelectAll reads every row matching q, one page of wire.MaxRows at a time,
// until the store returns a short page. q.Limit and q.Offset are ignored.
func SelectAll(ctx context.Context, store TableStore, q wire.Query) ([]wire.Row, error) {
	q.Limit, q.Offset = wire.MaxRows, 0

	var out []wire.Row
	for {
		page, err := store.Select(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < q.Limit {
			return out, nil
		}
		q.Offset += len(page)
	}
}

// Count returns the number of rows matching q.
func Count(ctx context.Context, store TableStore, q wire.Query) (int, error) {
	q.Count = true
	rows, err := store.Select(ctx, q)
	if err != nil {
		return 0, err
	}
	if len(rows) != 1 {
		return 0, fmt.Errorf("count %s: got %d rows, want 1", q.Table, len(rows))
	}
	var res struct {
		Count int `json:"count"`
	}
	if err := wire.DecodeRow(rows[0], &res); err != nil {
		return 0, fmt.Errorf("count %s: %w", q.Table, err)
	}
	return res.Count, nil
}
