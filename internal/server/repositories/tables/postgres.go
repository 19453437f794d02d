package tables

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/dbx"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
)

// PostgresRepository runs builder statements against Postgres.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository works on db or on a transaction.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// authorize lets anonymous callers read public tables only.
func authorize(t *Table, userID string) error {
	if userID == "" && !t.Public {
		return common.ErrUnauthorized
	}
	return nil
}

// Select returns the rows of q visible to userID. An empty userID sees
// public tables only.
func (r *PostgresRepository) Select(ctx context.Context, q wire.Query, userID string) ([]wire.Row, error) {
	t, err := Lookup(q.Table)
	if err != nil {
		return nil, err
	}
	if err := authorize(t, userID); err != nil {
		return nil, err
	}

	st, err := buildSelect(t, q, userID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, st.sql, st.args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Insert writes rows and returns them with their generated columns.
func (r *PostgresRepository) Insert(ctx context.Context, table string, rows []wire.Row, userID string) ([]wire.Row, error) {
	t, err := Lookup(table)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, common.ErrUnauthorized
	}

	out := make([]wire.Row, 0, len(rows))
	for _, row := range rows {
		st, err := buildInsert(t, row, userID)
		if err != nil {
			return nil, err
		}
		res, err := r.db.QueryContext(ctx, st.sql, st.args...)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		inserted, err := scanRows(res)
		res.Close()
		if err != nil {
			return nil, err
		}
		// A parent-scoped insert returns nothing when the parent is not
		// the caller's.
		if len(inserted) == 0 && t.Parent != nil {
			return nil, common.ErrForbidden
		}
		out = append(out, inserted...)
	}
	return out, nil
}

// Delete requires at least one filter and reports the affected rows.
func (r *PostgresRepository) Delete(ctx context.Context, table string, filters []wire.Filter, userID string) (int64, error) {
	t, err := Lookup(table)
	if err != nil {
		return 0, err
	}
	if userID == "" {
		return 0, common.ErrUnauthorized
	}

	st, err := buildDelete(t, filters, userID)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, st.sql, st.args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

// scanRows reads every row into a column-keyed map. An empty result is a
// non-nil empty slice.
func scanRows(rows *sql.Rows) ([]wire.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	out := []wire.Row{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		row := make(wire.Row, len(cols))
		for i, c := range cols {
			row[c] = normalize(vals[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
