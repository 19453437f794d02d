package tables

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
)

// MaxLimit caps the number of rows one select may return.
const MaxLimit = wire.MaxRows

// statement is a parameterized SQL string and its arguments.
type statement struct {
	sql  string
	args []any
}

// builder collects WHERE conditions and numbers placeholders in the
// order values are bound.
type builder struct {
	t     *Table
	args  []any
	conds []string
}

func newBuilder(t *Table) *builder {
	return &builder{t: t}
}

// bind appends v to the arguments and returns its placeholder.
func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// scope adds the ownership predicate for userID.
func (b *builder) scope(userID string) {
	switch {
	case b.t.OwnerColumn != "":
		b.conds = append(b.conds, fmt.Sprintf("%s = %s", b.t.OwnerColumn, b.bind(userID)))
	case b.t.Parent != nil:
		p := b.t.Parent
		b.conds = append(b.conds, fmt.Sprintf("%s IN (SELECT id FROM %s WHERE %s = %s)",
			p.Column, p.Table, p.OwnerColumn, b.bind(userID)))
	}
}

// predicate renders one filter. Only whitelisted columns reach the SQL;
// values are always bound.
func (b *builder) predicate(f wire.Filter) (string, error) {
	c, ok := b.t.column(f.Column)
	if !ok {
		return "", common.NewValidationError("filter", fmt.Sprintf("unknown column %q", f.Column))
	}
	switch f.Op {
	case wire.OpEq, "":
		v, err := coerce(c, f.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", c.Name, b.bind(v)), nil
	case wire.OpILike:
		s, ok := f.Value.(string)
		if !ok || c.Kind != KindText {
			return "", common.NewValidationError("filter", fmt.Sprintf("ilike needs a text column and pattern, got %q", f.Column))
		}
		return fmt.Sprintf("%s ILIKE %s", c.Name, b.bind(s)), nil
	default:
		return "", common.NewValidationError("filter", fmt.Sprintf("unsupported operator %q", f.Op))
	}
}

// filters ANDs every filter of all and adds anyOf as one OR group.
func (b *builder) filters(all []wire.Filter, anyOf []wire.Filter) error {
	for _, f := range all {
		p, err := b.predicate(f)
		if err != nil {
			return err
		}
		b.conds = append(b.conds, p)
	}
	if len(anyOf) > 0 {
		ors := make([]string, 0, len(anyOf))
		for _, f := range anyOf {
			p, err := b.predicate(f)
			if err != nil {
				return err
			}
			ors = append(ors, p)
		}
		b.conds = append(b.conds, "("+strings.Join(ors, " OR ")+")")
	}
	return nil
}

func (b *builder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// selectColumns defaults to every column of t.
func (t *Table) selectColumns(cols []string) ([]string, error) {
	if len(cols) == 0 {
		return t.columnNames(), nil
	}
	for _, name := range cols {
		if _, ok := t.column(name); !ok {
			return nil, common.NewValidationError("columns", fmt.Sprintf("unknown column %q", name))
		}
	}
	return cols, nil
}

// buildSelect pages through t in a stable order: id unless the query names
// another column. The page size is capped at MaxLimit.
func buildSelect(t *Table, q wire.Query, userID string) (statement, error) {
	cols, err := t.selectColumns(q.Columns)
	if err != nil {
		return statement{}, err
	}

	b := newBuilder(t)
	b.scope(userID)
	if err := b.filters(q.Filters, q.AnyOf); err != nil {
		return statement{}, err
	}
	if q.Count {
		return statement{sql: fmt.Sprintf("SELECT COUNT(*) AS count FROM %s%s", t.Name, b.where()), args: b.args}, nil
	}
	if q.Offset < 0 {
		return statement{}, common.NewValidationError("offset", "must not be negative")
	}

	order := "id"
	if q.Order != nil {
		if _, ok := t.column(q.Order.Column); !ok {
			return statement{}, common.NewValidationError("order", fmt.Sprintf("unknown column %q", q.Order.Column))
		}
		order = q.Order.Column
		if q.Order.Descending {
			order += " DESC"
		}
		// Ties on the order column would make pages overlap.
		if q.Order.Column != "id" {
			order += ", id"
		}
	}

	limit := q.Limit
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT %d",
		strings.Join(cols, ", "), t.Name, b.where(), order, limit)
	if q.Offset > 0 {
		sql += fmt.Sprintf(" OFFSET %d", q.Offset)
	}
	return statement{sql: sql, args: b.args}, nil
}

// buildInsert produces one INSERT for row. Owner columns are forced to
// userID; parent-scoped rows are only inserted when the parent belongs to
// userID, otherwise the statement returns no row.
func buildInsert(t *Table, row wire.Row, userID string) (statement, error) {
	if t.ReadOnly {
		return statement{}, common.ErrForbidden
	}

	names := make([]string, 0, len(row))
	for name := range row {
		if name == t.OwnerColumn {
			continue
		}
		c, ok := t.column(name)
		if !ok || !c.Writable {
			return statement{}, common.NewValidationError(name, "column is not writable")
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return statement{}, common.NewValidationError("rows", "row has no values")
	}
	// Map order is random; sorted names keep the SQL stable.
	sort.Strings(names)

	b := newBuilder(t)
	cols := make([]string, 0, len(names)+1)
	vals := make([]string, 0, len(names)+1)
	for _, name := range names {
		c, _ := t.column(name)
		v, err := coerce(c, row[name])
		if err != nil {
			return statement{}, err
		}
		cols = append(cols, name)
		vals = append(vals, b.bind(v))
	}
	if t.OwnerColumn != "" {
		cols = append(cols, t.OwnerColumn)
		vals = append(vals, b.bind(userID))
	}

	returning := strings.Join(t.columnNames(), ", ")
	var sql string
	if p := t.Parent; p != nil {
		if _, ok := row[p.Column]; !ok {
			return statement{}, common.NewValidationError(p.Column, "is required")
		}
		parentArg := vals[indexOf(cols, p.Column)]
		sql = fmt.Sprintf("INSERT INTO %s (%s) SELECT %s WHERE EXISTS (SELECT 1 FROM %s WHERE id = %s AND %s = %s) RETURNING %s",
			t.Name, strings.Join(cols, ", "), strings.Join(vals, ", "),
			p.Table, parentArg, p.OwnerColumn, b.bind(userID), returning)
	} else {
		sql = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(cols, ", "), strings.Join(vals, ", "))
		if t.ConflictTarget != "" {
			sql += " ON CONFLICT " + t.ConflictTarget + " DO NOTHING"
		}
		sql += " RETURNING " + returning
	}
	return statement{sql: sql, args: b.args}, nil
}

// buildDelete refuses an unfiltered delete. Scoping still applies, so a
// caller can only remove its own rows.
func buildDelete(t *Table, filters []wire.Filter, userID string) (statement, error) {
	if t.ReadOnly {
		return statement{}, common.ErrForbidden
	}
	if len(filters) == 0 {
		return statement{}, common.NewValidationError("filters", "delete requires at least one filter")
	}

	b := newBuilder(t)
	b.scope(userID)
	if err := b.filters(filters, nil); err != nil {
		return statement{}, err
	}
	return statement{sql: fmt.Sprintf("DELETE FROM %s%s", t.Name, b.where()), args: b.args}, nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
