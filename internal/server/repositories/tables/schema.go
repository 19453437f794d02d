// Package tables exposes a whitelisted, owner-scoped view of the quote
// tables to the generic Tables service.
package tables

import (
	"fmt"

	"github.com/dmitrijs2005/dailyquote/internal/common"
)

// Kind is the storage type of a column; request values are coerced to it.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindTime
)

// Column is one whitelisted column.
type Column struct {
	Name string
	Kind Kind
	// Writable columns may be set by Insert.
	Writable bool
}

// ParentScope restricts a table to rows whose parent row is owned by the
// caller, e.g. collection_items through collections.user_id.
type ParentScope struct {
	Column      string
	Table       string
	OwnerColumn string
}

// Table describes a table reachable through the generic API.
type Table struct {
	Name    string
	Columns []Column
	// Public tables are readable without a signed-in user.
	Public   bool
	ReadOnly bool
	// OwnerColumn is forced to the caller on insert and filtered on
	// select/delete.
	OwnerColumn string
	Parent      *ParentScope
	// ConflictTarget makes duplicate inserts a no-op.
	ConflictTarget string
}

func (t *Table) column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (t *Table) columnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Scoped reports whether rows belong to a user.
func (t *Table) Scoped() bool {
	return t.OwnerColumn != "" || t.Parent != nil
}

var schema = map[string]*Table{
	common.TableQuotes: {
		Name: common.TableQuotes,
		Columns: []Column{
			{Name: "id", Kind: KindInt},
			{Name: "text", Kind: KindText},
			{Name: "author", Kind: KindText},
			{Name: "category", Kind: KindText},
		},
		Public:   true,
		ReadOnly: true,
	},
	common.TableUserFavorites: {
		Name: common.TableUserFavorites,
		Columns: []Column{
			{Name: "id", Kind: KindInt},
			{Name: "user_id", Kind: KindText},
			{Name: "text", Kind: KindText, Writable: true},
			{Name: "author", Kind: KindText, Writable: true},
		},
		OwnerColumn:    "user_id",
		ConflictTarget: "(user_id, text)",
	},
	common.TableCollections: {
		Name: common.TableCollections,
		Columns: []Column{
			{Name: "id", Kind: KindInt},
			{Name: "user_id", Kind: KindText},
			{Name: "name", Kind: KindText, Writable: true},
			{Name: "created_at", Kind: KindTime},
		},
		OwnerColumn: "user_id",
	},
	common.TableCollectionItems: {
		Name: common.TableCollectionItems,
		Columns: []Column{
			{Name: "id", Kind: KindInt},
			{Name: "collection_id", Kind: KindInt, Writable: true},
			{Name: "text", Kind: KindText, Writable: true},
			{Name: "author", Kind: KindText, Writable: true},
		},
		Parent: &ParentScope{Column: "collection_id", Table: common.TableCollections, OwnerColumn: "user_id"},
	},
}

// Lookup returns the definition of a whitelisted table.
func Lookup(name string) (*Table, error) {
	t, ok := schema[name]
	if !ok {
		return nil, common.NewValidationError("table", fmt.Sprintf("unknown table %q", name))
	}
	return t, nil
}
