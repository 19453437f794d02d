// Package collections manages user-owned named groups of quote copies.
package collections

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dailyquote/internal/client/client"
	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
)

// Repository reads and writes the collections and collection_items
// tables through the remote table store.
type Repository struct {
	store client.TableStore
}

// NewRepository returns a Repository over store.
func NewRepository(store client.TableStore) *Repository {
	return &Repository{store: store}
}

// List returns userID's collections in creation order.
func (r *Repository) List(ctx context.Context, userID string) ([]models.QuoteCollection, error) {
	rows, err := client.SelectAll(ctx, r.store, wire.Query{
		Table:   common.TableCollections,
		Filters: []wire.Filter{wire.Eq("user_id", userID)},
		Order:   &wire.Order{Column: "id"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collections: %w", err)
	}
	out, err := wire.DecodeRows[models.QuoteCollection](rows)
	if err != nil {
		return nil, fmt.Errorf("failed to decode collections: %w", err)
	}
	return out, nil
}

// Count returns how many collections userID owns.
func (r *Repository) Count(ctx context.Context, userID string) (int, error) {
	n, err := client.Count(ctx, r.store, wire.Query{
		Table:   common.TableCollections,
		Filters: []wire.Filter{wire.Eq("user_id", userID)},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count collections: %w", err)
	}
	return n, nil
}

// Create stores a new collection named name for userID.
func (r *Repository) Create(ctx context.Context, userID, name string) (*models.QuoteCollection, error) {
	rows, err := r.store.Insert(ctx, common.TableCollections, wire.Row{
		"user_id": userID,
		"name":    name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to create collection: %w", client.ErrNotFound)
	}
	var c models.QuoteCollection
	if err := wire.DecodeRow(rows[0], &c); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}
	return &c, nil
}

// Delete removes the collection; its items go with it.
func (r *Repository) Delete(ctx context.Context, userID string, id int64) error {
	n, err := r.store.Delete(ctx, common.TableCollections,
		wire.Eq("user_id", userID), wire.Eq("id", id))
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	if n == 0 {
		return client.ErrNotFound
	}
	return nil
}

// Items returns the items of collectionID in insertion order.
func (r *Repository) Items(ctx context.Context, collectionID int64) ([]models.CollectionItem, error) {
	rows, err := client.SelectAll(ctx, r.store, wire.Query{
		Table:   common.TableCollectionItems,
		Filters: []wire.Filter{wire.Eq("collection_id", collectionID)},
		Order:   &wire.Order{Column: "id"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collection items: %w", err)
	}
	out, err := wire.DecodeRows[models.CollectionItem](rows)
	if err != nil {
		return nil, fmt.Errorf("failed to decode collection items: %w", err)
	}
	return out, nil
}

// AddItem stores a copy of the quote in the collection. The server
// refuses collections the caller does not own, reported as ErrNotFound.
func (r *Repository) AddItem(ctx context.Context, collectionID int64, text, author string) (*models.CollectionItem, error) {
	rows, err := r.store.Insert(ctx, common.TableCollectionItems, wire.Row{
		"collection_id": collectionID,
		"text":          text,
		"author":        author,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add collection item: %w", err)
	}
	if len(rows) == 0 {
		return nil, client.ErrNotFound
	}
	var it models.CollectionItem
	if err := wire.DecodeRow(rows[0], &it); err != nil {
		return nil, fmt.Errorf("failed to decode collection item: %w", err)
	}
	return &it, nil
}

// RemoveItem deletes one item. ErrNotFound means it was already gone or
// belongs to someone else.
func (r *Repository) RemoveItem(ctx context.Context, itemID int64) error {
	n, err := r.store.Delete(ctx, common.TableCollectionItems, wire.Eq("id", itemID))
	if err != nil {
		return fmt.Errorf("failed to remove collection item: %w", err)
	}
	if n == 0 {
		return client.ErrNotFound
	}
	return nil
}
