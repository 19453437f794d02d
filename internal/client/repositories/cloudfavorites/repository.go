// Package cloudfavorites is the server copy of a user's liked quotes.
// Every call is scoped to the given user id.
package cloudfavorites

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dailyquote/internal/client/client"
	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
)

// Repository reads and writes the user_favorites table through the
// remote table store.
type Repository struct {
	store client.TableStore
}

// NewRepository returns a Repository over store.
func NewRepository(store client.TableStore) *Repository {
	return &Repository{store: store}
}

// List returns the full snapshot of userID's cloud favorites.
func (r *Repository) List(ctx context.Context, userID string) ([]models.CloudFavorite, error) {
	rows, err := client.SelectAll(ctx, r.store, wire.Query{
		Table:   common.TableUserFavorites,
		Filters: []wire.Filter{wire.Eq("user_id", userID)},
		Order:   &wire.Order{Column: "id"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cloud favorites: %w", err)
	}
	favs, err := wire.DecodeRows[models.CloudFavorite](rows)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cloud favorites: %w", err)
	}
	return favs, nil
}

// Add stores a like. Adding a text the user already liked is not an error.
func (r *Repository) Add(ctx context.Context, userID, text, author string) error {
	_, err := r.store.Insert(ctx, common.TableUserFavorites, wire.Row{
		"user_id": userID,
		"text":    text,
		"author":  author,
	})
	if err != nil {
		return fmt.Errorf("failed to add cloud favorite: %w", err)
	}
	return nil
}

// Remove deletes userID's like of text. Removing a missing like is not an
// error.
func (r *Repository) Remove(ctx context.Context, userID, text string) error {
	_, err := r.store.Delete(ctx, common.TableUserFavorites,
		wire.Eq("user_id", userID), wire.Eq("text", text))
	if err != nil {
		return fmt.Errorf("failed to remove cloud favorite: %w", err)
	}
	return nil
}
