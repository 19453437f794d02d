// Package favorites is the local cache of liked quotes. A quote text is
// stored at most once, whatever its author.
package favorites

import (
	"context"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
)

// Repository is the local favorites table.
type Repository interface {
	// All returns every favorite, most recently added first.
	All(ctx context.Context) ([]models.FavoriteQuote, error)
	// Insert adds text unless it is already present and reports whether a
	// row was added.
	Insert(ctx context.Context, text, author string) (bool, error)
	DeleteByText(ctx context.Context, text string) (bool, error)
	IsFavorite(ctx context.Context, text string) (bool, error)
	Count(ctx context.Context) (int, error)
}
