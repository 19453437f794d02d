// Package discovery reads the public quote catalogue.
package discovery

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/dmitrijs2005/dailyquote/internal/client/client"
	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
)

// DefaultCategory is the category browsing starts in.
const DefaultCategory = "Motivation"

// Categories lists the catalogue categories in display order.
var Categories = []string{"Motivation", "Love", "Success", "Wisdom", "Humor"}

// Fallback is returned by Random when the catalogue yields nothing.
var Fallback = models.Quote{
	Text:     "Failure is simply the opportunity to begin again.",
	Author:   "Henry Ford",
	Category: DefaultCategory,
}

var quoteColumns = []string{"id", "text", "author", "category"}

// Repository reads the quote catalogue.
type Repository struct {
	store   client.TableStore
	shuffle func(n int, swap func(i, j int))
}

// NewRepository reads quotes through store.
func NewRepository(store client.TableStore) *Repository {
	return &Repository{store: store, shuffle: rand.Shuffle}
}

// Quotes returns the quotes of category, newest first. A non-blank search
// narrows the result to quotes whose text or author contains it, ignoring
// case.
func (r *Repository) Quotes(ctx context.Context, category, search string) ([]models.Quote, error) {
	q := wire.Query{
		Table:   common.TableQuotes,
		Columns: quoteColumns,
		Filters: []wire.Filter{wire.Eq("category", category)},
		Order:   &wire.Order{Column: "id", Descending: true},
	}
	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		q.AnyOf = []wire.Filter{wire.ILike("text", pattern), wire.ILike("author", pattern)}
	}

	rows, err := r.store.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	quotes, err := wire.DecodeRows[models.Quote](rows)
	if err != nil {
		return nil, fmt.Errorf("failed to decode quotes: %w", err)
	}
	return quotes, nil
}

// Random returns up to n quotes in random order. When the catalogue is
// empty or unreachable the result is the single Fallback quote; a fetch
// failure is returned alongside it.
func (r *Repository) Random(ctx context.Context, n int) ([]models.Quote, error) {
	if n <= 0 {
		n = 1
	}
	rows, err := r.store.Select(ctx, wire.Query{Table: common.TableQuotes, Columns: quoteColumns})
	if err != nil {
		return []models.Quote{Fallback}, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	quotes, err := wire.DecodeRows[models.Quote](rows)
	if err != nil {
		return []models.Quote{Fallback}, fmt.Errorf("failed to decode quotes: %w", err)
	}
	if len(quotes) == 0 {
		return []models.Quote{Fallback}, nil
	}
	r.shuffle(len(quotes), func(i, j int) { quotes[i], quotes[j] = quotes[j], quotes[i] })
	if len(quotes) > n {
		quotes = quotes[:n]
	}
	return quotes, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
