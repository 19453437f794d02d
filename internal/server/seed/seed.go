// Package seed loads the built-in quote catalogue into an empty database.
package seed

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/dailyquote/internal/dbx"
	"github.com/dmitrijs2005/dailyquote/internal/server/models"
)

//go:embed quotes.json
var catalogue []byte

type entry struct {
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// Quotes returns the built-in catalogue.
func Quotes() ([]models.Quote, error) {
	var entries []entry
	if err := json.Unmarshal(catalogue, &entries); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}
	out := make([]models.Quote, len(entries))
	for i, e := range entries {
		out[i] = models.Quote{Text: e.Text, Author: e.Author, Category: e.Category}
	}
	return out, nil
}

// Seed inserts the catalogue when the quotes table is empty and reports
// how many rows it added.
func Seed(ctx context.Context, db *sql.DB) (int, error) {
	quotes, err := Quotes()
	if err != nil {
		return 0, err
	}

	inserted := 0
	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&n); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if n > 0 {
			return nil
		}
		for _, q := range quotes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO quotes (text, author, category) VALUES ($1, $2, $3)`,
				q.Text, q.Author, q.Category); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
