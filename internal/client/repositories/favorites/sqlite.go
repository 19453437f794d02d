package favorites

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/dbx"
)

// SQLiteRepository keeps favorites in the local cache database.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository works on db or on a transaction.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// All lists favorites newest first.
func (r *SQLiteRepository) All(ctx context.Context) ([]models.FavoriteQuote, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, text, author FROM favorites ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	result := make([]models.FavoriteQuote, 0)
	for rows.Next() {
		var f models.FavoriteQuote
		if err := rows.Scan(&f.ID, &f.Text, &f.Author); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}
	return result, nil
}

// Insert ignores a text that is already stored.
func (r *SQLiteRepository) Insert(ctx context.Context, text, author string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (text, author) VALUES (?, ?) ON CONFLICT(text) DO NOTHING`, text, author)
	if err != nil {
		return false, fmt.Errorf("failed to insert favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert favorite: %w", err)
	}
	return n > 0, nil
}

// DeleteByText reports whether a row was removed.
func (r *SQLiteRepository) DeleteByText(ctx context.Context, text string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE text = ?`, text)
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) IsFavorite(ctx context.Context, text string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM favorites WHERE text = ?)`, text).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

// Count returns the number of stored favorites.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return n, nil
}
