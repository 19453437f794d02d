package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/dbx"
	"github.com/dmitrijs2005/dailyquote/internal/server/models"
)

const (
	insertToken = `INSERT INTO refresh_tokens (user_id, token, kind, expires_at) VALUES ($1, $2, $3, $4)`
	selectToken = `SELECT user_id, expires_at FROM refresh_tokens WHERE token = $1 AND kind = $2`
	deleteToken = `DELETE FROM refresh_tokens WHERE token = $1`
	deleteOwned = `DELETE FROM refresh_tokens WHERE user_id = $1 AND kind = $2`
	purgeTokens = `DELETE FROM refresh_tokens WHERE expires_at < $1`
)

// PostgresRepository implements Repository on the refresh_tokens table.
type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

// NewPostgresRepository works on db or on a transaction.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, token string, kind models.TokenKind, validity time.Duration) error {
	expires := r.now().Add(validity)
	if _, err := r.db.ExecContext(ctx, insertToken, userID, token, string(kind), expires); err != nil {
		return fmt.Errorf("create %s token: %w", kind, err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string, kind models.TokenKind) (*models.RefreshToken, error) {
	rt := models.RefreshToken{Token: token, Kind: kind}
	err := r.db.QueryRowContext(ctx, selectToken, token, string(kind)).Scan(&rt.UserID, &rt.Expires)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("find %s token: %w", kind, err)
	}
	return &rt, nil
}

// Delete is a no-op for an unknown token.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, deleteToken, token); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// DeleteByUser drops every token of kind issued to userID.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string, kind models.TokenKind) error {
	if _, err := r.db.ExecContext(ctx, deleteOwned, userID, string(kind)); err != nil {
		return fmt.Errorf("revoke %s tokens of %s: %w", kind, userID, err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, purgeTokens, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge tokens: %w", err)
	}
	return res.RowsAffected()
}
