package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/dbx"
	"github.com/dmitrijs2005/dailyquote/internal/server/models"
)

const (
	insertUpload = `INSERT INTO uploads (storage_key, user_id, upload_status) VALUES ($1, $2, $3)`
	selectUpload = `SELECT storage_key, user_id, upload_status, created_at FROM uploads WHERE storage_key = $1`
	markUploaded = `UPDATE uploads SET upload_status = $2 WHERE storage_key = $1`
)

// PostgresRepository implements Repository on the uploads table.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository works on db or on a transaction.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create records a key handed out for upload. An empty status is stored
// as pending.
func (r *PostgresRepository) Create(ctx context.Context, u *models.Upload) error {
	if u.Status == "" {
		u.Status = models.UploadStatusPending
	}
	if _, err := r.db.ExecContext(ctx, insertUpload, u.StorageKey, u.UserID, u.Status); err != nil {
		return fmt.Errorf("record upload %s: %w", u.StorageKey, err)
	}
	return nil
}

// GetByKey returns common.ErrNotFound for an unknown key.
func (r *PostgresRepository) GetByKey(ctx context.Context, key string) (*models.Upload, error) {
	var u models.Upload
	err := r.db.QueryRowContext(ctx, selectUpload, key).Scan(&u.StorageKey, &u.UserID, &u.Status, &u.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("load upload %s: %w", key, err)
	}
	return &u, nil
}

// MarkUploaded completes the upload of key; an unknown key is
// common.ErrNotFound.
func (r *PostgresRepository) MarkUploaded(ctx context.Context, key string) error {
	err := dbx.ExecOne(ctx, r.db, markUploaded, key, models.UploadStatusCompleted)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("complete upload %s: %w", key, err)
	}
	return err
}
