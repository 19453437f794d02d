// Package uploads tracks object keys issued for avatar uploads.
package uploads

import (
	"context"

	"github.com/dmitrijs2005/dailyquote/internal/server/models"
)

// Repository records issued upload keys and whether they were used.
type Repository interface {
	Create(ctx context.Context, upload *models.Upload) error
	GetByKey(ctx context.Context, key string) (*models.Upload, error)
	MarkUploaded(ctx context.Context, key string) error
}
