// Package refreshtokens stores the server's opaque tokens. Session refresh
// tokens and password recovery tokens share one table and are told apart
// by kind.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/server/models"
)

// Repository stores refresh and recovery tokens.
type Repository interface {
	// Create stores token for userID, valid for validity from now.
	Create(ctx context.Context, userID, token string, kind models.TokenKind, validity time.Duration) error

	// Find returns common.ErrNotFound for an unknown token or one of
	// another kind. Expiry is left to the caller.
	Find(ctx context.Context, token string, kind models.TokenKind) (*models.RefreshToken, error)

	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string, kind models.TokenKind) error

	// DeleteExpired drops every token that expired before cutoff and
	// reports how many went.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
