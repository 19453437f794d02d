// Package metadata is a small key/value table in the local cache. The
// client keeps its signed-in session there.
package metadata

import (
	"context"
)

// KeySession holds the JSON-encoded models.Session.
const KeySession = "session"

// Repository stores opaque values by key.
type Repository interface {
	// Get returns (nil, nil) for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// GetJSON decodes the value of key into dst and reports whether the key
	// was present.
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}
