// Package logging defines the structured-logging interface used across
// dailyquote and builds the slog handlers behind it.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// Args are key-value pairs:
//
//	log.Info(ctx, "sync finished", "fetched", n, "added", added)
//
// Pairs attached to ctx with ContextWith come first.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger bound to the given pairs.
	With(args ...any) Logger
}
