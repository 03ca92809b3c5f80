// Package ctxlog passes a slog.Logger through context.Context so library
// code never depends on a global logger.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is unexported to prevent collisions with other packages' context keys.
type key struct{}

var loggerKey = key{}

// WithLogger returns a new context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from ctx, falling back to slog.Default
// when none was attached. Render-path code must keep working without a
// configured logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
