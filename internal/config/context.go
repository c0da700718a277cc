package config

import (
	"context"
	"log/slog"
)

// loggerKey is used to store the logger in a command context.
type loggerKey struct{}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
