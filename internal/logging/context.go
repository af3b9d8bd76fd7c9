package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const loggerKey contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = &Nop
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from the context, or returns Nop.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &Nop
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return &Nop
}
