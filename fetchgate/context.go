/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"context"

	"github.com/gatewise/go-fetchgate/log"
)

type ctxKey int

const ctxKeyLogger ctxKey = iota

// NewContextWithLogger creates a new context with the logger.
func NewContextWithLogger(ctx context.Context, logger log.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, logger)
}

// GetLoggerFromContext extracts the logger from the context.
// Returns nil when the context carries no logger.
func GetLoggerFromContext(ctx context.Context) log.FieldLogger {
	value := ctx.Value(ctxKeyLogger)
	if value == nil {
		return nil
	}
	if logger, ok := value.(log.FieldLogger); ok {
		return logger
	}
	return nil
}
