package logger

import (
	"context"
	"log/slog"

	"chatwire/pkg/middleware"
)

// FromContext returns the request-scoped logger injected by the
// logging middleware, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(middleware.LoggerKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
