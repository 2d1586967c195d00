package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

// GenerateTraceID returns a new unique trace identifier.
func GenerateTraceID() string {
	return uuid.New().String()
}

// ContextWithTraceID returns a context carrying the given trace ID.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID extracts the trace ID from the context, or "" if absent.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(traceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// EnsureTraceID returns a context guaranteed to carry a trace ID,
// generating one if the context has none.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return ContextWithTraceID(ctx, GenerateTraceID())
}

// LoggerWithContext returns the global logger with the context trace ID
// attached as a persistent attribute.
func LoggerWithContext(ctx context.Context) *slog.Logger {
	log := GetLogger()
	if traceID := GetTraceID(ctx); traceID != "" {
		return log.With(slog.String("trace_id", traceID))
	}
	return log
}
