package logging

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// New creates a new zap logger named for a component, writing through the
// global logger installed by config.New
func New(component string) *zap.SugaredLogger {
	return zap.S().Named(component)
}

// WithRequestID stores the request id on ctx for FromContext
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID returns the request id stored on ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromContext returns the global logger tagged with the request id on ctx
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if id := RequestID(ctx); id != "" {
		return zap.S().With("requestID", id)
	}
	return zap.S()
}
