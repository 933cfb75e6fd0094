package logger

import (
	"context"

	"github.com/google/uuid"
)

type runIDKey struct{}

// WithRunID returns a context tagged with a fresh run id, and the id.
func WithRunID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()[:8]
	return context.WithValue(ctx, runIDKey{}, id), id
}

// RunID returns the run id stored in ctx, or "".
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
