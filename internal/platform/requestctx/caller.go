// Package requestctx carries per-request authenticated identity in context.
package requestctx

import (
	"context"

	"github.com/medinex-ai/registry/internal/identity"
)

// callerContextKey is the context key for the authenticated caller identity.
type callerContextKey struct{}

// WithCaller stores an authenticated caller identity in context.
func WithCaller(ctx context.Context, caller identity.ID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// CallerFromContext returns the caller identity stored in context.
func CallerFromContext(ctx context.Context) identity.ID {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(callerContextKey{}).(identity.ID)
	return value
}
