// Package requestid carries the X-Request-ID value through a context so
// outgoing storefront calls repeat the id of the console request.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the header key for request ID
const Header = "X-Request-ID"

type ctxKey struct{}

// New returns a fresh request id
func New() string {
	return uuid.New().String()
}

// WithContext stores id in ctx
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the id in ctx, or "" when none was stored
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Ensure returns ctx and its id, generating one when ctx has none
func Ensure(ctx context.Context) (context.Context, string) {
	if id := FromContext(ctx); id != "" {
		return ctx, id
	}
	id := New()
	return WithContext(ctx, id), id
}
