// Package requestctx carries the per-request correlation id through contexts
// without forcing packages to depend on the HTTP middleware.
package requestctx

import "context"

type ctxKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// GetRequestID returns the correlation id, or "" outside a request scope.
func GetRequestID(ctx context.Context) string {
	value, _ := ctx.Value(ctxKey{}).(string)
	return value
}
