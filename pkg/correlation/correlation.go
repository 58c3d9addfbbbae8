// Package correlation carries the request correlation id through a context.
package correlation

import "context"

const Header = "X-Correlation-ID"

// LegacyHeader is still accepted on incoming requests.
const LegacyHeader = "CorrelationId"

type ctxKey struct{}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the correlation id stored in ctx, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
