package ports

import "context"

// TokenSource yields the current bearer token and drops it when the backend rejects it.
// The session implements it; the backend adapter reads it from the request context.
type TokenSource interface {
	Token() string
	Invalidate(ctx context.Context)
}

type tokenSourceKey struct{}

// WithTokenSource attaches ts to ctx.
func WithTokenSource(ctx context.Context, ts TokenSource) context.Context {
	return context.WithValue(ctx, tokenSourceKey{}, ts)
}

// TokenSourceFrom returns the TokenSource carried by ctx, or nil.
func TokenSourceFrom(ctx context.Context) TokenSource {
	ts, _ := ctx.Value(tokenSourceKey{}).(TokenSource)
	return ts
}
