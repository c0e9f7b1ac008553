package tenancy

import "context"

type scopeContextKey struct{}

// ContextWithScope stores the session scope in context. The scope
// middleware is the only writer.
func ContextWithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, scope)
}

// ScopeFromContext extracts the scope, or nil when the session has no
// tenant data space.
func ScopeFromContext(ctx context.Context) *Scope {
	scope, _ := ctx.Value(scopeContextKey{}).(*Scope)
	return scope
}
