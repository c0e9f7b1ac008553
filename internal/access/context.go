package access

import "context"

type principalContextKey struct{}

// ContextWithPrincipal stores the resolved principal in context. The
// identity-resolution middleware is the only writer; absence means the
// request is unauthenticated.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal, or nil when the request
// carries no authenticated identity.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
