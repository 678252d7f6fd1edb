package shared

import "context"

// Principal describes the authenticated caller for a single request.
// It is resolved once by the bearer-token middleware and passed
// explicitly through the request context.
type Principal struct {
	UserID   int64
	Username string
	Roles    []string
}

// HasRole reports whether the principal holds the named role.
// Comparison is exact; there is no hierarchy or wildcard.
func (p *Principal) HasRole(name string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
// Returns nil for anonymous requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
