// Package rbac holds the access-control gate applied to privileged
// endpoints. The gate checks role-name membership only; permission
// records are administrative metadata and are never consulted here.
package rbac

import (
	"net/http"

	"github.com/aegis-iam/aegis/internal/shared"
)

// RoleAdmin is the role required for all administration endpoints.
const RoleAdmin = "ADMIN"

// Authorize asserts that the caller's role set contains the required
// role. Comparison is exact: no hierarchy, no wildcard.
func Authorize(callerRoles []string, requiredRole string) error {
	for _, r := range callerRoles {
		if r == requiredRole {
			return nil
		}
	}
	return shared.ErrForbidden
}

// RequireRole guards a route subtree with a role check against the
// request principal. Anonymous requests are rejected as forbidden.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := shared.PrincipalFromContext(r.Context())
			if p == nil {
				shared.WriteError(w, nil, shared.ErrForbidden)
				return
			}
			if err := Authorize(p.Roles, role); err != nil {
				shared.WriteError(w, nil, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
