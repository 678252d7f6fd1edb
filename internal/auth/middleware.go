package auth

import (
	"log/slog"
	"net/http"

	"github.com/aegis-iam/aegis/internal/shared"
)

// Middleware resolves bearer tokens to request principals.
type Middleware struct {
	Logger  *slog.Logger
	Service *Service
}

// Authenticate rejects requests without a live token and stores the
// resolved principal in the request context for downstream guards.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			shared.WriteError(w, m.Logger, shared.ErrInvalidCredentials)
			return
		}
		principal, err := m.Service.ResolvePrincipal(r.Context(), token)
		if err != nil {
			shared.WriteError(w, m.Logger, err)
			return
		}
		ctx := shared.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
