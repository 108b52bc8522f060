package middleware

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

type ctxKey int

const principalKey ctxKey = iota

// Authenticator verifies bearer tokens.
type Authenticator interface {
	Authenticate(token string) (*service.Principal, error)
}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p *service.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated caller, or nil.
func PrincipalFromContext(ctx context.Context) *service.Principal {
	p, _ := ctx.Value(principalKey).(*service.Principal)
	return p
}

// Authenticate resolves a bearer token into a principal. Requests without
// a token pass through anonymously; an invalid token is rejected.
func Authenticate(auth Authenticator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}

			principal, err := auth.Authenticate(token)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid bearer token")
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if PrincipalFromContext(r.Context()) == nil {
				logger.Warn().Str("path", r.URL.Path).Msg("missing credentials")
				writeError(w, http.StatusUnauthorized, "missing credentials")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects requests whose principal lacks role.
func RequireRole(role model.Role, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				writeError(w, http.StatusUnauthorized, "missing credentials")
				return
			}
			if p.Role != role {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("role", string(p.Role)).
					Msg("role required")
				writeError(w, http.StatusForbidden, "role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
