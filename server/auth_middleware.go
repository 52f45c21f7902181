package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-identity-gateway/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyPrincipal stores the authenticated principal
const ContextKeyPrincipal ContextKey = "principal"

// RequireAuth is middleware that validates a Bearer access token and injects
// the resolved principal into the request context.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r)
			if err != nil {
				unauthorized(w)
				return
			}

			principal, err := s.auth.CurrentPrincipal(raw)
			if err != nil {
				unauthorized(w)
				return
			}
			if !principal.Active {
				writeError(w, http.StatusBadRequest, "Inactive user")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireSuperuser gates a route on the elevated-privilege flag. Must run
// after RequireAuth.
func (s *Server) RequireSuperuser() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil || !principal.Superuser {
				writeError(w, http.StatusForbidden, "The user doesn't have enough privileges")
				return
			}
			next(w, r)
		}
	}
}

// PrincipalFromContext returns the authenticated principal set by
// RequireAuth, or nil.
func PrincipalFromContext(ctx context.Context) *users.User {
	principal, _ := ctx.Value(ContextKeyPrincipal).(*users.User)
	return principal
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("missing Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("invalid Authorization header format")
	}
	if parts[1] == "" {
		return "", errors.New("empty token")
	}
	return parts[1], nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "Could not validate credentials")
}
