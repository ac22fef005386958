package authz

import (
	"context"
	"log/slog"
	"net/http"
)

type principalContextKey struct{}

// ContextWithPrincipal stores the authenticated principal in ctx.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal placed by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}

// Middleware wires page-permission and role guards for HTTP handlers. The
// decision logic lives in the pure functions of this package; the middleware
// only resolves the principal and translates denies to status codes.
type Middleware struct {
	Logger *slog.Logger
	Policy Policy
}

// RequirePage admits requests holding at least one of the given permissions.
func (m Middleware) RequirePage(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if !HasAnyPermission(p, perms...) {
				m.logDenied(r, p, perms)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAllPages admits requests holding every given permission.
func (m Middleware) RequireAllPages(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if !HasAllPermissions(p, perms...) {
				m.logDenied(r, p, perms)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole admits requests whose principal holds one of the given roles.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if p.Role == ParseRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			if m.Logger != nil {
				m.Logger.Warn("role denied",
					slog.String("user_id", p.ID),
					slog.String("role", string(p.Role)),
					slog.String("path", r.URL.Path))
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

func (m Middleware) logDenied(r *http.Request, p Principal, perms []Permission) {
	if m.Logger == nil {
		return
	}
	required := make([]string, len(perms))
	for i, perm := range perms {
		required[i] = string(perm)
	}
	m.Logger.Warn("page permission denied",
		slog.String("user_id", p.ID),
		slog.String("role", string(p.Role)),
		slog.Any("required", required),
		slog.String("path", r.URL.Path),
		slog.String("ip", r.RemoteAddr),
		slog.String("user_agent", r.UserAgent()))
}
