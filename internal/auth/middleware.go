package auth

import (
	"log/slog"
	"net/http"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/shared"
)

// ResolvePrincipal looks up the session user and places an authz.Principal
// in the request context. Anonymous and stale sessions pass through without
// a principal; route guards decide whether that matters.
func ResolvePrincipal(logger *slog.Logger, service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.User() == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := service.Lookup(r.Context(), sess.User())
			if err != nil || !user.IsActive {
				if err != nil {
					logger.Debug("session user lookup failed",
						slog.String("user_id", sess.User()),
						slog.Any("error", err))
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := authz.ContextWithPrincipal(r.Context(), user.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
