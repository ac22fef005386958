package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fleetdesk/fleetdesk/internal/auth"
	"github.com/fleetdesk/fleetdesk/internal/dashboard"
	"github.com/fleetdesk/fleetdesk/internal/fleet/containers"
	"github.com/fleetdesk/fleetdesk/internal/fleet/drivers"
	"github.com/fleetdesk/fleetdesk/internal/fleet/heads"
	"github.com/fleetdesk/fleetdesk/internal/fleet/tails"
	"github.com/fleetdesk/fleetdesk/internal/joblog"
	"github.com/fleetdesk/fleetdesk/internal/observability"
	"github.com/fleetdesk/fleetdesk/internal/permissions"
	"github.com/fleetdesk/fleetdesk/internal/shared"
	"github.com/fleetdesk/fleetdesk/internal/tracker"
	"github.com/fleetdesk/fleetdesk/internal/users"
	"github.com/fleetdesk/fleetdesk/internal/workorders"
	"github.com/fleetdesk/fleetdesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	AuthService    *auth.Service

	AuthHandler        *auth.Handler
	UsersHandler       *users.Handler
	PermissionsHandler *permissions.Handler
	DriversHandler     *drivers.Handler
	HeadsHandler       *heads.Handler
	TailsHandler       *tails.Handler
	ContainersHandler  *containers.Handler
	WorkOrdersHandler  *workorders.Handler
	JobLogHandler      *joblog.Handler
	TrackerHandler     *tracker.Handler
	DashboardHandler   *dashboard.Handler
	JobHandler         *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with FleetDesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(auth.ResolvePrincipal(params.Logger, params.AuthService))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/users", params.UsersHandler.MountRoutes)
	r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	r.Route("/drivers", params.DriversHandler.MountRoutes)
	r.Route("/vehicles/heads", params.HeadsHandler.MountRoutes)
	r.Route("/vehicles/tails", params.TailsHandler.MountRoutes)
	r.Route("/containers", params.ContainersHandler.MountRoutes)
	r.Route("/workorders", params.WorkOrdersHandler.MountRoutes)
	r.Route("/data-today", params.JobLogHandler.MountRoutes)
	r.Route("/track", params.TrackerHandler.MountRoutes)
	r.Route("/dashboard", params.DashboardHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
