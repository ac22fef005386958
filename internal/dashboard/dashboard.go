// Package dashboard aggregates headline numbers for the landing page.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/platform/httpx"
)

// Overview is the headline counts block.
type Overview struct {
	Drivers          int `json:"drivers"`
	TruckHeads       int `json:"truckHeads"`
	TruckTails       int `json:"truckTails"`
	Containers       int `json:"containers"`
	WorkOrders       int `json:"workOrders"`
	GateEntriesToday int `json:"gateEntriesToday"`
}

// Service computes the overview with one concurrent fan-out over the
// count queries.
type Service struct {
	pool *pgxpool.Pool
}

// NewService builds a Service instance.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

func (s *Service) count(ctx context.Context, query string, dest *int, args ...any) func() error {
	return func() error {
		return s.pool.QueryRow(ctx, query, args...).Scan(dest)
	}
}

// Overview returns the current headline counts.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	startOfDay := time.Now().Truncate(24 * time.Hour)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(s.count(ctx, `SELECT COUNT(*) FROM drivers`, &out.Drivers))
	g.Go(s.count(ctx, `SELECT COUNT(*) FROM truck_heads`, &out.TruckHeads))
	g.Go(s.count(ctx, `SELECT COUNT(*) FROM truck_tails`, &out.TruckTails))
	g.Go(s.count(ctx, `SELECT COUNT(*) FROM containers`, &out.Containers))
	g.Go(s.count(ctx, `SELECT COUNT(*) FROM work_orders`, &out.WorkOrders))
	g.Go(s.count(ctx, `SELECT COUNT(*) FROM data_today WHERE datetime_in >= $1`, &out.GateEntriesToday, startOfDay))
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

// Handler serves the dashboard overview.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.guard.RequirePage(authz.PermDashboard))
	r.Get("/overview", h.overview)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.logger.Error("dashboard overview", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, overview)
}
