package permissions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/platform/httpx"
)

// Handler exposes the permission catalog, per-user grants and the menu.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers permission routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/menu", h.handleMenu)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequirePage(authz.PermManagement))
		r.Get("/catalog", h.handleCatalog)
		r.Get("/users/{id}", h.handleGet)
		r.Put("/users/{id}", h.handleUpdate)
	})
}

func (h *Handler) handleMenu(w http.ResponseWriter, r *http.Request) {
	principal, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"menu": Menu(principal)})
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	principal, _ := authz.PrincipalFromContext(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": Catalog(principal)})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	principal, _ := authz.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid user id")
		return
	}
	perms, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": perms})
}

type updateRequest struct {
	Permissions []string `json:"permissions"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, _ := authz.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid user id")
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	perms, err := h.service.Update(r.Context(), principal, id, UpdateInput{Permissions: req.Permissions})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("permissions updated",
		slog.String("user_id", id.String()),
		slog.String("actor_id", principal.ID))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":     "Permissions updated successfully",
		"permissions": perms,
	})
}
