package joblog

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/platform/httpx"
)

// Handler wires gate log endpoints. Reads follow the data-today page
// grant; writes are management tier work.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers gate log routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.guard.RequirePage(authz.PermDataToday))
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(authz.RoleManager, authz.RoleAdmin, authz.RoleSuperAdmin))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type createRequest struct {
	DatetimeIn       time.Time  `json:"datetime_in" validate:"required"`
	DatetimeOut      *time.Time `json:"datetime_out"`
	DriverName       string     `json:"driver_name" validate:"required"`
	HeadRegistration string     `json:"head_registration" validate:"required"`
	TailRegistration string     `json:"tail_registration" validate:"required"`
	ContainerNo      string     `json:"container_no" validate:"required"`
	StationIn        string     `json:"station_in" validate:"required"`
	StationOut       string     `json:"station_out"`
	CompanyName      string     `json:"companyname" validate:"required"`
}

type updateRequest struct {
	DatetimeIn       *time.Time `json:"datetime_in"`
	DatetimeOut      *time.Time `json:"datetime_out"`
	DriverName       string     `json:"driver_name"`
	HeadRegistration string     `json:"head_registration"`
	TailRegistration string     `json:"tail_registration"`
	ContainerNo      string     `json:"container_no"`
	StationIn        string     `json:"station_in"`
	StationOut       string     `json:"station_out"`
	CompanyName      string     `json:"companyname"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	entries, err := h.service.List(r.Context(), ListFilters{
		DriverName:       query.Get("driver_name"),
		ContainerNo:      query.Get("container_no"),
		HeadRegistration: query.Get("head_registration"),
		From:             query.Get("from"),
		To:               query.Get("to"),
	})
	if err != nil {
		h.logger.Error("list gate log", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": entries})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid entry id")
		return
	}
	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal, _ := authz.PrincipalFromContext(r.Context())
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	createdBy, err := uuid.Parse(principal.ID)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	entry, err := h.service.Create(r.Context(), createdBy, CreateInput{
		DatetimeIn:       req.DatetimeIn,
		DatetimeOut:      req.DatetimeOut,
		DriverName:       req.DriverName,
		HeadRegistration: req.HeadRegistration,
		TailRegistration: req.TailRegistration,
		ContainerNo:      req.ContainerNo,
		StationIn:        req.StationIn,
		StationOut:       req.StationOut,
		CompanyName:      req.CompanyName,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "Entry created successfully",
		"data":    entry,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	principal, _ := authz.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid entry id")
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	updatedBy, err := uuid.Parse(principal.ID)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	entry, err := h.service.Update(r.Context(), updatedBy, id, UpdateInput{
		DatetimeIn:       req.DatetimeIn,
		DatetimeOut:      req.DatetimeOut,
		DriverName:       req.DriverName,
		HeadRegistration: req.HeadRegistration,
		TailRegistration: req.TailRegistration,
		ContainerNo:      req.ContainerNo,
		StationIn:        req.StationIn,
		StationOut:       req.StationOut,
		CompanyName:      req.CompanyName,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Entry updated successfully",
		"data":    entry,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid entry id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Entry deleted successfully"})
}
