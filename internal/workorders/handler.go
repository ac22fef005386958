package workorders

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

// Handler wires work order endpoints. Any signed-in account may issue and
// read orders; editing and deleting is management tier work.
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

// MountRoutes registers work order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/number/{number}", h.getByNumber)
	r.Get("/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(authz.RoleManager, authz.RoleAdmin, authz.RoleSuperAdmin))
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type createRequest struct {
	IssueDate       time.Time `json:"issueDate" validate:"required"`
	WorkOrderNumber string    `json:"workOrderNumber" validate:"required"`
	Product         string    `json:"product"`
	DriverName      string    `json:"driverName"`
	DriverPhone     string    `json:"driverPhone"`
	HeadPlate       string    `json:"headPlate"`
	TailPlate       string    `json:"tailPlate"`
	ContainerNumber string    `json:"containerNumber"`
	CompanyName     string    `json:"companyName"`
	Description     string    `json:"description"`
}

type updateRequest struct {
	IssueDate       *time.Time `json:"issueDate"`
	WorkOrderNumber string     `json:"workOrderNumber"`
	Product         string     `json:"product"`
	DriverName      string     `json:"driverName"`
	DriverPhone     string     `json:"driverPhone"`
	HeadPlate       string     `json:"headPlate"`
	TailPlate       string     `json:"tailPlate"`
	ContainerNumber string     `json:"containerNumber"`
	CompanyName     string     `json:"companyName"`
	Description     *string    `json:"description"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if _, ok := authz.PrincipalFromContext(r.Context()); !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	items, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("list work orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"workOrders": items})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	if _, ok := authz.PrincipalFromContext(r.Context()); !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid work order id")
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) getByNumber(w http.ResponseWriter, r *http.Request) {
	if _, ok := authz.PrincipalFromContext(r.Context()); !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	order, err := h.service.GetByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
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
	order, err := h.service.Create(r.Context(), createdBy, CreateInput{
		IssueDate:       req.IssueDate,
		WorkOrderNumber: req.WorkOrderNumber,
		Product:         req.Product,
		DriverName:      req.DriverName,
		DriverPhone:     req.DriverPhone,
		HeadPlate:       req.HeadPlate,
		TailPlate:       req.TailPlate,
		ContainerNumber: req.ContainerNumber,
		CompanyName:     req.CompanyName,
		Description:     req.Description,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "WorkOrder created successfully",
		"data":    order,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	principal, _ := authz.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid work order id")
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
	order, err := h.service.Update(r.Context(), updatedBy, id, UpdateInput{
		IssueDate:       req.IssueDate,
		WorkOrderNumber: req.WorkOrderNumber,
		Product:         req.Product,
		DriverName:      req.DriverName,
		DriverPhone:     req.DriverPhone,
		HeadPlate:       req.HeadPlate,
		TailPlate:       req.TailPlate,
		ContainerNumber: req.ContainerNumber,
		CompanyName:     req.CompanyName,
		Description:     req.Description,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "WorkOrder updated successfully",
		"data":    order,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid work order id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "WorkOrder deleted successfully"})
}
