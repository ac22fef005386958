package tracker

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/platform/httpx"
)

// Handler proxies tracking data to the web client. Truck tracking sits
// behind the map page grant, container tracking behind its own.
type Handler struct {
	logger     *slog.Logger
	cartrack   *CartrackClient
	containers *ContainerTrackClient
	geocoder   *Geocoder
	guard      authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, cartrack *CartrackClient, containers *ContainerTrackClient, geocoder *Geocoder, guard authz.Middleware) *Handler {
	return &Handler{
		logger:     logger,
		cartrack:   cartrack,
		containers: containers,
		geocoder:   geocoder,
		guard:      guard,
	}
}

// MountRoutes registers tracking routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequirePage(authz.PermMap))
		r.Get("/vehicles", h.vehiclePositions)
		r.Get("/vehicles/snapshot", h.mapSnapshot)
		r.Get("/vehicles/{vehicle_id}/timeline", h.vehicleTimeline)
		r.Get("/geofences", h.geofences)
		r.Get("/geocode/reverse", h.reverseGeocode)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequirePage(authz.PermTrackContainer))
		r.Get("/containers", h.trackContainers)
		r.Post("/containers/session", h.renewContainerSession)
	})
}

func (h *Handler) vehiclePositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.cartrack.FleetPositions(r.Context())
	if err != nil {
		h.logger.Error("fetch vehicle positions", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Error", "could not fetch vehicle positions")
		return
	}
	httpx.JSON(w, http.StatusOK, positions)
}

func (h *Handler) mapSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.cartrack.MapSnapshot(r.Context())
	if err != nil {
		h.logger.Error("fetch map snapshot", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Error", "could not fetch map snapshot")
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}

func (h *Handler) vehicleTimeline(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "vehicle_id")
	date := r.URL.Query().Get("date")
	if vehicleID == "" || date == "" {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "vehicle_id and date are required")
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "date must be formatted YYYY-MM-DD")
		return
	}

	timeline, err := h.cartrack.Timeline(r.Context(), vehicleID, date)
	if err != nil {
		h.logger.Error("fetch vehicle timeline",
			slog.String("vehicle_id", vehicleID),
			slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Error", "could not fetch vehicle timeline")
		return
	}
	httpx.JSON(w, http.StatusOK, timeline)
}

func (h *Handler) geofences(w http.ResponseWriter, r *http.Request) {
	geofences, err := h.cartrack.Geofences(r.Context())
	if err != nil {
		h.logger.Error("fetch geofences", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Error", "could not fetch geofences")
		return
	}
	httpx.JSON(w, http.StatusOK, geofences)
}

func (h *Handler) reverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat := r.URL.Query().Get("lat")
	lon := r.URL.Query().Get("lon")
	if lat == "" || lon == "" {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "lat and lon are required")
		return
	}
	address, err := h.geocoder.Reverse(r.Context(), lat, lon)
	if err != nil {
		h.logger.Error("reverse geocode", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Error", "could not resolve address")
		return
	}
	httpx.JSON(w, http.StatusOK, address)
}

func (h *Handler) trackContainers(w http.ResponseWriter, r *http.Request) {
	data, err := h.containers.Containers(r.Context())
	if err != nil {
		h.logger.Error("fetch container tracking", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Error", "could not fetch container tracking")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func (h *Handler) renewContainerSession(w http.ResponseWriter, r *http.Request) {
	if err := h.containers.Renew(r.Context()); err != nil {
		h.logger.Error("renew container session", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Error", "could not renew container session")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "Session renewed"})
}
