package weather

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TienDattttt/Weather-Project/internal/api"
	"github.com/TienDattttt/Weather-Project/internal/types"
)

// Handler exposes the weather, forecast, and alert endpoints.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// CurrentByLocation handles POST /api/current/by_location.
func (h *Handler) CurrentByLocation(w http.ResponseWriter, r *http.Request) {
	var input types.LocationInput
	if err := api.Decode(r, &input); err != nil {
		api.Error(w, h.logger, err)
		return
	}

	result, err := h.svc.CurrentByLocation(r.Context(), input)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, result)
}

// AlertsByLocation handles POST /api/alerts/by_location.
func (h *Handler) AlertsByLocation(w http.ResponseWriter, r *http.Request) {
	var input types.LocationInput
	if err := api.Decode(r, &input); err != nil {
		api.Error(w, h.logger, err)
		return
	}

	alerts, err := h.svc.AlertsByLocation(r.Context(), input)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, alerts)
}

// ForecastByLocation handles GET /api/forecast/{locationID}?type=daily.
func (h *Handler) ForecastByLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(chi.URLParam(r, "locationID"))
	if err != nil {
		api.Error(w, h.logger, types.ErrBadRequest)
		return
	}

	kind := types.ForecastKind(r.URL.Query().Get("type"))
	if kind == "" {
		kind = types.ForecastDaily
	}

	forecasts, err := h.svc.ForecastByLocation(r.Context(), locationID, kind)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, forecasts)
}

// ForecastAllKinds handles GET /api/forecast/{locationID}/all_types.
func (h *Handler) ForecastAllKinds(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(chi.URLParam(r, "locationID"))
	if err != nil {
		api.Error(w, h.logger, types.ErrBadRequest)
		return
	}

	forecasts, err := h.svc.ForecastAllKinds(r.Context(), locationID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, forecasts)
}
