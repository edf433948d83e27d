package alert

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TienDattttt/Weather-Project/internal/api"
	"github.com/TienDattttt/Weather-Project/internal/types"
)

// Handler exposes read access to stored alerts.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// StoredByLocation handles GET /api/alerts/{locationID}: the last classified
// set, without refetching from the provider.
func (h *Handler) StoredByLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(chi.URLParam(r, "locationID"))
	if err != nil {
		api.Error(w, h.logger, types.ErrBadRequest)
		return
	}

	alerts, err := h.svc.ListByLocation(r.Context(), locationID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, alerts)
}
