package news

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TienDattttt/Weather-Project/internal/api"
	"github.com/TienDattttt/Weather-Project/internal/types"
)

// Handler exposes the news endpoints.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) articleID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "articleID"))
	if err != nil {
		api.Error(w, h.logger, types.ErrBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /api/news.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.svc.List(r.Context())
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, articles)
}

// Get handles GET /api/news/{articleID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.articleID(w, r)
	if !ok {
		return
	}

	article, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, article)
}

// Create handles POST /api/news.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var params CreateParams
	if err := api.Decode(r, &params); err != nil {
		api.Error(w, h.logger, err)
		return
	}

	article, err := h.svc.Create(r.Context(), params)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusCreated, article)
}

// Update handles PATCH /api/news/{articleID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.articleID(w, r)
	if !ok {
		return
	}

	var params types.UpdateNewsParams
	if err := api.Decode(r, &params); err != nil {
		api.Error(w, h.logger, err)
		return
	}

	article, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, article)
}

// Delete handles DELETE /api/news/{articleID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.articleID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
