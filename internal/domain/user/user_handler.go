package user

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/TienDattttt/Weather-Project/internal/api"
	"github.com/TienDattttt/Weather-Project/internal/types"
	"github.com/TienDattttt/Weather-Project/pkg/middleware"
)

// Handler exposes the authenticated account endpoints.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		api.Error(w, h.logger, types.ErrUnauthenticated)
	}
	return id, ok
}

// GetProfile handles GET /api/user/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	profile, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, profile)
}

// UpdateProfile handles POST /api/user/update_profile. Absent fields are left
// unchanged.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var params types.UpdateProfileParams
	if err := api.Decode(r, &params); err != nil {
		api.Error(w, h.logger, err)
		return
	}

	profile, err := h.svc.UpdateProfile(r.Context(), userID, params)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully.",
		"user":    profile,
	})
}

// AddFavorite handles POST /api/user/add_favorite_location. The body is a
// location input: coordinates or a city name.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var input types.LocationInput
	if err := api.Decode(r, &input); err != nil {
		api.Error(w, h.logger, err)
		return
	}

	loc, err := h.svc.AddFavorite(r.Context(), userID, input)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusCreated, map[string]any{
		"message":  "Location added to favorites.",
		"location": loc,
	})
}

// RemoveFavorite handles POST /api/user/remove_favorite_location.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var body struct {
		LocationID uuid.UUID `json:"location_id"`
	}
	if err := api.Decode(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	if body.LocationID == uuid.Nil {
		api.Error(w, h.logger, types.ErrBadRequest)
		return
	}

	if err := h.svc.RemoveFavorite(r.Context(), userID, body.LocationID); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "Location removed from favorites."})
}

// ListFavorites handles GET /api/user/favorite_locations.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	locations, err := h.svc.ListFavorites(r.Context(), userID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{"favorite_locations": locations})
}

// GetNotificationSettings handles GET /api/user/notification_settings.
func (h *Handler) GetNotificationSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	settings, err := h.svc.GetNotificationSettings(r.Context(), userID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{"notification_settings": settings})
}

// UpdateNotificationSettings handles POST /api/user/update_notification_settings.
// The body replaces the whole settings object; absent flags are disabled.
func (h *Handler) UpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var settings types.NotificationSettings
	if err := api.Decode(r, &settings); err != nil {
		api.Error(w, h.logger, err)
		return
	}

	updated, err := h.svc.UpdateNotificationSettings(r.Context(), userID, settings)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"message":               "Notification settings updated.",
		"notification_settings": updated,
	})
}

// CheckNotifications handles POST /api/user/check_notifications.
func (h *Handler) CheckNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var input types.LocationInput
	if err := api.Decode(r, &input); err != nil {
		api.Error(w, h.logger, err)
		return
	}

	loc, alerts, err := h.svc.CheckNotifications(r.Context(), userID, input)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"location": loc,
		"alerts":   alerts,
	})
}
