package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TienDattttt/Weather-Project/internal/api"
	"github.com/TienDattttt/Weather-Project/internal/types"
)

// Handler exposes the authentication endpoints.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type registeredUser struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var params RegisterParams
	if err := api.Decode(r, &params); err != nil {
		api.Error(w, h.logger, err)
		return
	}

	user, err := h.svc.Register(r.Context(), params)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}

	api.JSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful.",
		"user": registeredUser{
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
	})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var params LoginParams
	if err := api.Decode(r, &params); err != nil {
		api.Error(w, h.logger, err)
		return
	}

	result, err := h.svc.Login(r.Context(), params)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   result.Token,
		"user": map[string]any{
			"user_id":    result.User.ID,
			"username":   result.User.Username,
			"email":      result.User.Email,
			"first_name": result.User.FirstName,
			"last_name":  result.User.LastName,
		},
	})
}

// RequestPasswordReset handles POST /api/auth/request_password_reset.
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := api.Decode(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}

	if err := h.svc.RequestPasswordReset(r.Context(), body.Email); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "Password reset link sent to your email."})
}

// ResetPassword handles POST /api/auth/reset-password/{token}.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		api.Error(w, h.logger, types.ErrBadRequest)
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := api.Decode(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), token, body.Password); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully."})
}
