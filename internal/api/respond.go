// Package api holds small helpers shared by the HTTP handlers: JSON
// encoding/decoding and the single place where domain errors map to status
// codes.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/TienDattttt/Weather-Project/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Decode parses the request body into v.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return types.ErrBadRequest
	}
	return nil
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error maps a domain error onto the HTTP taxonomy. Anything unrecognized is
// logged and returned as a generic 500 so no internal detail leaks out.
func Error(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, types.ErrBadRequest):
		JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrNotFound):
		JSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrUnauthenticated):
		JSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrForbidden):
		JSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrConflict):
		JSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrUpstreamUnavailable):
		JSON(w, http.StatusInternalServerError, errorResponse{Error: "upstream weather provider unavailable"})
	default:
		logger.Error("unhandled error in request", slog.Any("error", err))
		JSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
