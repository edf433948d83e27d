package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TienDattttt/Weather-Project/internal/types"
)

func TestErrorStatusMapping(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"bad request", types.ErrBadRequest, http.StatusBadRequest},
		{"wrapped bad request", fmt.Errorf("%w: missing field", types.ErrBadRequest), http.StatusBadRequest},
		{"not found", types.ErrNotFound, http.StatusNotFound},
		{"unauthenticated", types.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", types.ErrForbidden, http.StatusForbidden},
		{"conflict", types.ErrConflict, http.StatusConflict},
		{"upstream unavailable", types.ErrUpstreamUnavailable, http.StatusInternalServerError},
		{"unknown error", errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, logger, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestErrorHidesInternalDetail(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	rec := httptest.NewRecorder()
	Error(rec, logger, errors.New("pq: connection refused on 10.0.0.3"))

	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestDecodeBadJSONIsBadRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))

	var v map[string]any
	err := Decode(req, &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBadRequest)
}
