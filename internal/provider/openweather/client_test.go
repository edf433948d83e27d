package openweather

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New("test-key", server.URL, server.URL, 5*time.Second, slog.Default())
	return client, server
}

func TestCurrentConditions(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "21.0285", r.URL.Query().Get("lat"))

		w.Write([]byte(`{
            "main": {"temp": 28.5, "humidity": 70, "pressure": 1012},
            "wind": {"speed": 4.2},
            "weather": [{"description": "scattered clouds", "icon": "03d"}]
        }`))
	})

	cond, err := client.CurrentConditions(context.Background(), 21.0285, 105.8542)
	require.NoError(t, err)
	assert.Equal(t, 28.5, cond.Temperature)
	assert.Equal(t, 70.0, cond.Humidity)
	assert.Equal(t, 4.2, cond.WindSpeed)
	assert.Equal(t, "scattered clouds", cond.Condition)
	assert.Equal(t, "https://openweathermap.org/img/wn/03d.png", cond.IconURL)
}

func TestCurrentConditionsEmptyWeatherList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"main": {"temp": 10}, "wind": {"speed": 1}, "weather": []}`))
	})

	cond, err := client.CurrentConditions(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Empty(t, cond.Condition)
	assert.Empty(t, cond.IconURL)
}

func TestCurrentConditionsNon200IsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod": 401, "message": "Invalid API key"}`))
	})

	_, err := client.CurrentConditions(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCurrentConditionsMalformedBodyIsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.CurrentConditions(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCurrentConditionsConnectionRefusedIsUnavailable(t *testing.T) {
	client, server := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {})
	server.Close()

	_, err := client.CurrentConditions(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestForecast(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		w.Write([]byte(`{
            "list": [
                {"dt": 1767225600, "main": {"temp_max": 22, "temp_min": 15}, "pop": 0.35, "uvi": 5.1},
                {"dt": 1767236400, "main": {"temp_max": 24, "temp_min": 16}, "pop": 0.8}
            ]
        }`))
	})

	points, err := client.Forecast(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, time.Unix(1767225600, 0), points[0].Time)
	assert.Equal(t, 22.0, points[0].TempMax)
	assert.Equal(t, 15.0, points[0].TempMin)
	assert.Equal(t, 0.35, points[0].RainProbability)
	assert.Equal(t, 5.1, points[0].UVIndex)

	// uvi omitted defaults to zero.
	assert.Equal(t, 0.0, points[1].UVIndex)
}

func TestGeocode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/direct", r.URL.Path)
		assert.Equal(t, "Hanoi", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.Write([]byte(`[{"name": "Hanoi", "lat": 21.0285, "lon": 105.8542, "country": "VN"}]`))
	})

	result, err := client.Geocode(context.Background(), "Hanoi")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Hanoi", result.Name)
	assert.Equal(t, 21.0285, result.Latitude)
	assert.Equal(t, 105.8542, result.Longitude)
	assert.Equal(t, "VN", result.CountryCode)
}

func TestGeocodeMissIsNilNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	})

	result, err := client.Geocode(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Nil(t, result)
}
