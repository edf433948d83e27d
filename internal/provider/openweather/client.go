package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/TienDattttt/Weather-Project/internal/types"
)

// ErrUnavailable marks a failed provider call: transport error, non-200
// status, or a payload that does not parse. Callers must treat it as "no
// data" rather than a bug.
var ErrUnavailable = errors.New("openweathermap unavailable")

// GeocodeResult is the canonical location returned by the geocoding endpoint.
type GeocodeResult struct {
	Name        string
	Latitude    float64
	Longitude   float64
	CountryCode string
}

// Client calls the OpenWeatherMap current-conditions, forecast, and
// geocoding endpoints. It does not retry and does not cache.
type Client struct {
	apiKey     string
	baseURL    string
	geoURL     string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates an OpenWeatherMap client.
func New(apiKey, baseURL, geoURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		geoURL:  geoURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Geocode resolves a free-text place name. A miss (empty feature list) is
// (nil, nil); the caller decides whether that is an error.
func (c *Client) Geocode(ctx context.Context, name string) (*GeocodeResult, error) {
	params := url.Values{}
	params.Set("q", name)
	params.Set("limit", "1")
	params.Set("appid", c.apiKey)

	body, err := c.get(ctx, c.geoURL+"/direct?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var results []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("%w: failed to parse geocode response: %v", ErrUnavailable, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	r := results[0]
	return &GeocodeResult{
		Name:        r.Name,
		Latitude:    r.Lat,
		Longitude:   r.Lon,
		CountryCode: r.Country,
	}, nil
}

// CurrentConditions fetches and normalizes the current weather at a point.
func (c *Client) CurrentConditions(ctx context.Context, lat, lon float64) (*types.CurrentConditions, error) {
	body, err := c.get(ctx, c.baseURL+"/weather?"+c.pointParams(lat, lon).Encode())
	if err != nil {
		return nil, err
	}

	var response struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
			Pressure float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: failed to parse weather response: %v", ErrUnavailable, err)
	}

	condition := ""
	iconURL := ""
	if len(response.Weather) > 0 {
		condition = response.Weather[0].Description
		iconURL = fmt.Sprintf("https://openweathermap.org/img/wn/%s.png", response.Weather[0].Icon)
	}

	return &types.CurrentConditions{
		Temperature: response.Main.Temp,
		Humidity:    response.Main.Humidity,
		WindSpeed:   response.Wind.Speed,
		Pressure:    response.Main.Pressure,
		Condition:   condition,
		IconURL:     iconURL,
	}, nil
}

// Forecast fetches the 3-hour forecast series, oldest first. Rain
// probability stays the provider's 0-1 fraction; UV defaults to 0 when the
// endpoint omits it.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]types.ForecastPoint, error) {
	body, err := c.get(ctx, c.baseURL+"/forecast?"+c.pointParams(lat, lon).Encode())
	if err != nil {
		return nil, err
	}

	var response struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				TempMax float64 `json:"temp_max"`
				TempMin float64 `json:"temp_min"`
			} `json:"main"`
			Pop float64 `json:"pop"`
			UVI float64 `json:"uvi"`
		} `json:"list"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: failed to parse forecast response: %v", ErrUnavailable, err)
	}

	points := make([]types.ForecastPoint, 0, len(response.List))
	for _, item := range response.List {
		points = append(points, types.ForecastPoint{
			Time:            time.Unix(item.Dt, 0),
			TempMax:         item.Main.TempMax,
			TempMin:         item.Main.TempMin,
			RainProbability: item.Pop,
			UVIndex:         item.UVI,
		})
	}
	return points, nil
}

func (c *Client) pointParams(lat, lon float64) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	return params
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("provider returned non-200", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return body, nil
}
