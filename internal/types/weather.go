package types

import (
	"time"

	"github.com/google/uuid"
)

// CurrentWeather is the single "current" reading per location. It is
// refreshed in place rather than appended, so LocationID is unique.
type CurrentWeather struct {
	ID          uuid.UUID `json:"id"`
	LocationID  uuid.UUID `json:"-"`
	Location    *Location `json:"location,omitempty"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Pressure    float64   `json:"pressure"`
	Condition   string    `json:"weather_condition"`
	IconURL     string    `json:"icon_url"`
	Timestamp   time.Time `json:"timestamp"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ForecastKind distinguishes the three summary granularities.
type ForecastKind string

const (
	ForecastShort  ForecastKind = "short"
	ForecastDaily  ForecastKind = "daily"
	ForecastWeekly ForecastKind = "weekly"
)

// Valid reports whether k is one of the known kinds.
func (k ForecastKind) Valid() bool {
	switch k {
	case ForecastShort, ForecastDaily, ForecastWeekly:
		return true
	}
	return false
}

// Forecast is one summarized forecast entry. Entries for a location are
// deleted en masse and regenerated, never updated incrementally.
type Forecast struct {
	ID              uuid.UUID    `json:"id"`
	LocationID      uuid.UUID    `json:"-"`
	Location        *Location    `json:"location,omitempty"`
	Kind            ForecastKind `json:"forecast_type"`
	Time            time.Time    `json:"forecast_time"`
	HighTemperature float64      `json:"high_temperature"`
	LowTemperature  float64      `json:"low_temperature"`
	RainProbability float64      `json:"rain_probability"`
	UVIndex         float64      `json:"uv_index"`
}

// ForecastPoint is one normalized 3-hour data point from the provider.
// RainProbability is still the provider's 0-1 fraction at this stage.
type ForecastPoint struct {
	Time            time.Time
	TempMax         float64
	TempMin         float64
	RainProbability float64
	UVIndex         float64
}

// CurrentConditions is the normalized current-weather payload from the
// provider, before it is persisted.
type CurrentConditions struct {
	Temperature float64
	Humidity    float64
	WindSpeed   float64
	Pressure    float64
	Condition   string
	IconURL     string
}
