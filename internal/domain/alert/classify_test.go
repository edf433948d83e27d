package alert

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TienDattttt/Weather-Project/internal/types"
)

func testLocation() *types.Location {
	return &types.Location{
		ID:       uuid.New(),
		Name:     "Hanoi",
		Latitude: 21.0285, Longitude: 105.8542,
	}
}

func forecastsWithRain(percentages ...float64) []types.Forecast {
	out := make([]types.Forecast, 0, len(percentages))
	for _, p := range percentages {
		out = append(out, types.Forecast{Kind: types.ForecastDaily, RainProbability: p})
	}
	return out
}

func kindsOf(alerts []types.Alert) []types.AlertKind {
	kinds := make([]types.AlertKind, 0, len(alerts))
	for _, a := range alerts {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

func TestClassify(t *testing.T) {
	loc := testLocation()

	tests := []struct {
		name          string
		cond          types.CurrentConditions
		forecasts     []types.Forecast
		expectedKinds []types.AlertKind
	}{
		{
			name:          "calm conditions produce only good weather",
			cond:          types.CurrentConditions{Temperature: 25, Humidity: 60, WindSpeed: 3, Condition: "Clear"},
			expectedKinds: []types.AlertKind{types.AlertGoodWeather},
		},
		{
			name:          "high wind produces storm",
			cond:          types.CurrentConditions{Temperature: 20, WindSpeed: 26, Condition: "Clear"},
			expectedKinds: []types.AlertKind{types.AlertStorm},
		},
		{
			name:          "stormy condition string triggers storm at low wind",
			cond:          types.CurrentConditions{Temperature: 20, WindSpeed: 5, Condition: "Thunderstorm"},
			expectedKinds: []types.AlertKind{types.AlertStorm},
		},
		{
			name:          "extreme heat",
			cond:          types.CurrentConditions{Temperature: 45, WindSpeed: 2, Condition: "Clear"},
			expectedKinds: []types.AlertKind{types.AlertExtremeTemp},
		},
		{
			name:          "extreme cold",
			cond:          types.CurrentConditions{Temperature: -15, WindSpeed: 2, Condition: "Snow"},
			expectedKinds: []types.AlertKind{types.AlertExtremeTemp},
		},
		{
			name:          "fog requires both condition and humidity",
			cond:          types.CurrentConditions{Temperature: 15, Humidity: 95, WindSpeed: 1, Condition: "Fog"},
			expectedKinds: []types.AlertKind{types.AlertFog},
		},
		{
			name:          "foggy condition with dry air is not fog",
			cond:          types.CurrentConditions{Temperature: 15, Humidity: 50, WindSpeed: 1, Condition: "Fog"},
			expectedKinds: []types.AlertKind{types.AlertGoodWeather},
		},
		{
			name:          "flood from forecast rain",
			cond:          types.CurrentConditions{Temperature: 25, WindSpeed: 3, Condition: "Rain"},
			forecasts:     forecastsWithRain(40, 85, 60),
			expectedKinds: []types.AlertKind{types.AlertFlood},
		},
		{
			name:          "rain below threshold is not flood",
			cond:          types.CurrentConditions{Temperature: 25, WindSpeed: 3, Condition: "Rain"},
			forecasts:     forecastsWithRain(40, 79),
			expectedKinds: []types.AlertKind{types.AlertGoodWeather},
		},
		{
			name:          "multiple rules fire in fixed order",
			cond:          types.CurrentConditions{Temperature: 45, Humidity: 95, WindSpeed: 30, Condition: "Thunderstorm with fog"},
			forecasts:     forecastsWithRain(90),
			expectedKinds: []types.AlertKind{types.AlertStorm, types.AlertExtremeTemp, types.AlertFog, types.AlertFlood},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := Classify(loc, tt.cond, tt.forecasts)
			assert.Equal(t, tt.expectedKinds, kindsOf(alerts))
		})
	}
}

func TestClassifyNeverEmpty(t *testing.T) {
	alerts := Classify(testLocation(), types.CurrentConditions{}, nil)
	require.Len(t, alerts, 1)
	assert.Equal(t, types.AlertGoodWeather, alerts[0].Kind)
	assert.Equal(t, types.SeverityLow, alerts[0].Severity)
}

func TestClassifyStormSeverity(t *testing.T) {
	loc := testLocation()

	tests := []struct {
		name     string
		wind     float64
		severity types.AlertSeverity
	}{
		{"wind just over threshold is medium", 21, types.SeverityMedium},
		{"wind at high threshold stays medium", 25, types.SeverityMedium},
		{"wind over high threshold is high", 26, types.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := Classify(loc, types.CurrentConditions{WindSpeed: tt.wind, Condition: "Clear"}, nil)
			require.Len(t, alerts, 1)
			assert.Equal(t, types.AlertStorm, alerts[0].Kind)
			assert.Equal(t, tt.severity, alerts[0].Severity)
		})
	}
}

func TestClassifyHeatWinsOverCold(t *testing.T) {
	// A single temperature can only be one extreme; confirm only one
	// extreme_temperature alert is ever produced.
	for _, temp := range []float64{45, -15} {
		alerts := Classify(testLocation(), types.CurrentConditions{Temperature: temp, Condition: "Clear"}, nil)
		count := 0
		for _, a := range alerts {
			if a.Kind == types.AlertExtremeTemp {
				count++
			}
		}
		assert.Equal(t, 1, count, "temp %g", temp)
	}
}

func TestClassifyMessages(t *testing.T) {
	loc := testLocation()

	alerts := Classify(loc, types.CurrentConditions{Temperature: 20, WindSpeed: 26, Condition: "Clear"}, nil)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Storm warning in Hanoi: High winds (26 m/s) or stormy conditions detected.", alerts[0].Message)
	assert.Equal(t, "Stay indoors, secure outdoor objects.", alerts[0].Recommendation)

	alerts = Classify(loc, types.CurrentConditions{Temperature: 28, Humidity: 70, WindSpeed: 2, Condition: "Clear"}, nil)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Great weather in Hanoi: Temperature at 28°C, clear.", alerts[0].Message)
	assert.Equal(t, "Perfect day for outdoor activities!", alerts[0].Recommendation)
}

func TestClassifyDeterministic(t *testing.T) {
	loc := testLocation()
	cond := types.CurrentConditions{Temperature: 45, WindSpeed: 30, Condition: "Storm"}

	first := Classify(loc, cond, nil)
	second := Classify(loc, cond, nil)
	assert.Equal(t, first, second)
}
