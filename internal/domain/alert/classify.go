package alert

import (
	"fmt"
	"strings"

	"github.com/TienDattttt/Weather-Project/internal/types"
)

// Classification thresholds. Wind speeds are m/s, temperatures °C, rain
// probabilities percent.
const (
	stormWindThreshold     = 20.0
	stormHighWindThreshold = 25.0
	extremeHeatThreshold   = 40.0
	extremeColdThreshold   = -10.0
	fogHumidityThreshold   = 90.0
	floodRainThreshold     = 80.0
)

// Classify evaluates current conditions (and, when supplied, forecast
// summaries) against the fixed rules and returns the complete new alert set
// for the location, in rule order. The set is never empty: when no danger
// rule fires, a single good_weather alert is returned.
//
// Zero values stand in for missing inputs, so a reading with no wind speed
// is treated as calm rather than rejected.
func Classify(loc *types.Location, cond types.CurrentConditions, forecasts []types.Forecast) []types.Alert {
	var alerts []types.Alert
	condition := strings.ToLower(cond.Condition)

	add := func(kind types.AlertKind, message string, severity types.AlertSeverity, recommendation string) {
		alerts = append(alerts, types.Alert{
			LocationID:     loc.ID,
			Kind:           kind,
			Message:        message,
			Severity:       severity,
			Recommendation: recommendation,
		})
	}

	if cond.WindSpeed > stormWindThreshold || strings.Contains(condition, "storm") || strings.Contains(condition, "thunderstorm") {
		severity := types.SeverityMedium
		if cond.WindSpeed > stormHighWindThreshold {
			severity = types.SeverityHigh
		}
		add(types.AlertStorm,
			fmt.Sprintf("Storm warning in %s: High winds (%g m/s) or stormy conditions detected.", loc.Name, cond.WindSpeed),
			severity,
			"Stay indoors, secure outdoor objects.")
	}

	// Heat and cold are mutually exclusive; heat wins.
	if cond.Temperature > extremeHeatThreshold {
		add(types.AlertExtremeTemp,
			fmt.Sprintf("Extreme heat warning in %s: Temperature reached %g°C.", loc.Name, cond.Temperature),
			types.SeverityHigh,
			"Stay hydrated, avoid outdoor activities.")
	} else if cond.Temperature < extremeColdThreshold {
		add(types.AlertExtremeTemp,
			fmt.Sprintf("Extreme cold warning in %s: Temperature dropped to %g°C.", loc.Name, cond.Temperature),
			types.SeverityHigh,
			"Dress warmly, limit outdoor exposure.")
	}

	if strings.Contains(condition, "fog") && cond.Humidity > fogHumidityThreshold {
		add(types.AlertFog,
			fmt.Sprintf("Dense fog warning in %s: Low visibility due to high humidity (%g%%).", loc.Name, cond.Humidity),
			types.SeverityMedium,
			"Drive slowly, use fog lights.")
	}

	if len(forecasts) > 0 {
		maxRain := forecasts[0].RainProbability
		for _, f := range forecasts[1:] {
			if f.RainProbability > maxRain {
				maxRain = f.RainProbability
			}
		}
		if maxRain > floodRainThreshold {
			add(types.AlertFlood,
				fmt.Sprintf("Flood risk in %s: High rain probability (%g%%) expected.", loc.Name, maxRain),
				types.SeverityHigh,
				"Avoid low-lying areas, prepare emergency supplies.")
		}
	}

	if len(alerts) == 0 {
		add(types.AlertGoodWeather,
			fmt.Sprintf("Great weather in %s: Temperature at %g°C, %s.", loc.Name, cond.Temperature, condition),
			types.SeverityLow,
			"Perfect day for outdoor activities!")
	}

	return alerts
}
