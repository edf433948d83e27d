package weather

import (
	"time"

	"github.com/TienDattttt/Weather-Project/internal/types"
)

// shortTermPoints is how many leading 3-hour points make up the short-term
// summary (roughly 24 hours).
const shortTermPoints = 8

// Aggregate reduces the provider's 3-hour series into short, daily, and
// weekly summaries, in that order. Rain probabilities are scaled from the
// provider's 0-1 fraction to percent. The input must carry at least one
// point; providers that return an empty list are surfaced as unavailable
// before this runs.
func Aggregate(points []types.ForecastPoint, now time.Time) []types.Forecast {
	out := make([]types.Forecast, 0, len(points)+shortTermPoints+1)

	short := points
	if len(short) > shortTermPoints {
		short = short[:shortTermPoints]
	}
	for _, p := range short {
		out = append(out, types.Forecast{
			Kind:            types.ForecastShort,
			Time:            p.Time,
			HighTemperature: p.TempMax,
			LowTemperature:  p.TempMin,
			RainProbability: p.RainProbability * 100,
			UVIndex:         p.UVIndex,
		})
	}

	// Daily summaries, in first-seen date order. The seed point contributes
	// the timestamp and the UV index; later points on the same date widen
	// high/low/rain but deliberately leave UV at the seed's value.
	daily := make(map[string]int)
	for _, p := range points {
		day := p.Time.Local().Format("2006-01-02")
		idx, ok := daily[day]
		if !ok {
			out = append(out, types.Forecast{
				Kind:            types.ForecastDaily,
				Time:            p.Time,
				HighTemperature: p.TempMax,
				LowTemperature:  p.TempMin,
				RainProbability: p.RainProbability * 100,
				UVIndex:         p.UVIndex,
			})
			daily[day] = len(out) - 1
			continue
		}
		d := &out[idx]
		d.HighTemperature = max(d.HighTemperature, p.TempMax)
		d.LowTemperature = min(d.LowTemperature, p.TempMin)
		d.RainProbability = max(d.RainProbability, p.RainProbability*100)
	}

	weekly := types.Forecast{
		Kind: types.ForecastWeekly,
		Time: now,
	}
	for i, p := range points {
		if i == 0 {
			weekly.HighTemperature = p.TempMax
			weekly.LowTemperature = p.TempMin
			weekly.RainProbability = p.RainProbability * 100
			weekly.UVIndex = p.UVIndex
			continue
		}
		weekly.HighTemperature = max(weekly.HighTemperature, p.TempMax)
		weekly.LowTemperature = min(weekly.LowTemperature, p.TempMin)
		weekly.RainProbability = max(weekly.RainProbability, p.RainProbability*100)
		weekly.UVIndex = max(weekly.UVIndex, p.UVIndex)
	}
	out = append(out, weekly)

	return out
}
