package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TienDattttt/Weather-Project/internal/domain/alert"
	"github.com/TienDattttt/Weather-Project/internal/domain/location"
	"github.com/TienDattttt/Weather-Project/internal/types"
)

// staleAfter is how old a stored current reading may be before a read
// triggers a refresh.
const staleAfter = 5 * time.Minute

// Provider is the upstream weather source. Both calls return an
// unavailable-style error on failure; neither retries.
type Provider interface {
	CurrentConditions(ctx context.Context, lat, lon float64) (*types.CurrentConditions, error)
	Forecast(ctx context.Context, lat, lon float64) ([]types.ForecastPoint, error)
}

// CurrentResult is the assembled response for a current-weather request.
type CurrentResult struct {
	Weather *types.CurrentWeather `json:"weather"`
	Alerts  []types.Alert         `json:"alerts"`
}

type Service interface {
	// CurrentByLocation resolves the location, serves the stored reading
	// (refreshing it when stale, falling back to the stale row when the
	// refresh fails), reclassifies alerts, and returns both.
	CurrentByLocation(ctx context.Context, input types.LocationInput) (*CurrentResult, error)

	// AlertsByLocation fetches fresh conditions and forecasts and returns
	// the reclassified alert set. Unlike CurrentByLocation there is no
	// stale fallback: a failed conditions fetch is an upstream error.
	AlertsByLocation(ctx context.Context, input types.LocationInput) ([]types.Alert, error)

	// ForecastByLocation regenerates the location's stored forecasts and
	// returns the entries of one kind.
	ForecastByLocation(ctx context.Context, locationID uuid.UUID, kind types.ForecastKind) ([]types.Forecast, error)

	// ForecastAllKinds regenerates and returns every summary kind.
	ForecastAllKinds(ctx context.Context, locationID uuid.UUID) ([]types.Forecast, error)

	// Evaluate runs the resolve-fetch-classify pipeline for callers that
	// need the alert set together with the location. A forecast failure
	// suppresses the flood rule; the evaluation still succeeds.
	Evaluate(ctx context.Context, input types.LocationInput) (*types.Location, []types.Alert, error)

	// EvaluateStrict is Evaluate with the forecast made mandatory: a failed
	// forecast fetch is an upstream error. Notification checks use it so a
	// user is never told "all clear" when the flood rule could not run.
	EvaluateStrict(ctx context.Context, input types.LocationInput) (*types.Location, []types.Alert, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	repo     Repository
	provider Provider
	resolver location.Service
	alerts   alert.Service
	clock    clockwork.Clock
}

func NewService(repo Repository, provider Provider, resolver location.Service, alerts alert.Service, clock clockwork.Clock, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		repo:     repo,
		provider: provider,
		resolver: resolver,
		alerts:   alerts,
		clock:    clock,
	}
}

func (s *ServiceImpl) CurrentByLocation(ctx context.Context, input types.LocationInput) (*CurrentResult, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "CurrentByLocation")
	defer span.End()

	l := s.logger.With(slog.String("method", "CurrentByLocation"))

	loc, err := s.resolver.Resolve(ctx, input)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("location.id", loc.ID.String()))

	current, err := s.currentReading(ctx, loc, l)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "No current reading available")
		return nil, err
	}

	// Forecast failure only suppresses the flood rule; the request itself
	// still succeeds.
	var forecasts []types.Forecast
	points, err := s.provider.Forecast(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		l.WarnContext(ctx, "Forecast fetch failed, classifying without it", slog.Any("error", err))
	} else if len(points) > 0 {
		forecasts = Aggregate(points, s.clock.Now())
	}

	alerts, err := s.alerts.Refresh(ctx, loc, conditionsOf(current), forecasts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if alerts == nil {
		alerts = []types.Alert{}
	}

	current.Location = loc
	span.SetStatus(codes.Ok, "Current weather assembled")
	return &CurrentResult{Weather: current, Alerts: alerts}, nil
}

// currentReading returns the stored reading, fetching or refreshing as the
// staleness policy dictates.
func (s *ServiceImpl) currentReading(ctx context.Context, loc *types.Location, l *slog.Logger) (*types.CurrentWeather, error) {
	stored, err := s.repo.GetCurrentByLocation(ctx, loc.ID)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	if stored != nil && s.clock.Now().Sub(stored.Timestamp) <= staleAfter {
		return stored, nil
	}

	cond, fetchErr := s.provider.CurrentConditions(ctx, loc.Latitude, loc.Longitude)
	if fetchErr != nil {
		if stored != nil {
			// Degraded fallback: a stale reading beats an error.
			l.WarnContext(ctx, "Refresh failed, serving stale reading",
				slog.Any("error", fetchErr),
				slog.Time("stale_since", stored.Timestamp))
			return stored, nil
		}
		return nil, fmt.Errorf("%w: %v", types.ErrUpstreamUnavailable, fetchErr)
	}

	return s.repo.UpsertCurrent(ctx, loc.ID, *cond, s.clock.Now())
}

func (s *ServiceImpl) AlertsByLocation(ctx context.Context, input types.LocationInput) ([]types.Alert, error) {
	_, alerts, err := s.Evaluate(ctx, input)
	return alerts, err
}

func (s *ServiceImpl) Evaluate(ctx context.Context, input types.LocationInput) (*types.Location, []types.Alert, error) {
	return s.evaluate(ctx, input, false)
}

func (s *ServiceImpl) EvaluateStrict(ctx context.Context, input types.LocationInput) (*types.Location, []types.Alert, error) {
	return s.evaluate(ctx, input, true)
}

func (s *ServiceImpl) evaluate(ctx context.Context, input types.LocationInput, requireForecast bool) (*types.Location, []types.Alert, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "Evaluate")
	defer span.End()

	loc, err := s.resolver.Resolve(ctx, input)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	cond, err := s.provider.CurrentConditions(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Conditions fetch failed")
		return nil, nil, fmt.Errorf("%w: %v", types.ErrUpstreamUnavailable, err)
	}

	var forecasts []types.Forecast
	points, err := s.provider.Forecast(ctx, loc.Latitude, loc.Longitude)
	switch {
	case err != nil && requireForecast:
		span.RecordError(err)
		span.SetStatus(codes.Error, "Forecast fetch failed")
		return nil, nil, fmt.Errorf("%w: %v", types.ErrUpstreamUnavailable, err)
	case err != nil:
		s.logger.WarnContext(ctx, "Forecast fetch failed during evaluation", slog.Any("error", err))
	case len(points) > 0:
		forecasts = Aggregate(points, s.clock.Now())
	}

	alerts, err := s.alerts.Refresh(ctx, loc, *cond, forecasts)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	span.SetStatus(codes.Ok, "Evaluated")
	return loc, alerts, nil
}

func (s *ServiceImpl) ForecastByLocation(ctx context.Context, locationID uuid.UUID, kind types.ForecastKind) ([]types.Forecast, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown forecast type %q", types.ErrBadRequest, kind)
	}

	all, err := s.regenerate(ctx, locationID)
	if err != nil {
		return nil, err
	}

	filtered := make([]types.Forecast, 0, len(all))
	for _, f := range all {
		if f.Kind == kind {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

func (s *ServiceImpl) ForecastAllKinds(ctx context.Context, locationID uuid.UUID) ([]types.Forecast, error) {
	return s.regenerate(ctx, locationID)
}

// regenerate drops the stored forecasts for the location and rebuilds them
// from a fresh provider series.
func (s *ServiceImpl) regenerate(ctx context.Context, locationID uuid.UUID) ([]types.Forecast, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "regenerate", trace.WithAttributes(
		attribute.String("location.id", locationID.String()),
	))
	defer span.End()

	loc, err := s.resolver.GetByID(ctx, locationID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	points, err := s.provider.Forecast(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Forecast fetch failed")
		return nil, fmt.Errorf("%w: %v", types.ErrUpstreamUnavailable, err)
	}
	if len(points) == 0 {
		span.SetStatus(codes.Error, "Empty forecast series")
		return nil, fmt.Errorf("%w: provider returned empty forecast", types.ErrUpstreamUnavailable)
	}

	entries, err := s.repo.ReplaceForecasts(ctx, locationID, Aggregate(points, s.clock.Now()))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for i := range entries {
		entries[i].Location = loc
	}

	span.SetStatus(codes.Ok, "Forecasts regenerated")
	return entries, nil
}

func conditionsOf(w *types.CurrentWeather) types.CurrentConditions {
	return types.CurrentConditions{
		Temperature: w.Temperature,
		Humidity:    w.Humidity,
		WindSpeed:   w.WindSpeed,
		Pressure:    w.Pressure,
		Condition:   w.Condition,
		IconURL:     w.IconURL,
	}
}
