package location

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/TienDattttt/Weather-Project/internal/provider/openweather"
	"github.com/TienDattttt/Weather-Project/internal/types"
)

// Geocoder resolves a free-text place name to canonical coordinates.
// A miss is (nil, nil).
type Geocoder interface {
	Geocode(ctx context.Context, name string) (*openweather.GeocodeResult, error)
}

// placeholderName is used for locations created from bare coordinates.
const placeholderName = "Custom Location"

type Service interface {
	// Resolve returns the canonical location for the input, creating one on
	// first sight. Exactly one input form must be satisfiable:
	// coordinates win over name; neither present is types.ErrBadRequest;
	// a geocoding miss is types.ErrNotFound.
	Resolve(ctx context.Context, input types.LocationInput) (*types.Location, error)

	GetByID(ctx context.Context, id uuid.UUID) (*types.Location, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	repo     Repository
	geocoder Geocoder
}

func NewService(repo Repository, geocoder Geocoder, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		repo:     repo,
		geocoder: geocoder,
	}
}

func (s *ServiceImpl) Resolve(ctx context.Context, input types.LocationInput) (*types.Location, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "Resolve")
	defer span.End()

	l := s.logger.With(slog.String("method", "Resolve"))

	if err := input.Validate(); err != nil {
		span.SetStatus(codes.Error, "Invalid location input")
		return nil, fmt.Errorf("%w: either name or both latitude and longitude must be provided", err)
	}

	if input.Latitude != nil && input.Longitude != nil {
		loc, err := s.repo.FindByCoordinates(ctx, *input.Latitude, *input.Longitude)
		if err == nil {
			span.SetStatus(codes.Ok, "Location found by coordinates")
			return loc, nil
		}
		if err != types.ErrNotFound {
			span.RecordError(err)
			return nil, err
		}
		l.InfoContext(ctx, "Creating location from coordinates",
			slog.Float64("lat", *input.Latitude),
			slog.Float64("lon", *input.Longitude))
		return s.repo.CreateOrFetch(ctx, types.Location{
			Name:        placeholderName,
			Latitude:    *input.Latitude,
			Longitude:   *input.Longitude,
			CountryCode: "",
		})
	}

	geo, err := s.geocoder.Geocode(ctx, *input.Name)
	if err != nil {
		l.ErrorContext(ctx, "Geocoding failed", slog.Any("error", err), slog.String("name", *input.Name))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Geocoding failed")
		return nil, fmt.Errorf("%w: geocoding %q: %v", types.ErrUpstreamUnavailable, *input.Name, err)
	}
	if geo == nil {
		l.WarnContext(ctx, "Location not found by geocoder", slog.String("name", *input.Name))
		span.SetStatus(codes.Error, "Geocoding miss")
		return nil, fmt.Errorf("%w: could not find location %q", types.ErrNotFound, *input.Name)
	}

	span.SetAttributes(attribute.String("location.name", geo.Name))

	loc, err := s.repo.FindByCoordinates(ctx, geo.Latitude, geo.Longitude)
	if err == nil {
		return loc, nil
	}
	if err != types.ErrNotFound {
		span.RecordError(err)
		return nil, err
	}
	return s.repo.CreateOrFetch(ctx, types.Location{
		Name:        geo.Name,
		Latitude:    geo.Latitude,
		Longitude:   geo.Longitude,
		CountryCode: geo.CountryCode,
	})
}

func (s *ServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*types.Location, error) {
	return s.repo.GetByID(ctx, id)
}
