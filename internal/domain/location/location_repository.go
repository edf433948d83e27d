package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TienDattttt/Weather-Project/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// FindByCoordinates looks up a location by exact coordinate match.
	// Returns types.ErrNotFound on miss.
	FindByCoordinates(ctx context.Context, lat, lon float64) (*types.Location, error)

	// CreateOrFetch inserts a location keyed by its coordinate pair. If a
	// concurrent request already created the row, the existing row is
	// returned instead; callers always converge on one identity.
	CreateOrFetch(ctx context.Context, loc types.Location) (*types.Location, error)

	GetByID(ctx context.Context, id uuid.UUID) (*types.Location, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const locationColumns = `id, name, latitude, longitude, country_code, is_auto_detected`

func (r *RepositoryImpl) FindByCoordinates(ctx context.Context, lat, lon float64) (*types.Location, error) {
	query := `
        SELECT ` + locationColumns + `
        FROM locations
        WHERE latitude = $1 AND longitude = $2
    `

	var loc types.Location
	err := r.pgpool.QueryRow(ctx, query, lat, lon).Scan(
		&loc.ID,
		&loc.Name,
		&loc.Latitude,
		&loc.Longitude,
		&loc.CountryCode,
		&loc.IsAutoDetected,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find location by coordinates (%f, %f): %w", lat, lon, err)
	}
	return &loc, nil
}

func (r *RepositoryImpl) CreateOrFetch(ctx context.Context, loc types.Location) (*types.Location, error) {
	ctx, span := otel.Tracer("LocationRepository").Start(ctx, "CreateOrFetch", trace.WithAttributes(
		attribute.Float64("location.lat", loc.Latitude),
		attribute.Float64("location.lon", loc.Longitude),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateOrFetch"))

	// The no-op DO UPDATE makes RETURNING yield the surviving row whether
	// this insert won or lost the race on the coordinate index.
	query := `
        INSERT INTO locations (name, latitude, longitude, country_code, is_auto_detected)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (latitude, longitude) DO UPDATE SET name = locations.name
        RETURNING ` + locationColumns + `
    `

	var created types.Location
	err := r.pgpool.QueryRow(ctx, query,
		loc.Name,
		loc.Latitude,
		loc.Longitude,
		loc.CountryCode,
		loc.IsAutoDetected,
	).Scan(
		&created.ID,
		&created.Name,
		&created.Latitude,
		&created.Longitude,
		&created.CountryCode,
		&created.IsAutoDetected,
	)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create location", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database insert failed")
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	span.SetAttributes(attribute.String("location.id", created.ID.String()))
	span.SetStatus(codes.Ok, "Location resolved")
	return &created, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*types.Location, error) {
	query := `
        SELECT ` + locationColumns + `
        FROM locations
        WHERE id = $1
    `

	var loc types.Location
	err := r.pgpool.QueryRow(ctx, query, id).Scan(
		&loc.ID,
		&loc.Name,
		&loc.Latitude,
		&loc.Longitude,
		&loc.CountryCode,
		&loc.IsAutoDetected,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get location %s: %w", id, err)
	}
	return &loc, nil
}
