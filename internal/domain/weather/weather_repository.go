package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

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
	// GetCurrentByLocation returns the single current reading for a
	// location, or types.ErrNotFound when none has been stored yet.
	GetCurrentByLocation(ctx context.Context, locationID uuid.UUID) (*types.CurrentWeather, error)

	// UpsertCurrent refreshes the current reading in place; the reading is
	// a per-location singleton, not an append-only log.
	UpsertCurrent(ctx context.Context, locationID uuid.UUID, cond types.CurrentConditions, observedAt time.Time) (*types.CurrentWeather, error)

	// ReplaceForecasts deletes every stored forecast for the location and
	// inserts the new set in one transaction.
	ReplaceForecasts(ctx context.Context, locationID uuid.UUID, entries []types.Forecast) ([]types.Forecast, error)
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

func (r *RepositoryImpl) GetCurrentByLocation(ctx context.Context, locationID uuid.UUID) (*types.CurrentWeather, error) {
	query := `
        SELECT id, location_id, temperature, humidity, wind_speed, pressure,
               weather_condition, icon_url, timestamp, updated_at
        FROM current_weather
        WHERE location_id = $1
    `

	var w types.CurrentWeather
	err := r.pgpool.QueryRow(ctx, query, locationID).Scan(
		&w.ID,
		&w.LocationID,
		&w.Temperature,
		&w.Humidity,
		&w.WindSpeed,
		&w.Pressure,
		&w.Condition,
		&w.IconURL,
		&w.Timestamp,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get current weather for location %s: %w", locationID, err)
	}
	return &w, nil
}

func (r *RepositoryImpl) UpsertCurrent(ctx context.Context, locationID uuid.UUID, cond types.CurrentConditions, observedAt time.Time) (*types.CurrentWeather, error) {
	ctx, span := otel.Tracer("WeatherRepository").Start(ctx, "UpsertCurrent", trace.WithAttributes(
		attribute.String("location.id", locationID.String()),
	))
	defer span.End()

	query := `
        INSERT INTO current_weather (
            location_id, temperature, humidity, wind_speed, pressure,
            weather_condition, icon_url, timestamp, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        ON CONFLICT (location_id) DO UPDATE SET
            temperature = EXCLUDED.temperature,
            humidity = EXCLUDED.humidity,
            wind_speed = EXCLUDED.wind_speed,
            pressure = EXCLUDED.pressure,
            weather_condition = EXCLUDED.weather_condition,
            icon_url = EXCLUDED.icon_url,
            timestamp = EXCLUDED.timestamp,
            updated_at = NOW()
        RETURNING id, location_id, temperature, humidity, wind_speed, pressure,
                  weather_condition, icon_url, timestamp, updated_at
    `

	var w types.CurrentWeather
	err := r.pgpool.QueryRow(ctx, query,
		locationID,
		cond.Temperature,
		cond.Humidity,
		cond.WindSpeed,
		cond.Pressure,
		cond.Condition,
		cond.IconURL,
		observedAt,
	).Scan(
		&w.ID,
		&w.LocationID,
		&w.Temperature,
		&w.Humidity,
		&w.WindSpeed,
		&w.Pressure,
		&w.Condition,
		&w.IconURL,
		&w.Timestamp,
		&w.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert current weather",
			slog.Any("error", err),
			slog.String("location_id", locationID.String()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upsert failed")
		return nil, fmt.Errorf("failed to upsert current weather: %w", err)
	}

	span.SetStatus(codes.Ok, "Current weather refreshed")
	return &w, nil
}

func (r *RepositoryImpl) ReplaceForecasts(ctx context.Context, locationID uuid.UUID, entries []types.Forecast) ([]types.Forecast, error) {
	ctx, span := otel.Tracer("WeatherRepository").Start(ctx, "ReplaceForecasts", trace.WithAttributes(
		attribute.String("location.id", locationID.String()),
		attribute.Int("entries.count", len(entries)),
	))
	defer span.End()

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to begin forecast replace tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM forecasts WHERE location_id = $1`, locationID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		return nil, fmt.Errorf("failed to delete forecasts for location %s: %w", locationID, err)
	}

	query := `
        INSERT INTO forecasts (
            location_id, forecast_type, forecast_time,
            high_temperature, low_temperature, rain_probability, uv_index
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `

	saved := make([]types.Forecast, 0, len(entries))
	for _, f := range entries {
		if err := tx.QueryRow(ctx, query,
			locationID,
			f.Kind,
			f.Time,
			f.HighTemperature,
			f.LowTemperature,
			f.RainProbability,
			f.UVIndex,
		).Scan(&f.ID); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Insert failed")
			return nil, fmt.Errorf("failed to insert %s forecast: %w", f.Kind, err)
		}
		f.LocationID = locationID
		saved = append(saved, f)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to commit forecast replace: %w", err)
	}

	span.SetStatus(codes.Ok, "Forecasts replaced")
	return saved, nil
}
