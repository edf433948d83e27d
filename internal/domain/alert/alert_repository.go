package alert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TienDattttt/Weather-Project/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// ReplaceForLocation atomically swaps the entire alert set for a
	// location: delete-all plus insert-all inside one transaction, so
	// readers never observe old and new alerts together.
	ReplaceForLocation(ctx context.Context, locationID uuid.UUID, alerts []types.Alert) ([]types.Alert, error)

	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]types.Alert, error)
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

func (r *RepositoryImpl) ReplaceForLocation(ctx context.Context, locationID uuid.UUID, alerts []types.Alert) ([]types.Alert, error) {
	ctx, span := otel.Tracer("AlertRepository").Start(ctx, "ReplaceForLocation", trace.WithAttributes(
		attribute.String("location.id", locationID.String()),
		attribute.Int("alerts.count", len(alerts)),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "ReplaceForLocation"), slog.String("location_id", locationID.String()))

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to begin alert replace tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM weather_alerts WHERE location_id = $1`, locationID); err != nil {
		l.ErrorContext(ctx, "Failed to delete existing alerts", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		return nil, fmt.Errorf("failed to delete alerts for location %s: %w", locationID, err)
	}

	query := `
        INSERT INTO weather_alerts (location_id, alert_type, message, severity, recommendation)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, issued_at
    `

	saved := make([]types.Alert, 0, len(alerts))
	for _, a := range alerts {
		if err := tx.QueryRow(ctx, query,
			locationID,
			a.Kind,
			a.Message,
			a.Severity,
			a.Recommendation,
		).Scan(&a.ID, &a.IssuedAt); err != nil {
			l.ErrorContext(ctx, "Failed to insert alert", slog.Any("error", err), slog.String("kind", string(a.Kind)))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Insert failed")
			return nil, fmt.Errorf("failed to insert %s alert: %w", a.Kind, err)
		}
		a.LocationID = locationID
		saved = append(saved, a)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to commit alert replace: %w", err)
	}

	span.SetStatus(codes.Ok, "Alert set replaced")
	return saved, nil
}

func (r *RepositoryImpl) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]types.Alert, error) {
	query := `
        SELECT id, location_id, alert_type, message, severity, recommendation, issued_at
        FROM weather_alerts
        WHERE location_id = $1
        ORDER BY issued_at ASC, id ASC
    `

	rows, err := r.pgpool.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts for location %s: %w", locationID, err)
	}
	defer rows.Close()

	var alerts []types.Alert
	for rows.Next() {
		var a types.Alert
		if err := rows.Scan(&a.ID, &a.LocationID, &a.Kind, &a.Message, &a.Severity, &a.Recommendation, &a.IssuedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert rows: %w", err)
	}
	return alerts, nil
}
