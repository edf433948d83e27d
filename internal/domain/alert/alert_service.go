package alert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TienDattttt/Weather-Project/internal/types"
)

type Service interface {
	// Refresh classifies the inputs and replaces the location's alert set
	// with the result. Repeated calls with identical inputs yield the same
	// (kind, severity, message, recommendation) tuples with fresh identities.
	Refresh(ctx context.Context, loc *types.Location, cond types.CurrentConditions, forecasts []types.Forecast) ([]types.Alert, error)

	// ListByLocation returns the stored alert set without reclassifying.
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]types.Alert, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) Refresh(ctx context.Context, loc *types.Location, cond types.CurrentConditions, forecasts []types.Forecast) ([]types.Alert, error) {
	ctx, span := otel.Tracer("AlertService").Start(ctx, "Refresh", trace.WithAttributes(
		attribute.String("location.id", loc.ID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Refresh"), slog.String("location", loc.Name))

	classified := Classify(loc, cond, forecasts)

	saved, err := s.repo.ReplaceForLocation(ctx, loc.ID, classified)
	if err != nil {
		l.ErrorContext(ctx, "Failed to replace alert set", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Replace failed")
		return nil, fmt.Errorf("failed to refresh alerts: %w", err)
	}

	l.InfoContext(ctx, "Alert set refreshed", slog.Int("count", len(saved)))
	span.SetAttributes(attribute.Int("alerts.count", len(saved)))
	span.SetStatus(codes.Ok, "Alerts refreshed")
	return saved, nil
}

func (s *ServiceImpl) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]types.Alert, error) {
	alerts, err := s.repo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []types.Alert{}
	}
	return alerts, nil
}
