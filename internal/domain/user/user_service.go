package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TienDattttt/Weather-Project/internal/domain/location"
	"github.com/TienDattttt/Weather-Project/internal/domain/weather"
	"github.com/TienDattttt/Weather-Project/internal/notify"
	"github.com/TienDattttt/Weather-Project/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.UserProfile, error)

	AddFavorite(ctx context.Context, userID uuid.UUID, input types.LocationInput) (*types.Location, error)
	RemoveFavorite(ctx context.Context, userID, locationID uuid.UUID) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.Location, error)

	GetNotificationSettings(ctx context.Context, userID uuid.UUID) (types.NotificationSettings, error)
	UpdateNotificationSettings(ctx context.Context, userID uuid.UUID, settings types.NotificationSettings) (types.NotificationSettings, error)

	// CheckNotifications evaluates current alerts for the given location and
	// returns the ones the user has opted into, mailing each best-effort.
	CheckNotifications(ctx context.Context, userID uuid.UUID, input types.LocationInput) (*types.Location, []types.Alert, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	repo     Repository
	resolver location.Service
	weather  weather.Service
	sender   notify.Sender
}

func NewService(repo Repository, resolver location.Service, weatherSvc weather.Service, sender notify.Sender, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		repo:     repo,
		resolver: resolver,
		weather:  weatherSvc,
		sender:   sender,
	}
}

func (s *ServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "UpdateProfile")
	defer span.End()

	if err := s.repo.UpdateProfile(ctx, userID, params); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		return nil, err
	}

	s.logger.InfoContext(ctx, "Profile updated", slog.String("user_id", userID.String()))
	span.SetStatus(codes.Ok, "Profile updated")
	return s.repo.GetProfile(ctx, userID)
}

// AddFavorite resolves the location first so a favorite can be created from
// raw coordinates or a city name in one call.
func (s *ServiceImpl) AddFavorite(ctx context.Context, userID uuid.UUID, input types.LocationInput) (*types.Location, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "AddFavorite")
	defer span.End()

	loc, err := s.resolver.Resolve(ctx, input)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.repo.AddFavorite(ctx, userID, loc.ID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "Favorite added")
	return loc, nil
}

func (s *ServiceImpl) RemoveFavorite(ctx context.Context, userID, locationID uuid.UUID) error {
	return s.repo.RemoveFavorite(ctx, userID, locationID)
}

func (s *ServiceImpl) ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.Location, error) {
	locations, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if locations == nil {
		locations = []types.Location{}
	}
	return locations, nil
}

func (s *ServiceImpl) GetNotificationSettings(ctx context.Context, userID uuid.UUID) (types.NotificationSettings, error) {
	return s.repo.GetNotificationSettings(ctx, userID)
}

func (s *ServiceImpl) UpdateNotificationSettings(ctx context.Context, userID uuid.UUID, settings types.NotificationSettings) (types.NotificationSettings, error) {
	if err := s.repo.UpdateNotificationSettings(ctx, userID, settings); err != nil {
		return types.NotificationSettings{}, err
	}
	return s.repo.GetNotificationSettings(ctx, userID)
}

func (s *ServiceImpl) CheckNotifications(ctx context.Context, userID uuid.UUID, input types.LocationInput) (*types.Location, []types.Alert, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "CheckNotifications", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CheckNotifications"))

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	settings, err := s.repo.GetNotificationSettings(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	// The forecast is mandatory here: a user asking for a check must not be
	// told "all clear" because the flood rule silently could not run.
	loc, alerts, err := s.weather.EvaluateStrict(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Evaluation failed")
		return nil, nil, err
	}

	relevant := make([]types.Alert, 0, len(alerts))
	for _, a := range alerts {
		if settings.Enabled(a.Kind) {
			relevant = append(relevant, a)
		}
	}

	for _, a := range relevant {
		subject := fmt.Sprintf("Weather Alert: %s", a.Kind)
		body := a.Message
		if a.Recommendation != "" {
			body = fmt.Sprintf("%s\n\nRecommendation: %s", a.Message, a.Recommendation)
		}
		s.sender.SendBestEffort(ctx, profile.Email, subject, body)
	}

	l.InfoContext(ctx, "Notification check completed",
		slog.String("location", loc.Name),
		slog.Int("alerts", len(alerts)),
		slog.Int("notified", len(relevant)))
	span.SetStatus(codes.Ok, "Notifications checked")
	return loc, relevant, nil
}
