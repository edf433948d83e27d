package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
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
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)

	// UpdateProfile applies the non-nil fields only.
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error

	AddFavorite(ctx context.Context, userID, locationID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, locationID uuid.UUID) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.Location, error)

	GetNotificationSettings(ctx context.Context, userID uuid.UUID) (types.NotificationSettings, error)
	UpdateNotificationSettings(ctx context.Context, userID uuid.UUID, settings types.NotificationSettings) error
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

func (r *RepositoryImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	query := `
        SELECT id, username, first_name, last_name, email, created_at, updated_at
        FROM users
        WHERE id = $1
    `

	var u types.UserProfile
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile for user %s: %w", userID, err)
	}
	return &u, nil
}

func (r *RepositoryImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error {
	ctx, span := otel.Tracer("UserRepository").Start(ctx, "UpdateProfile", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	builder := sq.Update("users").PlaceholderFormat(sq.Dollar).Where(sq.Eq{"id": userID})

	updated := false
	if params.Username != nil {
		builder = builder.Set("username", *params.Username)
		updated = true
	}
	if params.FirstName != nil {
		builder = builder.Set("first_name", *params.FirstName)
		updated = true
	}
	if params.LastName != nil {
		builder = builder.Set("last_name", *params.LastName)
		updated = true
	}
	if params.Email != nil {
		builder = builder.Set("email", *params.Email)
		updated = true
	}
	if !updated {
		return nil
	}
	builder = builder.Set("updated_at", sq.Expr("NOW()"))

	query, args, err := builder.ToSql()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to build profile update query: %w", err)
	}

	result, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return types.ErrNotFound
	}

	span.SetStatus(codes.Ok, "Profile updated")
	return nil
}

func (r *RepositoryImpl) AddFavorite(ctx context.Context, userID, locationID uuid.UUID) error {
	// Adding an existing favorite is a no-op, matching set semantics.
	_, err := r.pgpool.Exec(ctx, `
        INSERT INTO user_favorite_locations (user_id, location_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, location_id) DO NOTHING
    `, userID, locationID)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) RemoveFavorite(ctx context.Context, userID, locationID uuid.UUID) error {
	result, err := r.pgpool.Exec(ctx, `
        DELETE FROM user_favorite_locations
        WHERE user_id = $1 AND location_id = $2
    `, userID, locationID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if result.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.Location, error) {
	query := `
        SELECT l.id, l.name, l.latitude, l.longitude, l.country_code, l.is_auto_detected
        FROM locations l
        JOIN user_favorite_locations f ON f.location_id = l.id
        WHERE f.user_id = $1
        ORDER BY f.added_at ASC
    `

	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var locations []types.Location
	for rows.Next() {
		var loc types.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.CountryCode, &loc.IsAutoDetected); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorite rows: %w", err)
	}
	return locations, nil
}

func (r *RepositoryImpl) GetNotificationSettings(ctx context.Context, userID uuid.UUID) (types.NotificationSettings, error) {
	query := `
        SELECT notify_storm, notify_flood, notify_extreme_temperature,
               notify_fog, notify_good_weather
        FROM users
        WHERE id = $1
    `

	var s types.NotificationSettings
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&s.Storm,
		&s.Flood,
		&s.ExtremeTemperature,
		&s.Fog,
		&s.GoodWeather,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.NotificationSettings{}, types.ErrNotFound
		}
		return types.NotificationSettings{}, fmt.Errorf("failed to get notification settings: %w", err)
	}
	return s, nil
}

func (r *RepositoryImpl) UpdateNotificationSettings(ctx context.Context, userID uuid.UUID, settings types.NotificationSettings) error {
	result, err := r.pgpool.Exec(ctx, `
        UPDATE users SET
            notify_storm = $1,
            notify_flood = $2,
            notify_extreme_temperature = $3,
            notify_fog = $4,
            notify_good_weather = $5,
            updated_at = NOW()
        WHERE id = $6
    `,
		settings.Storm,
		settings.Flood,
		settings.ExtremeTemperature,
		settings.Fog,
		settings.GoodWeather,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification settings: %w", err)
	}
	if result.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}
