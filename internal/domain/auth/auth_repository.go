package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TienDattttt/Weather-Project/internal/types"
)

const tokenTypePasswordReset = "password_reset"

// UserToken is a stored one-time token (password reset).
type UserToken struct {
	TokenHash string
	UserID    uuid.UUID
	Type      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	CreateUser(ctx context.Context, username, firstName, lastName, email, hashedPassword string) (*types.UserProfile, error)
	GetUserByUsername(ctx context.Context, username string) (*types.UserProfile, error)
	GetUserByEmail(ctx context.Context, email string) (*types.UserProfile, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error

	CreateUserToken(ctx context.Context, userID uuid.UUID, tokenHash, tokenType string, expiresAt time.Time) error
	GetUserTokenByHash(ctx context.Context, tokenHash, tokenType string) (*UserToken, error)
	DeleteUserToken(ctx context.Context, tokenHash string) error
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

const userColumns = `id, username, first_name, last_name, email, password_hash, created_at, updated_at`

func (r *RepositoryImpl) CreateUser(ctx context.Context, username, firstName, lastName, email, hashedPassword string) (*types.UserProfile, error) {
	query := `
        INSERT INTO users (username, first_name, last_name, email, password_hash)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + userColumns + `
    `

	user, err := r.scanUser(r.pgpool.QueryRow(ctx, query, username, firstName, lastName, email, hashedPassword))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: username or email already registered", types.ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (r *RepositoryImpl) GetUserByUsername(ctx context.Context, username string) (*types.UserProfile, error) {
	return r.getUserWhere(ctx, "username = $1", username)
}

func (r *RepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*types.UserProfile, error) {
	return r.getUserWhere(ctx, "email = $1", email)
}

func (r *RepositoryImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	return r.getUserWhere(ctx, "id = $1", userID)
}

func (r *RepositoryImpl) getUserWhere(ctx context.Context, where string, arg any) (*types.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	user, err := r.scanUser(r.pgpool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *RepositoryImpl) scanUser(row pgx.Row) (*types.UserProfile, error) {
	var u types.UserProfile
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.HashedPassword,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *RepositoryImpl) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	result, err := r.pgpool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		hashedPassword, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) CreateUserToken(ctx context.Context, userID uuid.UUID, tokenHash, tokenType string, expiresAt time.Time) error {
	_, err := r.pgpool.Exec(ctx, `
        INSERT INTO user_tokens (token_hash, user_id, token_type, expires_at)
        VALUES ($1, $2, $3, $4)
    `, tokenHash, userID, tokenType, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store user token: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetUserTokenByHash(ctx context.Context, tokenHash, tokenType string) (*UserToken, error) {
	query := `
        SELECT token_hash, user_id, token_type, expires_at, created_at
        FROM user_tokens
        WHERE token_hash = $1 AND token_type = $2 AND expires_at > NOW()
    `

	var t UserToken
	err := r.pgpool.QueryRow(ctx, query, tokenHash, tokenType).Scan(
		&t.TokenHash,
		&t.UserID,
		&t.Type,
		&t.ExpiresAt,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user token: %w", err)
	}
	return &t, nil
}

func (r *RepositoryImpl) DeleteUserToken(ctx context.Context, tokenHash string) error {
	if _, err := r.pgpool.Exec(ctx, `DELETE FROM user_tokens WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("failed to delete user token: %w", err)
	}
	return nil
}
