package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/TienDattttt/Weather-Project/internal/notify"
	"github.com/TienDattttt/Weather-Project/internal/types"
)

const minPasswordLength = 8

// RegisterParams are the fields accepted at registration.
type RegisterParams struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginParams identify a user by username or email, plus password.
type LoginParams struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResult is the issued token plus the authenticated profile.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *types.UserProfile
}

type Service struct {
	logger        *slog.Logger
	repo          Repository
	tokens        TokenManager
	sender        notify.Sender
	resetTokenTTL time.Duration
	resetBaseURL  string
}

func NewService(repo Repository, tokens TokenManager, sender notify.Sender, resetBaseURL string, resetTokenTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		logger:        logger,
		repo:          repo,
		tokens:        tokens,
		sender:        sender,
		resetTokenTTL: resetTokenTTL,
		resetBaseURL:  resetBaseURL,
	}
}

// Register creates an account. Username and email must be unused; the
// password must be at least eight characters.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()

	l := s.logger.With(slog.String("method", "Register"))

	if params.Username == "" || params.Email == "" {
		return nil, fmt.Errorf("%w: username and email are required", types.ErrBadRequest)
	}
	if len(params.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", types.ErrBadRequest, minPasswordLength)
	}

	hashed, err := HashPassword(params.Password)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, params.Username, params.FirstName, params.LastName, params.Email, hashed)
	if err != nil {
		l.WarnContext(ctx, "Registration failed", slog.Any("error", err), slog.String("username", params.Username))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Registration failed")
		return nil, err
	}

	l.InfoContext(ctx, "User registered", slog.String("user_id", user.ID.String()))
	span.SetStatus(codes.Ok, "Registered")
	return user, nil
}

// Login verifies credentials and issues a bearer token. The identifier may
// be a username or an email address.
func (s *Service) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"))

	user, err := s.repo.GetUserByUsername(ctx, params.Login)
	if errors.Is(err, types.ErrNotFound) {
		user, err = s.repo.GetUserByEmail(ctx, params.Login)
	}
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", types.ErrUnauthenticated)
		}
		span.RecordError(err)
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(params.Password)) != nil {
		l.WarnContext(ctx, "Invalid password", slog.String("login", params.Login))
		span.SetStatus(codes.Error, "Invalid credentials")
		return nil, fmt.Errorf("%w: invalid username or password", types.ErrUnauthenticated)
	}

	token, expiresAt, err := s.tokens.Generate(user.ID.String(), user.Email, user.Username)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	l.InfoContext(ctx, "User logged in", slog.String("user_id", user.ID.String()))
	span.SetStatus(codes.Ok, "Logged in")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// RequestPasswordReset stores a hashed one-time token and mails the reset
// link. The mail is security-critical: a delivery failure fails the request.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "RequestPasswordReset")
	defer span.End()

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return err
	}

	token := uuid.NewString()
	if err := s.repo.CreateUserToken(ctx, user.ID, hashToken(token), tokenTypePasswordReset, time.Now().Add(s.resetTokenTTL)); err != nil {
		span.RecordError(err)
		return err
	}

	resetLink := fmt.Sprintf("%s/api/auth/reset-password/%s/", s.resetBaseURL, token)
	if err := s.sender.SendCritical(ctx, user.Email,
		"Reset Your Password",
		fmt.Sprintf("Click this link to reset your password: %s", resetLink),
	); err != nil {
		s.logger.ErrorContext(ctx, "Password reset email failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Email delivery failed")
		return err
	}

	span.SetStatus(codes.Ok, "Reset requested")
	return nil
}

// ResetPassword consumes a one-time token and sets the new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "ResetPassword")
	defer span.End()

	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", types.ErrBadRequest, minPasswordLength)
	}

	stored, err := s.repo.GetUserTokenByHash(ctx, hashToken(token), tokenTypePasswordReset)
	if err != nil {
		span.RecordError(err)
		return err
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := s.repo.UpdatePassword(ctx, stored.UserID, hashed); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.repo.DeleteUserToken(ctx, stored.TokenHash); err != nil {
		span.RecordError(err)
		return err
	}

	s.logger.InfoContext(ctx, "Password reset", slog.String("user_id", stored.UserID.String()))
	span.SetStatus(codes.Ok, "Password reset")
	return nil
}

// HashPassword bcrypt-hashes a plaintext password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
