// Package authtest provides in-memory doubles for the auth service tests.
package authtest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/TienDattttt/Weather-Project/internal/domain/auth"
	"github.com/TienDattttt/Weather-Project/internal/types"
)

// MockTokenManager implements TokenManager for tests.
type MockTokenManager struct {
	GenerateFunc func(userID, email, username string) (string, time.Time, error)
	ValidateFunc func(token string) (*auth.Claims, error)
}

func (m *MockTokenManager) Generate(userID, email, username string) (string, time.Time, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(userID, email, username)
	}
	return "access-token", time.Now().Add(time.Hour), nil
}

func (m *MockTokenManager) Validate(token string) (*auth.Claims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	return &auth.Claims{UserID: uuid.Nil.String()}, nil
}

// MockSender captures outbound mail for assertions.
type MockSender struct {
	CriticalSent   []string
	BestEffortSent []string
	FailCritical   bool
}

func (m *MockSender) SendCritical(_ context.Context, to, subject, body string) error {
	if m.FailCritical {
		return errors.New("smtp unavailable")
	}
	m.CriticalSent = append(m.CriticalSent, fmt.Sprintf("%s: %s\n%s", to, subject, body))
	return nil
}

func (m *MockSender) SendBestEffort(_ context.Context, to, subject, _ string) {
	m.BestEffortSent = append(m.BestEffortSent, fmt.Sprintf("%s: %s", to, subject))
}

// MockAuthRepo is an in-memory Repository keyed by username.
type MockAuthRepo struct {
	Users  map[string]*types.UserProfile
	Tokens map[string]*auth.UserToken
}

func NewMockAuthRepo() *MockAuthRepo {
	return &MockAuthRepo{
		Users:  make(map[string]*types.UserProfile),
		Tokens: make(map[string]*auth.UserToken),
	}
}

func (m *MockAuthRepo) CreateUser(_ context.Context, username, firstName, lastName, email, hashedPassword string) (*types.UserProfile, error) {
	for _, u := range m.Users {
		if u.Username == username || u.Email == email {
			return nil, fmt.Errorf("%w: username or email already registered", types.ErrConflict)
		}
	}
	user := &types.UserProfile{
		ID:             uuid.New(),
		Username:       username,
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	m.Users[username] = user
	return cloneUser(user), nil
}

func (m *MockAuthRepo) GetUserByUsername(_ context.Context, username string) (*types.UserProfile, error) {
	user, ok := m.Users[username]
	if !ok {
		return nil, types.ErrNotFound
	}
	return cloneUser(user), nil
}

func (m *MockAuthRepo) GetUserByEmail(_ context.Context, email string) (*types.UserProfile, error) {
	for _, user := range m.Users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, types.ErrNotFound
}

func (m *MockAuthRepo) GetUserByID(_ context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	for _, user := range m.Users {
		if user.ID == userID {
			return cloneUser(user), nil
		}
	}
	return nil, types.ErrNotFound
}

func (m *MockAuthRepo) UpdatePassword(_ context.Context, userID uuid.UUID, hashedPassword string) error {
	for _, user := range m.Users {
		if user.ID == userID {
			user.HashedPassword = hashedPassword
			return nil
		}
	}
	return types.ErrNotFound
}

func (m *MockAuthRepo) CreateUserToken(_ context.Context, userID uuid.UUID, tokenHash, tokenType string, expiresAt time.Time) error {
	m.Tokens[tokenHash] = &auth.UserToken{
		TokenHash: tokenHash,
		UserID:    userID,
		Type:      tokenType,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (m *MockAuthRepo) GetUserTokenByHash(_ context.Context, tokenHash, tokenType string) (*auth.UserToken, error) {
	token, ok := m.Tokens[tokenHash]
	if !ok || token.Type != tokenType || token.ExpiresAt.Before(time.Now()) {
		return nil, types.ErrNotFound
	}
	return token, nil
}

func (m *MockAuthRepo) DeleteUserToken(_ context.Context, tokenHash string) error {
	delete(m.Tokens, tokenHash)
	return nil
}

// NewTestAuthService bundles the mocks with a configured Service.
func NewTestAuthService() (*auth.Service, *MockAuthRepo, *MockTokenManager, *MockSender) {
	repo := NewMockAuthRepo()
	tokens := &MockTokenManager{}
	sender := &MockSender{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	svc := auth.NewService(repo, tokens, sender, "http://localhost:8000", time.Hour, logger)
	return svc, repo, tokens, sender
}

func cloneUser(u *types.UserProfile) *types.UserProfile {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// MustHash hashes a password for tests.
func MustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return hash
}
