package user

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TienDattttt/Weather-Project/internal/domain/weather"
	"github.com/TienDattttt/Weather-Project/internal/types"
)

// MockUserRepo is a mock implementation of Repository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error {
	args := m.Called(ctx, userID, params)
	return args.Error(0)
}

func (m *MockUserRepo) AddFavorite(ctx context.Context, userID, locationID uuid.UUID) error {
	args := m.Called(ctx, userID, locationID)
	return args.Error(0)
}

func (m *MockUserRepo) RemoveFavorite(ctx context.Context, userID, locationID uuid.UUID) error {
	args := m.Called(ctx, userID, locationID)
	return args.Error(0)
}

func (m *MockUserRepo) ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.Location, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Location), args.Error(1)
}

func (m *MockUserRepo) GetNotificationSettings(ctx context.Context, userID uuid.UUID) (types.NotificationSettings, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(types.NotificationSettings), args.Error(1)
}

func (m *MockUserRepo) UpdateNotificationSettings(ctx context.Context, userID uuid.UUID, settings types.NotificationSettings) error {
	args := m.Called(ctx, userID, settings)
	return args.Error(0)
}

// MockLocationResolver is a mock implementation of location.Service
type MockLocationResolver struct {
	mock.Mock
}

func (m *MockLocationResolver) Resolve(ctx context.Context, input types.LocationInput) (*types.Location, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Location), args.Error(1)
}

func (m *MockLocationResolver) GetByID(ctx context.Context, id uuid.UUID) (*types.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Location), args.Error(1)
}

// MockWeatherService is a mock implementation of weather.Service
type MockWeatherService struct {
	mock.Mock
}

func (m *MockWeatherService) CurrentByLocation(ctx context.Context, input types.LocationInput) (*weather.CurrentResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*weather.CurrentResult), args.Error(1)
}

func (m *MockWeatherService) AlertsByLocation(ctx context.Context, input types.LocationInput) ([]types.Alert, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Alert), args.Error(1)
}

func (m *MockWeatherService) ForecastByLocation(ctx context.Context, locationID uuid.UUID, kind types.ForecastKind) ([]types.Forecast, error) {
	args := m.Called(ctx, locationID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Forecast), args.Error(1)
}

func (m *MockWeatherService) ForecastAllKinds(ctx context.Context, locationID uuid.UUID) ([]types.Forecast, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Forecast), args.Error(1)
}

func (m *MockWeatherService) Evaluate(ctx context.Context, input types.LocationInput) (*types.Location, []types.Alert, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*types.Location), args.Get(1).([]types.Alert), args.Error(2)
}

func (m *MockWeatherService) EvaluateStrict(ctx context.Context, input types.LocationInput) (*types.Location, []types.Alert, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*types.Location), args.Get(1).([]types.Alert), args.Error(2)
}

// recordingSender captures best-effort mail.
type recordingSender struct {
	bestEffort []string
}

func (s *recordingSender) SendCritical(_ context.Context, to, subject, _ string) error {
	return errors.New("unexpected critical send to " + to + ": " + subject)
}

func (s *recordingSender) SendBestEffort(_ context.Context, to, subject, _ string) {
	s.bestEffort = append(s.bestEffort, to+": "+subject)
}

type userFixture struct {
	repo     *MockUserRepo
	resolver *MockLocationResolver
	weather  *MockWeatherService
	sender   *recordingSender
	svc      *ServiceImpl
	userID   uuid.UUID
	profile  *types.UserProfile
	loc      *types.Location
	input    types.LocationInput
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	lat, lon := 21.0285, 105.8542
	userID := uuid.New()
	f := &userFixture{
		repo:     new(MockUserRepo),
		resolver: new(MockLocationResolver),
		weather:  new(MockWeatherService),
		sender:   &recordingSender{},
		userID:   userID,
		profile: &types.UserProfile{
			ID:       userID,
			Username: "jane",
			Email:    "jane@example.com",
		},
		loc: &types.Location{
			ID:       uuid.New(),
			Name:     "Hanoi",
			Latitude: lat, Longitude: lon,
		},
		input: types.LocationInput{Latitude: &lat, Longitude: &lon},
	}
	f.svc = NewService(f.repo, f.resolver, f.weather, f.sender, slog.Default())
	return f
}

func TestCheckNotificationsFiltersBySettings(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	alerts := []types.Alert{
		{Kind: types.AlertStorm, Severity: types.SeverityHigh},
		{Kind: types.AlertFlood, Severity: types.SeverityHigh},
		{Kind: types.AlertGoodWeather, Severity: types.SeverityLow},
	}

	f.repo.On("GetProfile", mock.Anything, f.userID).Return(f.profile, nil)
	f.repo.On("GetNotificationSettings", mock.Anything, f.userID).Return(types.NotificationSettings{
		Storm: true,
		Flood: false,
	}, nil)
	f.weather.On("EvaluateStrict", mock.Anything, f.input).Return(f.loc, alerts, nil)

	loc, relevant, err := f.svc.CheckNotifications(ctx, f.userID, f.input)
	require.NoError(t, err)
	assert.Equal(t, f.loc.ID, loc.ID)

	require.Len(t, relevant, 1)
	assert.Equal(t, types.AlertStorm, relevant[0].Kind)
	require.Len(t, f.sender.bestEffort, 1)
	assert.Contains(t, f.sender.bestEffort[0], "jane@example.com")
	assert.Contains(t, f.sender.bestEffort[0], "storm")
}

func TestCheckNotificationsAllDisabledSendsNothing(t *testing.T) {
	f := newUserFixture(t)

	f.repo.On("GetProfile", mock.Anything, f.userID).Return(f.profile, nil)
	f.repo.On("GetNotificationSettings", mock.Anything, f.userID).Return(types.NotificationSettings{}, nil)
	f.weather.On("EvaluateStrict", mock.Anything, f.input).Return(f.loc, []types.Alert{
		{Kind: types.AlertStorm},
		{Kind: types.AlertGoodWeather},
	}, nil)

	_, relevant, err := f.svc.CheckNotifications(context.Background(), f.userID, f.input)
	require.NoError(t, err)
	assert.Empty(t, relevant)
	assert.Empty(t, f.sender.bestEffort)
}

func TestCheckNotificationsEvaluateFailurePropagates(t *testing.T) {
	f := newUserFixture(t)

	f.repo.On("GetProfile", mock.Anything, f.userID).Return(f.profile, nil)
	f.repo.On("GetNotificationSettings", mock.Anything, f.userID).Return(types.NotificationSettings{Storm: true}, nil)
	f.weather.On("EvaluateStrict", mock.Anything, f.input).Return(nil, nil, types.ErrUpstreamUnavailable)

	_, _, err := f.svc.CheckNotifications(context.Background(), f.userID, f.input)
	assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)
	assert.Empty(t, f.sender.bestEffort)
}

func TestAddFavoriteResolvesFirst(t *testing.T) {
	f := newUserFixture(t)

	f.resolver.On("Resolve", mock.Anything, f.input).Return(f.loc, nil)
	f.repo.On("AddFavorite", mock.Anything, f.userID, f.loc.ID).Return(nil)

	loc, err := f.svc.AddFavorite(context.Background(), f.userID, f.input)
	require.NoError(t, err)
	assert.Equal(t, f.loc.ID, loc.ID)
	f.repo.AssertExpectations(t)
}

func TestAddFavoriteResolveFailure(t *testing.T) {
	f := newUserFixture(t)

	f.resolver.On("Resolve", mock.Anything, f.input).Return(nil, types.ErrNotFound)

	_, err := f.svc.AddFavorite(context.Background(), f.userID, f.input)
	assert.ErrorIs(t, err, types.ErrNotFound)
	f.repo.AssertNotCalled(t, "AddFavorite", mock.Anything, mock.Anything, mock.Anything)
}

func TestListFavoritesEmptyIsNotNil(t *testing.T) {
	f := newUserFixture(t)

	f.repo.On("ListFavorites", mock.Anything, f.userID).Return(nil, nil)

	locations, err := f.svc.ListFavorites(context.Background(), f.userID)
	require.NoError(t, err)
	assert.NotNil(t, locations)
	assert.Empty(t, locations)
}
