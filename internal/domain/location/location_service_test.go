package location

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TienDattttt/Weather-Project/internal/provider/openweather"
	"github.com/TienDattttt/Weather-Project/internal/types"
)

// MockLocationRepo is a mock implementation of Repository
type MockLocationRepo struct {
	mock.Mock
}

func (m *MockLocationRepo) FindByCoordinates(ctx context.Context, lat, lon float64) (*types.Location, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Location), args.Error(1)
}

func (m *MockLocationRepo) CreateOrFetch(ctx context.Context, loc types.Location) (*types.Location, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Location), args.Error(1)
}

func (m *MockLocationRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Location), args.Error(1)
}

// MockGeocoder is a mock implementation of Geocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, name string) (*openweather.GeocodeResult, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openweather.GeocodeResult), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func TestResolveRejectsEmptyInput(t *testing.T) {
	svc := NewService(new(MockLocationRepo), new(MockGeocoder), slog.Default())

	_, err := svc.Resolve(context.Background(), types.LocationInput{})
	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func TestResolveCoordinatesReturnsExisting(t *testing.T) {
	repo := new(MockLocationRepo)
	svc := NewService(repo, new(MockGeocoder), slog.Default())

	existing := &types.Location{ID: uuid.New(), Name: "Hanoi", Latitude: 21.0285, Longitude: 105.8542}
	repo.On("FindByCoordinates", mock.Anything, 21.0285, 105.8542).Return(existing, nil)

	loc, err := svc.Resolve(context.Background(), types.LocationInput{
		Latitude:  ptr(21.0285),
		Longitude: ptr(105.8542),
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, loc.ID)
	repo.AssertNotCalled(t, "CreateOrFetch", mock.Anything, mock.Anything)
}

func TestResolveCoordinatesCreatesPlaceholder(t *testing.T) {
	repo := new(MockLocationRepo)
	svc := NewService(repo, new(MockGeocoder), slog.Default())

	created := &types.Location{ID: uuid.New(), Name: "Custom Location", Latitude: 10.5, Longitude: 20.5}
	repo.On("FindByCoordinates", mock.Anything, 10.5, 20.5).Return(nil, types.ErrNotFound)
	repo.On("CreateOrFetch", mock.Anything, types.Location{
		Name:      "Custom Location",
		Latitude:  10.5,
		Longitude: 20.5,
	}).Return(created, nil)

	loc, err := svc.Resolve(context.Background(), types.LocationInput{
		Latitude:  ptr(10.5),
		Longitude: ptr(20.5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Custom Location", loc.Name)
	repo.AssertExpectations(t)
}

func TestResolveSameCoordinatesYieldSameLocation(t *testing.T) {
	repo := new(MockLocationRepo)
	svc := NewService(repo, new(MockGeocoder), slog.Default())

	created := &types.Location{ID: uuid.New(), Name: "Custom Location", Latitude: 10.5, Longitude: 20.5}
	repo.On("FindByCoordinates", mock.Anything, 10.5, 20.5).Return(nil, types.ErrNotFound).Once()
	repo.On("CreateOrFetch", mock.Anything, mock.Anything).Return(created, nil).Once()
	repo.On("FindByCoordinates", mock.Anything, 10.5, 20.5).Return(created, nil).Once()

	input := types.LocationInput{Latitude: ptr(10.5), Longitude: ptr(20.5)}

	first, err := svc.Resolve(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.Resolve(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestResolveNameGeocodes(t *testing.T) {
	repo := new(MockLocationRepo)
	geo := new(MockGeocoder)
	svc := NewService(repo, geo, slog.Default())

	created := &types.Location{ID: uuid.New(), Name: "Hanoi", Latitude: 21.0285, Longitude: 105.8542, CountryCode: "VN"}
	geo.On("Geocode", mock.Anything, "Hanoi").Return(&openweather.GeocodeResult{
		Name:        "Hanoi",
		Latitude:    21.0285,
		Longitude:   105.8542,
		CountryCode: "VN",
	}, nil)
	repo.On("FindByCoordinates", mock.Anything, 21.0285, 105.8542).Return(nil, types.ErrNotFound)
	repo.On("CreateOrFetch", mock.Anything, types.Location{
		Name:        "Hanoi",
		Latitude:    21.0285,
		Longitude:   105.8542,
		CountryCode: "VN",
	}).Return(created, nil)

	loc, err := svc.Resolve(context.Background(), types.LocationInput{Name: ptr("Hanoi")})
	require.NoError(t, err)
	assert.Equal(t, "VN", loc.CountryCode)
}

func TestResolveCoordinatesWinOverName(t *testing.T) {
	repo := new(MockLocationRepo)
	geo := new(MockGeocoder)
	svc := NewService(repo, geo, slog.Default())

	existing := &types.Location{ID: uuid.New(), Name: "Hanoi", Latitude: 21.0285, Longitude: 105.8542}
	repo.On("FindByCoordinates", mock.Anything, 21.0285, 105.8542).Return(existing, nil)

	_, err := svc.Resolve(context.Background(), types.LocationInput{
		Name:      ptr("Somewhere Else"),
		Latitude:  ptr(21.0285),
		Longitude: ptr(105.8542),
	})
	require.NoError(t, err)
	geo.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestResolveGeocodeMissIsNotFound(t *testing.T) {
	geo := new(MockGeocoder)
	svc := NewService(new(MockLocationRepo), geo, slog.Default())

	geo.On("Geocode", mock.Anything, "Atlantis").Return(nil, nil)

	_, err := svc.Resolve(context.Background(), types.LocationInput{Name: ptr("Atlantis")})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestResolveGeocodeFailureIsUnavailable(t *testing.T) {
	geo := new(MockGeocoder)
	svc := NewService(new(MockLocationRepo), geo, slog.Default())

	geo.On("Geocode", mock.Anything, "Hanoi").Return(nil, errors.New("timeout"))

	_, err := svc.Resolve(context.Background(), types.LocationInput{Name: ptr("Hanoi")})
	assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)
}
