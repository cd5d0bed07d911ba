package locations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/preserveapp/preserve-backend/pkg/mapbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubRepo struct {
	created []*models.Location
	byID    map[uuid.UUID]*models.Location
	err     error
}

func (s *stubRepo) Create(ctx context.Context, location *models.Location) error {
	if s.err != nil {
		return s.err
	}
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	s.created = append(s.created, location)
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	location, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return location, nil
}

type stubGeocoder struct {
	coords      *mapbox.Coordinates
	geocodeErr  error
	route       *mapbox.DrivingRoute
	routeErr    error
	lastAddress string
}

func (s *stubGeocoder) Geocode(ctx context.Context, address string) (*mapbox.Coordinates, error) {
	s.lastAddress = address
	if s.geocodeErr != nil {
		return nil, s.geocodeErr
	}
	return s.coords, nil
}

func (s *stubGeocoder) DrivingDirections(ctx context.Context, origin, destination mapbox.Coordinates) (*mapbox.DrivingRoute, error) {
	if s.routeErr != nil {
		return nil, s.routeErr
	}
	return s.route, nil
}

func validRequest() CreateLocationRequest {
	return CreateLocationRequest{
		Address: "350 5th Ave",
		City:    "New York",
		State:   "NY",
		Zipcode: "10118",
	}
}

func TestCreateGeocodesAndPersists(t *testing.T) {
	repo := &stubRepo{}
	geocoder := &stubGeocoder{coords: &mapbox.Coordinates{Latitude: 40.7484, Longitude: -73.9857}}
	svc, err := NewService(ServiceParams{Repo: repo, Geocoder: geocoder})
	require.NoError(t, err)

	resp, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.InDelta(t, 40.7484, resp.Latitude, 1e-9)
	assert.InDelta(t, -73.9857, resp.Longitude, 1e-9)
	assert.Equal(t, "350 5th Ave, New York, NY 10118", geocoder.lastAddress)
	require.Len(t, repo.created, 1)
}

func TestCreateAbortsWhenGeocodeFails(t *testing.T) {
	repo := &stubRepo{}
	geocoder := &stubGeocoder{geocodeErr: pkgerrors.New(pkgerrors.CodeValidation, "address could not be geocoded")}
	svc, err := NewService(ServiceParams{Repo: repo, Geocoder: geocoder})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validRequest())
	require.Error(t, err)
	assert.Empty(t, repo.created, "no row may be written when geocoding fails")
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: &stubRepo{}, Geocoder: &stubGeocoder{}})
	require.NoError(t, err)

	req := validRequest()
	req.City = "  "
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetMissingLocation(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: &stubRepo{byID: map[uuid.UUID]*models.Location{}}, Geocoder: &stubGeocoder{}})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDrivingRoutePassthrough(t *testing.T) {
	geocoder := &stubGeocoder{route: &mapbox.DrivingRoute{DistanceMiles: 2.5, DurationMinutes: 12}}
	svc, err := NewService(ServiceParams{Repo: &stubRepo{}, Geocoder: geocoder})
	require.NoError(t, err)

	route, err := svc.DrivingRoute(context.Background(), mapbox.Coordinates{}, mapbox.Coordinates{})
	require.NoError(t, err)
	assert.Equal(t, 2.5, route.DistanceMiles)
	assert.Equal(t, 12.0, route.DurationMinutes)
}
