package locations

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/preserveapp/preserve-backend/pkg/mapbox"
	"gorm.io/gorm"
)

// Geocoder resolves addresses and driving routes. Implemented by the Mapbox
// client; stubbed in tests.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*mapbox.Coordinates, error)
	DrivingDirections(ctx context.Context, origin, destination mapbox.Coordinates) (*mapbox.DrivingRoute, error)
}

// Service creates geocoded locations and proxies driving routes.
type Service struct {
	repo     Repository
	geocoder Geocoder
}

// ServiceParams groups dependencies for the locations service.
type ServiceParams struct {
	Repo     Repository
	Geocoder Geocoder
}

// NewService builds a locations service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Geocoder == nil {
		return nil, errors.New("geocoder is required")
	}
	return &Service{repo: params.Repo, geocoder: params.Geocoder}, nil
}

// Create geocodes the address and persists the row. A failed geocode aborts
// the whole operation; no row is written.
func (s *Service) Create(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error) {
	if strings.TrimSpace(req.Address) == "" || strings.TrimSpace(req.City) == "" ||
		strings.TrimSpace(req.State) == "" || strings.TrimSpace(req.Zipcode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address, city, state and zipcode are required")
	}

	coords, err := s.geocoder.Geocode(ctx, req.FullAddress())
	if err != nil {
		return nil, err
	}

	location := &models.Location{
		Address:            strings.TrimSpace(req.Address),
		OptionalAddressExt: req.OptionalAddressExt,
		City:               strings.TrimSpace(req.City),
		State:              strings.TrimSpace(req.State),
		Zipcode:            strings.TrimSpace(req.Zipcode),
		Latitude:           coords.Latitude,
		Longitude:          coords.Longitude,
	}
	if err := s.repo.Create(ctx, location); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
	}

	resp := FromModel(location)
	return &resp, nil
}

// Get loads a location row by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	resp := FromModel(location)
	return &resp, nil
}

// DrivingRoute returns road distance and travel time between two fixes.
func (s *Service) DrivingRoute(ctx context.Context, origin, destination mapbox.Coordinates) (*RouteResponse, error) {
	route, err := s.geocoder.DrivingDirections(ctx, origin, destination)
	if err != nil {
		return nil, err
	}
	return &RouteResponse{
		DistanceMiles:   route.DistanceMiles,
		DurationMinutes: route.DurationMinutes,
	}, nil
}
