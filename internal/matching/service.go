package matching

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/preserveapp/preserve-backend/internal/assignments"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/preserveapp/preserve-backend/pkg/geo"
)

// Query describes a nearby search from a preserver's device fix. Days, when
// non-empty, keeps only assignments starting on those weekdays evaluated in
// the caller's zone.
type Query struct {
	Lat         float64
	Lon         float64
	RadiusMiles float64
	Days        map[time.Weekday]bool
	Location    *time.Location
}

// Match is an assignment decorated with its distance from the query point.
type Match struct {
	Assignment    assignments.Response
	DistanceMiles float64
}

type nearbyLister interface {
	ListNearby(ctx context.Context, lat, lon, radiusMiles float64) ([]assignments.NearbyRow, error)
}

// Service ranks claimable assignments around a device fix.
type Service struct {
	repo nearbyLister
}

// ServiceParams groups dependencies for the matching service.
type ServiceParams struct {
	Repo nearbyLister
}

// NewService builds a matching service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// FindNearby lists open assignments within the radius, closest first. The
// database pre-filters; the distance is re-verified here against the fresh
// fix so a stale row can never slip past the radius. An empty result is not
// an error.
func (s *Service) FindNearby(ctx context.Context, query Query) ([]Match, error) {
	if query.RadiusMiles < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "radius must not be negative")
	}
	if query.Lat < -90 || query.Lat > 90 || query.Lon < -180 || query.Lon > 180 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coordinates")
	}

	rows, err := s.repo.ListNearby(ctx, query.Lat, query.Lon, query.RadiusMiles)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list nearby assignments")
	}

	zone := query.Location
	if zone == nil {
		zone = time.UTC
	}

	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		if row.Assignment.Location == nil {
			continue
		}
		distance := geo.DistanceMiles(
			query.Lat, query.Lon,
			row.Assignment.Location.Latitude, row.Assignment.Location.Longitude,
		)
		// Radius zero keeps only exact-coordinate assignments.
		if distance > query.RadiusMiles {
			continue
		}
		if len(query.Days) > 0 {
			weekday := row.Assignment.StartTime.In(zone).Weekday()
			if !query.Days[weekday] {
				continue
			}
		}
		matches = append(matches, Match{
			Assignment:    assignments.FromModel(&row.Assignment),
			DistanceMiles: distance,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DistanceMiles != matches[j].DistanceMiles {
			return matches[i].DistanceMiles < matches[j].DistanceMiles
		}
		return matches[i].Assignment.StartTime.Before(matches[j].Assignment.StartTime)
	})

	return matches, nil
}
