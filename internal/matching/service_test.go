package matching

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/internal/assignments"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/preserveapp/preserve-backend/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	rows []assignments.NearbyRow
	err  error
}

func (s *stubLister) ListNearby(ctx context.Context, lat, lon, radiusMiles float64) ([]assignments.NearbyRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func openAssignmentAt(lat, lon float64, start time.Time) models.Assignment {
	return models.Assignment{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		LocationID:  uuid.New(),
		Description: "scan",
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		Status:      enums.AssignmentStatusOpen,
		Location: &models.Location{
			ID:        uuid.New(),
			Latitude:  lat,
			Longitude: lon,
		},
	}
}

func newMatchingService(t *testing.T, lister nearbyLister) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: lister})
	require.NoError(t, err)
	return svc
}

func TestFindNearbySortsByDistanceThenStart(t *testing.T) {
	origin := struct{ lat, lon float64 }{40.7484, -73.9857}
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	near := openAssignmentAt(40.7490, -73.9860, start.Add(2*time.Hour))
	far := openAssignmentAt(40.7800, -73.9500, start)
	sameSpotEarlier := openAssignmentAt(40.7490, -73.9860, start)

	lister := &stubLister{rows: []assignments.NearbyRow{
		{Assignment: far},
		{Assignment: near},
		{Assignment: sameSpotEarlier},
	}}
	svc := newMatchingService(t, lister)

	matches, err := svc.FindNearby(context.Background(), Query{
		Lat:         origin.lat,
		Lon:         origin.lon,
		RadiusMiles: 10,
	})
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, sameSpotEarlier.ID, matches[0].Assignment.ID)
	assert.Equal(t, near.ID, matches[1].Assignment.ID)
	assert.Equal(t, far.ID, matches[2].Assignment.ID)
	assert.LessOrEqual(t, matches[0].DistanceMiles, matches[2].DistanceMiles)
}

func TestFindNearbyReverifiesDistanceAgainstFreshFix(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	// Roughly 5 miles north of the fix.
	outside := openAssignmentAt(40.8210, -73.9857, start)
	inside := openAssignmentAt(40.7490, -73.9857, start)

	lister := &stubLister{rows: []assignments.NearbyRow{
		{Assignment: outside, DistanceMiles: 1},
		{Assignment: inside, DistanceMiles: 1},
	}}
	svc := newMatchingService(t, lister)

	matches, err := svc.FindNearby(context.Background(), Query{
		Lat:         40.7484,
		Lon:         -73.9857,
		RadiusMiles: 2,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, inside.ID, matches[0].Assignment.ID)
}

func TestFindNearbyRadiusZeroKeepsOnlyExactMatches(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	exact := openAssignmentAt(40.7484, -73.9857, start)
	nearby := openAssignmentAt(40.7485, -73.9857, start)

	lister := &stubLister{rows: []assignments.NearbyRow{
		{Assignment: exact},
		{Assignment: nearby},
	}}
	svc := newMatchingService(t, lister)

	matches, err := svc.FindNearby(context.Background(), Query{
		Lat:         40.7484,
		Lon:         -73.9857,
		RadiusMiles: 0,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, exact.ID, matches[0].Assignment.ID)
	assert.Zero(t, matches[0].DistanceMiles)
}

// Both instants fall on Sunday in UTC-5 even though one is already Monday in
// UTC; the filter must evaluate the weekday in the caller's zone.
func TestFindNearbyDayFilterUsesCallerZone(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)

	sundayLateUTC := openAssignmentAt(40.7484, -73.9857, time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC))
	mondayEarlyUTC := openAssignmentAt(40.7484, -73.9857, time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC))
	saturdayUTC := openAssignmentAt(40.7484, -73.9857, time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC))

	lister := &stubLister{rows: []assignments.NearbyRow{
		{Assignment: sundayLateUTC},
		{Assignment: mondayEarlyUTC},
		{Assignment: saturdayUTC},
	}}
	svc := newMatchingService(t, lister)

	matches, err := svc.FindNearby(context.Background(), Query{
		Lat:         40.7484,
		Lon:         -73.9857,
		RadiusMiles: 1,
		Days:        map[time.Weekday]bool{time.Sunday: true},
		Location:    zone,
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	ids := []uuid.UUID{matches[0].Assignment.ID, matches[1].Assignment.ID}
	assert.Contains(t, ids, sundayLateUTC.ID)
	assert.Contains(t, ids, mondayEarlyUTC.ID)
}

func TestFindNearbyEmptyResultIsNotAnError(t *testing.T) {
	svc := newMatchingService(t, &stubLister{})

	matches, err := svc.FindNearby(context.Background(), Query{Lat: 0, Lon: 0, RadiusMiles: 5})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindNearbyRejectsBadInput(t *testing.T) {
	svc := newMatchingService(t, &stubLister{})

	_, err := svc.FindNearby(context.Background(), Query{Lat: 0, Lon: 0, RadiusMiles: -1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.FindNearby(context.Background(), Query{Lat: 91, Lon: 0, RadiusMiles: 1})
	require.Error(t, err)

	_, err = svc.FindNearby(context.Background(), Query{Lat: 0, Lon: -181, RadiusMiles: 1})
	require.Error(t, err)
}

func TestFindNearbyDistanceMatchesHaversine(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	row := openAssignmentAt(40.7580, -73.9855, start)

	svc := newMatchingService(t, &stubLister{rows: []assignments.NearbyRow{{Assignment: row}}})

	matches, err := svc.FindNearby(context.Background(), Query{
		Lat:         40.7484,
		Lon:         -73.9857,
		RadiusMiles: 5,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	expected := geo.DistanceMiles(40.7484, -73.9857, 40.7580, -73.9855)
	assert.InDelta(t, expected, matches[0].DistanceMiles, 1e-9)
}
