package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ---- ExportTrip ------------------------------------------------------------

func TestTripService_ExportTrip(t *testing.T) {
	svc := newService(newMemRepo(tripFixture("t1")))

	rows, err := svc.ExportTrip(context.Background(), "t1")

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Fushimi Inari", rows[0].ActivityName)
	assert.Equal(t, "Tofukuji", rows[1].ActivityName)
	assert.Equal(t, 2, rows[2].Day)
	assert.Equal(t, "Kinkakuji", rows[2].ActivityName)
}

func TestTripService_ExportTrip_NotFound(t *testing.T) {
	svc := newService(newMemRepo())

	_, err := svc.ExportTrip(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- ExportMyTrips ---------------------------------------------------------

func TestTripService_ExportMyTrips_OnlyOwnTrips(t *testing.T) {
	other := tripFixture("t2")
	other.CreatedBy = "u2"
	svc := newService(newMemRepo(tripFixture("t1"), other))

	rows, err := svc.ExportMyTrips(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, "t1", r.TripID)
	}
}

func TestTripService_ExportMyTrips_NoTrips(t *testing.T) {
	svc := newService(newMemRepo())

	rows, err := svc.ExportMyTrips(context.Background(), "u1")

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestTripService_ExportMyTrips_RepoError(t *testing.T) {
	boom := errors.New("disk gone")
	svc := newService(&mockTripRepo{
		listByOwner: func(context.Context, string) ([]domain.Trip, error) { return nil, boom },
	})

	_, err := svc.ExportMyTrips(context.Background(), "u1")

	assert.ErrorIs(t, err, boom)
}
