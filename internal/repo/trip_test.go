package repo_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/testutil"
)

// newPGRepo opens a transaction against the Postgres test database and
// returns a TripRepo backed by it. The transaction is rolled back when the
// test finishes. Skips when TEST_DATABASE_URL is not set.
func newPGRepo(t *testing.T) repo.TripRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewTripRepo(tx)
}

// newSQLiteRepo returns a TripRepo over a fresh, migrated SQLite file.
func newSQLiteRepo(t *testing.T) repo.TripRepo {
	t.Helper()
	return repo.NewSQLiteTripRepo(testutil.NewSQLiteDB(t))
}

// forEachStore runs fn once per store implementation.
func forEachStore(t *testing.T, fn func(t *testing.T, r repo.TripRepo)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteRepo(t)) })
	t.Run("postgres", func(t *testing.T) { fn(t, newPGRepo(t)) })
}

// tripFixture returns a fully populated trip. Callers override fields after.
func tripFixture(id string) domain.Trip {
	return domain.Trip{
		ID:                   id,
		CreatedBy:            "u1",
		Name:                 "Taiwan loop",
		Locations:            "台北, 台中　高雄",
		TotalBudget:          domain.Ptr(20000),
		StartDate:            domain.Ptr("2025-11-20"),
		EndDate:              domain.Ptr("2025-11-22"),
		ActivityStart:        domain.Ptr("09:00"),
		ActivityEnd:          domain.Ptr("21:00"),
		AvgAge:               domain.AgeBand18To25,
		TransportPreferences: []string{"train", "bus"},
		UseGmapsRating:       true,
		Styles:               []string{"food", "nature"},
		Visibility:           domain.VisibilityPrivate,
		Members:              []domain.User{{ID: "u2", Name: "Mei", Email: "mei@example.com"}},
		Days: []domain.DaySchedule{{
			Date: "2025-11-20",
			City: domain.Ptr("台北"),
			Slots: []domain.Slot{{
				Label:  "上午",
				Window: []string{"09:00", "12:00"},
				Places: []domain.Activity{{
					ID: "ChIJ1", Name: "Taipei 101", Rating: domain.Ptr(4.6), Reviews: domain.Ptr(90000),
					Types: []string{"tourist_attraction"}, Lat: 25.0339, Lng: 121.5645,
				}},
			}},
		}},
	}
}

// ---- tests -----------------------------------------------------------------

func TestTripRepo_RoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.TripRepo) {
		ctx := context.Background()
		want := tripFixture("t-round")

		require.NoError(t, r.Upsert(ctx, want))
		got, err := r.GetByID(ctx, want.ID)

		require.NoError(t, err)
		assert.True(t, want.Equal(got), "round trip mismatch:\nwant %+v\ngot  %+v", want, got)
	})
}

func TestTripRepo_RoundTrip_NullableFieldsStayNil(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.TripRepo) {
		ctx := context.Background()
		in := tripFixture("t-nil")
		in.TotalBudget = nil
		in.StartDate = nil
		in.EndDate = nil
		in.ActivityStart = nil
		in.ActivityEnd = nil
		in.Members = nil
		in.Days = nil

		require.NoError(t, r.Upsert(ctx, in))
		got, err := r.GetByID(ctx, in.ID)

		require.NoError(t, err)
		assert.Nil(t, got.TotalBudget)
		assert.Nil(t, got.StartDate)
		assert.Nil(t, got.ActivityEnd)
		assert.Empty(t, got.Days)
		assert.True(t, in.Equal(got))
	})
}

func TestTripRepo_Upsert_LastWriteWins(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.TripRepo) {
		ctx := context.Background()
		first := tripFixture("t-lww")
		second := tripFixture("t-lww")
		second.Name = "Renamed"
		second.Days = nil

		require.NoError(t, r.Upsert(ctx, first))
		require.NoError(t, r.Upsert(ctx, second))

		got, err := r.GetByID(ctx, "t-lww")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Empty(t, got.Days, "no merge with the earlier write")
	})
}

func TestTripRepo_Upsert_DefaultsBlankEnums(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.TripRepo) {
		ctx := context.Background()
		in := tripFixture("t-enum")
		in.AvgAge = ""
		in.Visibility = ""

		require.NoError(t, r.Upsert(ctx, in))
		got, err := r.GetByID(ctx, in.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.AgeBandIgnore, got.AvgAge)
		assert.Equal(t, domain.VisibilityPrivate, got.Visibility)
	})
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.TripRepo) {
		_, err := r.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTripRepo_Lists(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.TripRepo) {
		ctx := context.Background()

		older := tripFixture("t-older")
		older.StartDate = domain.Ptr("2024-01-01")
		older.Visibility = domain.VisibilityPublic

		newer := tripFixture("t-newer")
		newer.StartDate = domain.Ptr("2025-06-01")

		undated := tripFixture("t-undated")
		undated.StartDate = nil
		undated.CreatedBy = "u9"
		undated.Visibility = domain.VisibilityPublic

		for _, tr := range []domain.Trip{older, newer, undated} {
			require.NoError(t, r.Upsert(ctx, tr))
		}

		all, err := r.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"t-newer", "t-older", "t-undated"}, ids(all))

		mine, err := r.ListByOwner(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"t-newer", "t-older"}, ids(mine))

		public, err := r.ListPublic(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"t-older", "t-undated"}, ids(public))

		none, err := r.ListByOwner(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})
}

func TestTripRepo_Delete(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.TripRepo) {
		ctx := context.Background()
		require.NoError(t, r.Upsert(ctx, tripFixture("t-del")))

		require.NoError(t, r.Delete(ctx, "t-del"))

		_, err := r.GetByID(ctx, "t-del")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, r.Delete(ctx, "t-del"), domain.ErrNotFound)
	})
}

func TestSQLiteTripRepo_ConcurrentUpserts(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr := tripFixture("t-race")
			tr.Name = fmt.Sprintf("writer %d", i)
			assert.NoError(t, r.Upsert(ctx, tr))
		}()
	}
	wg.Wait()

	got, err := r.GetByID(ctx, "t-race")
	require.NoError(t, err)
	assert.Contains(t, got.Name, "writer ")
}

func TestOpen_SQLitePath(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := repo.Open(ctx, path, testutil.DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.Migrate(ctx, testutil.DiscardLogger()))
	// Migrating an up-to-date store is a no-op.
	require.NoError(t, store.Migrate(ctx, testutil.DiscardLogger()))

	require.NoError(t, store.Trips.Upsert(ctx, tripFixture("t-open")))
	got, err := store.Trips.GetByID(ctx, "t-open")
	require.NoError(t, err)
	assert.Equal(t, "Taiwan loop", got.Name)
}

func ids(trips []domain.Trip) []string {
	out := make([]string, len(trips))
	for i, t := range trips {
		out[i] = t.ID
	}
	return out
}
