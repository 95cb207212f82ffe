package service_test

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/pkordes/trip-planner/backend/internal/broker"
	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/recommend"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	upsert      func(ctx context.Context, trip domain.Trip) error
	getByID     func(ctx context.Context, id string) (domain.Trip, error)
	list        func(ctx context.Context) ([]domain.Trip, error)
	listByOwner func(ctx context.Context, userID string) ([]domain.Trip, error)
	listPublic  func(ctx context.Context) ([]domain.Trip, error)
	delete      func(ctx context.Context, id string) error
}

func (m *mockTripRepo) Upsert(ctx context.Context, trip domain.Trip) error {
	return m.upsert(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) ListByOwner(ctx context.Context, userID string) ([]domain.Trip, error) {
	return m.listByOwner(ctx, userID)
}
func (m *mockTripRepo) ListPublic(ctx context.Context) ([]domain.Trip, error) {
	return m.listPublic(ctx)
}
func (m *mockTripRepo) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

// memRepo is an in-memory repo.TripRepo with last-write-wins upserts.
type memRepo struct {
	mu    sync.Mutex
	trips map[string]domain.Trip
}

func newMemRepo(seed ...domain.Trip) *memRepo {
	r := &memRepo{trips: make(map[string]domain.Trip)}
	for _, t := range seed {
		r.trips[t.ID] = t.Clone()
	}
	return r
}

func (r *memRepo) Upsert(_ context.Context, trip domain.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trips[trip.ID] = trip.Clone()
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t.Clone(), nil
}

func (r *memRepo) List(_ context.Context) ([]domain.Trip, error) {
	return r.filter(func(domain.Trip) bool { return true }), nil
}

func (r *memRepo) ListByOwner(_ context.Context, userID string) ([]domain.Trip, error) {
	return r.filter(func(t domain.Trip) bool { return t.CreatedBy == userID }), nil
}

func (r *memRepo) ListPublic(_ context.Context) ([]domain.Trip, error) {
	return r.filter(func(t domain.Trip) bool { return t.Visibility == domain.VisibilityPublic }), nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trips[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.trips, id)
	return nil
}

func (r *memRepo) filter(keep func(domain.Trip) bool) []domain.Trip {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Trip{}
	for _, t := range r.trips {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	slices.SortFunc(out, func(a, b domain.Trip) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// mockRecommender is a test double for service.Recommender.
type mockRecommender struct {
	recommend func(ctx context.Context, req recommend.Request) (domain.Trip, error)
	explore   func(ctx context.Context, topK, moreK int) (recommend.ExploreResult, error)
}

func (m *mockRecommender) Recommend(ctx context.Context, req recommend.Request) (domain.Trip, error) {
	return m.recommend(ctx, req)
}
func (m *mockRecommender) Explore(ctx context.Context, topK, moreK int) (recommend.ExploreResult, error) {
	return m.explore(ctx, topK, moreK)
}

var _ service.Recommender = (*mockRecommender)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newService wires a service around r with no recommender or preview store.
func newService(r repo.TripRepo) *service.TripService {
	return service.NewTripService(r, &mockRecommender{}, nil, broker.NewHub(discardLogger()), discardLogger())
}

func tripFixture(id string) domain.Trip {
	return domain.Trip{
		ID:         id,
		CreatedBy:  "u1",
		Name:       "Kyoto",
		Locations:  "京都",
		StartDate:  domain.Ptr("2025-11-20"),
		EndDate:    domain.Ptr("2025-11-21"),
		AvgAge:     domain.AgeBandIgnore,
		Visibility: domain.VisibilityPrivate,
		Days: []domain.DaySchedule{
			{Date: "2025-11-20", Slots: []domain.Slot{
				{Label: "morning", Window: []string{"09:00", "12:00"}, Places: []domain.Activity{
					{ID: "a1", Name: "Fushimi Inari", Lat: 34.967, Lng: 135.772},
					{ID: "a2", Name: "Tofukuji", Lat: 34.976, Lng: 135.773},
				}},
				{Label: "afternoon", Window: []string{"13:00", "18:00"}},
			}},
			{Date: "2025-11-21", Slots: []domain.Slot{
				{Label: "morning", Places: []domain.Activity{{ID: "a3", Name: "Kinkakuji"}}},
			}},
		},
	}
}
