package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/handler"
	"github.com/pkordes/trip-planner/backend/internal/itinerary"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	createTrip         func(ctx context.Context, form domain.TripForm, userID string) (domain.Trip, error)
	saveTrip           func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getTripDetail      func(ctx context.Context, tripID string) (domain.Trip, error)
	deleteTrip         func(ctx context.Context, tripID string) error
	getMyTrips         func(ctx context.Context, userID string) ([]domain.Trip, error)
	getPublicTrips     func(ctx context.Context) ([]domain.Trip, error)
	getTripStatsFor    func(ctx context.Context, userID string) (domain.TripStats, error)
	addMembers         func(ctx context.Context, tripID string, users []domain.User) (domain.Trip, error)
	fetchGeneral       func(ctx context.Context) ([]domain.Trip, error)
	observeTripDetail  func(ctx context.Context, tripID string) <-chan domain.Trip
	observeMyTrips     func(ctx context.Context, userID string) <-chan []domain.Trip
	observePublicTrips func(ctx context.Context) <-chan []domain.Trip
}

func (m *mockTripServicer) CreateTrip(ctx context.Context, f domain.TripForm, userID string) (domain.Trip, error) {
	return m.createTrip(ctx, f, userID)
}
func (m *mockTripServicer) SaveTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.saveTrip(ctx, t)
}
func (m *mockTripServicer) GetTripDetail(ctx context.Context, id string) (domain.Trip, error) {
	return m.getTripDetail(ctx, id)
}
func (m *mockTripServicer) DeleteTrip(ctx context.Context, id string) error {
	return m.deleteTrip(ctx, id)
}
func (m *mockTripServicer) GetMyTrips(ctx context.Context, userID string) ([]domain.Trip, error) {
	return m.getMyTrips(ctx, userID)
}
func (m *mockTripServicer) GetPublicTrips(ctx context.Context) ([]domain.Trip, error) {
	return m.getPublicTrips(ctx)
}
func (m *mockTripServicer) GetTripStatsFor(ctx context.Context, userID string) (domain.TripStats, error) {
	return m.getTripStatsFor(ctx, userID)
}
func (m *mockTripServicer) AddMembers(ctx context.Context, id string, users []domain.User) (domain.Trip, error) {
	return m.addMembers(ctx, id, users)
}
func (m *mockTripServicer) FetchGeneralRecommendations(ctx context.Context) ([]domain.Trip, error) {
	return m.fetchGeneral(ctx)
}
func (m *mockTripServicer) ObserveTripDetail(ctx context.Context, id string) <-chan domain.Trip {
	return m.observeTripDetail(ctx, id)
}
func (m *mockTripServicer) ObserveMyTrips(ctx context.Context, userID string) <-chan []domain.Trip {
	return m.observeMyTrips(ctx, userID)
}
func (m *mockTripServicer) ObservePublicTrips(ctx context.Context) <-chan []domain.Trip {
	return m.observePublicTrips(ctx)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

// mockActivityServicer is a test double for handler.ActivityServicer.
type mockActivityServicer struct {
	add     func(ctx context.Context, tripID string, ref itinerary.SlotRef, act domain.Activity) (domain.Trip, error)
	update  func(ctx context.Context, tripID string, act domain.Activity) (domain.Trip, error)
	remove  func(ctx context.Context, tripID, activityID string) (domain.Trip, error)
	replace func(ctx context.Context, tripID, activityID string, act domain.Activity) (domain.Trip, error)
	move    func(ctx context.Context, tripID, activityID string, to itinerary.SlotRef) (domain.Trip, error)
}

func (m *mockActivityServicer) AddActivity(ctx context.Context, tripID string, ref itinerary.SlotRef, act domain.Activity) (domain.Trip, error) {
	return m.add(ctx, tripID, ref, act)
}
func (m *mockActivityServicer) UpdateActivity(ctx context.Context, tripID string, act domain.Activity) (domain.Trip, error) {
	return m.update(ctx, tripID, act)
}
func (m *mockActivityServicer) RemoveActivity(ctx context.Context, tripID, activityID string) (domain.Trip, error) {
	return m.remove(ctx, tripID, activityID)
}
func (m *mockActivityServicer) ReplaceActivityInTrip(ctx context.Context, tripID, activityID string, act domain.Activity) (domain.Trip, error) {
	return m.replace(ctx, tripID, activityID, act)
}
func (m *mockActivityServicer) MoveActivity(ctx context.Context, tripID, activityID string, to itinerary.SlotRef) (domain.Trip, error) {
	return m.move(ctx, tripID, activityID, to)
}

var _ handler.ActivityServicer = (*mockActivityServicer)(nil)

// mockPreviewServicer is a test double for handler.PreviewServicer.
type mockPreviewServicer struct {
	set    func(ctx context.Context, form domain.TripForm) (string, error)
	update func(ctx context.Context, token string, form domain.TripForm) error
	get    func(ctx context.Context, token string, consume bool) (domain.TripForm, error)
	clear  func(ctx context.Context, token string) error
}

func (m *mockPreviewServicer) SetTripFormForPreview(ctx context.Context, f domain.TripForm) (string, error) {
	return m.set(ctx, f)
}
func (m *mockPreviewServicer) UpdateTripFormForPreview(ctx context.Context, token string, f domain.TripForm) error {
	return m.update(ctx, token, f)
}
func (m *mockPreviewServicer) GetTripFormForPreview(ctx context.Context, token string, consume bool) (domain.TripForm, error) {
	return m.get(ctx, token, consume)
}
func (m *mockPreviewServicer) ClearTripFormForPreview(ctx context.Context, token string) error {
	return m.clear(ctx, token)
}

var _ handler.PreviewServicer = (*mockPreviewServicer)(nil)

// mockExportServicer is a test double for handler.ExportServicer.
type mockExportServicer struct {
	exportTrip    func(ctx context.Context, tripID string) ([]domain.ExportRow, error)
	exportMyTrips func(ctx context.Context, userID string) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) ExportTrip(ctx context.Context, tripID string) ([]domain.ExportRow, error) {
	return m.exportTrip(ctx, tripID)
}
func (m *mockExportServicer) ExportMyTrips(ctx context.Context, userID string) ([]domain.ExportRow, error) {
	return m.exportMyTrips(ctx, userID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newHTTPHandler wires a Server with the given mocks into its router, the
// same way main does.
func newHTTPHandler(trips handler.TripServicer, activities handler.ActivityServicer, previews handler.PreviewServicer) http.Handler {
	return handler.NewServer(trips, activities, previews, nil, discardLogger()).Routes()
}

// newExportHTTPHandler wires a Server with only the export service mock.
func newExportHTTPHandler(exports handler.ExportServicer) http.Handler {
	return handler.NewServer(nil, nil, nil, exports, discardLogger()).Routes()
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:         "t1",
		CreatedBy:  "u1",
		Name:       "Kyoto",
		Locations:  "京都",
		StartDate:  domain.Ptr("2025-11-20"),
		EndDate:    domain.Ptr("2025-11-20"),
		AvgAge:     domain.AgeBandIgnore,
		Visibility: domain.VisibilityPublic,
		Days: []domain.DaySchedule{{Date: "2025-11-20", Slots: []domain.Slot{
			{Label: "morning", Window: []string{"09:00", "12:00"}, Places: []domain.Activity{
				{ID: "a1", Name: "Fushimi Inari", Lat: 34.967, Lng: 135.772},
			}},
		}}},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do sends a request through h and returns the recorder.
func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}
