// Package handler implements the HTTP surface of the trip planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, activity.go, preview.go, stream.go, export.go) but share the same
// Server struct so they can reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/itinerary"
)

// TripServicer defines the trip operations the handlers depend on.
// Declared here, in the consumer package, so handler tests can inject a mock
// without a database or a recommender.
type TripServicer interface {
	CreateTrip(ctx context.Context, form domain.TripForm, userID string) (domain.Trip, error)
	SaveTrip(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetTripDetail(ctx context.Context, tripID string) (domain.Trip, error)
	DeleteTrip(ctx context.Context, tripID string) error
	GetMyTrips(ctx context.Context, userID string) ([]domain.Trip, error)
	GetPublicTrips(ctx context.Context) ([]domain.Trip, error)
	GetTripStatsFor(ctx context.Context, userID string) (domain.TripStats, error)
	AddMembers(ctx context.Context, tripID string, users []domain.User) (domain.Trip, error)
	FetchGeneralRecommendations(ctx context.Context) ([]domain.Trip, error)

	ObserveTripDetail(ctx context.Context, tripID string) <-chan domain.Trip
	ObserveMyTrips(ctx context.Context, userID string) <-chan []domain.Trip
	ObservePublicTrips(ctx context.Context) <-chan []domain.Trip
}

// ActivityServicer defines the in-place itinerary edits.
type ActivityServicer interface {
	AddActivity(ctx context.Context, tripID string, ref itinerary.SlotRef, act domain.Activity) (domain.Trip, error)
	UpdateActivity(ctx context.Context, tripID string, act domain.Activity) (domain.Trip, error)
	RemoveActivity(ctx context.Context, tripID, activityID string) (domain.Trip, error)
	ReplaceActivityInTrip(ctx context.Context, tripID, activityID string, act domain.Activity) (domain.Trip, error)
	MoveActivity(ctx context.Context, tripID, activityID string, to itinerary.SlotRef) (domain.Trip, error)
}

// PreviewServicer defines the pending-form handoff between submission and
// preview.
type PreviewServicer interface {
	SetTripFormForPreview(ctx context.Context, form domain.TripForm) (string, error)
	UpdateTripFormForPreview(ctx context.Context, token string, form domain.TripForm) error
	GetTripFormForPreview(ctx context.Context, token string, consume bool) (domain.TripForm, error)
	ClearTripFormForPreview(ctx context.Context, token string) error
}

// ExportServicer defines the flat itinerary exports.
type ExportServicer interface {
	ExportTrip(ctx context.Context, tripID string) ([]domain.ExportRow, error)
	ExportMyTrips(ctx context.Context, userID string) ([]domain.ExportRow, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips      TripServicer
	activities ActivityServicer
	previews   PreviewServicer
	exports    ExportServicer
	logger     *slog.Logger

	closeOnce sync.Once
	closing   chan struct{}
}

// NewServer constructs the Server with all its dependencies.
// In production one *service.TripService satisfies every interface.
func NewServer(trips TripServicer, activities ActivityServicer, previews PreviewServicer, exports ExportServicer, logger *slog.Logger) *Server {
	return &Server{
		trips:      trips,
		activities: activities,
		previews:   previews,
		exports:    exports,
		logger:     logger,
		closing:    make(chan struct{}),
	}
}

// CloseStreams ends every open event stream. Later stream requests return
// immediately.
func (s *Server) CloseStreams() {
	s.closeOnce.Do(func() { close(s.closing) })
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler(logger *slog.Logger) *Server {
	return NewServer(nil, nil, nil, nil, logger)
}

// Routes returns a router with every endpoint registered.
// Mount it under the middleware stack built in main.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/explore", s.Explore)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/generate", s.GenerateTrip)
		r.Get("/public", s.ListPublicTrips)
		r.Get("/public/stream", s.StreamPublicTrips)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.SaveTrip)
			r.Delete("/", s.DeleteTrip)
			r.Get("/stream", s.StreamTrip)
			r.Get("/export", s.ExportTrip)
			r.Post("/members", s.AddMembers)

			r.Post("/activities", s.AddActivity)
			r.Route("/activities/{activityID}", func(r chi.Router) {
				r.Put("/", s.UpdateActivity)
				r.Delete("/", s.RemoveActivity)
				r.Post("/replace", s.ReplaceActivity)
				r.Post("/move", s.MoveActivity)
			})
		})
	})

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/trips", s.ListMyTrips)
		r.Get("/trips/stream", s.StreamMyTrips)
		r.Get("/stats", s.GetStats)
		r.Get("/export", s.ExportMyTrips)
	})

	r.Route("/previews", func(r chi.Router) {
		r.Post("/", s.CreatePreview)
		r.Get("/{token}", s.GetPreview)
		r.Put("/{token}", s.UpdatePreview)
		r.Delete("/{token}", s.ClearPreview)
	})

	return r
}
