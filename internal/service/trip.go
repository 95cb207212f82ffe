// Package service contains the trip reconciliation layer: it mediates
// between the remote recommender, which generates trips, and the local
// cache, which persists them and serves live views.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/pkordes/trip-planner/backend/internal/broker"
	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/recommend"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/internal/validation"
)

// Recommender is the remote itinerary generator.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (domain.Trip, error)
	Explore(ctx context.Context, topK, moreK int) (recommend.ExploreResult, error)
}

// PreviewStore holds forms handed from submission to preview.
type PreviewStore interface {
	Put(ctx context.Context, form domain.TripForm) (string, error)
	Replace(ctx context.Context, token string, form domain.TripForm) error
	Get(ctx context.Context, token string, consume bool) (domain.TripForm, error)
	Clear(ctx context.Context, token string) error
}

// TripService implements the trip operations. It keeps no trip state of its
// own: the cache behind repo is the single source of truth, and every write
// is announced on hub so observers re-read.
//
// Concurrent writes to the same trip are not coordinated; the last write wins.
type TripService struct {
	repo     repo.TripRepo
	remote   Recommender
	previews PreviewStore
	hub      *broker.Hub
	validate *validation.Validator
	logger   *slog.Logger

	explore      singleflight.Group
	exploreTopK  int
	exploreMoreK int
}

// NewTripService constructs a TripService.
func NewTripService(r repo.TripRepo, remote Recommender, previews PreviewStore, hub *broker.Hub, logger *slog.Logger) *TripService {
	return &TripService{
		repo:         r,
		remote:       remote,
		previews:     previews,
		hub:          hub,
		validate:     validation.New(),
		logger:       logger,
		exploreTopK:  3,
		exploreMoreK: 10,
	}
}

// WithExploreLimits sets the top_k and more_k sent to the explore endpoint.
func (s *TripService) WithExploreLimits(topK, moreK int) *TripService {
	s.exploreTopK = topK
	s.exploreMoreK = moreK
	return s
}

// SaveTrip upserts the trip into the cache keyed by its id and returns it
// unchanged. Saving over an existing id replaces that trip entirely.
func (s *TripService) SaveTrip(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if strings.TrimSpace(trip.ID) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.SaveTrip: %w: id is required", domain.ErrValidation)
	}
	if err := s.validate.Validate(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SaveTrip: %w", err)
	}

	if err := s.repo.Upsert(ctx, trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SaveTrip: %w", err)
	}
	s.hub.Publish(broker.Event{Type: broker.EventTripSaved, TripID: trip.ID})
	s.logger.Info("trip saved", "trip_id", trip.ID, "activities", trip.ActivityCount())
	return trip, nil
}

// GetTripDetail returns the cached trip.
// Returns domain.ErrNotFound if the trip was never saved or has been deleted.
func (s *TripService) GetTripDetail(ctx context.Context, tripID string) (domain.Trip, error) {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetTripDetail: %w", err)
	}
	return t, nil
}

// GetMyTrips returns the cached trips created by userID.
func (s *TripService) GetMyTrips(ctx context.Context, userID string) ([]domain.Trip, error) {
	trips, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.GetMyTrips: %w", err)
	}
	return trips, nil
}

// GetPublicTrips returns the cached trips marked PUBLIC.
func (s *TripService) GetPublicTrips(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.GetPublicTrips: %w", err)
	}
	return trips, nil
}

// DeleteTrip removes a trip from the cache.
func (s *TripService) DeleteTrip(ctx context.Context, tripID string) error {
	if err := s.repo.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.DeleteTrip: %w", err)
	}
	s.hub.Publish(broker.Event{Type: broker.EventTripDeleted, TripID: tripID})
	s.logger.Info("trip deleted", "trip_id", tripID)
	return nil
}

// AddMembers appends users to the trip's members, skipping any whose id is
// already listed.
func (s *TripService) AddMembers(ctx context.Context, tripID string, users []domain.User) (domain.Trip, error) {
	for i, u := range users {
		if strings.TrimSpace(u.ID) == "" {
			return domain.Trip{}, fmt.Errorf("service.TripService.AddMembers: %w: members[%d].id is required", domain.ErrValidation, i)
		}
	}

	return s.editTrip(ctx, "service.TripService.AddMembers", tripID, func(t domain.Trip) (domain.Trip, error) {
		out := t.Clone()
		for _, u := range users {
			if out.HasMember(u.ID) {
				continue
			}
			out.Members = append(out.Members, u.Clone())
		}
		return out, nil
	})
}

// GetTripStatsFor counts the cached trips userID created and the trips
// created by others that list userID as a member.
func (s *TripService) GetTripStatsFor(ctx context.Context, userID string) (domain.TripStats, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return domain.TripStats{}, fmt.Errorf("service.TripService.GetTripStatsFor: %w", err)
	}

	var stats domain.TripStats
	for _, t := range trips {
		switch {
		case t.CreatedBy == userID:
			stats.Created++
		case t.HasMember(userID):
			stats.Participating++
		}
	}
	return stats, nil
}

// editTrip loads a trip, applies edit, and writes the result back.
func (s *TripService) editTrip(ctx context.Context, op, tripID string, edit func(domain.Trip) (domain.Trip, error)) (domain.Trip, error) {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := edit(t)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.Upsert(ctx, updated); err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	s.hub.Publish(broker.Event{Type: broker.EventTripSaved, TripID: tripID})
	return updated, nil
}
