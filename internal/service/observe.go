package service

import (
	"context"
	"errors"
	"slices"

	"github.com/pkordes/trip-planner/backend/internal/broker"
	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ObserveTripDetail streams the cached trip: once now if present, then again
// after every change to it. Nothing is emitted while the trip is absent, so
// a stream opened before the trip is saved first yields on the save.
// Consecutive identical snapshots are collapsed. The channel closes when ctx
// is done.
func (s *TripService) ObserveTripDetail(ctx context.Context, tripID string) <-chan domain.Trip {
	query := func(ctx context.Context) (domain.Trip, bool, error) {
		t, err := s.repo.GetByID(ctx, tripID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Trip{}, false, nil
		}
		return t, err == nil, err
	}
	match := func(e broker.Event) bool { return e.TripID == tripID }
	return observe(ctx, s, "trip_detail", query, match, domain.Trip.Equal)
}

// ObserveMyTrips streams the trips created by userID after every cache write.
func (s *TripService) ObserveMyTrips(ctx context.Context, userID string) <-chan []domain.Trip {
	query := func(ctx context.Context) ([]domain.Trip, bool, error) {
		trips, err := s.repo.ListByOwner(ctx, userID)
		return trips, err == nil, err
	}
	return observe(ctx, s, "my_trips", query, anyEvent, tripsEqual)
}

// ObservePublicTrips streams the PUBLIC trips after every cache write.
func (s *TripService) ObservePublicTrips(ctx context.Context) <-chan []domain.Trip {
	query := func(ctx context.Context) ([]domain.Trip, bool, error) {
		trips, err := s.repo.ListPublic(ctx)
		return trips, err == nil, err
	}
	return observe(ctx, s, "public_trips", query, anyEvent, tripsEqual)
}

func anyEvent(broker.Event) bool { return true }

func tripsEqual(a, b []domain.Trip) bool {
	return slices.EqualFunc(a, b, domain.Trip.Equal)
}

// observe subscribes to the hub before the first query, so a write that lands
// between the query and the subscription is never missed. query reports
// ok=false for "nothing to emit". A failed query is logged and skipped; the
// next event triggers another attempt.
func observe[T any](
	ctx context.Context,
	s *TripService,
	stream string,
	query func(context.Context) (T, bool, error),
	match func(broker.Event) bool,
	equal func(a, b T) bool,
) <-chan T {
	events := s.hub.Subscribe(ctx)
	out := make(chan T)

	go func() {
		defer close(out)

		var (
			last    T
			emitted bool
		)
		// emit returns false once ctx is done.
		emit := func() bool {
			v, ok, err := query(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return false
				}
				s.logger.Warn("observe query failed", "stream", stream, "error", err)
				return true
			}
			if !ok {
				emitted = false
				return true
			}
			if emitted && equal(last, v) {
				return true
			}
			select {
			case out <- v:
				last, emitted = v, true
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case e, ok := <-events:
				if !ok {
					return
				}
				if match(e) && !emit() {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
