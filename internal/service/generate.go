package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/recommend"
)

// CreateTrip validates the form and asks the recommender for a trip.
// The result is NOT saved; call SaveTrip to keep it.
//
// Fails with domain.ErrValidation for a bad form and with domain.ErrRemote
// when the recommender is unreachable or reports an error.
func (s *TripService) CreateTrip(ctx context.Context, form domain.TripForm, userID string) (domain.Trip, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.CreateTrip: %w: user_id is required", domain.ErrValidation)
	}
	if err := s.validate.Validate(form); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.CreateTrip: %w", err)
	}

	req := recommend.Request{
		UserID: userID,
		Form:   recommend.MapForm(form, recommend.SplitTerms(form.Exclude)),
	}

	trip, err := s.remote.Recommend(ctx, req)
	if err != nil {
		s.logger.Warn("trip generation failed", "user_id", userID, "error", err)
		return domain.Trip{}, fmt.Errorf("service.TripService.CreateTrip: %w", err)
	}
	s.logger.Info("trip generated",
		"user_id", userID,
		"trip_id", trip.ID,
		"days", len(trip.Days),
		"activities", trip.ActivityCount(),
	)
	return trip, nil
}

// FetchGeneralRecommendations returns the recommender's primary picks
// followed by its overflow picks. Results are not cached. Concurrent callers
// share one in-flight request; each caller still stops waiting when its own
// ctx is done.
func (s *TripService) FetchGeneralRecommendations(ctx context.Context) ([]domain.Trip, error) {
	ch := s.explore.DoChan("explore", func() (any, error) {
		// Detached so one caller leaving does not fail the others.
		res, err := s.remote.Explore(context.WithoutCancel(ctx), s.exploreTopK, s.exploreMoreK)
		if err != nil {
			return nil, err
		}
		return res.Trips(), nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, fmt.Errorf("service.TripService.FetchGeneralRecommendations: %w", r.Err)
		}
		trips := r.Val.([]domain.Trip)
		out := make([]domain.Trip, len(trips))
		for i, t := range trips {
			out[i] = t.Clone()
		}
		return out, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("service.TripService.FetchGeneralRecommendations: %w", ctx.Err())
	}
}
