package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/id"
	"github.com/pkordes/trip-planner/backend/internal/itinerary"
)

// AddActivity appends act to the slot at ref. An activity without an id is
// given a generated one.
func (s *TripService) AddActivity(ctx context.Context, tripID string, ref itinerary.SlotRef, act domain.Activity) (domain.Trip, error) {
	const op = "service.TripService.AddActivity"
	act, err := s.prepareActivity(op, act)
	if err != nil {
		return domain.Trip{}, err
	}

	return s.editTrip(ctx, op, tripID, func(t domain.Trip) (domain.Trip, error) {
		return itinerary.Insert(t, ref, act)
	})
}

// UpdateActivity replaces the activity with the same id, wherever it sits.
func (s *TripService) UpdateActivity(ctx context.Context, tripID string, act domain.Activity) (domain.Trip, error) {
	const op = "service.TripService.UpdateActivity"
	if strings.TrimSpace(act.ID) == "" {
		return domain.Trip{}, fmt.Errorf("%s: %w: place_id is required", op, domain.ErrValidation)
	}
	if strings.TrimSpace(act.Name) == "" {
		return domain.Trip{}, fmt.Errorf("%s: %w: name is required", op, domain.ErrValidation)
	}
	if err := s.validate.Validate(act); err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.editTrip(ctx, op, tripID, func(t domain.Trip) (domain.Trip, error) {
		return itinerary.Update(t, act)
	})
}

// RemoveActivity drops the first activity with activityID.
func (s *TripService) RemoveActivity(ctx context.Context, tripID, activityID string) (domain.Trip, error) {
	return s.editTrip(ctx, "service.TripService.RemoveActivity", tripID, func(t domain.Trip) (domain.Trip, error) {
		out, _, err := itinerary.Remove(t, activityID)
		return out, err
	})
}

// ReplaceActivityInTrip swaps the activity with activityID for act in place.
// An act without an id is given a generated one.
func (s *TripService) ReplaceActivityInTrip(ctx context.Context, tripID, activityID string, act domain.Activity) (domain.Trip, error) {
	const op = "service.TripService.ReplaceActivityInTrip"
	act, err := s.prepareActivity(op, act)
	if err != nil {
		return domain.Trip{}, err
	}

	return s.editTrip(ctx, op, tripID, func(t domain.Trip) (domain.Trip, error) {
		return itinerary.Replace(t, activityID, act)
	})
}

// MoveActivity moves the activity with activityID to the end of the slot
// at to.
func (s *TripService) MoveActivity(ctx context.Context, tripID, activityID string, to itinerary.SlotRef) (domain.Trip, error) {
	return s.editTrip(ctx, "service.TripService.MoveActivity", tripID, func(t domain.Trip) (domain.Trip, error) {
		return itinerary.Move(t, activityID, to)
	})
}

func (s *TripService) prepareActivity(op string, act domain.Activity) (domain.Activity, error) {
	if strings.TrimSpace(act.Name) == "" {
		return domain.Activity{}, fmt.Errorf("%s: %w: name is required", op, domain.ErrValidation)
	}
	if err := s.validate.Validate(act); err != nil {
		return domain.Activity{}, fmt.Errorf("%s: %w", op, err)
	}
	if strings.TrimSpace(act.ID) == "" {
		generated, err := id.Generate(id.PrefixActivity)
		if err != nil {
			return domain.Activity{}, fmt.Errorf("%s: %w", op, err)
		}
		act.ID = generated
	}
	return act, nil
}
