package itinerary

import (
	"fmt"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// SlotRef addresses a slot by day index and slot index within that day.
type SlotRef struct {
	Day  int `json:"day_index"`
	Slot int `json:"slot_index"`
}

// check returns a validation error when ref does not point at a slot of t.
func (r SlotRef) check(t domain.Trip) error {
	if r.Day < 0 || r.Day >= len(t.Days) {
		return fmt.Errorf("%w: day index %d out of range (trip has %d days)", domain.ErrValidation, r.Day, len(t.Days))
	}
	if n := len(t.Days[r.Day].Slots); r.Slot < 0 || r.Slot >= n {
		return fmt.Errorf("%w: slot index %d out of range (day %d has %d slots)", domain.ErrValidation, r.Slot, r.Day, n)
	}
	return nil
}

// Insert appends a to the end of the slot addressed by ref.
// It refuses an activity whose id already exists in the trip, since a
// second activity with that id could never be located.
func Insert(t domain.Trip, ref SlotRef, a domain.Activity) (domain.Trip, error) {
	if err := ref.check(t); err != nil {
		return domain.Trip{}, err
	}
	if a.ID == "" {
		return domain.Trip{}, fmt.Errorf("%w: activity id is required", domain.ErrValidation)
	}
	if Contains(t, a.ID) {
		return domain.Trip{}, fmt.Errorf("%w: activity %q already exists in trip", domain.ErrValidation, a.ID)
	}

	out := t.Clone()
	slot := &out.Days[ref.Day].Slots[ref.Slot]
	slot.Places = append(slot.Places, a.Clone())
	return out, nil
}

// Update overwrites the activity whose id matches a.ID, keeping its position.
func Update(t domain.Trip, a domain.Activity) (domain.Trip, error) {
	loc, ok := Locate(t, a.ID)
	if !ok {
		return domain.Trip{}, fmt.Errorf("activity %q: %w", a.ID, domain.ErrNotFound)
	}

	out := t.Clone()
	out.Days[loc.DayIndex].Slots[loc.SlotIndex].Places[loc.ActivityIndex] = a.Clone()
	return out, nil
}

// Replace swaps the activity identified by id for a different activity at the
// same position. The replacement may carry a new id but must not collide with
// another activity already in the trip.
func Replace(t domain.Trip, id string, a domain.Activity) (domain.Trip, error) {
	loc, ok := Locate(t, id)
	if !ok {
		return domain.Trip{}, fmt.Errorf("activity %q: %w", id, domain.ErrNotFound)
	}
	if a.ID == "" {
		return domain.Trip{}, fmt.Errorf("%w: activity id is required", domain.ErrValidation)
	}
	if a.ID != id && Contains(t, a.ID) {
		return domain.Trip{}, fmt.Errorf("%w: activity %q already exists in trip", domain.ErrValidation, a.ID)
	}

	out := t.Clone()
	out.Days[loc.DayIndex].Slots[loc.SlotIndex].Places[loc.ActivityIndex] = a.Clone()
	return out, nil
}

// Remove deletes the activity identified by id and returns the removed value.
func Remove(t domain.Trip, id string) (domain.Trip, domain.Activity, error) {
	loc, ok := Locate(t, id)
	if !ok {
		return domain.Trip{}, domain.Activity{}, fmt.Errorf("activity %q: %w", id, domain.ErrNotFound)
	}

	out := t.Clone()
	slot := &out.Days[loc.DayIndex].Slots[loc.SlotIndex]
	slot.Places = append(slot.Places[:loc.ActivityIndex], slot.Places[loc.ActivityIndex+1:]...)
	return out, loc.Activity, nil
}

// Move removes the activity identified by id and appends it to the slot
// addressed by to. Moving into the slot the activity already occupies moves
// it to the end of that slot.
func Move(t domain.Trip, id string, to SlotRef) (domain.Trip, error) {
	if err := to.check(t); err != nil {
		return domain.Trip{}, err
	}
	out, act, err := Remove(t, id)
	if err != nil {
		return domain.Trip{}, err
	}

	slot := &out.Days[to.Day].Slots[to.Slot]
	slot.Places = append(slot.Places, act)
	return out, nil
}
