// Package itinerary addresses and edits activities inside a trip's nested
// day → slot → activity structure.
//
// Every function here is pure: it never mutates the Trip it is given and
// edits return a new Trip value. Activities are addressed either by id
// (through Locate) or by a SlotRef naming a day and a slot within it.
package itinerary

import "github.com/pkordes/trip-planner/backend/internal/domain"

// Location is the resolved position of an activity inside a trip.
// The Day, Slot and Activity fields are copies taken at lookup time.
type Location struct {
	DayIndex      int
	SlotIndex     int
	ActivityIndex int

	Activity domain.Activity
	Slot     domain.Slot
	Day      domain.DaySchedule
}

// Ref returns the slot address of the location.
func (l Location) Ref() SlotRef {
	return SlotRef{Day: l.DayIndex, Slot: l.SlotIndex}
}

// Locate returns the first activity with the given id, scanning days in
// order, then slots, then activities. Activity ids are not guaranteed unique
// within a trip; when several activities share an id, the earliest one in
// that order is returned and the others are unreachable by id.
//
// The second return value is false when no activity matches.
func Locate(t domain.Trip, id string) (Location, bool) {
	for di, day := range t.Days {
		for si, slot := range day.Slots {
			for ai, act := range slot.Places {
				if act.ID != id {
					continue
				}
				return Location{
					DayIndex:      di,
					SlotIndex:     si,
					ActivityIndex: ai,
					Activity:      act.Clone(),
					Slot:          slot.Clone(),
					Day:           day.Clone(),
				}, true
			}
		}
	}
	return Location{}, false
}

// Contains reports whether any activity in t has the given id.
func Contains(t domain.Trip, id string) bool {
	_, ok := Locate(t, id)
	return ok
}

// At returns the activity stored at the given indices, or false when any
// index is out of range.
func At(t domain.Trip, day, slot, activity int) (domain.Activity, bool) {
	if day < 0 || day >= len(t.Days) {
		return domain.Activity{}, false
	}
	slots := t.Days[day].Slots
	if slot < 0 || slot >= len(slots) {
		return domain.Activity{}, false
	}
	places := slots[slot].Places
	if activity < 0 || activity >= len(places) {
		return domain.Activity{}, false
	}
	return places[activity], true
}
