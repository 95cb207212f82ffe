package itinerary

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// LegacySlotLabel labels the single slot a flat legacy day is folded into.
const LegacySlotLabel = "all day"

// legacyDay is the earliest persisted day shape: activities addressed by a
// flat index with no slot grouping. Some rows written during the switch carry
// both keys, usually with an empty or null "slots".
type legacyDay struct {
	Date       string           `json:"date"`
	City       *string          `json:"city,omitempty"`
	Slots      []domain.Slot    `json:"slots"`
	Activities []legacyActivity `json:"activities"`
}

type legacyActivity struct {
	ID        string      `json:"id"`
	Place     legacyPlace `json:"place"`
	StartTime *string     `json:"startTime"`
	EndTime   *string     `json:"endTime"`
	Note      *string     `json:"note"`
}

type legacyPlace struct {
	PlaceID          string   `json:"placeId"`
	Name             string   `json:"name"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"userRatingsTotal"`
	Address          *string  `json:"address"`
	OpenStatusText   *string  `json:"openStatusText"`
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
}

// UpgradeLegacyDays rewrites a serialized days list so that every day uses the
// slot shape. Any day carrying an "activities" array is rewritten: its flat
// activities, if any, are appended in order as one extra slot after whatever
// slots the day already has, and the "activities" key is dropped. Days without
// that key are left untouched, so the upgrade can be applied any number of
// times.
//
// The boolean result reports whether anything changed.
func UpgradeLegacyDays(raw []byte) ([]byte, bool, error) {
	if len(raw) == 0 {
		return raw, false, nil
	}

	var days []json.RawMessage
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, false, fmt.Errorf("itinerary.UpgradeLegacyDays: %w", err)
	}

	changed := false
	for i, d := range days {
		var ld legacyDay
		if err := json.Unmarshal(d, &ld); err != nil {
			return nil, false, fmt.Errorf("itinerary.UpgradeLegacyDays: day %d: %w", i, err)
		}
		if ld.Activities == nil {
			continue
		}

		upgraded, err := json.Marshal(ld.toDaySchedule())
		if err != nil {
			return nil, false, fmt.Errorf("itinerary.UpgradeLegacyDays: day %d: %w", i, err)
		}
		days[i] = upgraded
		changed = true
	}

	if !changed {
		return raw, false, nil
	}
	out, err := json.Marshal(days)
	if err != nil {
		return nil, false, fmt.Errorf("itinerary.UpgradeLegacyDays: %w", err)
	}
	return out, true, nil
}

func (ld legacyDay) toDaySchedule() domain.DaySchedule {
	slots := append([]domain.Slot{}, ld.Slots...)
	if len(ld.Activities) == 0 {
		return domain.DaySchedule{Date: ld.Date, City: ld.City, Slots: slots}
	}

	places := make([]domain.Activity, 0, len(ld.Activities))
	var starts, ends []string
	for _, la := range ld.Activities {
		places = append(places, la.toActivity())
		if la.StartTime != nil && *la.StartTime != "" {
			starts = append(starts, *la.StartTime)
		}
		if la.EndTime != nil && *la.EndTime != "" {
			ends = append(ends, *la.EndTime)
		}
	}

	slot := domain.Slot{Label: LegacySlotLabel, Places: places}
	// Zero-padded HH:mm strings sort chronologically.
	if len(starts) > 0 && len(ends) > 0 {
		slot.Window = []string{slices.Min(starts), slices.Max(ends)}
	}

	return domain.DaySchedule{
		Date:  ld.Date,
		City:  ld.City,
		Slots: append(slots, slot),
	}
}

func (la legacyActivity) toActivity() domain.Activity {
	id := la.Place.PlaceID
	if id == "" {
		id = la.ID
	}
	return domain.Activity{
		ID:       id,
		Name:     la.Place.Name,
		Rating:   la.Place.Rating,
		Reviews:  la.Place.UserRatingsTotal,
		Address:  la.Place.Address,
		OpenText: la.Place.OpenStatusText,
		Lat:      la.Place.Lat,
		Lng:      la.Place.Lng,
	}
}
