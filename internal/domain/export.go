package domain

// ExportRow is a single row in a trip's itinerary export.
// It is a flat, denormalized view: one row per activity, with trip, day and
// slot fields repeated for every activity. A day with no activities yields one
// row with zero values for the slot and activity fields.
//
// Types is copied from the activity. Callers that need a joined string (e.g.
// CSV) should join with "|".
type ExportRow struct {
	TripID   string `json:"trip_id"`
	TripName string `json:"trip_name"`

	// Day is 1-based. Date is the day's yyyy-MM-dd date.
	Day  int    `json:"day"`
	Date string `json:"date"`
	City string `json:"city,omitempty"`

	SlotLabel string `json:"slot_label,omitempty"`
	SlotStart string `json:"slot_start,omitempty"`
	SlotEnd   string `json:"slot_end,omitempty"`

	ActivityID   string   `json:"activity_id,omitempty"`
	ActivityName string   `json:"activity_name,omitempty"`
	Address      string   `json:"address,omitempty"`
	StayMinutes  *int     `json:"stay_minutes,omitempty"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Types        []string `json:"types,omitempty"`
}

// ExportRows flattens t into rows in day, slot, activity order.
func (t Trip) ExportRows() []ExportRow {
	rows := make([]ExportRow, 0, t.ActivityCount()+len(t.Days))
	for i, d := range t.Days {
		base := ExportRow{
			TripID:   t.ID,
			TripName: t.Name,
			Day:      i + 1,
			Date:     d.Date,
		}
		if d.City != nil {
			base.City = *d.City
		}

		emitted := false
		for _, s := range d.Slots {
			slot := base
			slot.SlotLabel = s.Label
			if len(s.Window) == 2 {
				slot.SlotStart, slot.SlotEnd = s.Window[0], s.Window[1]
			}
			for _, a := range s.Places {
				row := slot
				row.ActivityID = a.ID
				row.ActivityName = a.Name
				if a.Address != nil {
					row.Address = *a.Address
				}
				row.StayMinutes = clonePtr(a.StayMinutes)
				row.Lat, row.Lng = a.Lat, a.Lng
				row.Types = cloneStrings(a.Types)
				rows = append(rows, row)
				emitted = true
			}
		}
		if !emitted {
			rows = append(rows, base)
		}
	}
	return rows
}
