package domain

// TripForm captures the preferences a user enters before asking the
// recommender for an itinerary. It is never persisted.
//
// The validate tags are read by internal/validation; cross-field rules
// (date order, paired activity times) are registered there as well.
type TripForm struct {
	Name                 string     `json:"name" validate:"required,notblank,max=50"`
	Locations            string     `json:"locations" validate:"required,notblank"`
	TotalBudget          *int       `json:"total_budget,omitempty" validate:"omitempty,gte=0"`
	StartDate            string     `json:"start_date" validate:"required,isodate"`
	EndDate              string     `json:"end_date" validate:"required,isodate"`
	ActivityStart        *string    `json:"activity_start,omitempty" validate:"omitempty,hhmm"`
	ActivityEnd          *string    `json:"activity_end,omitempty" validate:"omitempty,hhmm"`
	TransportPreferences []string   `json:"transport_preferences,omitempty"`
	UseGmapsRating       bool       `json:"use_gmaps_rating"`
	Styles               []string   `json:"styles,omitempty"`
	AvgAge               AgeBand    `json:"avg_age" validate:"omitempty,ageband"`
	Visibility           Visibility `json:"visibility" validate:"omitempty,visibility"`
	ExtraNote            *string    `json:"extra_note,omitempty" validate:"omitempty,max=200"`
	// Exclude is free text of places or themes to avoid, separated like Locations.
	Exclude string `json:"exclude,omitempty"`
}

// Clone returns a deep copy of f.
func (f TripForm) Clone() TripForm {
	out := f
	out.TotalBudget = clonePtr(f.TotalBudget)
	out.ActivityStart = clonePtr(f.ActivityStart)
	out.ActivityEnd = clonePtr(f.ActivityEnd)
	out.ExtraNote = clonePtr(f.ExtraNote)
	out.TransportPreferences = cloneStrings(f.TransportPreferences)
	out.Styles = cloneStrings(f.Styles)
	return out
}
