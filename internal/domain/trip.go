// Package domain contains the core data types for the trip planner.
// This package has zero external dependencies and is imported by every other
// internal package (itinerary, repo, service, handler).
package domain

// Visibility controls whether a trip appears in the public listing.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// AgeBand is the average-age bracket of the travelling group.
// It travels to the recommender and the store by symbolic name.
type AgeBand string

const (
	AgeBandIgnore  AgeBand = "IGNORE"
	AgeBandUnder17 AgeBand = "UNDER_17"
	AgeBand18To25  AgeBand = "A18_25"
	AgeBand26To35  AgeBand = "A26_35"
	AgeBand36To45  AgeBand = "A36_45"
	AgeBand46To55  AgeBand = "A46_55"
	AgeBand56Plus  AgeBand = "A56_PLUS"
)

// AgeBands lists every known AgeBand in display order.
var AgeBands = []AgeBand{
	AgeBandIgnore, AgeBandUnder17, AgeBand18To25, AgeBand26To35,
	AgeBand36To45, AgeBand46To55, AgeBand56Plus,
}

// Valid reports whether a is one of the known age bands.
func (a AgeBand) Valid() bool {
	for _, known := range AgeBands {
		if a == known {
			return true
		}
	}
	return false
}

// Trip is the itinerary root. It owns its days, slots and activities by value:
// an edit always produces a new Trip rather than mutating a shared one.
//
// ID is globally unique and stable once assigned. Days are ordered by calendar
// date starting at StartDate.
type Trip struct {
	ID                   string        `json:"id"`
	CreatedBy            string        `json:"createdBy"`
	Name                 string        `json:"name"`
	Locations            string        `json:"locations"`
	TotalBudget          *int          `json:"totalBudget"`
	StartDate            *string       `json:"startDate" validate:"omitempty,isodate"`
	EndDate              *string       `json:"endDate" validate:"omitempty,isodate"`
	ActivityStart        *string       `json:"activityStart" validate:"omitempty,hhmm"`
	ActivityEnd          *string       `json:"activityEnd" validate:"omitempty,hhmm"`
	AvgAge               AgeBand       `json:"avgAge" validate:"omitempty,ageband"`
	TransportPreferences []string      `json:"transportPreferences"`
	UseGmapsRating       bool          `json:"useGmapsRating"`
	Styles               []string      `json:"styles"`
	Visibility           Visibility    `json:"visibility" validate:"omitempty,visibility"`
	Members              []User        `json:"members" validate:"dive"`
	Days                 []DaySchedule `json:"days" validate:"dive"`
}

// DaySchedule is one calendar day of a trip. Date is canonical yyyy-MM-dd.
// Slots are time-ordered by convention only.
type DaySchedule struct {
	Date  string  `json:"date" validate:"isodate"`
	City  *string `json:"city,omitempty"`
	Slots []Slot  `json:"slots" validate:"dive"`
}

// Slot is a labelled time window within a day (e.g. "上午", "morning").
// Window holds exactly two "HH:mm" strings (start, end) when present.
//
// The validate tags are read by internal/validation when a trip is written.
type Slot struct {
	Label  string     `json:"label"`
	Window []string   `json:"window" validate:"omitempty,len=2,dive,hhmm"`
	Places []Activity `json:"places" validate:"dive"`
}

// Activity is a point of interest scheduled inside a slot.
// ID is only unique within its trip, and even that is not enforced for
// itineraries produced by the recommender.
type Activity struct {
	ID             string   `json:"place_id"`
	Name           string   `json:"name"`
	Category       *string  `json:"category,omitempty"`
	StayMinutes    *int     `json:"stay_minutes,omitempty" validate:"omitempty,gte=0"`
	Rating         *float64 `json:"rating,omitempty"`
	Reviews        *int     `json:"reviews,omitempty"`
	Address        *string  `json:"address,omitempty"`
	MapURL         *string  `json:"map_url,omitempty"`
	OpenText       *string  `json:"open_text,omitempty"`
	Types          []string `json:"types,omitempty"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	FromPrevLegMin *int     `json:"_from_prev_leg_min,omitempty"`
}

// User is a trip member reference as stored inside a trip.
type User struct {
	ID        string   `json:"id" validate:"notblank"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	AvatarURL *string  `json:"avatarUrl,omitempty"`
	Friends   []string `json:"friends,omitempty"`
}

// TripStats summarises a user's involvement across cached trips.
type TripStats struct {
	Created       int `json:"created"`
	Participating int `json:"participating"`
}

// ActivityCount returns the number of activities across all days and slots.
func (t Trip) ActivityCount() int {
	n := 0
	for _, d := range t.Days {
		for _, s := range d.Slots {
			n += len(s.Places)
		}
	}
	return n
}

// HasMember reports whether userID is listed in the trip's members.
func (t Trip) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
