// Package recommend talks to the remote itinerary recommender: it maps a
// TripForm to the recommender's request shape and calls its HTTP endpoints.
package recommend

import (
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// DefaultTransportation is sent when the form lists no transport preference.
const DefaultTransportation = "public"

const dateLayout = "2006-01-02"

// Form is the recommender's view of a TripForm.
type Form struct {
	Locations      []string `json:"locations"`
	Days           int      `json:"days"`
	Preferences    []string `json:"preferences"`
	Exclude        []string `json:"exclude"`
	Transportation string   `json:"transportation"`
	Notes          *string  `json:"notes"`
	TripName       string   `json:"trip_name"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	ActivityStart  *string  `json:"activity_start"`
	ActivityEnd    *string  `json:"activity_end"`
	TotalBudget    *int     `json:"total_budget"`
	AvgAge         string   `json:"avg_age"`
	UseGmapsRating bool     `json:"use_gmaps_rating"`
	Visibility     string   `json:"visibility"`
}

// Request is the body of a recommend call.
type Request struct {
	UserID string `json:"user_id"`
	Form   Form   `json:"form"`
}

// MapForm converts f into the recommender's form. exclude lists places or
// themes to avoid. Neither argument is modified; the result shares no memory
// with them.
func MapForm(f domain.TripForm, exclude []string) Form {
	transportation := DefaultTransportation
	if len(f.TransportPreferences) > 0 {
		transportation = f.TransportPreferences[0]
	}

	avgAge := f.AvgAge
	if avgAge == "" {
		avgAge = domain.AgeBandIgnore
	}
	visibility := f.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}

	return Form{
		Locations:      SplitTerms(f.Locations),
		Days:           DayCount(f.StartDate, f.EndDate),
		Preferences:    nonNil(slices.Clone(f.Styles)),
		Exclude:        nonNil(slices.Clone(exclude)),
		Transportation: transportation,
		Notes:          copyPtr(f.ExtraNote),
		TripName:       f.Name,
		StartDate:      f.StartDate,
		EndDate:        f.EndDate,
		ActivityStart:  copyPtr(f.ActivityStart),
		ActivityEnd:    copyPtr(f.ActivityEnd),
		TotalBudget:    copyPtr(f.TotalBudget),
		AvgAge:         string(avgAge),
		UseGmapsRating: f.UseGmapsRating,
		Visibility:     string(visibility),
	}
}

// DayCount returns the inclusive number of days from start to end
// (yyyy-MM-dd). Unparsable dates count as a single day. An end before the
// start is not clamped; forms are validated before they get here.
func DayCount(start, end string) int {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return 1
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return 1
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// SplitTerms splits free text on ASCII commas, the ideographic comma 、,
// the full-width comma ，, and any whitespace (the ideographic space
// included). Blank tokens are dropped.
func SplitTerms(s string) []string {
	terms := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '、' || r == '，' || unicode.IsSpace(r)
	})
	return nonNil(terms)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
