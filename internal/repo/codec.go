package repo

import (
	"encoding/json"
	"fmt"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// tripColumns is the column list every query selects, in scan order.
const tripColumns = `id, created_by, name, locations, total_budget, start_date, end_date,
	activity_start, activity_end, avg_age, transport_preferences, use_gmaps_rating,
	styles, visibility, members, days`

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// tripRow is the flat persisted form of a Trip. Lists, members and days are
// JSON text; the rating flag is an integer 0/1.
type tripRow struct {
	ID                   string
	CreatedBy            string
	Name                 string
	Locations            string
	TotalBudget          *int
	StartDate            *string
	EndDate              *string
	ActivityStart        *string
	ActivityEnd          *string
	AvgAge               string
	TransportPreferences string
	UseGmapsRating       int
	Styles               string
	Visibility           string
	Members              string
	Days                 string
}

// encodeTrip flattens t into a row. A blank age band or visibility is stored
// as IGNORE or PRIVATE respectively.
func encodeTrip(t domain.Trip) (tripRow, error) {
	row := tripRow{
		ID:            t.ID,
		CreatedBy:     t.CreatedBy,
		Name:          t.Name,
		Locations:     t.Locations,
		TotalBudget:   t.TotalBudget,
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		ActivityStart: t.ActivityStart,
		ActivityEnd:   t.ActivityEnd,
		AvgAge:        string(t.AvgAge),
		Visibility:    string(t.Visibility),
	}
	if row.AvgAge == "" {
		row.AvgAge = string(domain.AgeBandIgnore)
	}
	if row.Visibility == "" {
		row.Visibility = string(domain.VisibilityPrivate)
	}
	if t.UseGmapsRating {
		row.UseGmapsRating = 1
	}

	var err error
	if row.TransportPreferences, err = encodeList(t.TransportPreferences); err != nil {
		return tripRow{}, fmt.Errorf("encode transport_preferences: %w", err)
	}
	if row.Styles, err = encodeList(t.Styles); err != nil {
		return tripRow{}, fmt.Errorf("encode styles: %w", err)
	}
	if row.Members, err = encodeList(t.Members); err != nil {
		return tripRow{}, fmt.Errorf("encode members: %w", err)
	}
	if row.Days, err = encodeList(t.Days); err != nil {
		return tripRow{}, fmt.Errorf("encode days: %w", err)
	}
	return row, nil
}

// args returns the row keyed by column name for @name placeholders.
func (r tripRow) args() map[string]any {
	return map[string]any{
		"id":                    r.ID,
		"created_by":            r.CreatedBy,
		"name":                  r.Name,
		"locations":             r.Locations,
		"total_budget":          r.TotalBudget,
		"start_date":            r.StartDate,
		"end_date":              r.EndDate,
		"activity_start":        r.ActivityStart,
		"activity_end":          r.ActivityEnd,
		"avg_age":               r.AvgAge,
		"transport_preferences": r.TransportPreferences,
		"use_gmaps_rating":      r.UseGmapsRating,
		"styles":                r.Styles,
		"visibility":            r.Visibility,
		"members":               r.Members,
		"days":                  r.Days,
	}
}

// dest returns scan targets in tripColumns order.
func (r *tripRow) dest() []any {
	return []any{
		&r.ID, &r.CreatedBy, &r.Name, &r.Locations, &r.TotalBudget, &r.StartDate, &r.EndDate,
		&r.ActivityStart, &r.ActivityEnd, &r.AvgAge, &r.TransportPreferences, &r.UseGmapsRating,
		&r.Styles, &r.Visibility, &r.Members, &r.Days,
	}
}

func (r tripRow) decode() (domain.Trip, error) {
	t := domain.Trip{
		ID:             r.ID,
		CreatedBy:      r.CreatedBy,
		Name:           r.Name,
		Locations:      r.Locations,
		TotalBudget:    r.TotalBudget,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		ActivityStart:  r.ActivityStart,
		ActivityEnd:    r.ActivityEnd,
		AvgAge:         domain.AgeBand(r.AvgAge),
		UseGmapsRating: r.UseGmapsRating != 0,
		Visibility:     domain.Visibility(r.Visibility),
	}
	if err := decodeList(r.TransportPreferences, &t.TransportPreferences); err != nil {
		return domain.Trip{}, fmt.Errorf("decode transport_preferences: %w", err)
	}
	if err := decodeList(r.Styles, &t.Styles); err != nil {
		return domain.Trip{}, fmt.Errorf("decode styles: %w", err)
	}
	if err := decodeList(r.Members, &t.Members); err != nil {
		return domain.Trip{}, fmt.Errorf("decode members: %w", err)
	}
	if err := decodeList(r.Days, &t.Days); err != nil {
		return domain.Trip{}, fmt.Errorf("decode days: %w", err)
	}
	return t, nil
}

// encodeList serializes a slice, storing nil as an empty JSON array.
func encodeList[T any](v []T) (string, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList[T any](s string, dst *[]T) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}
