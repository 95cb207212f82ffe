package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "day", "date", "city",
	"slot_label", "slot_start", "slot_end",
	"activity_id", "activity_name", "address", "stay_minutes",
	"lat", "lng", "types",
}

// ExportTrip handles GET /trips/{id}/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}
	wantCSV, ok := exportFormat(w, r)
	if !ok {
		return
	}

	rows, err := s.exports.ExportTrip(r.Context(), params[0])
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeExport(w, rows, wantCSV, params[0])
}

// ExportMyTrips handles GET /users/{userID}/export.
func (s *Server) ExportMyTrips(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "userID")
	if !ok {
		return
	}
	wantCSV, ok := exportFormat(w, r)
	if !ok {
		return
	}

	rows, err := s.exports.ExportMyTrips(r.Context(), params[0])
	if err != nil {
		s.writeError(w, r, err, "user not found")
		return
	}
	writeExport(w, rows, wantCSV, "trips-"+params[0])
}

// exportFormat reads ?format. It reports false after writing a 400.
func exportFormat(w http.ResponseWriter, r *http.Request) (wantCSV, ok bool) {
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(fmt.Sprintf("invalid format for parameter format: %s", err)))
		return false, false
	}
	if format == nil {
		return false, true
	}
	switch *format {
	case "json":
		return false, true
	case "csv":
		return true, true
	default:
		writeJSON(w, http.StatusBadRequest, requestBody("format must be json or csv"))
		return false, false
	}
}

func writeExport(w http.ResponseWriter, rows []domain.ExportRow, wantCSV bool, name string) {
	if !wantCSV {
		if rows == nil {
			rows = []domain.ExportRow{}
		}
		writeJSON(w, http.StatusOK, rows)
		return
	}

	body := buildCSV(rows)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}

// buildCSV encodes rows as CSV. Types within a row are pipe-separated ("|")
// to keep each activity on a single CSV line.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(csvRecord(r))
	}
	w.Flush()
	return &buf
}

// csvRecord encodes a row as a flat string slice. Absent values are empty.
func csvRecord(r domain.ExportRow) []string {
	stay := ""
	if r.StayMinutes != nil {
		stay = strconv.Itoa(*r.StayMinutes)
	}
	lat, lng := "", ""
	if r.ActivityID != "" || r.ActivityName != "" {
		lat = strconv.FormatFloat(r.Lat, 'f', -1, 64)
		lng = strconv.FormatFloat(r.Lng, 'f', -1, 64)
	}
	return []string{
		r.TripID,
		r.TripName,
		strconv.Itoa(r.Day),
		r.Date,
		r.City,
		r.SlotLabel,
		r.SlotStart,
		r.SlotEnd,
		r.ActivityID,
		r.ActivityName,
		r.Address,
		stay,
		lat,
		lng,
		strings.Join(r.Types, "|"),
	}
}
