package handler

import (
	"net/http"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/itinerary"
)

// AddActivityRequest is the body of POST /trips/{id}/activities.
type AddActivityRequest struct {
	itinerary.SlotRef
	Activity domain.Activity `json:"activity"`
}

const activityNotFound = "trip or activity not found"

// AddActivity handles POST /trips/{id}/activities.
func (s *Server) AddActivity(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}
	var req AddActivityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	trip, err := s.activities.AddActivity(r.Context(), params[0], req.SlotRef, req.Activity)
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// UpdateActivity handles PUT /trips/{id}/activities/{activityID}.
// The body is the whole activity; a body without an id takes the one from
// the path.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id", "activityID")
	if !ok {
		return
	}
	var act domain.Activity
	if !decodeBody(w, r, &act) {
		return
	}
	if act.ID == "" {
		act.ID = params[1]
	}
	if act.ID != params[1] {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code: "validation_error", Message: "body place_id does not match path activity id",
		}})
		return
	}

	trip, err := s.activities.UpdateActivity(r.Context(), params[0], act)
	if err != nil {
		s.writeError(w, r, err, activityNotFound)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// RemoveActivity handles DELETE /trips/{id}/activities/{activityID}.
func (s *Server) RemoveActivity(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id", "activityID")
	if !ok {
		return
	}

	trip, err := s.activities.RemoveActivity(r.Context(), params[0], params[1])
	if err != nil {
		s.writeError(w, r, err, activityNotFound)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// ReplaceActivity handles POST /trips/{id}/activities/{activityID}/replace.
// The body is the replacement activity.
func (s *Server) ReplaceActivity(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id", "activityID")
	if !ok {
		return
	}
	var act domain.Activity
	if !decodeBody(w, r, &act) {
		return
	}

	trip, err := s.activities.ReplaceActivityInTrip(r.Context(), params[0], params[1], act)
	if err != nil {
		s.writeError(w, r, err, activityNotFound)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// MoveActivity handles POST /trips/{id}/activities/{activityID}/move.
// The body is the target {day_index, slot_index}.
func (s *Server) MoveActivity(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id", "activityID")
	if !ok {
		return
	}
	var to itinerary.SlotRef
	if !decodeBody(w, r, &to) {
		return
	}

	trip, err := s.activities.MoveActivity(r.Context(), params[0], params[1], to)
	if err != nil {
		s.writeError(w, r, err, activityNotFound)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}
