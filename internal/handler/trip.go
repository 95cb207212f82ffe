package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// GenerateTripRequest is the body of POST /trips/generate.
type GenerateTripRequest struct {
	UserID string          `json:"user_id"`
	Form   domain.TripForm `json:"form"`
}

// AddMembersRequest is the body of POST /trips/{id}/members.
type AddMembersRequest struct {
	Members []domain.User `json:"members"`
}

// TripList is a page of trips.
type TripList struct {
	Data       []domain.Trip `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// Pagination describes the page returned in a TripList.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ExploreResponse is the body of GET /explore.
type ExploreResponse struct {
	Data []domain.Trip `json:"data"`
}

// GenerateTrip handles POST /trips/generate.
// The generated trip is returned but not saved.
func (s *Server) GenerateTrip(w http.ResponseWriter, r *http.Request) {
	var req GenerateTripRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// The recommender has no deadline of its own; the client disconnecting
	// is what ends the call.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	trip, err := s.trips.CreateTrip(r.Context(), req.Form, req.UserID)
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// SaveTrip handles PUT /trips/{id}. The body is the whole trip; a body
// without an id takes the id from the path.
func (s *Server) SaveTrip(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}
	var trip domain.Trip
	if !decodeBody(w, r, &trip) {
		return
	}
	if trip.ID == "" {
		trip.ID = params[0]
	}
	if trip.ID != params[0] {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code: "validation_error", Message: "body id does not match path id",
		}})
		return
	}

	saved, err := s.trips.SaveTrip(r.Context(), trip)
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}

	trip, err := s.trips.GetTripDetail(r.Context(), params[0])
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}

	if err := s.trips.DeleteTrip(r.Context(), params[0]); err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddMembers handles POST /trips/{id}/members.
func (s *Server) AddMembers(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}
	var req AddMembersRequest
	if !decodeBody(w, r, &req) {
		return
	}

	trip, err := s.trips.AddMembers(r.Context(), params[0], req.Members)
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// ListPublicTrips handles GET /trips/public.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListPublicTrips(w http.ResponseWriter, r *http.Request) {
	p, err := paginationParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	trips, err := s.trips.GetPublicTrips(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, page(trips, p))
}

// ListMyTrips handles GET /users/{userID}/trips.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListMyTrips(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "userID")
	if !ok {
		return
	}
	p, err := paginationParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	trips, err := s.trips.GetMyTrips(r.Context(), params[0])
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, page(trips, p))
}

// GetStats handles GET /users/{userID}/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "userID")
	if !ok {
		return
	}

	stats, err := s.trips.GetTripStatsFor(r.Context(), params[0])
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Explore handles GET /explore.
func (s *Server) Explore(w http.ResponseWriter, r *http.Request) {
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	trips, err := s.trips.FetchGeneralRecommendations(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	writeJSON(w, http.StatusOK, ExploreResponse{Data: trips})
}

// page slices an already loaded list. Total is the full list length.
func page(trips []domain.Trip, p domain.PaginationParams) TripList {
	data := domain.Paginate(trips, p)
	if data == nil {
		data = []domain.Trip{}
	}
	return TripList{
		Data: data,
		Pagination: Pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: len(trips),
		},
	}
}
