package handler

import (
	"net/http"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// PreviewToken is the body returned by POST /previews.
type PreviewToken struct {
	Token string `json:"token"`
}

const previewNotFound = "preview not found or already consumed"

// CreatePreview handles POST /previews.
func (s *Server) CreatePreview(w http.ResponseWriter, r *http.Request) {
	var form domain.TripForm
	if !decodeBody(w, r, &form) {
		return
	}

	token, err := s.previews.SetTripFormForPreview(r.Context(), form)
	if err != nil {
		s.writeError(w, r, err, previewNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, PreviewToken{Token: token})
}

// GetPreview handles GET /previews/{token}.
// With ?consume=true the form is handed over exactly once.
func (s *Server) GetPreview(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "token")
	if !ok {
		return
	}
	consume, err := boolQuery(r, "consume", false)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	form, err := s.previews.GetTripFormForPreview(r.Context(), params[0], consume)
	if err != nil {
		s.writeError(w, r, err, previewNotFound)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// UpdatePreview handles PUT /previews/{token}.
func (s *Server) UpdatePreview(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "token")
	if !ok {
		return
	}
	var form domain.TripForm
	if !decodeBody(w, r, &form) {
		return
	}

	if err := s.previews.UpdateTripFormForPreview(r.Context(), params[0], form); err != nil {
		s.writeError(w, r, err, previewNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearPreview handles DELETE /previews/{token}.
func (s *Server) ClearPreview(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "token")
	if !ok {
		return
	}

	if err := s.previews.ClearTripFormForPreview(r.Context(), params[0]); err != nil {
		s.writeError(w, r, err, previewNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
