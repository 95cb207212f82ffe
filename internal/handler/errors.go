package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the message because the handler is the layer that
// knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure.
func validationBody(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)}}
}

// requestBody returns an ErrorResponse for a request rejected before it
// reached the service layer (bad parameter, malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "bad_request", Message: message}}
}

// unwrapMessage extracts the human-readable part from a wrapped
// domain.ErrValidation.
// e.g. "service.TripService.CreateTrip: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if _, rest, ok := strings.Cut(msg, domain.ErrValidation.Error()+": "); ok {
		return rest
	}
	return msg
}

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status code and error body. notFound is the
// message used when err is domain.ErrNotFound. Unexpected errors are logged
// and reported as a bare 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(notFound))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrNotImplemented):
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: ErrorDetail{
			Code: "not_implemented", Message: err.Error(),
		}})
	case errors.Is(err, domain.ErrRemote):
		s.logger.WarnContext(r.Context(), "recommender call failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: ErrorDetail{
			Code: "remote_error", Message: "the recommender is unavailable or rejected the request",
		}})
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code: "internal_error", Message: "internal server error",
		}})
	}
}

// decodeBody decodes the JSON request body into dst. On failure it writes the
// error response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeJSON(w, http.StatusBadRequest, requestBody("request body is required"))
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{
				Code: "request_too_large", Message: "request body too large",
			}})
			return false
		}
		writeJSON(w, http.StatusBadRequest, requestBody("malformed request body: "+err.Error()))
		return false
	}
	return true
}
