package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/middleware"
)

// decodingHandler decodes a JSON object the way the API handlers do and
// answers 413 when MaxBytesReader cut the body short.
var decodingHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	var v map[string]any
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
})

// formBody returns a JSON trip form whose exclude field pads it to about n bytes.
func formBody(n int) string {
	return `{"name":"Kyoto","exclude":"` + strings.Repeat("x", n) + `"}`
}

func TestMaxBodySizeHandler(t *testing.T) {
	const limit = 256

	tests := []struct {
		name          string
		body          string
		contentLength int64 // -1 hides the length from the middleware
		want          int
	}{
		{name: "within limit", body: formBody(64), contentLength: 0, want: http.StatusOK},
		{name: "declared length over limit", body: formBody(512), contentLength: 0, want: http.StatusRequestEntityTooLarge},
		{name: "streamed body over limit", body: formBody(512), contentLength: -1, want: http.StatusRequestEntityTooLarge},
	}

	h := middleware.NewMaxBodySizeHandler(limit)(decodingHandler)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/previews", strings.NewReader(tt.body))
			if tt.contentLength != 0 {
				req.ContentLength = tt.contentLength
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMaxBodySizeHandler_EarlyRejectHasJSONBody(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(10)(decodingHandler)

	req := httptest.NewRequest(http.MethodPost, "/previews", strings.NewReader(formBody(20)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"request_too_large"`)
}

func TestMaxBodySizeHandler_NoBody(t *testing.T) {
	called := false
	h := middleware.NewMaxBodySizeHandler(10)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips/t1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
