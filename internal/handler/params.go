package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// pathParam binds a required simple-style path parameter.
func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return v, nil
}

// pathParams binds several path parameters in order. On failure it writes a
// 400 and returns ok=false.
func pathParams(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	out := make([]string, len(names))
	for i, name := range names {
		v, err := pathParam(r, name)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// paginationParams binds the optional ?page= and ?limit= query parameters.
func paginationParams(r *http.Request) (domain.PaginationParams, error) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("invalid format for parameter page: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	return domain.NewPaginationParams(page, limit), nil
}

// boolQuery binds an optional boolean query parameter, returning def when it
// is absent.
func boolQuery(r *http.Request, name string, def bool) (bool, error) {
	var v *bool
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return false, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}
