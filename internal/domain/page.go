package domain

// PaginationParams carries page/limit values from the HTTP layer to the
// listing handlers. Page is 1-indexed. Limit is capped at 100 by
// NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query params.
// Nil pointers fall back to page=1, limit=20.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > 100 {
			p.Limit = 100
		}
	}
	return p
}

// Offset returns the zero-based index of the first item on the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Bounds returns the half-open [lo, hi) range of the page within a list of
// total items. Pages past the end yield an empty range.
func (p PaginationParams) Bounds(total int) (lo, hi int) {
	lo = min(p.Offset(), total)
	hi = min(lo+p.Limit, total)
	return lo, hi
}

// Paginate returns the page of items selected by p.
func Paginate[T any](items []T, p PaginationParams) []T {
	lo, hi := p.Bounds(len(items))
	return items[lo:hi]
}
