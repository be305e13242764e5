package domain

import "math"

// Pagination defaults applied when a caller leaves page parameters unset.
const (
	DefaultPageSize = 15
	MaxPageSize     = 100
)

// PageRequest selects one page of a listing. Number is 1-based.
type PageRequest struct {
	Number int
	Size   int
}

// Normalize fills unset or out-of-range values: Number defaults to 1,
// Size defaults to defaultSize and is capped at maxSize. Number is capped so
// that Offset cannot overflow.
func (r PageRequest) Normalize(defaultSize, maxSize int) PageRequest {
	if r.Number < 1 {
		r.Number = 1
	}
	if r.Size < 1 {
		r.Size = defaultSize
	}
	if maxSize > 0 && r.Size > maxSize {
		r.Size = maxSize
	}
	if r.Number > math.MaxInt/r.Size {
		r.Number = math.MaxInt / r.Size
	}
	return r
}

// Offset returns the number of rows to skip for this page.
func (r PageRequest) Offset() int {
	if r.Number < 1 {
		return 0
	}
	return (r.Number - 1) * r.Size
}

// Page is one page of results along with the metadata needed to walk the rest.
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int
}

// NewPage builds a Page. A nil items slice is replaced with an empty one.
func NewPage[T any](items []T, req PageRequest, total int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:  items,
		Number: req.Number,
		Size:   req.Size,
		Total:  total,
	}
}

// LastPage returns the number of the last page, which is at least 1.
func (p *Page[T]) LastPage() int {
	if p.Size < 1 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}
