// Package paginate windows a ranked result slice into fixed-size pages.
// Pages are views into the backing slice; nothing is copied and page
// access is O(1).
package paginate

// DefaultPageSize matches the display capacity of the results table.
const DefaultPageSize = 500

// Pages windows a slice of T into fixed-size pages.
type Pages[T any] struct {
	items    []T
	pageSize int
}

// New wraps items with the given page size. A non-positive size falls
// back to DefaultPageSize.
func New[T any](items []T, pageSize int) *Pages[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pages[T]{items: items, pageSize: pageSize}
}

// Page returns the zero-based page n as a subslice of the backing items.
// Out-of-range pages return an empty slice. Callers must not mutate the
// returned slice.
func (p *Pages[T]) Page(n int) []T {
	if n < 0 || n >= p.PageCount() {
		return nil
	}
	lo := n * p.pageSize
	hi := lo + p.pageSize
	if hi > len(p.items) {
		hi = len(p.items)
	}
	return p.items[lo:hi]
}

// PageCount is the number of pages needed to cover every item. An empty
// result set has zero pages.
func (p *Pages[T]) PageCount() int {
	if len(p.items) == 0 {
		return 0
	}
	return (len(p.items) + p.pageSize - 1) / p.pageSize
}

// Len is the total number of items across all pages.
func (p *Pages[T]) Len() int {
	return len(p.items)
}

// PageSize is the configured page capacity.
func (p *Pages[T]) PageSize() int {
	return p.pageSize
}

// Replace swaps in a new result set, resetting the window to cover it.
func (p *Pages[T]) Replace(items []T) {
	p.items = items
}

// Bounds reports the half-open item range [lo, hi) covered by page n, for
// rendering "showing X-Y of Z" style captions.
func (p *Pages[T]) Bounds(n int) (lo, hi int) {
	if n < 0 || n >= p.PageCount() {
		return 0, 0
	}
	lo = n * p.pageSize
	hi = lo + p.pageSize
	if hi > len(p.items) {
		hi = len(p.items)
	}
	return lo, hi
}
