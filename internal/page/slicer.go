// Package page slices an already-loaded collection into client-side pages.
// Pagination is a pure view over the last-loaded result set; it never
// triggers a refetch.
package page

// Page is one window into a collection plus pagination metadata.
type Page[T any] struct {
	Items   []T
	Total   int
	Page    int
	Pages   int
	HasNext bool
	HasPrev bool
}

// Slice returns the requested page. An empty collection yields Pages = 1 so
// the current page number stays valid; out-of-range page numbers are clamped
// into [1, Pages].
func Slice[T any](items []T, pageNum, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(items)

	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}

	if pageNum < 1 {
		pageNum = 1
	}
	if pageNum > pages {
		pageNum = pages
	}

	start := (pageNum - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:   items[start:end],
		Total:   total,
		Page:    pageNum,
		Pages:   pages,
		HasNext: pageNum < pages,
		HasPrev: pageNum > 1,
	}
}
