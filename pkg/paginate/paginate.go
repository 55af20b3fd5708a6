// Package paginate slices ordered result sets into pages.
package paginate

// DefaultPageSize is used when a page size below 1 is requested.
const DefaultPageSize = 24

// Page is one page of an ordered result set
type Page[T any] struct {
	Items      []T `json:"items" yaml:"items"`
	Page       int `json:"page" yaml:"page"`
	PageSize   int `json:"page_size" yaml:"page_size"`
	TotalPages int `json:"total_pages" yaml:"total_pages"`
	TotalItems int `json:"total_items" yaml:"total_items"`
}

// TotalPages returns ceil(n/pageSize), never less than 1.
func TotalPages(n, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage moves page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns the requested page of items. Out-of-range pages are
// clamped; the returned Page reports the page actually served.
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := TotalPages(len(items), pageSize)
	page = ClampPage(page, total)

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	pageItems := make([]T, 0, end-start)
	if start < end {
		pageItems = append(pageItems, items[start:end]...)
	}

	return Page[T]{
		Items:      pageItems,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: total,
		TotalItems: len(items),
	}
}
