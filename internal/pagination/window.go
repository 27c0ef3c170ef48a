package pagination

// DefaultMaxVisiblePages is the width of the page-number window.
const DefaultMaxVisiblePages = 5

// windowCenterDivisor places the current page in the middle of the window.
const windowCenterDivisor = 2

// Window is the contiguous range of page numbers rendered as controls.
// An empty window has StartPage and EndPage both 0.
type Window struct {
	StartPage  int `json:"start_page"  yaml:"start_page"`
	EndPage    int `json:"end_page"    yaml:"end_page"`
	TotalPages int `json:"total_pages" yaml:"total_pages"`
}

// Empty reports whether no page controls should be rendered.
func (w Window) Empty() bool {
	return w.StartPage == 0 || w.EndPage < w.StartPage
}

// Pages lists the page numbers in the window, in order.
func (w Window) Pages() []int {
	if w.Empty() {
		return nil
	}
	pages := make([]int, 0, w.EndPage-w.StartPage+1)
	for p := w.StartPage; p <= w.EndPage; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Contains reports whether page is one of the window's controls.
func (w Window) Contains(page int) bool {
	return !w.Empty() && page >= w.StartPage && page <= w.EndPage
}

// TotalPages returns ceil(totalItems/pageSize), or 0 when either is not positive.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	pages := totalItems / pageSize
	if totalItems%pageSize > 0 {
		pages++
	}
	return pages
}

// PageWindow computes the page-number controls for currentPage.
//
// The window is maxVisible pages wide and centered on currentPage. When it
// would run past the last page it is shifted left instead of shrinking. With
// one page or fewer the window is empty. A maxVisible below 1 falls back to
// DefaultMaxVisiblePages.
func PageWindow(totalItems, pageSize, currentPage, maxVisible int) Window {
	if maxVisible < 1 {
		maxVisible = DefaultMaxVisiblePages
	}

	total := TotalPages(totalItems, pageSize)
	if total <= 1 {
		return Window{TotalPages: total}
	}

	start := max(1, currentPage-maxVisible/windowCenterDivisor)
	end := min(total, start+maxVisible-1)
	if end-start+1 < maxVisible {
		start = max(1, end-maxVisible+1)
	}

	return Window{StartPage: start, EndPage: end, TotalPages: total}
}

// VisibleSlice returns items[(page-1)*pageSize : page*pageSize], clipped to
// the slice. Pages outside the result set, and page sizes below 1, yield an
// empty slice. The returned slice shares the backing array of items.
func VisibleSlice[T any](items []T, page, pageSize int) []T {
	if pageSize < 1 || page < 1 || page > TotalPages(len(items), pageSize) {
		return []T{}
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	return items[start:end]
}

// ClampPage pins page into [1, TotalPages(totalItems, pageSize)].
// It returns 1 when there are no pages.
func ClampPage(page, totalItems, pageSize int) int {
	total := TotalPages(totalItems, pageSize)
	switch {
	case total == 0 || page < 1:
		return 1
	case page > total:
		return total
	default:
		return page
	}
}
