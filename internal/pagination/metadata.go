package pagination

// PaginationMeta contains metadata about paginated results.
//
//nolint:revive // PaginationMeta is the canonical name for this exported type.
type PaginationMeta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewPaginationMeta creates pagination metadata for page of totalCount items.
// A non-positive page size treats the whole set as a single page.
func NewPaginationMeta(page, pageSize, totalCount int) PaginationMeta {
	if pageSize <= 0 {
		pageSize = max(totalCount, 1)
	}
	if page < 1 {
		page = 1
	}

	totalPages := TotalPages(totalCount, pageSize)

	return PaginationMeta{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalCount,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
}

// FromParams builds metadata from CLI flags, converting offset to a page
// number when offset-based pagination is in use. In offset mode the page size
// is Limit, so the metadata describes the slice Apply returns.
func FromParams(params PaginationParams, totalCount int) PaginationMeta {
	pageSize := params.PageSize
	if params.IsOffsetBased() {
		pageSize = params.Limit
	}

	currentPage := params.Page
	if currentPage == 0 && params.Offset > 0 && pageSize > 0 {
		currentPage = (params.Offset / pageSize) + 1
	}

	return NewPaginationMeta(currentPage, pageSize, totalCount)
}
