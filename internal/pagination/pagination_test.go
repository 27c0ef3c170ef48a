package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/rshade/bookcat/internal/book"
)

func seq(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		pageSize    int
		current     int
		maxVisible  int
		wantPages   []int
		wantTotal   int
		wantIsEmpty bool
	}{
		{
			name:        "no items",
			total:       0,
			pageSize:    8,
			current:     1,
			maxVisible:  5,
			wantTotal:   0,
			wantIsEmpty: true,
		},
		{
			name:        "single page",
			total:       5,
			pageSize:    5,
			current:     1,
			maxVisible:  5,
			wantTotal:   1,
			wantIsEmpty: true,
		},
		{
			name:       "fewer pages than window",
			total:      23,
			pageSize:   8,
			current:    1,
			maxVisible: 5,
			wantPages:  []int{1, 2, 3},
			wantTotal:  3,
		},
		{
			name:       "centered on current page",
			total:      100,
			pageSize:   5,
			current:    10,
			maxVisible: 5,
			wantPages:  []int{8, 9, 10, 11, 12},
			wantTotal:  20,
		},
		{
			name:       "left clamped",
			total:      100,
			pageSize:   5,
			current:    1,
			maxVisible: 5,
			wantPages:  []int{1, 2, 3, 4, 5},
			wantTotal:  20,
		},
		{
			name:       "right edge shifts window left",
			total:      100,
			pageSize:   5,
			current:    20,
			maxVisible: 5,
			wantPages:  []int{16, 17, 18, 19, 20},
			wantTotal:  20,
		},
		{
			name:       "one before last",
			total:      100,
			pageSize:   5,
			current:    19,
			maxVisible: 5,
			wantPages:  []int{16, 17, 18, 19, 20},
			wantTotal:  20,
		},
		{
			name:       "even window width",
			total:      100,
			pageSize:   10,
			current:    5,
			maxVisible: 4,
			wantPages:  []int{3, 4, 5, 6},
			wantTotal:  10,
		},
		{
			name:       "invalid max falls back to default",
			total:      100,
			pageSize:   5,
			current:    10,
			maxVisible: 0,
			wantPages:  []int{8, 9, 10, 11, 12},
			wantTotal:  20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := PageWindow(tt.total, tt.pageSize, tt.current, tt.maxVisible)
			assert.Equal(t, tt.wantTotal, w.TotalPages)
			assert.Equal(t, tt.wantIsEmpty, w.Empty())
			assert.Equal(t, tt.wantPages, w.Pages())
		})
	}
}

func TestWindow_Contains(t *testing.T) {
	w := PageWindow(100, 5, 10, 5)
	assert.True(t, w.Contains(8))
	assert.True(t, w.Contains(12))
	assert.False(t, w.Contains(7))
	assert.False(t, Window{}.Contains(1))
}

func TestVisibleSlice(t *testing.T) {
	items := seq(10)

	tests := []struct {
		name     string
		page     int
		pageSize int
		want     []int
	}{
		{"first page", 1, 3, []int{0, 1, 2}},
		{"second page", 2, 3, []int{3, 4, 5}},
		{"partial last page", 4, 3, []int{9}},
		{"past the end", 5, 3, []int{}},
		{"far past the end", 1 << 40, 3, []int{}},
		{"page zero", 0, 3, []int{}},
		{"negative page", -1, 3, []int{}},
		{"zero page size", 1, 0, []int{}},
		{"page larger than set", 1, 50, seq(10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VisibleSlice(items, tt.page, tt.pageSize))
		})
	}

	t.Run("empty set", func(t *testing.T) {
		assert.Empty(t, VisibleSlice([]int{}, 1, 5))
		assert.Empty(t, VisibleSlice[int](nil, 1, 5))
	})
}

// TestVisibleSlice_Partitions checks that the pages of any set are disjoint
// and concatenate back to the original order.
func TestVisibleSlice_Partitions(t *testing.T) {
	for n := 0; n <= 40; n++ {
		items := seq(n)
		for size := 1; size <= 12; size++ {
			total := TotalPages(n, size)

			var joined []int
			for page := 1; page <= total; page++ {
				chunk := VisibleSlice(items, page, size)
				require.NotEmpty(t, chunk, "n=%d size=%d page=%d", n, size, page)
				require.LessOrEqual(t, len(chunk), size)
				joined = append(joined, chunk...)
			}

			if n == 0 {
				assert.Empty(t, joined)
			} else {
				assert.Equal(t, items, joined, "n=%d size=%d", n, size)
			}
			assert.Empty(t, VisibleSlice(items, total+1, size))
		}
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(5, 0, 5))
	assert.Equal(t, 1, ClampPage(0, 20, 5))
	assert.Equal(t, 4, ClampPage(9, 20, 5))
	assert.Equal(t, 3, ClampPage(3, 20, 5))
}

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		totalCount int
		want       PaginationMeta
	}{
		{
			name:       "first page",
			page:       1,
			pageSize:   10,
			totalCount: 25,
			want: PaginationMeta{
				CurrentPage: 1, PageSize: 10, TotalPages: 3, TotalItems: 25,
				HasPrevious: false, HasNext: true,
			},
		},
		{
			name:       "middle page",
			page:       2,
			pageSize:   10,
			totalCount: 25,
			want: PaginationMeta{
				CurrentPage: 2, PageSize: 10, TotalPages: 3, TotalItems: 25,
				HasPrevious: true, HasNext: true,
			},
		},
		{
			name:       "last page",
			page:       3,
			pageSize:   10,
			totalCount: 25,
			want: PaginationMeta{
				CurrentPage: 3, PageSize: 10, TotalPages: 3, TotalItems: 25,
				HasPrevious: true, HasNext: false,
			},
		},
		{
			name:       "empty set",
			page:       1,
			pageSize:   5,
			totalCount: 0,
			want: PaginationMeta{
				CurrentPage: 1, PageSize: 5, TotalPages: 0, TotalItems: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPaginationMeta(tt.page, tt.pageSize, tt.totalCount))
		})
	}
}

func TestFromParams(t *testing.T) {
	meta := FromParams(PaginationParams{Offset: 10, Limit: 10}, 25)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 3, meta.TotalPages)

	meta = FromParams(PaginationParams{}, 7)
	assert.Equal(t, 1, meta.TotalPages)
	assert.False(t, meta.HasNext)

	t.Run("offset mode ignores page size", func(t *testing.T) {
		meta := FromParams(PaginationParams{Offset: 10, Limit: 5, PageSize: 3}, 12)
		assert.Equal(t, 3, meta.CurrentPage)
		assert.Equal(t, 5, meta.PageSize)
		assert.Equal(t, 3, meta.TotalPages)
	})

	t.Run("page mode keeps page size", func(t *testing.T) {
		meta := FromParams(PaginationParams{Page: 2, PageSize: 3}, 12)
		assert.Equal(t, 2, meta.CurrentPage)
		assert.Equal(t, 3, meta.PageSize)
		assert.Equal(t, 4, meta.TotalPages)
	})
}

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  PaginationParams
		wantErr error
	}{
		{name: "valid default", params: *NewPaginationParams()},
		{name: "valid offset mode", params: PaginationParams{Limit: 10, Offset: 20}},
		{name: "valid page mode", params: PaginationParams{Page: 2, PageSize: 10}},
		{name: "negative limit", params: PaginationParams{Limit: -1}, wantErr: ErrInvalidLimit},
		{name: "limit too large", params: PaginationParams{Limit: MaxLimit + 1}, wantErr: ErrInvalidLimit},
		{name: "negative offset", params: PaginationParams{Offset: -1}, wantErr: ErrInvalidOffset},
		{name: "negative page", params: PaginationParams{Page: -1}, wantErr: ErrInvalidPage},
		{name: "page without size", params: PaginationParams{Page: 1}, wantErr: ErrInvalidPageSize},
		{
			name:    "mixed modes",
			params:  PaginationParams{Page: 1, PageSize: 5, Offset: 10},
			wantErr: ErrMixedPaginationModes,
		},
		{
			name:    "page with limit",
			params:  PaginationParams{Page: 2, PageSize: 5, Limit: 3},
			wantErr: ErrMixedPaginationModes,
		},
		{
			name:    "bad sort order",
			params:  PaginationParams{SortOrder: "sideways"},
			wantErr: ErrInvalidSortOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApply(t *testing.T) {
	items := seq(10)

	tests := []struct {
		name   string
		params PaginationParams
		want   []int
	}{
		{"limit only", PaginationParams{Limit: 3}, []int{0, 1, 2}},
		{"offset only", PaginationParams{Offset: 7}, []int{7, 8, 9}},
		{"offset and limit", PaginationParams{Offset: 2, Limit: 3}, []int{2, 3, 4}},
		{"page 2", PaginationParams{Page: 2, PageSize: 3}, []int{3, 4, 5}},
		{"out of bounds offset", PaginationParams{Offset: 20}, []int{}},
		{"out of bounds page", PaginationParams{Page: 10, PageSize: 3}, []int{}},
		{"nothing set returns all", PaginationParams{}, seq(10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.params, items))
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name      string
		sortStr   string
		wantField string
		wantOrder string
		wantErr   bool
	}{
		{name: "empty", sortStr: "", wantField: DefaultSortField, wantOrder: DefaultSortOrder},
		{name: "field only", sortStr: "title", wantField: "title", wantOrder: "asc"},
		{name: "field and order", sortStr: "created:DESC", wantField: "created", wantOrder: "desc"},
		{name: "invalid format", sortStr: "a:b:c", wantErr: true},
		{name: "empty field", sortStr: ":asc", wantErr: true},
		{name: "invalid order", sortStr: "title:up", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, order, err := ParseSort(tt.sortStr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestBookSorter(t *testing.T) {
	day := func(d int) book.Timestamp {
		return book.Timestamp{Time: time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)}
	}
	records := []book.Record{
		{ID: "10", Title: "emma", Author: "Austen", CreatedAt: day(3)},
		{ID: "2", Title: "Dune", Author: "Herbert", CreatedAt: day(1)},
		{ID: "3", Title: "Éclair", Author: "Baudelaire", CreatedAt: day(2)},
	}
	sorter := NewBookSorter(language.English)

	t.Run("title ignores case and accents", func(t *testing.T) {
		sorted := sorter.Sort(records, SortFieldTitle, SortOrderAsc)
		assert.Equal(t, []book.ID{"2", "3", "10"}, ids(sorted))
	})

	t.Run("created descending", func(t *testing.T) {
		sorted := sorter.Sort(records, SortFieldCreated, SortOrderDesc)
		assert.Equal(t, []book.ID{"10", "3", "2"}, ids(sorted))
	})

	t.Run("numeric ids", func(t *testing.T) {
		sorted := sorter.Sort(records, SortFieldID, SortOrderAsc)
		assert.Equal(t, []book.ID{"2", "3", "10"}, ids(sorted))
	})

	t.Run("does not modify input", func(t *testing.T) {
		_ = sorter.Sort(records, SortFieldAuthor, SortOrderDesc)
		assert.Equal(t, []book.ID{"10", "2", "3"}, ids(records))
	})

	t.Run("invalid field keeps order", func(t *testing.T) {
		assert.Equal(t, records, sorter.Sort(records, "rating", SortOrderAsc))
	})

	t.Run("valid fields", func(t *testing.T) {
		assert.Equal(t,
			[]string{"author", "created", "id", "publisher", "title", "updated"},
			sorter.GetValidFields())
	})
}

func ids(records []book.Record) []book.ID {
	out := make([]book.ID, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
