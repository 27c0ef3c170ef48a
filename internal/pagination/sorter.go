package pagination

import (
	"slices"
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rshade/bookcat/internal/book"
)

// Sort field names accepted by BookSorter.
const (
	SortFieldTitle     = "title"
	SortFieldAuthor    = "author"
	SortFieldPublisher = "publisher"
	SortFieldCreated   = "created"
	SortFieldUpdated   = "updated"
	SortFieldID        = "id"
)

// Sorter defines the interface for sorting book records.
type Sorter interface {
	// Sort returns the records ordered by field and order.
	Sort(records []book.Record, field, order string) []book.Record
	// IsValidField checks if the given field name is valid for sorting.
	IsValidField(field string) bool
	// GetValidFields returns a list of valid field names for sorting.
	GetValidFields() []string
}

// BookSorter implements Sorter for book.Record using locale-aware collation
// for text fields.
type BookSorter struct {
	tag         language.Tag
	validFields map[string]bool
}

// NewBookSorter creates a BookSorter collating text for tag.
func NewBookSorter(tag language.Tag) *BookSorter {
	return &BookSorter{
		tag: tag,
		validFields: map[string]bool{
			SortFieldTitle:     true,
			SortFieldAuthor:    true,
			SortFieldPublisher: true,
			SortFieldCreated:   true,
			SortFieldUpdated:   true,
			SortFieldID:        true,
		},
	}
}

// IsValidField checks if the field is valid for sorting.
func (s *BookSorter) IsValidField(field string) bool {
	return s.validFields[field]
}

// GetValidFields returns all valid sort fields in a stable order.
func (s *BookSorter) GetValidFields() []string {
	fields := make([]string, 0, len(s.validFields))
	for field := range s.validFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Sort returns a sorted copy of records; the input is never modified.
// An unknown or empty field returns the records in their original order.
func (s *BookSorter) Sort(records []book.Record, field, order string) []book.Record {
	if !s.IsValidField(field) {
		return records
	}

	sorted := slices.Clone(records)
	// Collators keep internal buffers, so each call gets its own.
	col := collate.New(s.tag, collate.IgnoreCase, collate.Loose)

	sort.SliceStable(sorted, func(i, j int) bool {
		// For descending order, swap i and j to keep the sort stable.
		if order == SortOrderDesc {
			i, j = j, i
		}
		a, b := sorted[i], sorted[j]

		switch field {
		case SortFieldTitle:
			return col.CompareString(a.Title, b.Title) < 0
		case SortFieldAuthor:
			return col.CompareString(a.Author, b.Author) < 0
		case SortFieldPublisher:
			return col.CompareString(a.Publisher, b.Publisher) < 0
		case SortFieldCreated:
			return a.CreatedAt.Before(b.CreatedAt.Time)
		case SortFieldUpdated:
			return a.UpdatedAt.Before(b.UpdatedAt.Time)
		case SortFieldID:
			return lessID(a.ID, b.ID)
		default:
			return false
		}
	})

	return sorted
}

// lessID orders numeric ids numerically and falls back to text otherwise.
func lessID(a, b book.ID) bool {
	na, errA := strconv.ParseInt(string(a), 10, 64)
	nb, errB := strconv.ParseInt(string(b), 10, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
