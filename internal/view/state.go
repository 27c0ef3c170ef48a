package view

import (
	"github.com/rshade/bookcat/internal/book"
	"github.com/rshade/bookcat/internal/pagination"
)

// Ticket identifies one dispatched query.
type Ticket struct {
	Seq   uint64
	Query Query
}

// State is the catalog view state. The zero value is not usable; call New.
type State struct {
	pageSize int
	page     int
	query    Query
	results  []book.Record
	loaded   bool

	seq     uint64
	pending bool
	pendQ   Query
	err     error
}

// New returns an empty State in ModeAll. A pageSize below 1 falls back to
// pagination.DefaultPageSize.
func New(pageSize int) State {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	return State{pageSize: pageSize, page: 1, query: All()}
}

// Dispatch records q as the latest request and returns its ticket.
// The current result set stays visible until the ticket resolves.
func (s State) Dispatch(q Query) (State, Ticket) {
	s.seq++
	s.pending = true
	s.pendQ = q
	return s, Ticket{Seq: s.seq, Query: q}
}

// Refresh re-dispatches the query that produced the current result set.
func (s State) Refresh() (State, Ticket) {
	return s.Dispatch(s.query)
}

// Current reports whether t belongs to the latest dispatch.
func (s State) Current(t Ticket) bool {
	return t.Seq == s.seq
}

// Resolve installs records as the result set for t and resets the page to 1.
// A superseded ticket leaves the state unchanged and reports false.
func (s State) Resolve(t Ticket, records []book.Record) (State, bool) {
	if !s.Current(t) {
		return s, false
	}
	s.results = records
	s.query = t.Query
	s.page = 1
	s.loaded = true
	s.pending = false
	s.err = nil
	return s, true
}

// Fail records err for t. The previous result set, query and page are kept.
// A superseded ticket leaves the state unchanged and reports false.
func (s State) Fail(t Ticket, err error) (State, bool) {
	if !s.Current(t) {
		return s, false
	}
	s.pending = false
	s.err = err
	return s, true
}

// ChangePage moves to page within the current result set, clamped to the
// valid range.
func (s State) ChangePage(page int) State {
	s.page = pagination.ClampPage(page, len(s.results), s.pageSize)
	return s
}

// NextPage moves forward one page if there is one.
func (s State) NextPage() State { return s.ChangePage(s.page + 1) }

// PrevPage moves back one page if there is one.
func (s State) PrevPage() State { return s.ChangePage(s.page - 1) }

// WithPageSize changes the page size and returns to page 1.
func (s State) WithPageSize(size int) State {
	if size < 1 {
		return s
	}
	s.pageSize = size
	s.page = 1
	return s
}

// Visible returns the records on the current page.
func (s State) Visible() []book.Record {
	return pagination.VisibleSlice(s.results, s.page, s.pageSize)
}

// Window returns the page-number controls for the current page.
func (s State) Window(maxVisible int) pagination.Window {
	return pagination.PageWindow(len(s.results), s.pageSize, s.page, maxVisible)
}

// Meta returns page metadata for the "Page X of Y" line.
func (s State) Meta() pagination.PaginationMeta {
	return pagination.NewPaginationMeta(s.page, s.pageSize, len(s.results))
}

// Query returns the query that produced the current result set.
func (s State) Query() Query { return s.query }

// Mode is shorthand for Query().Mode.
func (s State) Mode() Mode { return s.query.Mode }

// Page returns the current 1-based page.
func (s State) Page() int { return s.page }

// PageSize returns the fixed page size.
func (s State) PageSize() int { return s.pageSize }

// Results returns the whole result set.
func (s State) Results() []book.Record { return s.results }

// Total returns the size of the result set.
func (s State) Total() int { return len(s.results) }

// Loaded reports whether any query has resolved yet.
func (s State) Loaded() bool { return s.loaded }

// Loading reports whether the latest dispatch is still outstanding.
func (s State) Loading() bool { return s.pending }

// Pending returns the latest dispatched query while it is outstanding.
func (s State) Pending() (Query, bool) { return s.pendQ, s.pending }

// Err returns the error of the latest dispatch, if it failed.
func (s State) Err() error { return s.err }

// Seq returns the sequence number of the latest dispatch.
func (s State) Seq() uint64 { return s.seq }
