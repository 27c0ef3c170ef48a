package view

import (
	"fmt"
	"strings"
)

// Mode identifies which kind of query produced a result set.
type Mode int

const (
	// ModeAll lists every book.
	ModeAll Mode = iota
	// ModeSearch matches titles containing a term.
	ModeSearch
	// ModeAuthor filters by author name.
	ModeAuthor
)

// String returns the mode name used in logs and output.
func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeSearch:
		return "search"
	case ModeAuthor:
		return "author"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses the output of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ModeAll, nil
	case "search":
		return ModeSearch, nil
	case "author":
		return ModeAuthor, nil
	default:
		return ModeAll, fmt.Errorf("unknown view mode %q", s)
	}
}

// Query is a mode plus its term. The term is empty for ModeAll.
type Query struct {
	Mode Mode
	Term string
}

// All returns the full-listing query.
func All() Query { return Query{Mode: ModeAll} }

// Search returns a title search query.
func Search(title string) Query { return Query{Mode: ModeSearch, Term: title} }

// ByAuthor returns an author filter query.
func ByAuthor(author string) Query { return Query{Mode: ModeAuthor, Term: author} }

// String renders the query for logs, e.g. `search "dune"`.
func (q Query) String() string {
	if q.Mode == ModeAll {
		return q.Mode.String()
	}
	return fmt.Sprintf("%s %q", q.Mode, q.Term)
}
