// Package catalogtest provides an in-memory GraphQL book catalog for tests.
package catalogtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rshade/bookcat/internal/book"
)

// Server answers the catalog's GraphQL operations from memory.
// Books are listed newest first, as the real API does.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	books    []book.Record
	nextID   int
	calls    map[string]int
	failures map[string]string
	clock    time.Time
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// NewServer starts a server seeded with books. Seeds without an id get one.
func NewServer(tb testing.TB, seed ...book.Record) *Server {
	tb.Helper()
	s := &Server{
		nextID:   1,
		calls:    make(map[string]int),
		failures: make(map[string]string),
		clock:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	for _, r := range seed {
		s.insert(r)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	tb.Cleanup(s.Close)
	return s
}

// Endpoint returns the GraphQL URL.
func (s *Server) Endpoint() string { return s.URL + "/graphql" }

// Calls returns how often operation was requested.
func (s *Server) Calls(operation string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[operation]
}

// Fail makes every later request for operation return message as a
// GraphQL error.
func (s *Server) Fail(operation, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[operation] = message
}

// Books returns a snapshot of the stored books, newest first.
func (s *Server) Books() []book.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

// Seq returns n generated books titled "Book 1".."Book n" by "Author 1",
// "Author 2" and "Author 3" in turn.
func Seq(n int) []book.Record {
	out := make([]book.Record, n)
	for i := range out {
		out[i] = book.Record{
			Title:  fmt.Sprintf("Book %d", i+1),
			Author: fmt.Sprintf("Author %d", i%3+1),
		}
	}
	return out
}

func (s *Server) insert(r book.Record) book.Record {
	if r.ID == "" {
		r.ID = book.ID(strconv.Itoa(s.nextID))
	}
	s.nextID++
	s.clock = s.clock.Add(time.Minute)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = book.Timestamp{Time: s.clock}
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	s.books = append(s.books, r)
	return r
}

func (s *Server) listLocked() []book.Record {
	out := slices.Clone(s.books)
	slices.Reverse(out)
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	data, gqlErr := s.execute(req)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	resp := map[string]any{"data": data}
	if gqlErr != "" {
		resp = map[string]any{
			"data":   nil,
			"errors": []map[string]any{{"message": gqlErr}},
		}
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// execute runs every top-level field the query selects.
func (s *Server) execute(req request) (map[string]any, string) {
	fields := selectedFields(req.Query)
	data := make(map[string]any, len(fields))
	for _, field := range fields {
		s.calls[field]++
		if msg, ok := s.failures[field]; ok {
			return nil, msg
		}
		value, errMsg := s.resolve(field, req.Variables)
		if errMsg != "" {
			return nil, errMsg
		}
		data[field] = value
	}
	return data, ""
}

func (s *Server) resolve(field string, vars map[string]any) (any, string) {
	switch field {
	case "books":
		return s.listLocked(), ""
	case "booksCount":
		return len(s.books), ""
	case "searchBooks":
		term := strings.ToLower(str(vars["title"]))
		return s.filter(func(r book.Record) bool {
			return strings.Contains(strings.ToLower(r.Title), term)
		}), ""
	case "booksByAuthor":
		author := str(vars["author"])
		return s.filter(func(r book.Record) bool { return r.Author == author }), ""
	case "bookById":
		i := s.index(str(vars["id"]))
		if i < 0 {
			return nil, "Book not found with id: " + str(vars["id"])
		}
		return s.books[i], ""
	case "addBook":
		title, author, publisher := inputFields(vars["input"])
		return s.insert(book.Record{Title: title, Author: author, Publisher: publisher}), ""
	case "updateBook":
		i := s.index(str(vars["id"]))
		if i < 0 {
			return nil, "Book not found with id: " + str(vars["id"])
		}
		title, author, publisher := inputFields(vars["input"])
		s.clock = s.clock.Add(time.Minute)
		s.books[i].Title = title
		s.books[i].Author = author
		s.books[i].Publisher = publisher
		s.books[i].UpdatedAt = book.Timestamp{Time: s.clock}
		return s.books[i], ""
	case "deleteBook":
		i := s.index(str(vars["id"]))
		if i < 0 {
			return false, ""
		}
		s.books = slices.Delete(s.books, i, i+1)
		return true, ""
	default:
		return nil, "unknown field " + field
	}
}

func (s *Server) filter(keep func(book.Record) bool) []book.Record {
	out := []book.Record{}
	for _, r := range s.listLocked() {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) index(id string) int {
	return slices.IndexFunc(s.books, func(r book.Record) bool { return string(r.ID) == id })
}

var knownFields = []string{
	"addBook", "updateBook", "deleteBook", "bookById",
	"booksByAuthor", "searchBooks", "booksCount", "books",
}

// selectedFields finds the top-level fields of a query. It relies on the
// catalog's queries listing each top-level field at the start of a line.
func selectedFields(query string) []string {
	var out []string
	depth := 0
	for _, line := range strings.Split(query, "\n") {
		trimmed := strings.TrimSpace(line)
		if depth == 1 {
			for _, f := range knownFields {
				if trimmed == f || strings.HasPrefix(trimmed, f+"(") || strings.HasPrefix(trimmed, f+" ") {
					out = append(out, f)
					break
				}
			}
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
	}
	return out
}

func inputFields(v any) (string, string, string) {
	m, _ := v.(map[string]any)
	return str(m["title"]), str(m["author"]), str(m["publisher"])
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
