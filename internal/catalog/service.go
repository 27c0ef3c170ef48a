package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/bookcat/internal/book"
	"github.com/rshade/bookcat/internal/cache"
	"github.com/rshade/bookcat/internal/graphql"
	"github.com/rshade/bookcat/internal/logging"
	"github.com/rshade/bookcat/internal/view"
)

// DefaultConcurrency bounds parallel requests in GetMany and Import.
const DefaultConcurrency = 4

// ErrNotFound is returned when the catalog has no book with the given id.
var ErrNotFound = errors.New("book not found")

// Transport sends one GraphQL operation. *graphql.Client implements it.
type Transport interface {
	Do(ctx context.Context, operation, query string, vars map[string]any, out any) error
}

// Querier is the read side of the catalog.
type Querier interface {
	ListAll(ctx context.Context) ([]book.Record, error)
	Search(ctx context.Context, title string) ([]book.Record, error)
	FilterByAuthor(ctx context.Context, author string) ([]book.Record, error)
	Get(ctx context.Context, id book.ID) (book.Record, error)
	Count(ctx context.Context) (int, error)
	Stats(ctx context.Context) (Stats, error)
}

// Mutator is the write side of the catalog.
type Mutator interface {
	Create(ctx context.Context, in book.Input) (book.Record, error)
	Update(ctx context.Context, id book.ID, in book.Input) (book.Record, error)
	Delete(ctx context.Context, id book.ID) (bool, error)
}

// Catalog is both sides together.
type Catalog interface {
	Querier
	Mutator
}

// Service implements Catalog over a Transport.
type Service struct {
	tr          Transport
	store       cache.Store
	endpoint    string
	concurrency int
}

var _ Catalog = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithCache caches reads in store. endpoint keeps entries of different
// catalogs apart.
func WithCache(store cache.Store, endpoint string) Option {
	return func(s *Service) {
		s.store = store
		s.endpoint = endpoint
	}
}

// WithConcurrency sets how many requests GetMany and Import run at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService returns a Service sending operations through tr.
func NewService(tr Transport, opts ...Option) *Service {
	s := &Service{tr: tr, concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query runs the query behind q.
func (s *Service) Query(ctx context.Context, q view.Query) ([]book.Record, error) {
	switch q.Mode {
	case view.ModeSearch:
		return s.Search(ctx, q.Term)
	case view.ModeAuthor:
		return s.FilterByAuthor(ctx, q.Term)
	default:
		return s.ListAll(ctx)
	}
}

// ListAll returns every book.
func (s *Service) ListAll(ctx context.Context) ([]book.Record, error) {
	var out struct {
		Books []book.Record `json:"books"`
	}
	if err := s.cachedRead(ctx, opBooks, queryBooks, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Books), nil
}

// Search returns books whose title contains title, ignoring case.
func (s *Service) Search(ctx context.Context, title string) ([]book.Record, error) {
	term, err := book.RequireTerm("search term", title)
	if err != nil {
		return nil, err
	}
	var out struct {
		SearchBooks []book.Record `json:"searchBooks"`
	}
	if err := s.cachedRead(ctx, opSearchBooks, querySearchBooks, map[string]any{"title": term}, &out); err != nil {
		return nil, err
	}
	return nonNil(out.SearchBooks), nil
}

// FilterByAuthor returns the books of author.
func (s *Service) FilterByAuthor(ctx context.Context, author string) ([]book.Record, error) {
	name, err := book.RequireTerm("author", author)
	if err != nil {
		return nil, err
	}
	var out struct {
		BooksByAuthor []book.Record `json:"booksByAuthor"`
	}
	if err := s.cachedRead(ctx, opBooksByAuthor, queryBooksByAuthor, map[string]any{"author": name}, &out); err != nil {
		return nil, err
	}
	return nonNil(out.BooksByAuthor), nil
}

// Get returns one book. It is never cached so edits start from fresh values.
func (s *Service) Get(ctx context.Context, id book.ID) (book.Record, error) {
	if _, err := book.RequireTerm("id", string(id)); err != nil {
		return book.Record{}, err
	}
	var out struct {
		BookByID *book.Record `json:"bookById"`
	}
	if err := s.tr.Do(ctx, opBookByID, queryBookByID, map[string]any{"id": string(id)}, &out); err != nil {
		return book.Record{}, notFound(err)
	}
	if out.BookByID == nil {
		return book.Record{}, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return *out.BookByID, nil
}

// Count returns the number of books.
func (s *Service) Count(ctx context.Context) (int, error) {
	var out struct {
		BooksCount int `json:"booksCount"`
	}
	if err := s.cachedRead(ctx, opBooksCount, queryBooksCount, nil, &out); err != nil {
		return 0, err
	}
	return out.BooksCount, nil
}

// Create adds a book after validating in.
func (s *Service) Create(ctx context.Context, in book.Input) (book.Record, error) {
	if err := in.Validate(); err != nil {
		return book.Record{}, err
	}
	var out struct {
		AddBook *book.Record `json:"addBook"`
	}
	if err := s.tr.Do(ctx, opAddBook, mutationAddBook, map[string]any{"input": in}, &out); err != nil {
		return book.Record{}, err
	}
	s.invalidate(ctx)
	if out.AddBook == nil {
		return book.Record{}, errors.New("addBook returned no book")
	}
	return *out.AddBook, nil
}

// Update replaces the fields of book id after validating in.
func (s *Service) Update(ctx context.Context, id book.ID, in book.Input) (book.Record, error) {
	if _, err := book.RequireTerm("id", string(id)); err != nil {
		return book.Record{}, err
	}
	if err := in.Validate(); err != nil {
		return book.Record{}, err
	}
	var out struct {
		UpdateBook *book.Record `json:"updateBook"`
	}
	vars := map[string]any{"id": string(id), "input": in}
	if err := s.tr.Do(ctx, opUpdateBook, mutationUpdateBook, vars, &out); err != nil {
		return book.Record{}, notFound(err)
	}
	s.invalidate(ctx)
	if out.UpdateBook == nil {
		return book.Record{}, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return *out.UpdateBook, nil
}

// Delete removes book id and reports whether the server deleted it.
func (s *Service) Delete(ctx context.Context, id book.ID) (bool, error) {
	if _, err := book.RequireTerm("id", string(id)); err != nil {
		return false, err
	}
	var out struct {
		DeleteBook bool `json:"deleteBook"`
	}
	if err := s.tr.Do(ctx, opDeleteBook, mutationDeleteBook, map[string]any{"id": string(id)}, &out); err != nil {
		return false, err
	}
	if out.DeleteBook {
		s.invalidate(ctx)
	}
	return out.DeleteBook, nil
}

// cachedRead serves operation from the cache when possible and stores the
// raw data otherwise. Cache failures are logged and bypassed.
func (s *Service) cachedRead(ctx context.Context, operation, query string, vars map[string]any, out any) error {
	if s.store == nil || !s.store.Enabled() {
		return s.tr.Do(ctx, operation, query, vars, out)
	}

	log := logging.FromContext(ctx)
	key, err := cache.GenerateKey(cache.KeyParams{
		Endpoint:  s.endpoint,
		Operation: operation,
		Args:      stringArgs(vars),
	})
	if err != nil {
		return s.tr.Do(ctx, operation, query, vars, out)
	}

	entry, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		if decodeErr := entry.Decode(out); decodeErr == nil {
			log.Debug().Ctx(ctx).Str("component", "catalog").Str("operation", operation).Msg("cache hit")
			return nil
		}
	case !cache.IsMiss(err):
		log.Warn().Ctx(ctx).Str("component", "catalog").Err(err).Msg("cache read failed")
	}

	var raw json.RawMessage
	if err := s.tr.Do(ctx, operation, query, vars, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decoding data: %w", operation, err)
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		log.Warn().Ctx(ctx).Str("component", "catalog").Err(err).Msg("cache write failed")
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.store == nil || !s.store.Enabled() {
		return
	}
	if err := s.store.Clear(ctx); err != nil {
		logging.FromContext(ctx).Warn().Ctx(ctx).
			Str("component", "catalog").
			Err(err).
			Msg("cache invalidation failed")
	}
}

// notFound marks server errors that report a missing book with ErrNotFound.
func notFound(err error) error {
	var se *graphql.ServerError
	if !errors.As(err, &se) {
		return err
	}
	for _, ge := range se.Errors {
		if ge.Classification() == "NOT_FOUND" || strings.HasPrefix(ge.Message, "Book not found") {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
	}
	return err
}

func stringArgs(vars map[string]any) map[string]string {
	if len(vars) == 0 {
		return nil
	}
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func nonNil(records []book.Record) []book.Record {
	if records == nil {
		return []book.Record{}
	}
	return records
}
