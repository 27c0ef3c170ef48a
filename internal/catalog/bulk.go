package catalog

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/bookcat/internal/book"
	"github.com/rshade/bookcat/internal/logging"
)

// GetMany fetches ids concurrently and returns the books in the same order.
// The first failure cancels the remaining requests.
func (s *Service) GetMany(ctx context.Context, ids []book.ID) ([]book.Record, error) {
	records := make([]book.Record, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			r, err := s.Get(gctx, id)
			if err != nil {
				return fmt.Errorf("book %s: %w", id, err)
			}
			records[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// InvalidEntry is an import entry that failed validation.
type InvalidEntry struct {
	Index int
	Err   error
}

// ImportValidationError lists every invalid entry of an import. Nothing is
// created when it is returned.
type ImportValidationError struct {
	Entries []InvalidEntry
}

func (e *ImportValidationError) Error() string {
	first := e.Entries[0]
	if len(e.Entries) == 1 {
		return fmt.Sprintf("entry %d: %v", first.Index+1, first.Err)
	}
	return fmt.Sprintf("entry %d: %v (and %d more invalid entries)", first.Index+1, first.Err, len(e.Entries)-1)
}

// Unwrap exposes the per-entry errors so callers can match validation failures.
func (e *ImportValidationError) Unwrap() []error {
	errs := make([]error, len(e.Entries))
	for i, entry := range e.Entries {
		errs[i] = entry.Err
	}
	return errs
}

// ImportFailure is an entry the catalog rejected.
type ImportFailure struct {
	Index int
	Input book.Input
	Err   error
}

// ImportResult reports what an import created. Created is in input order
// with gaps for failures removed.
type ImportResult struct {
	Created []book.Record
	Failed  []ImportFailure
}

// Import validates every input first and creates none if any is invalid.
// Valid inputs are then created concurrently; a failed create does not stop
// the others. progress, if non-nil, is called once per finished entry.
func (s *Service) Import(ctx context.Context, inputs []book.Input, progress func()) (ImportResult, error) {
	normalized := make([]book.Input, len(inputs))
	var invalid []InvalidEntry
	for i, in := range inputs {
		normalized[i] = in.Normalize()
		if err := normalized[i].Validate(); err != nil {
			invalid = append(invalid, InvalidEntry{Index: i, Err: err})
		}
	}
	if len(invalid) > 0 {
		return ImportResult{}, &ImportValidationError{Entries: invalid}
	}

	log := logging.FromContext(ctx)
	created := make([]*book.Record, len(normalized))
	var (
		mu     sync.Mutex
		failed []ImportFailure
	)

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, in := range normalized {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r, err := s.Create(ctx, in)
			if progress != nil {
				mu.Lock()
				progress()
				mu.Unlock()
			}
			if err != nil {
				log.Warn().Ctx(ctx).
					Str("component", "catalog").
					Str("operation", opAddBook).
					Int("entry", i+1).
					Err(err).
					Msg("import entry failed")
				mu.Lock()
				failed = append(failed, ImportFailure{Index: i, Input: in, Err: err})
				mu.Unlock()
				return nil
			}
			created[i] = &r
			return nil
		})
	}
	err := g.Wait()

	result := ImportResult{Created: make([]book.Record, 0, len(normalized)), Failed: failed}
	for _, r := range created {
		if r != nil {
			result.Created = append(result.Created, *r)
		}
	}
	slices.SortFunc(result.Failed, func(a, b ImportFailure) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return result, err
}
