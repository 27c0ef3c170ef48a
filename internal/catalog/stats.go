package catalog

import (
	"context"
)

// Stats summarizes the catalog.
type Stats struct {
	Total      int `json:"total"      yaml:"total"`
	Authors    int `json:"authors"    yaml:"authors"`
	Publishers int `json:"publishers" yaml:"publishers"`
}

// Stats returns the book count and the number of distinct authors and
// distinct non-empty publishers.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var out struct {
		BooksCount int `json:"booksCount"`
		Books      []struct {
			Author    string  `json:"author"`
			Publisher *string `json:"publisher"`
		} `json:"books"`
	}
	if err := s.cachedRead(ctx, opStats, queryStats, nil, &out); err != nil {
		return Stats{}, err
	}

	authors := make(map[string]struct{})
	publishers := make(map[string]struct{})
	for _, b := range out.Books {
		authors[b.Author] = struct{}{}
		if b.Publisher != nil && *b.Publisher != "" {
			publishers[*b.Publisher] = struct{}{}
		}
	}

	return Stats{
		Total:      out.BooksCount,
		Authors:    len(authors),
		Publishers: len(publishers),
	}, nil
}
