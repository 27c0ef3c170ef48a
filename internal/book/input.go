package book

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Field length limits enforced by the catalog.
const (
	TitleMinLen     = 2
	TitleMaxLen     = 200
	AuthorMinLen    = 2
	AuthorMaxLen    = 100
	PublisherMaxLen = 100
)

// Input is the create/update payload (GraphQL BookInput).
// A nil Publisher is sent as null.
type Input struct {
	Title     string  `json:"title"     yaml:"title"`
	Author    string  `json:"author"    yaml:"author"`
	Publisher *string `json:"publisher" yaml:"publisher,omitempty"`
}

// NewInput builds a normalized Input from raw form values.
// Values are trimmed and NFC-normalized; an empty publisher becomes nil.
func NewInput(title, author, publisher string) Input {
	in := Input{
		Title:  normalize(title),
		Author: normalize(author),
	}
	if p := normalize(publisher); p != "" {
		in.Publisher = &p
	}
	return in
}

// Normalize re-applies NewInput's rules, e.g. after decoding from a file.
func (in Input) Normalize() Input {
	return NewInput(in.Title, in.Author, in.PublisherValue())
}

// PublisherValue returns the publisher or "" when unset.
func (in Input) PublisherValue() string {
	if in.Publisher == nil {
		return ""
	}
	return *in.Publisher
}

// Validate checks the catalog's field constraints. It returns nil or a
// ValidationErrors holding one entry per offending field.
func (in Input) Validate() error {
	var errs ValidationErrors

	if err := requireBounded("title", in.Title, TitleMinLen, TitleMaxLen); err != nil {
		errs = append(errs, err)
	}
	if err := requireBounded("author", in.Author, AuthorMinLen, AuthorMaxLen); err != nil {
		errs = append(errs, err)
	}
	if n := utf8.RuneCountInString(in.PublisherValue()); n > PublisherMaxLen {
		errs = append(errs, &ValidationError{
			Field:   "publisher",
			Message: maxMessage(PublisherMaxLen),
		})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// RequireTerm trims a search term or author name and rejects empty values.
func RequireTerm(field, term string) (string, error) {
	term = normalize(term)
	if term == "" {
		return "", &ValidationError{Field: field, Message: "is required"}
	}
	return term, nil
}

func requireBounded(field, s string, minLen, maxLen int) *ValidationError {
	n := utf8.RuneCountInString(s)
	switch {
	case n == 0:
		return &ValidationError{Field: field, Message: "is required"}
	case n < minLen || n > maxLen:
		return &ValidationError{Field: field, Message: boundsMessage(minLen, maxLen)}
	default:
		return nil
	}
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
