package book

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports a field that failed a local check.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ValidationErrors collects every failing field of an Input.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.As.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, e := range v {
		errs = append(errs, e)
	}
	return errs
}

// Field returns the error for field, or nil.
func (v ValidationErrors) Field(field string) *ValidationError {
	for _, e := range v {
		if e.Field == field {
			return e
		}
	}
	return nil
}

func boundsMessage(minLen, maxLen int) string {
	return "must be between " + strconv.Itoa(minLen) + " and " + strconv.Itoa(maxLen) + " characters"
}

func maxMessage(maxLen int) string {
	return "must not exceed " + strconv.Itoa(maxLen) + " characters"
}
