package book

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

//nolint:gochecknoglobals // Policies are safe for concurrent use and costly to build.
var displayPolicy = bluemonday.StrictPolicy()

// Sanitize strips markup and control characters from catalog text before it
// is written to a terminal. Entities escaped by the policy are restored so
// "Tom & Jerry" stays readable.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	cleaned := html.UnescapeString(displayPolicy.Sanitize(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, cleaned)
}
