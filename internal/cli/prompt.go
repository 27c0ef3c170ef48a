package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rshade/bookcat/internal/book"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user accepted the prompt (typed "y" or "yes").
	Accepted bool
	// Cancelled is true if reading the answer failed.
	Cancelled bool
}

// ConfirmDelete asks whether the listed books should be deleted.
//
// The prompt defaults to "No" when the user presses Enter without input.
// Valid inputs: "y", "Y", "yes", "Yes", "YES" for acceptance; anything else declines.
func ConfirmDelete(writer io.Writer, reader io.Reader, records []book.Record) PromptResult {
	if len(records) == 1 {
		r := records[0].Display()
		fmt.Fprintf(writer, "Delete %q by %s? This cannot be undone. [y/N] ", r.Title, r.Author)
	} else {
		fmt.Fprintf(writer, "Delete %d books?\n", len(records))
		for _, rec := range records {
			r := rec.Display()
			fmt.Fprintf(writer, "  - #%s %q by %s\n", r.ID, r.Title, r.Author)
		}
		fmt.Fprint(writer, "This cannot be undone. [y/N] ")
	}

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		// EOF or error
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}
