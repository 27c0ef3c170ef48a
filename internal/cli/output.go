package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/rshade/bookcat/internal/book"
	"github.com/rshade/bookcat/internal/catalog"
	"github.com/rshade/bookcat/internal/config"
	"github.com/rshade/bookcat/internal/pagination"
)

const (
	tabPadding    = 2
	yamlIndent    = 2
	maxTitleWidth = 48
)

// outputFormat returns the --output flag, or the configured default.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if !slices.Contains(config.OutputFormats(), format) {
		return "", fmt.Errorf("unsupported output format: %q (valid: %s)",
			format, strings.Join(config.OutputFormats(), ", "))
	}
	return format, nil
}

// bookListing is one rendered page of books.
type bookListing struct {
	Query      string                     `json:"query,omitempty"      yaml:"query,omitempty"`
	Books      []book.Record              `json:"books"                yaml:"books"`
	Pagination *pagination.PaginationMeta `json:"pagination,omitempty" yaml:"pagination,omitempty"`

	// Window is the page bar shown under tables.
	Window pagination.Window `json:"-" yaml:"-"`
}

// ndjsonSummary is the first line of NDJSON listings.
type ndjsonSummary struct {
	Type       string                     `json:"type"`
	Query      string                     `json:"query,omitempty"`
	Count      int                        `json:"count"`
	Pagination *pagination.PaginationMeta `json:"pagination,omitempty"`
}

// renderBooks writes listing in format.
func renderBooks(w io.Writer, format string, listing bookListing, dateFormat string) error {
	if listing.Books == nil {
		listing.Books = []book.Record{}
	}
	switch format {
	case config.FormatJSON:
		return writeJSON(w, listing)
	case config.FormatNDJSON:
		return renderBooksNDJSON(w, listing)
	case config.FormatYAML:
		return writeYAML(w, listing)
	default:
		return renderBooksTable(w, listing, dateFormat)
	}
}

func renderBooksTable(w io.Writer, listing bookListing, dateFormat string) error {
	if len(listing.Books) == 0 {
		_, err := fmt.Fprintln(w, "No books found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tPUBLISHER\tADDED")
	fmt.Fprintln(tw, "--\t-----\t------\t---------\t-----")
	for _, rec := range listing.Books {
		r := rec.Display()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, truncate(r.Title, maxTitleWidth), r.Author, r.PublisherOrDefault(),
			r.CreatedAt.Format(dateFormat))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if meta := listing.Pagination; meta != nil && meta.TotalPages > 0 {
		fmt.Fprintf(w, "\nPage %d of %d (%d total books)\n", meta.CurrentPage, meta.TotalPages, meta.TotalItems)
		if bar := pageBar(listing.Window, meta.CurrentPage); bar != "" {
			fmt.Fprintln(w, bar)
		}
	}
	return nil
}

// pageBar renders a window such as "« Prev  3 [4] 5 6 7  Next »". It is
// empty when there is at most one page.
func pageBar(win pagination.Window, current int) string {
	if win.Empty() {
		return ""
	}
	parts := make([]string, 0, win.EndPage-win.StartPage+3)
	if current > 1 {
		parts = append(parts, "« Prev ")
	}
	for _, p := range win.Pages() {
		if p == current {
			parts = append(parts, "["+strconv.Itoa(p)+"]")
			continue
		}
		parts = append(parts, strconv.Itoa(p))
	}
	if current < win.TotalPages {
		parts = append(parts, " Next »")
	}
	return strings.Join(parts, " ")
}

func renderBooksNDJSON(w io.Writer, listing bookListing) error {
	encoder := json.NewEncoder(w)
	summary := ndjsonSummary{
		Type:       "summary",
		Query:      listing.Query,
		Count:      len(listing.Books),
		Pagination: listing.Pagination,
	}
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("encoding NDJSON summary: %w", err)
	}
	for _, rec := range listing.Books {
		if err := encoder.Encode(rec); err != nil {
			return fmt.Errorf("encoding NDJSON book: %w", err)
		}
	}
	return nil
}

// renderBook writes a single book. Tables use a label/value layout.
func renderBook(w io.Writer, format string, rec book.Record, dateFormat string) error {
	switch format {
	case config.FormatJSON, config.FormatNDJSON:
		return writeJSON(w, rec)
	case config.FormatYAML:
		return writeYAML(w, rec)
	}

	r := rec.Display()
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", r.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", r.Title)
	fmt.Fprintf(tw, "Author:\t%s\n", r.Author)
	fmt.Fprintf(tw, "Publisher:\t%s\n", r.PublisherOrDefault())
	fmt.Fprintf(tw, "Added:\t%s\n", r.CreatedAt.Format(dateFormat))
	fmt.Fprintf(tw, "Updated:\t%s\n", r.UpdatedAt.Format(dateFormat))
	return tw.Flush()
}

// renderStats writes catalog statistics. Table counts are grouped for locale.
func renderStats(w io.Writer, format string, stats catalog.Stats, locale string) error {
	switch format {
	case config.FormatJSON, config.FormatNDJSON:
		return writeJSON(w, stats)
	case config.FormatYAML:
		return writeYAML(w, stats)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	p.Fprintf(tw, "Books:\t%d\n", stats.Total)
	p.Fprintf(tw, "Authors:\t%d\n", stats.Authors)
	p.Fprintf(tw, "Publishers:\t%d\n", stats.Publishers)
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return encoder.Close()
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
