package tui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/bookcat/internal/book"
	listview "github.com/rshade/bookcat/internal/tui/list"
	"github.com/rshade/bookcat/internal/view"
)

const listHelp = "[←→/1-9] Page  [↑↓] Move  [Enter] Details  [/] Search  [b] Author  " +
	"[x] Show all  [a] Add  [e] Edit  [d] Delete  [r/F5] Refresh  [q] Quit"

// View renders the current screen.
func (m CatalogModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateDetail:
		return m.withToast(renderDetail(m.detail, m.opts.DateFormat))
	case ViewStateForm:
		return m.withToast(m.form.View())
	case ViewStateConfirm:
		return m.withToast(renderConfirm(m.deleting))
	case ViewStateInput:
		label := "Search: "
		if m.inputMode == view.ModeAuthor {
			label = "Author: "
		}
		prompt := LabelStyle.Render(label) + m.termInput.View() + "\n" +
			SubtleStyle.Render("[Enter] Apply  [Esc] Cancel")
		return m.withToast(lipgloss.JoinVertical(lipgloss.Left, m.renderList(), "", prompt))
	case ViewStateList:
		return m.withToast(lipgloss.JoinVertical(lipgloss.Left, m.renderList(), "", SubtleStyle.Render(listHelp)))
	default:
		return ""
	}
}

func (m CatalogModel) withToast(body string) string {
	if m.toast == nil {
		return body
	}
	return body + "\n\n" + m.toast.View()
}

func (m CatalogModel) renderList() string {
	var sb strings.Builder

	sb.WriteString(HeaderStyle.Render("BOOK CATALOG"))
	if m.hasStats {
		sb.WriteString("  ")
		sb.WriteString(SubtleStyle.Render(renderStats(m.stats.Total, m.stats.Authors, m.stats.Publishers)))
	}
	sb.WriteString("\n")

	sb.WriteString(LabelStyle.Render(describeQuery(m.view.Query())))
	if m.view.Loading() {
		sb.WriteString("  ")
		sb.WriteString(m.loading.spinner.View())
	}
	sb.WriteString("\n\n")

	sb.WriteString(TableHeaderStyle.Render(formatRow("ID", "Title", "Author", "Publisher", "Added")))
	sb.WriteString("\n")
	if m.list.Len() == 0 {
		sb.WriteString(SubtleStyle.Render("No books found."))
	} else {
		sb.WriteString(m.list.View())
	}
	sb.WriteString("\n\n")

	sb.WriteString(renderPageInfo(m.view))
	if bar := renderPageBar(m.view, m.opts.MaxVisiblePages); bar != "" {
		sb.WriteString("\n")
		sb.WriteString(bar)
	}
	return sb.String()
}

func renderStats(total, authors, publishers int) string {
	return fmt.Sprintf("%d books · %d authors · %d publishers", total, authors, publishers)
}

func describeQuery(q view.Query) string {
	switch q.Mode {
	case view.ModeSearch:
		return fmt.Sprintf("Search: %q", book.Sanitize(q.Term))
	case view.ModeAuthor:
		return "Author: " + book.Sanitize(q.Term)
	default:
		return "All books"
	}
}

// renderPageInfo is the "Page X of Y (N total books)" line.
func renderPageInfo(s view.State) string {
	meta := s.Meta()
	return fmt.Sprintf("Page %d of %d (%d total books)", meta.CurrentPage, meta.TotalPages, meta.TotalItems)
}

// renderPageBar draws Prev, the page-number window and Next. It is empty
// when there is at most one page.
func renderPageBar(s view.State, maxVisible int) string {
	w := s.Window(maxVisible)
	if w.Empty() {
		return ""
	}

	parts := make([]string, 0, len(w.Pages())+2)
	if s.Page() > 1 {
		parts = append(parts, "« Prev")
	}
	for _, p := range w.Pages() {
		label := " " + strconv.Itoa(p) + " "
		if p == s.Page() {
			parts = append(parts, CurrentPageStyle.Render(label))
			continue
		}
		parts = append(parts, label)
	}
	if s.Page() < w.TotalPages {
		parts = append(parts, "Next »")
	}
	return strings.Join(parts, " ")
}

func rowRenderer(dateFormat string) listview.RenderFunc[book.Record] {
	return func(rec book.Record, selected bool) string {
		rec = rec.Display()
		row := formatRow(
			"#"+rec.ID.String(),
			rec.Title,
			rec.Author,
			rec.PublisherOrDefault(),
			rec.CreatedAt.Format(dateFormat),
		)
		if selected {
			return TableSelectedStyle.Render(row)
		}
		return row
	}
}

func formatRow(id, title, author, publisher, date string) string {
	return fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s",
		colWidthID, truncate(id, colWidthID),
		colWidthTitle, truncate(title, colWidthTitle),
		colWidthAuthor, truncate(author, colWidthAuthor),
		colWidthPublisher, truncate(publisher, colWidthPublisher),
		colWidthDate, truncate(date, colWidthDate),
	)
}

// truncate shortens s to width runes, marking the cut with "…".
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}

func renderDetail(rec *book.Record, dateFormat string) string {
	if rec == nil {
		return "No book selected."
	}
	r := rec.Display()

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("BOOK DETAIL"))
	sb.WriteString("\n\n")
	field := func(label, value string) {
		sb.WriteString(LabelStyle.Render(padRight(label+":", 12)))
		sb.WriteString(ValueStyle.Render(value))
		sb.WriteString("\n")
	}
	field("ID", "#"+r.ID.String())
	field("Title", r.Title)
	field("Author", r.Author)
	field("Publisher", r.PublisherOrDefault())
	field("Added", r.CreatedAt.Format(dateFormat))
	field("Updated", r.UpdatedAt.Format(dateFormat))
	sb.WriteString("\n")
	sb.WriteString(SubtleStyle.Render("[e] Edit  [d] Delete  [Esc] Back  [q] Quit"))
	return BoxStyle.Render(sb.String())
}

func renderConfirm(rec *book.Record) string {
	if rec == nil {
		return ""
	}
	r := rec.Display()
	question := fmt.Sprintf("Delete %q by %s? This cannot be undone.", r.Title, r.Author)
	return BoxStyle.Render(WarningStyle.Render(question) + "\n\n" + SubtleStyle.Render("[y] Delete  [n/Esc] Keep"))
}
