package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one row. selected marks the cursor row.
type RenderFunc[T any] func(item T, selected bool) string

// Edge reports that a key tried to move the cursor past the list.
type Edge int

const (
	// EdgeNone means the key was handled inside the list or ignored.
	EdgeNone Edge = iota
	// EdgeTop means the cursor was already on the first row.
	EdgeTop
	// EdgeBottom means the cursor was already on the last row.
	EdgeBottom
)

// Model is a cursor list over items.
type Model[T any] struct {
	items  []T
	render RenderFunc[T]

	cursor int
	// offset is the first rendered row.
	offset int
	height int
}

// New returns an empty list that shows height rows.
func New[T any](height int, render RenderFunc[T]) *Model[T] {
	if height < 1 {
		height = 1
	}
	return &Model[T]{render: render, height: height}
}

// SetItems replaces the rows. The cursor stays where it was, clamped to the
// new length.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.SetCursor(m.cursor)
}

// SetHeight changes how many rows are rendered.
func (m *Model[T]) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	m.height = height
	m.scroll()
}

// Update moves the cursor on navigation keys. It reports an edge when the
// cursor cannot move further so the caller can change page.
//
//nolint:exhaustive // only navigation keys are handled
func (m *Model[T]) Update(msg tea.Msg) Edge {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.items) == 0 {
		return EdgeNone
	}

	switch key.Type {
	case tea.KeyUp:
		return m.move(-1)
	case tea.KeyDown:
		return m.move(1)
	case tea.KeyHome:
		m.SetCursor(0)
	case tea.KeyEnd:
		m.SetCursor(len(m.items) - 1)
	case tea.KeyRunes:
		switch string(key.Runes) {
		case "k":
			return m.move(-1)
		case "j":
			return m.move(1)
		}
	default:
	}
	return EdgeNone
}

func (m *Model[T]) move(delta int) Edge {
	next := m.cursor + delta
	switch {
	case next < 0:
		return EdgeTop
	case next >= len(m.items):
		return EdgeBottom
	}
	m.SetCursor(next)
	return EdgeNone
}

// SetCursor moves the cursor, clamped to the list.
func (m *Model[T]) SetCursor(i int) {
	switch {
	case len(m.items) == 0 || i < 0:
		m.cursor = 0
	case i >= len(m.items):
		m.cursor = len(m.items) - 1
	default:
		m.cursor = i
	}
	m.scroll()
}

// scroll keeps the cursor inside [offset, offset+height).
func (m *Model[T]) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if maxOffset := len(m.items) - m.height; m.offset > maxOffset {
		m.offset = max(maxOffset, 0)
	}
}

// View renders the visible rows.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}
	end := min(m.offset+m.height, len(m.items))
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.render(m.items[i], i == m.cursor))
	}
	return strings.Join(rows, "\n")
}

// Len returns the number of rows.
func (m *Model[T]) Len() int { return len(m.items) }

// Cursor returns the cursor index.
func (m *Model[T]) Cursor() int { return m.cursor }

// Offset returns the first rendered row.
func (m *Model[T]) Offset() int { return m.offset }

// Selected returns the row under the cursor.
func (m *Model[T]) Selected() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.cursor], true
}
