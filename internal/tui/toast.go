package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastDuration is how long a toast stays on screen.
const toastDuration = 3 * time.Second

type toastKind int

const (
	toastSuccess toastKind = iota
	toastWarning
	toastError
)

// toast is a transient status line.
type toast struct {
	id   int
	text string
	kind toastKind
}

// toastExpiredMsg hides the toast with the same id. A newer toast has a
// different id and survives.
type toastExpiredMsg struct{ id int }

func expireToast(id int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (t toast) View() string {
	switch t.kind {
	case toastWarning:
		return WarningStyle.Render(t.text)
	case toastError:
		return ErrorStyle.Render(t.text)
	default:
		return InfoStyle.Render(t.text)
	}
}
