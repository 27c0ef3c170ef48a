package tui

// ViewState is the screen the browser is showing.
type ViewState int

const (
	// ViewStateLoading shows the spinner before the first result set.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the current page of books.
	ViewStateList
	// ViewStateDetail shows every field of the selected book.
	ViewStateDetail
	// ViewStateInput edits the search or author term.
	ViewStateInput
	// ViewStateForm edits a new or existing book.
	ViewStateForm
	// ViewStateConfirm asks before deleting.
	ViewStateConfirm
	// ViewStateQuitting is terminal.
	ViewStateQuitting
)

func (s ViewState) String() string {
	switch s {
	case ViewStateLoading:
		return "loading"
	case ViewStateList:
		return "list"
	case ViewStateDetail:
		return "detail"
	case ViewStateInput:
		return "input"
	case ViewStateForm:
		return "form"
	case ViewStateConfirm:
		return "confirm"
	case ViewStateQuitting:
		return "quitting"
	default:
		return "unknown"
	}
}

// Key names as reported by tea.KeyMsg.String().
const (
	keyQuit     = "q"
	keyCtrlC    = "ctrl+c"
	keyCtrlS    = "ctrl+s"
	keyEnter    = "enter"
	keyEsc      = "esc"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyUp       = "up"
	keyDown     = "down"
	keyLeft     = "left"
	keyRight    = "right"
	keyHome     = "home"
	keyEnd      = "end"
	keyF5       = "f5"
	keySlash    = "/"
	keyA        = "a"
	keyB        = "b"
	keyD        = "d"
	keyE        = "e"
	keyH        = "h"
	keyJ        = "j"
	keyK        = "k"
	keyL        = "l"
	keyN        = "n"
	keyR        = "r"
	keyX        = "x"
	keyY        = "y"
	keyPgUp     = "pgup"
	keyPgDown   = "pgdown"
)
