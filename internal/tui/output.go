package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how command output should be presented.
type OutputMode int

const (
	// OutputModePlain is uncolored text, for pipes and files.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is colored text on a terminal.
	OutputModeStyled
	// OutputModeInteractive runs the Bubble Tea browser.
	OutputModeInteractive
)

const fallbackTerminalWidth = 80

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInputTTY reports whether stdin is a terminal.
func IsInputTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// TerminalWidth returns the width of stdout, or 80 when unknown.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallbackTerminalWidth
	}
	return w
}

// DetectOutputMode picks a mode from the flags and the environment.
// NO_COLOR and TERM=dumb force plain output.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	if plain || noColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if !IsTTY() {
		if forceColor {
			return OutputModeStyled
		}
		return OutputModePlain
	}
	if !IsInputTTY() {
		return OutputModeStyled
	}
	return OutputModeInteractive
}
