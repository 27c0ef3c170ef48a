package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorHeader    = lipgloss.Color("63")  //nolint:gochecknoglobals // shared palette
	ColorLabel     = lipgloss.Color("245") //nolint:gochecknoglobals // shared palette
	ColorValue     = lipgloss.Color("252") //nolint:gochecknoglobals // shared palette
	ColorMuted     = lipgloss.Color("240") //nolint:gochecknoglobals // shared palette
	ColorHighlight = lipgloss.Color("229") //nolint:gochecknoglobals // shared palette
	ColorSelected  = lipgloss.Color("57")  //nolint:gochecknoglobals // shared palette
	ColorSpinner   = lipgloss.Color("205") //nolint:gochecknoglobals // shared palette
	ColorOK        = lipgloss.Color("42")  //nolint:gochecknoglobals // shared palette
	ColorWarning   = lipgloss.Color("214") //nolint:gochecknoglobals // shared palette
	ColorError     = lipgloss.Color("196") //nolint:gochecknoglobals // shared palette
	ColorBorder    = lipgloss.Color("238") //nolint:gochecknoglobals // shared palette
)

// Styles.
//
//nolint:gochecknoglobals // lipgloss styles are immutable values shared by every view.
var (
	HeaderStyle = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorValue)
	SubtleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	TableHeaderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorMuted).
				BorderBottom(true).
				Bold(true)
	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorHighlight).
				Background(ColorSelected)

	CurrentPageStyle = lipgloss.NewStyle().
				Foreground(ColorHighlight).
				Background(ColorSelected).
				Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	InfoStyle    = lipgloss.NewStyle().Foreground(ColorOK).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
)

// Layout.
const (
	defaultWidth  = 100
	defaultHeight = 30
	borderPadding = 2

	colWidthID        = 8
	colWidthTitle     = 34
	colWidthAuthor    = 22
	colWidthPublisher = 20
	colWidthDate      = 14

	inputCharLimit = 200
	inputWidth     = 40
)
