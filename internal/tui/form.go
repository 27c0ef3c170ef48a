package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/bookcat/internal/book"
)

const (
	fieldTitle = iota
	fieldAuthor
	fieldPublisher
	numFormFields
)

//nolint:gochecknoglobals // fixed field metadata
var formFields = [numFormFields]struct {
	label       string
	name        string
	placeholder string
}{
	{"Title", "title", "Book title (required)"},
	{"Author", "author", "Author name (required)"},
	{"Publisher", "publisher", "Publisher (optional)"},
}

// bookForm is the add/edit form. A non-empty editingID means the form
// updates that book instead of creating a new one.
type bookForm struct {
	inputs    [numFormFields]textinput.Model
	focus     int
	editingID book.ID
	errs      book.ValidationErrors
}

func newBookForm() bookForm {
	var f bookForm
	for i, meta := range formFields {
		ti := textinput.New()
		ti.Placeholder = meta.placeholder
		ti.CharLimit = inputCharLimit
		ti.Width = inputWidth
		f.inputs[i] = ti
	}
	return f
}

// Reset clears every field and leaves edit mode.
func (f *bookForm) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.editingID = ""
	f.errs = nil
	f.setFocus(fieldTitle)
}

// Load fills the form from rec and enters edit mode.
func (f *bookForm) Load(rec book.Record) {
	f.Reset()
	f.editingID = rec.ID
	f.inputs[fieldTitle].SetValue(rec.Title)
	f.inputs[fieldAuthor].SetValue(rec.Author)
	f.inputs[fieldPublisher].SetValue(rec.Publisher)
}

// Editing reports whether the form updates an existing book.
func (f *bookForm) Editing() bool { return f.editingID != "" }

// SaveLabel is the label of the submit action.
func (f *bookForm) SaveLabel() string {
	if f.Editing() {
		return "Update Book"
	}
	return "Save Book"
}

// Input returns the normalized field values.
func (f *bookForm) Input() book.Input {
	return book.NewInput(
		f.inputs[fieldTitle].Value(),
		f.inputs[fieldAuthor].Value(),
		f.inputs[fieldPublisher].Value(),
	)
}

// Validate checks the fields and keeps the errors for rendering.
func (f *bookForm) Validate() (book.Input, error) {
	in := f.Input()
	err := in.Validate()
	f.errs = nil
	var verrs book.ValidationErrors
	if errors.As(err, &verrs) {
		f.errs = verrs
	}
	return in, err
}

func (f *bookForm) setFocus(i int) tea.Cmd {
	f.focus = (i + numFormFields) % numFormFields
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	return f.inputs[f.focus].Focus()
}

// Update moves focus on tab/arrow keys and forwards everything else to the
// focused field.
func (f *bookForm) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case keyTab, keyDown:
			return f.setFocus(f.focus + 1)
		case keyShiftTab, keyUp:
			return f.setFocus(f.focus - 1)
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *bookForm) View() string {
	var sb strings.Builder
	title := "ADD BOOK"
	if f.Editing() {
		title = "EDIT BOOK #" + book.Sanitize(f.editingID.String())
	}
	sb.WriteString(HeaderStyle.Render(title))
	sb.WriteString("\n\n")

	for i, meta := range formFields {
		sb.WriteString(LabelStyle.Render(padRight(meta.label+":", 12)))
		sb.WriteString(f.inputs[i].View())
		sb.WriteString("\n")
		if e := f.errs.Field(meta.name); e != nil {
			sb.WriteString(strings.Repeat(" ", 12))
			sb.WriteString(ErrorStyle.Render(e.Error()))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(SubtleStyle.Render("[Ctrl+S] " + f.SaveLabel() + "  [Tab] Next field  [Esc] Cancel"))
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
