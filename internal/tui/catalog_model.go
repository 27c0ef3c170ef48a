package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/bookcat/internal/book"
	"github.com/rshade/bookcat/internal/catalog"
	"github.com/rshade/bookcat/internal/logging"
	"github.com/rshade/bookcat/internal/pagination"
	listview "github.com/rshade/bookcat/internal/tui/list"
	"github.com/rshade/bookcat/internal/view"
)

// Backend is what the browser needs from the catalog. *catalog.Service
// implements it.
type Backend interface {
	Query(ctx context.Context, q view.Query) ([]book.Record, error)
	Get(ctx context.Context, id book.ID) (book.Record, error)
	Stats(ctx context.Context) (catalog.Stats, error)
	catalog.Mutator
}

// Options configure the browser.
type Options struct {
	PageSize        int
	MaxVisiblePages int
	// DateFormat is a time layout for the Added column.
	DateFormat string
}

const defaultDateFormat = "Jan 2, 2006"

// chromeHeight is the number of lines around the book list.
const chromeHeight = 12

// Messages produced by commands.
type (
	booksLoadedMsg struct {
		ticket  view.Ticket
		records []book.Record
		err     error
	}
	statsLoadedMsg struct {
		stats catalog.Stats
		err   error
	}
	bookFetchedMsg struct {
		record book.Record
		err    error
	}
	bookSavedMsg struct {
		record  book.Record
		created bool
		err     error
	}
	bookDeletedMsg struct {
		id      book.ID
		removed bool
		err     error
	}
)

// CatalogModel is the Bubble Tea model for the catalog browser.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type CatalogModel struct {
	ctx     context.Context
	backend Backend
	logger  zerolog.Logger
	opts    Options

	state ViewState
	// back is where Esc returns to from the detail and confirm screens.
	back ViewState
	view view.State
	// initial is the ticket of the listing Init starts.
	initial view.Ticket

	list      *listview.Model[book.Record]
	termInput textinput.Model
	inputMode view.Mode
	// terms remembers the last search and author values for their inputs.
	terms map[view.Mode]string
	form  bookForm

	deleting *book.Record
	detail   *book.Record

	stats    catalog.Stats
	hasStats bool

	toast    *toast
	toastSeq int

	loading *LoadingState
	width   int
	height  int
}

// NewCatalogModel returns a browser that loads the full listing on Init.
func NewCatalogModel(ctx context.Context, backend Backend, opts Options) CatalogModel {
	if opts.PageSize < 1 {
		opts.PageSize = pagination.DefaultPageSize
	}
	if opts.MaxVisiblePages < 1 {
		opts.MaxVisiblePages = pagination.DefaultMaxVisiblePages
	}
	if opts.DateFormat == "" {
		opts.DateFormat = defaultDateFormat
	}

	ti := textinput.New()
	ti.CharLimit = inputCharLimit
	ti.Width = inputWidth

	m := CatalogModel{
		ctx:       ctx,
		backend:   backend,
		logger:    logging.ComponentLogger(*logging.FromContext(ctx), "tui"),
		opts:      opts,
		state:     ViewStateLoading,
		view:      view.New(opts.PageSize),
		termInput: ti,
		terms:     map[view.Mode]string{},
		form:      newBookForm(),
		loading:   NewLoadingState(),
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.list = listview.New(m.listHeight(), rowRenderer(opts.DateFormat))
	// Init has a value receiver, so the first ticket is taken here.
	m.view, m.initial = m.view.Dispatch(view.All())
	return m
}

// Init loads the first page and the statistics.
func (m CatalogModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.fetchBooks(m.initial), m.fetchStats())
}

// State returns the current screen.
func (m CatalogModel) State() ViewState { return m.state }

// Listing returns the pagination and query state.
func (m CatalogModel) Listing() view.State { return m.view }

// Update handles messages and updates the model state.
func (m CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetHeight(m.listHeight())
		return m, nil
	case booksLoadedMsg:
		return m.handleBooksLoaded(msg)
	case statsLoadedMsg:
		return m.handleStatsLoaded(msg)
	case bookFetchedMsg:
		return m.handleBookFetched(msg)
	case bookSavedMsg:
		return m.handleBookSaved(msg)
	case bookDeletedMsg:
		return m.handleBookDeleted(msg)
	case spinner.TickMsg:
		if m.state != ViewStateLoading && !m.view.Loading() {
			return m, nil
		}
		return m, m.loading.Update(msg)
	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == keyCtrlC {
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}

	switch m.state {
	case ViewStateLoading:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == keyQuit {
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
		return m, nil
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateInput:
		return m.handleInputUpdate(msg)
	case ViewStateForm:
		return m.handleFormUpdate(msg)
	case ViewStateConfirm:
		return m.handleConfirmUpdate(msg)
	case ViewStateQuitting:
		return m, nil
	default:
		return m, nil
	}
}

func (m CatalogModel) handleBooksLoaded(msg booksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		next, ok := m.view.Fail(msg.ticket, msg.err)
		if !ok {
			m.logger.Debug().Uint64("seq", msg.ticket.Seq).Err(msg.err).Msg("discarding stale failure")
			return m, nil
		}
		m.view = next
		m.leaveLoading()
		m.logger.Warn().Err(msg.err).Str("query", msg.ticket.Query.String()).Msg("query failed")
		return m, m.showToast(failureText(msg.ticket.Query.Mode, msg.err), toastError)
	}

	next, ok := m.view.Resolve(msg.ticket, msg.records)
	if !ok {
		m.logger.Debug().
			Uint64("seq", msg.ticket.Seq).
			Uint64("latest", m.view.Seq()).
			Msg("discarding stale response")
		return m, nil
	}
	m.view = next
	m.leaveLoading()
	m.list.SetItems(m.view.Visible())
	m.list.SetCursor(0)

	switch q := msg.ticket.Query; q.Mode {
	case view.ModeSearch:
		return m, m.showToast(fmt.Sprintf("Found %d books matching %q", len(msg.records), q.Term), toastSuccess)
	case view.ModeAuthor:
		return m, m.showToast(fmt.Sprintf("Found %d books by %s", len(msg.records), q.Term), toastSuccess)
	default:
		return m, nil
	}
}

func (m *CatalogModel) leaveLoading() {
	if m.state == ViewStateLoading {
		m.state = ViewStateList
	}
}

func failureText(mode view.Mode, err error) string {
	var what string
	switch mode {
	case view.ModeSearch:
		what = "Failed to search books"
	case view.ModeAuthor:
		what = "Failed to filter books"
	default:
		what = "Failed to load books"
	}
	return what + ": " + err.Error()
}

func (m CatalogModel) handleStatsLoaded(msg statsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn().Err(msg.err).Msg("stats failed")
		return m, m.showToast("Failed to load statistics", toastError)
	}
	m.stats = msg.stats
	m.hasStats = true
	return m, nil
}

func (m CatalogModel) handleBookFetched(msg bookFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.showToast("Failed to load book for editing: "+msg.err.Error(), toastError)
	}
	m.form.Load(msg.record)
	m.state = ViewStateForm
	return m, tea.Batch(
		m.form.setFocus(fieldTitle),
		m.showToast("Editing book: "+book.Sanitize(msg.record.Title), toastWarning),
	)
}

func (m CatalogModel) handleBookSaved(msg bookSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		var verrs book.ValidationErrors
		if errors.As(msg.err, &verrs) {
			m.form.errs = verrs
		}
		return m, m.showToast("Failed to save book: "+msg.err.Error(), toastError)
	}

	text := "Book updated successfully"
	if msg.created {
		text = "Book created successfully"
	}
	m.form.Reset()
	m.state = ViewStateList
	return m, tea.Batch(m.showToast(text, toastSuccess), m.reloadAll(), m.fetchStats())
}

func (m CatalogModel) handleBookDeleted(msg bookDeletedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		return m, m.showToast("Failed to delete book: "+msg.err.Error(), toastError)
	case !msg.removed:
		return m, m.showToast("Failed to delete book", toastError)
	}

	if m.form.Editing() && m.form.editingID == msg.id {
		m.form.Reset()
	}
	return m, tea.Batch(m.showToast("Book deleted successfully", toastSuccess), m.reloadAll(), m.fetchStats())
}

//nolint:gocognit,cyclop // key dispatch for the main screen
func (m CatalogModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyQuit:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyLeft, keyH, keyPgUp:
		m.changePage(m.view.Page()-1, 0)
		return m, nil
	case keyRight, keyL, keyPgDown:
		m.changePage(m.view.Page()+1, 0)
		return m, nil
	case keyEnter:
		if rec, found := m.list.Selected(); found {
			m.detail = &rec
			m.back = ViewStateList
			m.state = ViewStateDetail
		}
		return m, nil
	case keySlash:
		return m, m.openInput(view.ModeSearch)
	case keyB:
		return m, m.openInput(view.ModeAuthor)
	case keyX:
		m.terms = map[view.Mode]string{}
		return m, m.reloadAll()
	case keyR, keyF5:
		return m, m.reloadAll()
	case keyA:
		m.form.Reset()
		m.state = ViewStateForm
		return m, m.form.setFocus(fieldTitle)
	case keyE:
		if rec, found := m.list.Selected(); found {
			return m, m.fetchBook(rec.ID)
		}
		return m, nil
	case keyD:
		if rec, found := m.list.Selected(); found {
			m.deleting = &rec
			m.back = ViewStateList
			m.state = ViewStateConfirm
		}
		return m, nil
	}

	if d := keyMsg.String(); len(d) == 1 && d[0] >= '1' && d[0] <= '9' {
		page, _ := strconv.Atoi(d)
		m.changePage(page, 0)
		return m, nil
	}

	switch m.list.Update(keyMsg) {
	case listview.EdgeBottom:
		if m.view.Meta().HasNext {
			m.changePage(m.view.Page()+1, 0)
		}
	case listview.EdgeTop:
		if m.view.Meta().HasPrevious {
			m.changePage(m.view.Page()-1, m.view.PageSize()-1)
		}
	case listview.EdgeNone:
	}
	return m, nil
}

// changePage moves to page and puts the cursor on row.
func (m *CatalogModel) changePage(page, row int) {
	m.view = m.view.ChangePage(page)
	m.list.SetItems(m.view.Visible())
	m.list.SetCursor(row)
}

func (m CatalogModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyQuit:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEsc, keyEnter:
		m.state = m.back
		m.detail = nil
	case keyE:
		if m.detail != nil {
			id := m.detail.ID
			m.state = m.back
			return m, m.fetchBook(id)
		}
	case keyD:
		if m.detail != nil {
			m.deleting = m.detail
			m.state = ViewStateConfirm
		}
	}
	return m, nil
}

func (m *CatalogModel) openInput(mode view.Mode) tea.Cmd {
	m.inputMode = mode
	if mode == view.ModeAuthor {
		m.termInput.Placeholder = "Filter by author..."
	} else {
		m.termInput.Placeholder = "Search by title..."
	}
	m.termInput.SetValue(m.terms[mode])
	m.termInput.CursorEnd()
	m.state = ViewStateInput
	return m.termInput.Focus()
}

func (m CatalogModel) handleInputUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.termInput.Blur()
			m.state = ViewStateList
			return m, nil
		case keyEnter:
			return m.submitInput()
		}
	}
	var cmd tea.Cmd
	m.termInput, cmd = m.termInput.Update(msg)
	return m, cmd
}

func (m CatalogModel) submitInput() (tea.Model, tea.Cmd) {
	field, warning := "search term", "Please enter a search term"
	if m.inputMode == view.ModeAuthor {
		field, warning = "author", "Please enter an author name"
	}

	term, err := book.RequireTerm(field, m.termInput.Value())
	if err != nil {
		return m, m.showToast(warning, toastWarning)
	}

	m.terms[m.inputMode] = term
	m.termInput.Blur()
	m.state = ViewStateList

	q := view.Search(term)
	if m.inputMode == view.ModeAuthor {
		q = view.ByAuthor(term)
	}
	return m, m.dispatch(q)
}

func (m CatalogModel) handleFormUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			wasEditing := m.form.Editing()
			m.form.Reset()
			m.state = ViewStateList
			if wasEditing {
				return m, m.showToast("Edit cancelled", toastWarning)
			}
			return m, nil
		case keyCtrlS:
			return m.submitForm()
		}
	}
	return m, m.form.Update(msg)
}

func (m CatalogModel) submitForm() (tea.Model, tea.Cmd) {
	in, err := m.form.Validate()
	if err != nil {
		var verrs book.ValidationErrors
		if errors.As(err, &verrs) && (verrs.Field("title") != nil || verrs.Field("author") != nil) &&
			(in.Title == "" || in.Author == "") {
			return m, m.showToast("Title and Author are required", toastError)
		}
		return m, m.showToast(err.Error(), toastError)
	}
	return m, m.saveBook(m.form.editingID, in)
}

func (m CatalogModel) handleConfirmUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.deleting == nil {
		return m, nil
	}
	switch keyMsg.String() {
	case keyY:
		id := m.deleting.ID
		m.deleting = nil
		m.detail = nil
		m.state = ViewStateList
		return m, m.deleteBook(id)
	case keyN, keyEsc, keyQuit:
		m.deleting = nil
		m.state = m.back
	}
	return m, nil
}

// showToast replaces the current toast and schedules its removal.
func (m *CatalogModel) showToast(text string, kind toastKind) tea.Cmd {
	m.toastSeq++
	m.toast = &toast{id: m.toastSeq, text: text, kind: kind}
	return expireToast(m.toastSeq)
}

// dispatch takes a ticket for q and starts the request.
func (m *CatalogModel) dispatch(q view.Query) tea.Cmd {
	next, ticket := m.view.Dispatch(q)
	m.view = next
	m.logger.Debug().Uint64("seq", ticket.Seq).Str("query", q.String()).Msg("dispatching query")
	return tea.Batch(m.fetchBooks(ticket), m.loading.Init())
}

// reloadAll returns to the full listing.
func (m *CatalogModel) reloadAll() tea.Cmd {
	return m.dispatch(view.All())
}

func (m CatalogModel) fetchBooks(ticket view.Ticket) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		records, err := backend.Query(ctx, ticket.Query)
		return booksLoadedMsg{ticket: ticket, records: records, err: err}
	}
}

func (m CatalogModel) fetchStats() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		stats, err := backend.Stats(ctx)
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m CatalogModel) fetchBook(id book.ID) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		rec, err := backend.Get(ctx, id)
		return bookFetchedMsg{record: rec, err: err}
	}
}

func (m CatalogModel) saveBook(id book.ID, in book.Input) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		if id == "" {
			rec, err := backend.Create(ctx, in)
			return bookSavedMsg{record: rec, created: true, err: err}
		}
		rec, err := backend.Update(ctx, id, in)
		return bookSavedMsg{record: rec, err: err}
	}
}

func (m CatalogModel) deleteBook(id book.ID) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		removed, err := backend.Delete(ctx, id)
		return bookDeletedMsg{id: id, removed: removed, err: err}
	}
}

func (m CatalogModel) listHeight() int {
	return max(min(m.height-chromeHeight, m.opts.PageSize), 1)
}
