package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"movieflix/internal/catalog"
	"movieflix/internal/logging"
	"movieflix/internal/media"
	"movieflix/internal/services"
)

const (
	defaultTimeout = 15 * time.Second
	toastLifetime  = 4 * time.Second
	cardWidth      = 30
)

// View selects how entries are laid out.
type View string

const (
	ViewTable View = "table"
	ViewGrid  View = "grid"
)

// ParseView accepts "table"/"list" and "grid"/"cards".
func ParseView(raw string) (View, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "table", "list":
		return ViewTable, true
	case "grid", "cards", "card":
		return ViewGrid, true
	default:
		return ViewTable, false
	}
}

// Options configures a Model. Backend is required.
type Options struct {
	Backend  Backend
	Cache    Cache
	Logger   *slog.Logger
	Initial  []media.Entry
	PageSize int
	View     View
	Timeout  time.Duration
}

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

type toast struct {
	text string
	kind toastKind
	seq  int
}

type entriesMsg struct {
	entries []media.Entry
	err     error
}

type deletedMsg struct {
	entry media.Entry
	err   error
}

type toastExpiredMsg struct{ seq int }

// Model is the bubbletea model for the collection browser.
type Model struct {
	backend Backend
	cache   Cache
	logger  *slog.Logger
	timeout time.Duration

	width  int
	height int

	entries  []media.Entry
	filtered []media.Entry
	query    catalog.Query
	pager    catalog.Pager

	search    textinput.Model
	searching bool
	spinner   spinner.Model
	loading   bool

	view    View
	cursor  int
	detail  bool
	confirm *media.Entry
	toast   toast
	styles  styles
}

// New builds a Model. Initial entries, typically the cached snapshot, are
// shown until the first refresh completes.
func New(opts Options) Model {
	search := textinput.New()
	search.Placeholder = "Search by title, director, or location..."
	search.Prompt = "/ "
	search.CharLimit = 80
	search.Width = 40

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))

	view := opts.View
	if view != ViewGrid {
		view = ViewTable
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	m := Model{
		backend: opts.Backend,
		cache:   opts.Cache,
		logger:  logging.NewComponentLogger(opts.Logger, "dashboard"),
		timeout: timeout,
		entries: opts.Initial,
		query:   catalog.Query{Type: catalog.TypeAll},
		pager:   *catalog.NewPager(opts.PageSize),
		search:  search,
		spinner: spin,
		loading: true,
		view:    view,
		styles:  defaultStyles(),
	}
	m.applyFilter()
	return m
}

// Init starts the spinner and the first refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(20, min(60, msg.Width-30))
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case entriesMsg:
		m.loading = false
		if msg.err != nil {
			attrs := []logging.Attr{logging.Error(msg.err)}
			if hint := services.Hint(msg.err); hint != "" {
				attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
			}
			logging.WarnWithContext(m.logger, "refresh failed", "refresh_failed", attrs...)
			cmd := m.showToast(catalog.RefreshFailed, toastError)
			return m, cmd
		}
		m.entries = msg.entries
		m.applyFilter()
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			logging.WarnWithContext(m.logger, "delete failed", "delete_failed",
				logging.String(logging.FieldEntryID, msg.entry.ID),
				logging.Error(msg.err))
			cmd := m.showToast(catalog.DeleteFailed, toastError)
			return m, cmd
		}
		m.logger.Info("entry deleted", logging.String(logging.FieldEntryID, msg.entry.ID))
		m.loading = true
		cmd := m.showToast(catalog.DeletedMessage(msg.entry.Title), toastSuccess)
		return m, tea.Batch(cmd, m.fetch(), m.spinner.Tick)

	case toastExpiredMsg:
		if msg.seq == m.toast.seq {
			m.toast.text = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		entry := *m.confirm
		m.confirm = nil
		return m, m.remove(entry)
	case "n", "N", "esc":
		m.confirm = nil
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query.Search = ""
		m.applyFilter()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != m.query.Search {
		m.query.Search = value
		m.applyFilter()
	}
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd
	case "t":
		m.query.Type = catalog.NextType(m.query.Type)
		m.applyFilter()
	case "v":
		if m.view == ViewTable {
			m.view = ViewGrid
		} else {
			m.view = ViewTable
		}
	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.fetch(), m.spinner.Tick)
	case "d", "x", "delete":
		if entry, ok := m.Selected(); ok {
			m.confirm = &entry
		}
	case "enter":
		if _, ok := m.Selected(); ok {
			m.detail = !m.detail
		}
	case "esc":
		switch {
		case m.detail:
			m.detail = false
		case m.query.Active():
			m.search.SetValue("")
			m.query = catalog.Query{Type: catalog.TypeAll}
			m.applyFilter()
		}
	case "up", "k":
		m.move(-m.rowStride())
	case "down", "j":
		m.move(m.rowStride())
	case "left", "h":
		if m.view == ViewGrid {
			m.move(-1)
		}
	case "right", "l":
		if m.view == ViewGrid {
			m.move(1)
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.move(len(m.pager.Visible()))
	}
	return m, nil
}

// move shifts the cursor and reveals the next page once the cursor lands on
// the last revealed entry.
func (m *Model) move(delta int) {
	visible := len(m.pager.Visible())
	if visible == 0 {
		m.cursor = 0
		return
	}
	m.cursor = max(0, min(visible-1, m.cursor+delta))
	if m.cursor == visible-1 {
		m.pager.LoadMore()
	}
}

func (m Model) rowStride() int {
	if m.view == ViewGrid {
		return m.gridColumns()
	}
	return 1
}

func (m Model) gridColumns() int {
	if m.width <= 0 {
		return 3
	}
	return max(1, m.width/(cardWidth+2))
}

func (m *Model) applyFilter() {
	m.filtered = catalog.Filter(m.entries, m.query)
	m.pager.Reset(m.filtered)
	m.cursor = 0
	m.detail = false
}

func (m *Model) showToast(text string, kind toastKind) tea.Cmd {
	m.toast = toast{text: text, kind: kind, seq: m.toast.seq + 1}
	seq := m.toast.seq
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m Model) fetch() tea.Cmd {
	backend, cache, logger, timeout := m.backend, m.cache, m.logger, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ctx = services.WithRequestID(ctx, services.NewRequestID())
		entries, err := backend.ListEntries(ctx)
		if err != nil {
			return entriesMsg{err: err}
		}
		if cache != nil {
			if err := cache.SaveSnapshot(ctx, entries); err != nil {
				logging.WarnWithContext(logger, "snapshot save failed", "snapshot_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "the next launch will start from an older list"))
			}
		}
		return entriesMsg{entries: entries}
	}
}

func (m Model) remove(entry media.Entry) tea.Cmd {
	backend, timeout := m.backend, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ctx = services.WithRequestID(ctx, services.NewRequestID())
		return deletedMsg{entry: entry, err: backend.DeleteEntry(ctx, entry.ID)}
	}
}

// Query returns the active search and type filter.
func (m Model) Query() catalog.Query { return m.query }

// Visible returns the entries revealed so far.
func (m Model) Visible() []media.Entry { return m.pager.Visible() }

// Filtered returns every entry matching the current query.
func (m Model) Filtered() []media.Entry { return m.filtered }

// Layout returns the current view.
func (m Model) Layout() View { return m.view }

// Toast returns the current notification text, if any.
func (m Model) Toast() string { return m.toast.text }

// Selected returns the entry under the cursor.
func (m Model) Selected() (media.Entry, bool) {
	visible := m.pager.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return media.Entry{}, false
	}
	return visible[m.cursor], true
}
