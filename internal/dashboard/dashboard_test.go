package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"movieflix/internal/catalog"
	"movieflix/internal/media"
	"movieflix/internal/mockdata"
)

func sampleEntries() []media.Entry {
	return []media.Entry{
		{ID: "1", Title: "Inception", Type: media.TypeMovie, Director: "Christopher Nolan", Location: "Los Angeles", Year: "2010"},
		{ID: "2", Title: "Breaking Bad", Type: media.TypeTVShow, Director: "Vince Gilligan", Location: "Albuquerque", Year: "2008-2013"},
		{ID: "3", Title: "Interstellar", Type: media.TypeMovie, Director: "Christopher Nolan", Location: "Alberta", Year: "2014"},
		{ID: "4", Title: "The Crown", Type: media.TypeTVShow, Director: "Peter Morgan", Location: "London", Year: "2016-2023"},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

type failingBackend struct {
	*MemoryBackend
	listErr   error
	deleteErr error
}

func (b failingBackend) ListEntries(ctx context.Context) ([]media.Entry, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.MemoryBackend.ListEntries(ctx)
}

func (b failingBackend) DeleteEntry(ctx context.Context, id string) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	return b.MemoryBackend.DeleteEntry(ctx, id)
}

type recordingCache struct {
	saved [][]media.Entry
}

func (c *recordingCache) SaveSnapshot(_ context.Context, entries []media.Entry) error {
	c.saved = append(c.saved, entries)
	return nil
}

func TestParseView(t *testing.T) {
	tests := map[string]View{"": ViewTable, "table": ViewTable, "LIST": ViewTable, "grid": ViewGrid, " cards ": ViewGrid}
	for raw, want := range tests {
		got, ok := ParseView(raw)
		if !ok || got != want {
			t.Fatalf("ParseView(%q) = %q, %v", raw, got, ok)
		}
	}
	if _, ok := ParseView("carousel"); ok {
		t.Fatal("expected carousel to be rejected")
	}
}

func TestInitialEntriesRenderBeforeRefresh(t *testing.T) {
	m := New(Options{Backend: NewMemoryBackend(nil), Initial: sampleEntries()})
	if got := len(m.Visible()); got != 4 {
		t.Fatalf("expected 4 visible entries, got %d", got)
	}
	out := m.View()
	for _, want := range []string{"My Collection", "Manage your favorite movies and TV shows", "Inception", "refreshing"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestRefreshReplacesEntriesAndSavesSnapshot(t *testing.T) {
	cache := &recordingCache{}
	m := New(Options{Backend: NewMemoryBackend(sampleEntries()), Cache: cache})
	if !strings.Contains(m.View(), "Loading entries...") {
		t.Fatal("expected loading state before the first refresh")
	}

	m, _ = press(t, m, m.fetch()())
	if m.loading {
		t.Fatal("expected loading to clear")
	}
	if got := len(m.Filtered()); got != 4 {
		t.Fatalf("expected 4 entries after refresh, got %d", got)
	}
	if len(cache.saved) != 1 || len(cache.saved[0]) != 4 {
		t.Fatalf("expected one snapshot of 4 entries, got %+v", cache.saved)
	}
}

func TestRefreshFailureKeepsEntriesAndShowsToast(t *testing.T) {
	backend := failingBackend{MemoryBackend: NewMemoryBackend(nil), listErr: errors.New("connection refused")}
	m := New(Options{Backend: backend, Initial: sampleEntries()})

	m, cmd := press(t, m, m.fetch()())
	if cmd == nil {
		t.Fatal("expected toast expiry command")
	}
	if m.Toast() != catalog.RefreshFailed {
		t.Fatalf("unexpected toast %q", m.Toast())
	}
	if len(m.Filtered()) != 4 {
		t.Fatal("expected cached entries to survive a failed refresh")
	}
	if !strings.Contains(m.View(), catalog.RefreshFailed) {
		t.Fatal("expected toast in view")
	}
}

func TestSearchFiltersAndEscClears(t *testing.T) {
	m := New(Options{Backend: NewMemoryBackend(nil), Initial: sampleEntries()})

	m, _ = press(t, m, keyRunes("/"))
	if !m.searching {
		t.Fatal("expected search to be focused")
	}
	m, _ = press(t, m, keyRunes("n"), keyRunes("o"), keyRunes("l"), keyRunes("a"), keyRunes("n"))
	if m.Query().Search != "nolan" {
		t.Fatalf("unexpected search %q", m.Query().Search)
	}
	if got := len(m.Filtered()); got != 2 {
		t.Fatalf("expected 2 Nolan entries, got %d", got)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.searching || m.Query().Search != "nolan" {
		t.Fatal("enter should keep the search and leave the input")
	}

	m, _ = press(t, m, keyRunes("/"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.Query().Search != "" || len(m.Filtered()) != 4 {
		t.Fatalf("esc should clear the search, got %q with %d entries", m.Query().Search, len(m.Filtered()))
	}
}

func TestSearchWithoutMatchesShowsEmptyMessage(t *testing.T) {
	m := New(Options{Backend: NewMemoryBackend(nil), Initial: sampleEntries()})
	m, _ = press(t, m, keyRunes("/"), keyRunes("z"), keyRunes("z"), tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.View(), "No entries found matching your filters") {
		t.Fatalf("expected filtered empty message:\n%s", m.View())
	}
}

func TestEmptyCollectionMessage(t *testing.T) {
	m := New(Options{Backend: NewMemoryBackend(nil)})
	m, _ = press(t, m, m.fetch()())
	if !strings.Contains(m.View(), "No entries yet. Add your first movie or TV show!") {
		t.Fatalf("expected empty collection message:\n%s", m.View())
	}
}

func TestTypeFilterCycles(t *testing.T) {
	m := New(Options{Backend: NewMemoryBackend(nil), Initial: sampleEntries()})

	m, _ = press(t, m, keyRunes("t"))
	if m.Query().Type != catalog.TypeMovie {
		t.Fatalf("expected movie filter, got %q", m.Query().Type)
	}
	for _, e := range m.Filtered() {
		if e.Type != media.TypeMovie {
			t.Fatalf("unexpected %s in movie filter", e.Type)
		}
	}

	m, _ = press(t, m, keyRunes("t"))
	if m.Query().Type != catalog.TypeTV || len(m.Filtered()) != 2 {
		t.Fatalf("expected 2 tv entries, got %q/%d", m.Query().Type, len(m.Filtered()))
	}

	m, _ = press(t, m, keyRunes("t"))
	if m.Query().Type != catalog.TypeAll || len(m.Filtered()) != 4 {
		t.Fatal("expected filter to wrap back to all")
	}
}

func TestCursorAtLastRowLoadsNextPage(t *testing.T) {
	m := New(Options{Backend: NewMemoryBackend(nil), Initial: mockdata.Generate(40), PageSize: 15})
	if got := len(m.Visible()); got != 15 {
		t.Fatalf("expected first page of 15, got %d", got)
	}

	down := tea.KeyMsg{Type: tea.KeyDown}
	for range 13 {
		m, _ = press(t, m, down)
	}
	if got := len(m.Visible()); got != 15 {
		t.Fatalf("expected no extra page before the last row, got %d", got)
	}
	m, _ = press(t, m, down)
	if got := len(m.Visible()); got != 30 {
		t.Fatalf("expected second page after reaching the last row, got %d", got)
	}

	m, _ = press(t, m, keyRunes("G"))
	if got := len(m.Visible()); got != 40 {
		t.Fatalf("expected all entries after jumping to the end, got %d", got)
	}
	if !strings.Contains(m.View(), "Showing all 40 entries.") {
		t.Fatal("expected completion line")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	backend := NewMemoryBackend(sampleEntries())
	m := New(Options{Backend: backend, Initial: sampleEntries()})

	m, _ = press(t, m, keyRunes("d"))
	if !strings.Contains(m.View(), catalog.DeletePrompt("Inception")) {
		t.Fatalf("expected confirmation prompt:\n%s", m.View())
	}
	m, cmd := press(t, m, keyRunes("n"))
	if cmd != nil || m.confirm != nil {
		t.Fatal("expected cancel to drop the confirmation without a command")
	}

	m, cmd = press(t, m, keyRunes("d"), keyRunes("y"))
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	msg := cmd()
	deleted, ok := msg.(deletedMsg)
	if !ok || deleted.err != nil {
		t.Fatalf("unexpected delete result %#v", msg)
	}
	m, _ = press(t, m, deleted)
	if m.Toast() != catalog.DeletedMessage("Inception") {
		t.Fatalf("unexpected toast %q", m.Toast())
	}
	if !m.loading {
		t.Fatal("expected a refresh after deleting")
	}

	m, _ = press(t, m, m.fetch()())
	if got := len(m.Filtered()); got != 3 {
		t.Fatalf("expected 3 entries after refresh, got %d", got)
	}
	for _, e := range m.Filtered() {
		if e.ID == "1" {
			t.Fatal("deleted entry still listed")
		}
	}
}

func TestDeleteFailureShowsToast(t *testing.T) {
	backend := failingBackend{MemoryBackend: NewMemoryBackend(sampleEntries()), deleteErr: errors.New("boom")}
	m := New(Options{Backend: backend, Initial: sampleEntries()})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyDown}, keyRunes("x"), tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, cmd())
	if m.Toast() != catalog.DeleteFailed {
		t.Fatalf("unexpected toast %q", m.Toast())
	}
	if m.loading {
		t.Fatal("failed delete should not refresh")
	}
}

func TestMemoryBackendDeleteUnknown(t *testing.T) {
	backend := NewMemoryBackend(sampleEntries())
	if err := backend.DeleteEntry(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestToastExpiryIgnoresStaleTicks(t *testing.T) {
	m := New(Options{Backend: NewMemoryBackend(nil)})
	m.showToast("first", toastInfo)
	m.showToast("second", toastInfo)

	m, _ = press(t, m, toastExpiredMsg{seq: 1})
	if m.Toast() != "second" {
		t.Fatalf("stale expiry cleared the toast: %q", m.Toast())
	}
	m, _ = press(t, m, toastExpiredMsg{seq: 2})
	if m.Toast() != "" {
		t.Fatalf("expected toast to clear, got %q", m.Toast())
	}
}

func TestViewToggleAndDetail(t *testing.T) {
	m := New(Options{Backend: NewMemoryBackend(nil), Initial: sampleEntries()})
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}, keyRunes("v"))
	if m.Layout() != ViewGrid {
		t.Fatalf("expected grid view, got %q", m.Layout())
	}
	if !strings.Contains(m.View(), "Breaking Bad") {
		t.Fatal("expected grid to render cards")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter})
	selected, ok := m.Selected()
	if !ok || selected.ID != "2" {
		t.Fatalf("expected second entry selected, got %+v", selected)
	}
	if !strings.Contains(m.View(), "Albuquerque") {
		t.Fatal("expected detail pane with location")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc}, keyRunes("v"))
	if m.detail || m.Layout() != ViewTable {
		t.Fatal("expected esc to close details and v to return to the table")
	}
}

func TestQuitKeys(t *testing.T) {
	m := New(Options{Backend: NewMemoryBackend(nil)})
	for _, key := range []tea.KeyMsg{keyRunes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("expected quit command for %s", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg for %s", key)
		}
	}
}
