package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/JonMunkholm/crewboard/internal/datatable"
	tea "github.com/charmbracelet/bubbletea"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// manualScheduler runs deferred calls only when fire is called.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) datatable.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) fire() {
	s.mu.Lock()
	timers := s.timers
	s.timers = nil
	s.mu.Unlock()
	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

type fakeBackend struct {
	rows  []datatable.Row
	err   error
	calls []datatable.Params
}

func (f *fakeBackend) FetchPage(_ context.Context, _ string, p datatable.Params) (core.Page, error) {
	f.calls = append(f.calls, p)
	return core.Page{Rows: f.rows, Total: len(f.rows), Page: p.Page, PageSize: p.PageSize}, f.err
}

func (f *fakeBackend) FetchAll(context.Context, string) ([]datatable.Row, error) {
	return f.rows, f.err
}

func registerScreens(t *testing.T) {
	t.Helper()
	core.Clear()
	core.Register(core.ScreenDefinition{
		Info: core.ScreenInfo{Key: "jobs", Group: "Operations", Label: "Jobs", Mode: datatable.ModeRemote},
		Fields: []core.FieldSpec{
			{Name: "reference", Label: "Ref", Searchable: true, Sortable: true},
			{Name: "status", Type: core.FieldEnum, EnumValues: []string{"scheduled", "done"}, Sortable: true, Filterable: true},
		},
		DefaultSort: &datatable.SortSpec{Field: "reference", Direction: datatable.Asc},
	})
	core.Register(core.ScreenDefinition{
		Info: core.ScreenInfo{Key: "workers", Group: "People", Label: "Workers", Mode: datatable.ModeLocal},
		Fields: []core.FieldSpec{
			{Name: "name", Searchable: true, Sortable: true},
			{Name: "trade", Type: core.FieldEnum, EnumValues: []string{"electrician", "plumber"}, Filterable: true},
		},
	})
	t.Cleanup(core.Clear)
}

func newTestModel(t *testing.T, backend Backend) (Model, *manualScheduler) {
	t.Helper()
	registerScreens(t)
	sched := &manualScheduler{}
	return New(Options{Backend: backend, PageSize: 2, Scheduler: sched}), sched
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keys(t *testing.T, m Model, ks ...string) Model {
	t.Helper()
	for _, k := range ks {
		m, _ = update(t, m, key(k))
	}
	return m
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// nextParams pops the snapshot the open remote screen emitted.
func nextParams(t *testing.T, s *screenModel) datatable.Params {
	t.Helper()
	select {
	case p := <-s.emits:
		return p
	default:
		t.Fatal("no snapshot emitted")
		return datatable.Params{}
	}
}

func assertNoEmission(t *testing.T, s *screenModel) {
	t.Helper()
	select {
	case p := <-s.emits:
		t.Fatalf("unexpected emission %+v", p)
	default:
	}
}

// deliver feeds an emitted snapshot and its fetched page back to the model.
func deliver(t *testing.T, m Model, p datatable.Params, page core.Page) Model {
	t.Helper()
	m, _ = update(t, m, paramsMsg{screen: m.screen, params: p})
	m, _ = update(t, m, pageMsg{screen: m.screen, seq: m.screen.seq, page: page})
	return m
}

var jobs = []datatable.Row{
	{"id": "1", "reference": "J-1", "status": "scheduled"},
	{"id": "2", "reference": "J-2", "status": "done"},
}

// ---------------------------------------------------------------------------
// Menu
// ---------------------------------------------------------------------------

func TestBuildMenuTree(t *testing.T) {
	registerScreens(t)
	root := buildMenuTree(Options{Reset: func(context.Context) error { return nil }})

	var labels []string
	for _, item := range root.Items {
		labels = append(labels, item.Label)
	}
	want := []string{"Operations ->", "People ->", "Admin ->", "Quit"}
	if strings.Join(labels, ",") != strings.Join(want, ",") {
		t.Fatalf("root items = %v, want %v", labels, want)
	}

	ops := root.Items[0].Submenu
	if ops.Parent != root {
		t.Error("submenu parent not linked")
	}
	back := ops.Items[len(ops.Items)-1]
	if back.Label != "Back" || back.Submenu != root {
		t.Errorf("Back item = %+v, want link to root", back)
	}
}

func TestMenuWithoutReset(t *testing.T) {
	registerScreens(t)
	root := buildMenuTree(Options{})
	for _, item := range root.Items {
		if item.Label == "Admin ->" {
			t.Fatal("admin menu shown without a reset action")
		}
	}
}

func TestMenuNavigation(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})

	m = keys(t, m, "enter")
	if m.menu.Title != "Operations" {
		t.Fatalf("menu = %q, want Operations", m.menu.Title)
	}

	_, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Fatal("selecting a screen returned no command")
	}
	if msg, ok := cmd().(openScreenMsg); !ok || msg.key != "jobs" {
		t.Errorf("command message = %#v, want openScreenMsg{jobs}", cmd())
	}

	m = keys(t, m, "esc")
	if m.menu.Title != "Crewboard" {
		t.Errorf("esc menu = %q, want root", m.menu.Title)
	}
}

func TestResetCmd(t *testing.T) {
	called := false
	ok := resetCmd(func(context.Context) error {
		called = true
		return nil
	})()
	if !called {
		t.Error("reset not run")
	}
	if msg, isDone := ok.(doneMsg); !isDone || msg != "Demo data reset" {
		t.Errorf("message = %#v, want doneMsg", ok)
	}

	failed := resetCmd(func(context.Context) error { return errors.New("permission denied") })()
	if _, isErr := failed.(errMsg); !isErr {
		t.Errorf("message = %#v, want errMsg", failed)
	}
}

func TestErrMsgShowsStatus(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})

	m, _ = update(t, m, errMsg{err: errors.New("permission denied")})

	if !m.statusErr || !strings.Contains(m.View(), "permission denied") {
		t.Errorf("error status not shown: %q", m.View())
	}
}

func TestQuitFromMenu(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})

	_, cmd := update(t, m, key("q"))

	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

// ---------------------------------------------------------------------------
// Remote screen
// ---------------------------------------------------------------------------

func TestRemoteScreen_EmitsAndRendersPages(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})

	m, _ = update(t, m, openScreenMsg{key: "jobs"})
	s := m.screen
	if s == nil {
		t.Fatal("screen not opened")
	}
	if !strings.Contains(m.View(), "loading") {
		t.Errorf("view before first page should show loading")
	}

	p := nextParams(t, s)
	if p.Page != 1 || p.PageSize != 2 || p.SortField != "reference" {
		t.Errorf("initial snapshot = %+v", p)
	}

	m = deliver(t, m, p, core.Page{Rows: jobs, Total: 5, Page: 1, PageSize: 2})
	view := m.View()
	if !strings.Contains(view, "J-2") || !strings.Contains(view, "Page 1 of 3") {
		t.Errorf("view missing page contents:\n%s", view)
	}
}

func TestRemoteScreen_StructuralChangesEmitImmediately(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m, _ = update(t, m, openScreenMsg{key: "jobs"})
	s := m.screen
	m = deliver(t, m, nextParams(t, s), core.Page{Rows: jobs, Total: 5, Page: 1, PageSize: 2})

	m = keys(t, m, "n")
	if p := nextParams(t, s); p.Page != 2 {
		t.Errorf("next page snapshot page = %d, want 2", p.Page)
	}

	m = keys(t, m, "s")
	p := nextParams(t, s)
	if p.SortField != "reference" || p.SortDirection != datatable.Desc || p.Page != 1 {
		t.Errorf("toggle sort snapshot = %+v, want reference desc page 1", p)
	}

	m = keys(t, m, "right", "s")
	if p := nextParams(t, s); p.SortField != "status" || p.SortDirection != datatable.Asc {
		t.Errorf("second column sort = %+v, want status asc", p)
	}
	_ = m
}

func TestRemoteScreen_SearchIsDebounced(t *testing.T) {
	m, sched := newTestModel(t, &fakeBackend{})
	m, _ = update(t, m, openScreenMsg{key: "jobs"})
	s := m.screen
	m = deliver(t, m, nextParams(t, s), core.Page{Rows: jobs, Total: 2, Page: 1, PageSize: 2})

	m = keys(t, m, "/", "b", "o", "i")
	assertNoEmission(t, s)

	sched.fire()
	p := nextParams(t, s)
	if p.Search != "boi" || p.Page != 1 {
		t.Errorf("debounced snapshot = %+v, want search boi page 1", p)
	}
	assertNoEmission(t, s)

	m = keys(t, m, "enter", "c")
	if p := nextParams(t, s); p.Search != "" {
		t.Errorf("clear all snapshot search = %q, want empty", p.Search)
	}
	sched.fire()
	assertNoEmission(t, s)
}

func TestRemoteScreen_IgnoresStalePages(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m, _ = update(t, m, openScreenMsg{key: "jobs"})
	s := m.screen

	m, _ = update(t, m, paramsMsg{screen: s, params: nextParams(t, s)})
	stale := s.seq
	m, _ = update(t, m, paramsMsg{screen: s, params: datatable.Params{Page: 1, PageSize: 2}})

	m, _ = update(t, m, pageMsg{screen: s, seq: stale, page: core.Page{Rows: jobs, Total: 2, Page: 1}})
	if strings.Contains(m.View(), "J-1") {
		t.Error("stale page was installed")
	}

	m, _ = update(t, m, pageMsg{screen: s, seq: s.seq, page: core.Page{Rows: jobs[:1], Total: 1, Page: 1}})
	if !strings.Contains(m.View(), "J-1") {
		t.Error("current page not installed")
	}
}

func TestRemoteScreen_AdoptsServerClampedPage(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m, _ = update(t, m, openScreenMsg{key: "jobs"})
	s := m.screen

	m = deliver(t, m, nextParams(t, s), core.Page{Rows: jobs, Total: 4, Page: 2, PageSize: 2})

	if s.table.Params().Page != 2 {
		t.Errorf("page = %d, want server page 2", s.table.Params().Page)
	}
	assertNoEmission(t, s)
}

func TestRemoteScreen_FetchError(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m, _ = update(t, m, openScreenMsg{key: "jobs"})
	s := m.screen

	m, _ = update(t, m, paramsMsg{screen: s, params: nextParams(t, s)})
	m, _ = update(t, m, pageMsg{screen: s, seq: s.seq, err: errors.New("connection refused")})

	if !strings.Contains(m.View(), "connection refused") {
		t.Errorf("fetch error not shown:\n%s", m.View())
	}
	if s.table.View().Loading {
		t.Error("still loading after a failed fetch")
	}
}

func TestFetchPageCommand(t *testing.T) {
	registerScreens(t)
	backend := &fakeBackend{rows: jobs}
	def, _ := core.Lookup("jobs")
	s := newScreen(def, Options{Backend: backend, PageSize: 2, FetchTimeout: time.Second})

	msg := s.fetchPage(3, datatable.Params{Page: 1, PageSize: 2, Search: "j"})().(pageMsg)

	if msg.seq != 3 || msg.screen != s || msg.err != nil {
		t.Errorf("pageMsg = %+v", msg)
	}
	if len(backend.calls) != 1 || backend.calls[0].Search != "j" {
		t.Errorf("backend calls = %+v", backend.calls)
	}
}

func TestLeavingScreenCancelsPendingSearch(t *testing.T) {
	m, sched := newTestModel(t, &fakeBackend{})
	m, _ = update(t, m, openScreenMsg{key: "jobs"})
	s := m.screen
	m = deliver(t, m, nextParams(t, s), core.Page{Rows: jobs, Total: 2, Page: 1, PageSize: 2})

	m = keys(t, m, "/", "x", "enter", "esc")
	if m.screen != nil {
		t.Fatal("esc did not leave the screen")
	}

	sched.fire()
	assertNoEmission(t, s)
	if msg := s.waitForParams()(); msg != nil {
		t.Errorf("closed screen delivered %#v", msg)
	}
}

// ---------------------------------------------------------------------------
// Local screen
// ---------------------------------------------------------------------------

var crew = []datatable.Row{
	{"id": "1", "name": "Alice Ng", "trade": "electrician"},
	{"id": "2", "name": "Bob Ruiz", "trade": "plumber"},
	{"id": "3", "name": "Cara Diaz", "trade": "electrician"},
}

func openLocal(t *testing.T) Model {
	t.Helper()
	m, _ := newTestModel(t, &fakeBackend{rows: crew})
	m, cmd := update(t, m, openScreenMsg{key: "workers"})
	if cmd == nil {
		t.Fatal("local screen returned no load command")
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Error("local screen should show loading before rows arrive")
	}
	m, _ = update(t, m, cmd())
	return m
}

func TestLocalScreen_SearchFiltersInMemory(t *testing.T) {
	m := openLocal(t)

	m = keys(t, m, "/", "c", "a", "r", "a")
	view := m.View()
	if !strings.Contains(view, "Cara Diaz") || strings.Contains(view, "Alice Ng") {
		t.Errorf("search view:\n%s", view)
	}

	m = keys(t, m, "backspace", "backspace", "backspace", "backspace", "enter")
	if !strings.Contains(m.View(), "Page 1 of 2") {
		t.Errorf("clearing search should restore every row:\n%s", m.View())
	}
}

func TestLocalScreen_FilterPanel(t *testing.T) {
	m := openLocal(t)

	m = keys(t, m, "f")
	if m.screen.focus != focusFilters {
		t.Fatal("f did not focus the filter panel")
	}

	m = keys(t, m, "right", "right")
	view := m.View()
	if !strings.Contains(view, "Trade: Plumber") || !strings.Contains(view, "Bob Ruiz") || strings.Contains(view, "Alice Ng") {
		t.Errorf("plumber filter view:\n%s", view)
	}

	m = keys(t, m, "right")
	if got := m.screen.table.Params().Filters; len(got) != 0 {
		t.Errorf("cycling past the last option should clear the filter, got %v", got)
	}
}

func TestLocalScreen_PagingAndDetails(t *testing.T) {
	m := openLocal(t)

	m = keys(t, m, "n")
	if !strings.Contains(m.View(), "Cara Diaz") {
		t.Errorf("page 2 view:\n%s", m.View())
	}
	m = keys(t, m, "n")
	if m.screen.table.Params().Page != 2 {
		t.Errorf("page = %d, want clamped to 2", m.screen.table.Params().Page)
	}

	m = keys(t, m, "enter")
	if m.screen.detail == nil || m.screen.detail["name"] != "Cara Diaz" {
		t.Fatalf("detail = %v, want Cara Diaz", m.screen.detail)
	}
	m = keys(t, m, "x")
	if m.screen.detail != nil {
		t.Error("any key should close the detail panel")
	}
}

func TestLocalScreen_LoadError(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{err: errors.New("boom")})
	m, cmd := update(t, m, openScreenMsg{key: "workers"})
	m, _ = update(t, m, cmd())

	if !strings.Contains(m.View(), "boom") {
		t.Errorf("load error not shown:\n%s", m.View())
	}
	m = keys(t, m, "esc")
	if m.screen != nil {
		t.Error("esc should leave a screen that failed to load")
	}
}

func TestOpenUnknownScreen(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})

	m, _ = update(t, m, openScreenMsg{key: "nope"})

	if m.screen != nil || !m.statusErr {
		t.Error("unknown screen should report an error and stay on the menu")
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestCycle(t *testing.T) {
	choices := []string{"", "a", "b"}
	tests := []struct {
		cur  string
		step int
		want string
	}{
		{"", 1, "a"},
		{"b", 1, ""},
		{"", -1, "b"},
		{"unknown", 1, "a"},
	}
	for _, tt := range tests {
		if got := cycle(choices, tt.cur, tt.step); got != tt.want {
			t.Errorf("cycle(%q, %d) = %q, want %q", tt.cur, tt.step, got, tt.want)
		}
	}
}

func TestTruncateAndPad(t *testing.T) {
	if got := truncate("Northside School", 8); got != "Northsi…" {
		t.Errorf("truncate = %q", got)
	}
	if got := pad("7", 3, datatable.AlignRight); got != "  7" {
		t.Errorf("pad right = %q", got)
	}
	if got := pad("ab", 4, datatable.AlignLeft); got != "ab  " {
		t.Errorf("pad left = %q", got)
	}
}
