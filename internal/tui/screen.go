package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/JonMunkholm/crewboard/internal/datatable"
	tea "github.com/charmbracelet/bubbletea"
)

// emitBuffer bounds queued snapshots. Only the latest matters, so older
// ones are dropped when it fills.
const emitBuffer = 8

type focus int

const (
	focusTable focus = iota
	focusSearch
	focusFilters
)

// screenModel is one open list screen. Remote screens receive snapshots on
// emits and fetch each one; local screens load every row once.
type screenModel struct {
	def  core.ScreenDefinition
	opts Options

	table *datatable.Table // nil until a local screen has its rows
	page  datatable.Pagination

	emits     chan datatable.Params
	done      chan struct{}
	closeOnce sync.Once
	seq       uint64 // emissions received so far

	focus  focus
	col    int
	row    int
	filter int
	detail datatable.Row
	err    error
}

func newScreen(def core.ScreenDefinition, opts Options) *screenModel {
	return &screenModel{
		def:   def,
		opts:  opts,
		page:  datatable.Pagination{Page: 1, PageSize: opts.PageSize},
		emits: make(chan datatable.Params, emitBuffer),
		done:  make(chan struct{}),
	}
}

// open builds the screen and returns the commands that load its data.
func openScreen(def core.ScreenDefinition, opts Options) (*screenModel, tea.Cmd) {
	s := newScreen(def, opts)
	if def.Info.Mode == datatable.ModeLocal {
		return s, s.loadAll()
	}

	s.table = datatable.NewRemote(s.tableOptions(), s.enqueue)
	_ = s.table.SetLoading(true)
	s.table.Refresh()
	return s, s.waitForParams()
}

func (s *screenModel) tableOptions() datatable.Options {
	opts := s.def.TableOptions(s.opts.PageSize)
	opts.DebounceDelay = s.opts.DebounceDelay
	opts.Scheduler = s.opts.Scheduler
	opts.Logger = s.opts.Logger
	opts.Pagination = &datatable.Controlled[datatable.Pagination]{
		Get: func() datatable.Pagination { return s.page },
		Set: func(p datatable.Pagination) { s.page = p },
	}
	opts.Actions = []datatable.Action{{
		Icon:    "i",
		Tooltip: "Show details",
		OnClick: func(row datatable.Row) { s.detail = row },
	}}
	return opts
}

// enqueue is the remote listener. It runs on the update loop for
// structural changes and on a timer goroutine for debounced searches.
func (s *screenModel) enqueue(p datatable.Params) {
	for {
		select {
		case <-s.done:
			return
		case s.emits <- p:
			return
		default:
			select {
			case <-s.emits:
			default:
			}
		}
	}
}

// waitForParams delivers the next emitted snapshot to the update loop.
func (s *screenModel) waitForParams() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.done:
			return nil
		case p := <-s.emits:
			return paramsMsg{screen: s, params: p}
		}
	}
}

// fetchPage asks the backend for the page of snapshot p.
func (s *screenModel) fetchPage(seq uint64, p datatable.Params) tea.Cmd {
	backend, key, timeout := s.opts.Backend, s.def.Info.Key, s.opts.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := backend.FetchPage(ctx, key, p)
		return pageMsg{screen: s, seq: seq, page: page, err: err}
	}
}

func (s *screenModel) loadAll() tea.Cmd {
	backend, key, timeout := s.opts.Backend, s.def.Info.Key, s.opts.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rows, err := backend.FetchAll(ctx, key)
		return rowsMsg{screen: s, rows: rows, err: err}
	}
}

// received starts the fetch for an emitted snapshot and keeps listening.
func (s *screenModel) received(p datatable.Params) tea.Cmd {
	s.seq++
	_ = s.table.SetLoading(true)
	s.err = nil
	return tea.Batch(s.fetchPage(s.seq, p), s.waitForParams())
}

// fetched installs a page unless a newer snapshot has been emitted since.
func (s *screenModel) fetched(msg pageMsg) {
	if msg.seq != s.seq {
		return
	}
	if msg.err != nil {
		s.err = fmt.Errorf("fetch %s: %w", s.def.Info.Key, msg.err)
		_ = s.table.SetLoading(false)
		return
	}
	_ = s.table.SetRemoteData(msg.page.Rows, msg.page.Total)
	if msg.page.Page > 0 {
		s.page.Page = msg.page.Page
	}
	s.clampRow()
}

func (s *screenModel) loaded(msg rowsMsg) {
	if msg.err != nil {
		s.err = fmt.Errorf("load %s: %w", s.def.Info.Key, msg.err)
		return
	}
	if s.table != nil {
		s.table.Close()
	}
	s.table = datatable.NewLocal(msg.rows, s.tableOptions())
	s.table.SetPage(s.page.Page)
	s.err = nil
	s.clampRow()
}

func (s *screenModel) close() {
	s.closeOnce.Do(func() {
		if s.table != nil {
			s.table.Close()
		}
		close(s.done)
	})
}

func (s *screenModel) clampRow() {
	n := len(s.table.View().Rows)
	s.row = max(0, min(s.row, n-1))
}

/* ----------------------------------------
	KEYS
---------------------------------------- */

// handleKey applies a key press. It reports whether the screen should be
// left.
func (s *screenModel) handleKey(msg tea.KeyMsg) (leave bool, cmd tea.Cmd) {
	if s.table == nil {
		switch msg.String() {
		case "esc", "backspace":
			return true, nil
		}
		return false, nil
	}

	switch s.focus {
	case focusSearch:
		s.searchKey(msg)
		return false, nil
	case focusFilters:
		s.filterKey(msg)
		return false, nil
	}

	if s.detail != nil {
		s.detail = nil
		return false, nil
	}

	cols := s.table.Columns()
	switch msg.String() {
	case "esc", "backspace":
		return true, nil
	case "/":
		s.focus = focusSearch
	case "left", "h":
		s.col = max(0, s.col-1)
	case "right", "l":
		s.col = min(len(cols)-1, s.col+1)
	case "up", "k":
		s.row = max(0, s.row-1)
	case "down", "j":
		s.row++
		s.clampRow()
	case "s":
		if s.col < len(cols) {
			s.table.ToggleSort(cols[s.col].ID)
		}
	case "n", "pgdown":
		s.table.NextPage()
	case "p", "pgup":
		s.table.PrevPage()
	case "c":
		s.table.ClearAll()
	case "f":
		s.table.ToggleFilters()
		if s.table.View().ShowFilters && len(s.table.FilterDescriptors()) > 0 {
			s.focus = focusFilters
		}
	case "r":
		if s.table.Mode() == datatable.ModeLocal {
			return false, s.loadAll()
		}
		s.table.Refresh()
	case "enter":
		rows := s.table.View().Rows
		if s.row < len(rows) {
			s.table.InvokeAction(0, rows[s.row])
		}
	}
	return false, nil
}

func (s *screenModel) searchKey(msg tea.KeyMsg) {
	text := []rune(s.table.Params().Search)
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeyTab:
		s.focus = focusTable
		return
	case tea.KeyBackspace:
		if len(text) == 0 {
			return
		}
		text = text[:len(text)-1]
	case tea.KeySpace:
		text = append(text, ' ')
	case tea.KeyRunes:
		text = append(text, msg.Runes...)
	default:
		return
	}
	s.table.SetSearch(string(text))
	s.row = 0
}

func (s *screenModel) filterKey(msg tea.KeyMsg) {
	descs := s.table.FilterDescriptors()
	if len(descs) == 0 {
		s.focus = focusTable
		return
	}
	d := descs[min(s.filter, len(descs)-1)]
	cur := datatable.String(s.table.Params().Filters[d.ID])

	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeyTab:
		s.focus = focusTable
	case tea.KeyUp:
		s.filter = max(0, s.filter-1)
	case tea.KeyDown:
		s.filter = min(len(descs)-1, s.filter+1)
	case tea.KeyLeft, tea.KeyRight:
		if choices := filterChoices(d); choices != nil {
			step := 1
			if msg.Type == tea.KeyLeft {
				step = -1
			}
			s.table.SetFilter(d.ID, cycle(choices, cur, step))
		}
	case tea.KeyBackspace:
		if r := []rune(cur); len(r) > 0 {
			s.table.SetFilter(d.ID, string(r[:len(r)-1]))
		}
	case tea.KeyRunes, tea.KeySpace:
		if filterChoices(d) == nil {
			s.table.SetFilter(d.ID, cur+string(msg.Runes))
		}
	}
	s.row = 0
}

// filterChoices lists the values a select or checkbox filter cycles
// through, starting with "any". Free-text kinds return nil.
func filterChoices(d datatable.FilterDescriptor) []string {
	switch d.Kind {
	case datatable.FilterCheckbox:
		return []string{"", "true", "false"}
	case datatable.FilterSelect:
		out := []string{""}
		for _, o := range d.Options {
			out = append(out, o.Value)
		}
		return out
	}
	return nil
}

func cycle(choices []string, cur string, step int) string {
	i := 0
	for j, c := range choices {
		if c == cur {
			i = j
			break
		}
	}
	n := len(choices)
	return choices[((i+step)%n+n)%n]
}
