// Package tui is the terminal front end of crewboard: a menu of screens and
// a keyboard-driven list table on top of the datatable engine.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/JonMunkholm/crewboard/internal/datatable"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFetchTimeout bounds one backend call.
const DefaultFetchTimeout = 15 * time.Second

// Backend answers table snapshots. *core.Service satisfies it.
type Backend interface {
	FetchPage(ctx context.Context, key string, p datatable.Params) (core.Page, error)
	FetchAll(ctx context.Context, key string) ([]datatable.Row, error)
}

// Options configures the terminal UI.
type Options struct {
	Backend       Backend
	PageSize      int
	DebounceDelay time.Duration
	FetchTimeout  time.Duration

	// Reset, when set, adds the admin menu.
	Reset func(context.Context) error

	// Scheduler defers debounced searches. Nil uses the runtime timer.
	Scheduler datatable.Scheduler
	Logger    *slog.Logger
}

// Model is the root bubbletea model.
type Model struct {
	opts Options

	menu   *Menu
	cursor int
	screen *screenModel

	status    string
	statusErr bool
	width     int
}

// New builds the model with a menu of every registered screen.
func New(opts Options) Model {
	if opts.PageSize <= 0 {
		opts.PageSize = datatable.DefaultPageSize
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return Model{opts: opts, menu: buildMenuTree(opts)}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.closeScreen()
			return m, tea.Quit
		}
		if m.screen != nil {
			return m.updateScreen(msg)
		}
		return m.updateMenu(msg)

	case openScreenMsg:
		return m.openScreen(msg.key)

	case paramsMsg:
		if msg.screen != m.screen || m.screen == nil {
			return m, nil
		}
		return m, m.screen.received(msg.params)

	case pageMsg:
		if msg.screen == m.screen && m.screen != nil {
			m.screen.fetched(msg)
		}
		return m, nil

	case rowsMsg:
		if msg.screen == m.screen && m.screen != nil {
			m.screen.loaded(msg)
		}
		return m, nil

	case statusMsg:
		m.status, m.statusErr = string(msg), false
		return m, nil

	case doneMsg:
		m.status, m.statusErr = string(msg), false
		return m, nil

	case errMsg:
		m.status, m.statusErr = msg.err.Error(), true
		m.opts.Logger.Error("action failed", "error", msg.err)
		return m, nil
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu.Items)-1 {
			m.cursor++
		}
	case "esc", "backspace":
		if m.menu.Parent != nil {
			m.menu, m.cursor = m.menu.Parent, 0
		}
	case "enter":
		item := m.menu.Items[m.cursor]
		if item.Submenu != nil {
			m.menu, m.cursor = item.Submenu, 0
			return m, nil
		}
		if item.Action != nil {
			return m, item.Action()
		}
	}
	return m, nil
}

func (m Model) updateScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" && m.screen.focus == focusTable {
		m.closeScreen()
		return m, tea.Quit
	}
	leave, cmd := m.screen.handleKey(msg)
	if leave {
		m.closeScreen()
	}
	return m, cmd
}

func (m Model) openScreen(key string) (tea.Model, tea.Cmd) {
	def, err := core.Lookup(key)
	if err != nil {
		m.status, m.statusErr = core.FormatUserError(err), true
		return m, nil
	}
	m.closeScreen()
	opts := m.opts
	opts.Logger = m.opts.Logger.With("component", "datatable", "screen", key)
	screen, cmd := openScreen(def, opts)
	m.screen = screen
	m.status = ""
	return m, cmd
}

func (m *Model) closeScreen() {
	if m.screen != nil {
		m.screen.close()
		m.screen = nil
	}
}
