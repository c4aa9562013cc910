package datatable

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotRemote is returned when remote data is fed to a local table.
var ErrNotRemote = errors.New("datatable: table is not in remote mode")

// DefaultPageSize is used when Options.PageSize is not positive.
const DefaultPageSize = 10

// Mode names the data source a table was built with.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// Style is an opaque per-row style object produced by the caller.
type Style map[string]string

// Action is a per-row affordance. The engine never inspects it beyond
// invoking OnClick with the row.
type Action struct {
	Icon    string
	Tooltip string
	Color   string
	OnClick func(Row)
}

// Options configures a table. Every Controlled field is optional.
type Options struct {
	// ID identifies the instance in logs. A random id is used when empty.
	ID string
	// Name is the screen the table backs, for logs.
	Name string

	Columns      []Column
	Filters      []FilterDescriptor
	SearchFields []string // empty searches every field
	DefaultSort  *SortSpec
	PageSize     int

	Actions     []Action
	GetRowStyle func(Row) Style

	// Remote emission.
	DebounceDelay time.Duration
	Scheduler     Scheduler

	Logger *slog.Logger

	// Owner-controlled state.
	Search       *Controlled[string]
	FilterValues *Controlled[FilterValues]
	Sort         *Controlled[*SortSpec]
	Pagination   *Controlled[Pagination]
	ShowFilters  *Controlled[bool]
}

// View is everything a render surface reads.
type View struct {
	Mode       Mode
	Rows       []Row
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	Loading    bool
	Empty      bool

	Search           string
	Filters          FilterValues
	Sort             *SortSpec
	HasActiveFilters bool
	ShowFilters      bool
}

// change classifies a state transition for the dispatcher.
type change string

const (
	changeSearch     change = "search"
	changeStructural change = "structural"
	changeClear      change = "clear"
)

// source is the mode-specific half of a table.
type source interface {
	mode() Mode
	view(t *Table) (rows []Row, total int, loading bool)
	matching(t *Table) []Row
	total(t *Table) int
	onChange(c change, p Params)
}

type localSource struct {
	rows []Row
}

func (s *localSource) mode() Mode { return ModeLocal }

func (s *localSource) view(t *Table) ([]Row, int, bool) {
	res := Process(s.rows, t.opts.Columns, t.opts.Filters, t.st.query(t.opts.SearchFields))
	return res.Rows, res.Total, false
}

func (s *localSource) matching(t *Table) []Row {
	return Match(s.rows, t.opts.Columns, t.opts.Filters, t.st.query(t.opts.SearchFields))
}

func (s *localSource) total(t *Table) int {
	q := t.st.query(t.opts.SearchFields)
	return len(Narrow(Search(s.rows, q.Search, q.SearchFields), t.opts.Columns, t.opts.Filters, q.Filters))
}

// onChange is a no-op: the pipeline re-runs on the next View.
func (s *localSource) onChange(change, Params) {}

type remoteSource struct {
	rows    []Row
	count   int
	loading bool
	emit    *emitter
}

func (s *remoteSource) mode() Mode { return ModeRemote }

func (s *remoteSource) view(*Table) ([]Row, int, bool) {
	return s.rows, s.count, s.loading
}

func (s *remoteSource) matching(*Table) []Row { return s.rows }

func (s *remoteSource) total(*Table) int { return s.count }

func (s *remoteSource) onChange(c change, p Params) {
	switch c {
	case changeSearch:
		s.emit.debounce(p)
	default:
		s.emit.now(p, string(c))
	}
}

// Table is one mounted table instance.
type Table struct {
	mu     sync.Mutex
	opts   Options
	st     *store
	src    source
	logger *slog.Logger
	closed bool
}

// NewLocal builds a table that processes rows in memory. rows is never
// modified.
func NewLocal(rows []Row, opts Options) *Table {
	return newTable(&localSource{rows: rows}, opts)
}

// NewRemote builds a table whose data comes from the owner. listener
// receives a snapshot after every relevant state change.
func NewRemote(opts Options, listener Listener) *Table {
	t := newTable(nil, opts)
	t.src = &remoteSource{
		emit: newEmitter(opts.Scheduler, opts.DebounceDelay, listener, t.logger),
	}
	return t
}

func newTable(src source, opts Options) *Table {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("table_id", opts.ID)
	if opts.Name != "" {
		logger = logger.With("table", opts.Name)
	}
	return &Table{
		opts:   opts,
		st:     newStore(opts),
		src:    src,
		logger: logger,
	}
}

// ID returns the instance id.
func (t *Table) ID() string { return t.opts.ID }

// Mode returns the table's fixed mode.
func (t *Table) Mode() Mode { return t.src.mode() }

// Columns returns the column descriptors.
func (t *Table) Columns() []Column { return t.opts.Columns }

// FilterDescriptors returns the declared filters.
func (t *Table) FilterDescriptors() []FilterDescriptor { return t.opts.Filters }

// Actions returns the per-row actions.
func (t *Table) Actions() []Action { return t.opts.Actions }

// InvokeAction runs action i for row. It reports false for an unknown index.
func (t *Table) InvokeAction(i int, row Row) bool {
	if i < 0 || i >= len(t.opts.Actions) || t.opts.Actions[i].OnClick == nil {
		return false
	}
	t.opts.Actions[i].OnClick(row)
	return true
}

// RowStyle returns the caller's style for row, or nil.
func (t *Table) RowStyle(row Row) Style {
	if t.opts.GetRowStyle == nil {
		return nil
	}
	return t.opts.GetRowStyle(row)
}

// update runs fn under the lock and dispatches the resulting change.
// fn returns false when nothing changed.
func (t *Table) update(c change, fn func(st *store) bool) {
	t.mu.Lock()
	if t.closed || !fn(t.st) {
		t.mu.Unlock()
		return
	}
	p := t.st.params()
	src := t.src
	t.mu.Unlock()
	src.onChange(c, p)
}

// SetSearch replaces the search text and returns to page 1.
func (t *Table) SetSearch(text string) {
	t.update(changeSearch, func(st *store) bool {
		if st.search.get() == text {
			return false
		}
		st.search.set(text)
		st.resetPage()
		return true
	})
}

// SetFilter sets one filter value. An empty value removes the filter.
func (t *Table) SetFilter(id string, value any) {
	t.update(changeStructural, func(st *store) bool {
		cur := st.filters.get()
		old, had := cur[id]
		if !IsActive(value) {
			if !had {
				return false
			}
			next := cur.Clone()
			delete(next, id)
			st.filters.set(next)
		} else {
			if had && IsActive(old) && stringify(old) == stringify(value) {
				return false
			}
			next := cur.Clone()
			if next == nil {
				next = FilterValues{}
			}
			next[id] = value
			st.filters.set(next)
		}
		st.resetPage()
		return true
	})
}

// ClearFilter removes one filter value.
func (t *Table) ClearFilter(id string) {
	t.SetFilter(id, nil)
}

// SetFilters replaces every filter value.
func (t *Table) SetFilters(values FilterValues) {
	t.update(changeStructural, func(st *store) bool {
		st.filters.set(values.Clone())
		st.resetPage()
		return true
	})
}

// ClearAll empties search and filters. Remote tables emit at once, skipping
// the search debounce.
func (t *Table) ClearAll() {
	t.update(changeClear, func(st *store) bool {
		st.search.set("")
		st.filters.set(nil)
		st.resetPage()
		return true
	})
}

// SetSort replaces the sort. nil clears it.
func (t *Table) SetSort(spec *SortSpec) {
	t.update(changeStructural, func(st *store) bool {
		var next *SortSpec
		if spec != nil && spec.Field != "" {
			s := *spec
			if s.Direction == "" {
				s.Direction = Asc
			}
			next = &s
		}
		cur := st.sort.get()
		if sameSort(cur, next) {
			return false
		}
		st.sort.set(next)
		st.resetPage()
		return true
	})
}

// ToggleSort cycles a sortable column through asc, desc and unsorted.
// Other columns start at asc.
func (t *Table) ToggleSort(field string) {
	if col, ok := t.column(field); !ok || !col.Sortable {
		return
	}
	t.mu.Lock()
	cur := t.st.sort.get()
	t.mu.Unlock()

	t.SetSort(NextSort(cur, field))
}

// NextSort returns the sort that follows cur when field's header is
// toggled: asc, then desc, then unsorted.
func NextSort(cur *SortSpec, field string) *SortSpec {
	switch {
	case cur == nil || cur.Field != field:
		return &SortSpec{Field: field, Direction: Asc}
	case cur.Direction == Desc:
		return nil
	default:
		return &SortSpec{Field: field, Direction: Desc}
	}
}

func sameSort(a, b *SortSpec) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Field == b.Field && a.Direction == b.Direction
}

func (t *Table) column(id string) (Column, bool) {
	for _, c := range t.opts.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// SetPage moves to page n, clamped to the pages available.
func (t *Table) SetPage(n int) {
	t.update(changeStructural, func(st *store) bool {
		p := st.pagination()
		last := TotalPages(t.src.total(t), p.PageSize)
		n = max(1, min(n, last))
		if n == p.Page {
			return false
		}
		p.Page = n
		st.page.set(p)
		return true
	})
}

// NextPage and PrevPage step through pages within bounds.
func (t *Table) NextPage() { t.SetPage(t.Params().Page + 1) }

func (t *Table) PrevPage() { t.SetPage(t.Params().Page - 1) }

// SetPageSize changes the page size and returns to page 1.
func (t *Table) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	t.update(changeStructural, func(st *store) bool {
		p := st.pagination()
		if p.PageSize == size {
			return false
		}
		st.page.set(Pagination{Page: 1, PageSize: size})
		return true
	})
}

// SetShowFilters opens or closes the filter panel.
func (t *Table) SetShowFilters(show bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.st.showFilters.set(show)
}

// ToggleFilters flips the filter panel.
func (t *Table) ToggleFilters() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.st.showFilters.set(!t.st.showFilters.get())
}

// Params returns the current snapshot.
func (t *Table) Params() Params {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st.params()
}

// Refresh emits the current snapshot immediately. Remote owners call it
// once after construction to load the first page, and again to reload.
// It does nothing for local tables.
func (t *Table) Refresh() {
	t.mu.Lock()
	r, ok := t.src.(*remoteSource)
	if !ok || t.closed {
		t.mu.Unlock()
		return
	}
	p := t.st.params()
	t.mu.Unlock()
	r.emit.now(p, "refresh")
}

// Sync reacts to owner-driven changes of controlled values. A remote table
// emits when the snapshot differs from the last one delivered: debounced
// if only the search text moved, immediately otherwise.
func (t *Table) Sync() {
	t.mu.Lock()
	r, ok := t.src.(*remoteSource)
	if !ok || t.closed {
		t.mu.Unlock()
		return
	}
	p := t.st.params()
	t.mu.Unlock()

	last, emitted := r.emit.lastEmitted()
	switch {
	case !emitted:
		r.emit.now(p, "sync")
	case p.onlySearchDiffers(last):
		r.emit.debounce(p)
	case !p.Equal(last):
		r.emit.now(p, "sync")
	}
}

// SetRemoteData installs the page returned for the last snapshot and
// clears the loading flag.
func (t *Table) SetRemoteData(rows []Row, total int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.src.(*remoteSource)
	if !ok {
		return ErrNotRemote
	}
	r.rows = rows
	r.count = max(total, 0)
	r.loading = false
	return nil
}

// SetLoading marks a remote fetch as in flight.
func (t *Table) SetLoading(loading bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.src.(*remoteSource)
	if !ok {
		return ErrNotRemote
	}
	r.loading = loading
	return nil
}

// Pending reports whether a debounced emission is waiting.
func (t *Table) Pending() bool {
	t.mu.Lock()
	r, ok := t.src.(*remoteSource)
	t.mu.Unlock()
	return ok && r.emit.hasPending()
}

// View returns the current page and state for rendering.
func (t *Table) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, total, loading := t.src.view(t)
	p := t.st.pagination()
	return View{
		Mode:             t.src.mode(),
		Rows:             rows,
		Total:            total,
		Page:             p.Page,
		PageSize:         p.PageSize,
		TotalPages:       TotalPages(total, p.PageSize),
		Loading:          loading,
		Empty:            !loading && len(rows) == 0,
		Search:           t.st.search.get(),
		Filters:          t.st.filters.get().Active(),
		Sort:             t.st.sort.get(),
		HasActiveFilters: t.st.hasActiveFilters(),
		ShowFilters:      t.st.shouldShowFilters(),
	}
}

// Matching returns every row that passes search and filters, sorted but
// not paginated. Remote tables return the current page.
func (t *Table) Matching() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.src.matching(t)
}

// Close tears the table down. A pending search emission is cancelled and
// later handler calls are ignored.
func (t *Table) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	r, remote := t.src.(*remoteSource)
	t.mu.Unlock()

	if remote {
		r.emit.close()
	}
	t.logger.Debug("table closed")
}
