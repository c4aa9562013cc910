package datatable

// Controlled lets an owner supply a field's value and receive its changes.
// The field is controlled only when both Get and Set are non-nil. Set must
// apply the value synchronously and must not call back into the table.
type Controlled[T any] struct {
	Get func() T
	Set func(T)
}

// field resolves one piece of state to either the owner's pair or an
// internal cell.
type field[T any] struct {
	ext   *Controlled[T]
	owned T
}

func newField[T any](ctl *Controlled[T], initial T) field[T] {
	f := field[T]{owned: initial}
	if ctl != nil && ctl.Get != nil && ctl.Set != nil {
		f.ext = ctl
	}
	return f
}

func (f *field[T]) get() T {
	if f.ext != nil {
		return f.ext.Get()
	}
	return f.owned
}

func (f *field[T]) set(v T) {
	if f.ext != nil {
		f.ext.Set(v)
		return
	}
	f.owned = v
}

func (f *field[T]) controlled() bool {
	return f.ext != nil
}

// store is the single source of truth for table state. Nothing outside it
// knows whether a value lives with the owner or here.
type store struct {
	search      field[string]
	filters     field[FilterValues]
	sort        field[*SortSpec]
	page        field[Pagination]
	showFilters field[bool]
}

func newStore(opts Options) *store {
	var defaultSort *SortSpec
	if opts.DefaultSort != nil {
		s := *opts.DefaultSort
		defaultSort = &s
	}
	return &store{
		search:      newField(opts.Search, ""),
		filters:     newField(opts.FilterValues, FilterValues(nil)),
		sort:        newField(opts.Sort, defaultSort),
		page:        newField(opts.Pagination, Pagination{Page: 1, PageSize: opts.PageSize}),
		showFilters: newField(opts.ShowFilters, false),
	}
}

func (s *store) pagination() Pagination {
	p := s.page.get()
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// resetPage moves back to page 1, keeping the page size.
func (s *store) resetPage() {
	p := s.pagination()
	if p.Page == 1 {
		return
	}
	p.Page = 1
	s.page.set(p)
}

// hasActiveFilters is true once search text or any filter value is engaged.
func (s *store) hasActiveFilters() bool {
	return s.search.get() != "" || len(s.filters.get().Active()) > 0
}

// shouldShowFilters reveals the filter panel whenever filters are engaged,
// even if the owner never opened it.
func (s *store) shouldShowFilters() bool {
	return s.showFilters.get() || s.hasActiveFilters()
}

// params serialises the current state.
func (s *store) params() Params {
	p := s.pagination()
	out := Params{
		Page:     p.Page,
		PageSize: p.PageSize,
		Search:   s.search.get(),
		Filters:  s.filters.get().Active(),
	}
	if spec := s.sort.get(); spec != nil && spec.Field != "" {
		out.SortField = spec.Field
		out.SortDirection = spec.Direction
		if out.SortDirection == "" {
			out.SortDirection = Asc
		}
	}
	return out
}

func (s *store) query(searchFields []string) Query {
	return Query{
		Search:       s.search.get(),
		SearchFields: searchFields,
		Filters:      s.filters.get(),
		Sort:         s.sort.get(),
		Page:         s.pagination(),
	}
}
