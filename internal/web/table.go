package web

import (
	"context"
	"fmt"
	"net/url"

	"github.com/JonMunkholm/crewboard/internal/config"
	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/JonMunkholm/crewboard/internal/datatable"
	"github.com/JonMunkholm/crewboard/internal/logging"
)

// queryShowFilters keeps the filter panel open across page loads.
const queryShowFilters = "showFilters"

// tableState is the URL-owned state of a server-rendered table. The engine
// reads and writes it through controlled fields, so the query string stays
// the single source of truth.
type tableState struct {
	params      datatable.Params
	showFilters bool
}

// parseTableState reads the table state from a request's query, starting
// from the screen's defaults and capping the page size.
func parseTableState(q url.Values, def core.ScreenDefinition, cfg config.TableConfig) *tableState {
	p := datatable.ParseParams(q, def.DefaultParams(cfg.PageSize))
	if cfg.MaxPageSize > 0 && p.PageSize > cfg.MaxPageSize {
		p.PageSize = cfg.MaxPageSize
	}
	return &tableState{
		params:      p,
		showFilters: q.Get(queryShowFilters) == "1",
	}
}

// query encodes the state for links and forms. An unsorted state keeps an
// empty sortField so the screen's default sort is not reapplied.
func (st *tableState) query() url.Values {
	q := st.params.Query()
	if st.params.SortField == "" {
		q.Set(datatable.QuerySortField, "")
	}
	if st.showFilters {
		q.Set(queryShowFilters, "1")
	}
	return q
}

// with returns a copy of the state changed by fn.
func (st *tableState) with(fn func(*tableState)) *tableState {
	next := &tableState{params: st.params, showFilters: st.showFilters}
	next.params.Filters = st.params.Filters.Clone()
	fn(next)
	return next
}

// options binds the engine's controllable fields to the state.
func (st *tableState) options(def core.ScreenDefinition, pageSize int) datatable.Options {
	opts := def.TableOptions(pageSize)
	opts.Search = &datatable.Controlled[string]{
		Get: func() string { return st.params.Search },
		Set: func(v string) { st.params.Search = v },
	}
	opts.FilterValues = &datatable.Controlled[datatable.FilterValues]{
		Get: func() datatable.FilterValues { return st.params.Filters },
		Set: func(v datatable.FilterValues) { st.params.Filters = v.Active() },
	}
	opts.Sort = &datatable.Controlled[*datatable.SortSpec]{
		Get: func() *datatable.SortSpec { return st.params.Sort() },
		Set: func(v *datatable.SortSpec) {
			st.params.SortField, st.params.SortDirection = "", ""
			if v != nil {
				st.params.SortField, st.params.SortDirection = v.Field, v.Direction
			}
		},
	}
	opts.Pagination = &datatable.Controlled[datatable.Pagination]{
		Get: func() datatable.Pagination {
			return datatable.Pagination{Page: st.params.Page, PageSize: st.params.PageSize}
		},
		Set: func(v datatable.Pagination) { st.params.Page, st.params.PageSize = v.Page, v.PageSize },
	}
	opts.ShowFilters = &datatable.Controlled[bool]{
		Get: func() bool { return st.showFilters },
		Set: func(v bool) { st.showFilters = v },
	}
	return opts
}

// openTable builds the engine table serving one request. Remote screens
// fetch the requested page through the backend; local screens load every
// row and let the engine search, filter, sort and page in memory. The
// requested page is clamped either way. Callers must Close the table.
func (s *Server) openTable(ctx context.Context, def core.ScreenDefinition, st *tableState) (*datatable.Table, error) {
	opts := st.options(def, s.cfg.Table.PageSize)
	opts.Logger = logging.ForTable(ctx, def.Info.Key)

	if def.Info.Mode == datatable.ModeLocal {
		rows, err := s.backend.FetchAll(ctx, def.Info.Key)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", def.Info.Key, err)
		}
		t := datatable.NewLocal(rows, opts)
		t.SetPage(st.params.Page)
		return t, nil
	}

	var (
		t        *datatable.Table
		fetchErr error
	)
	t = datatable.NewRemote(opts, func(p datatable.Params) {
		page, err := s.backend.FetchPage(ctx, def.Info.Key, p)
		if err != nil {
			fetchErr = err
			return
		}
		st.params.Page = page.Page
		_ = t.SetRemoteData(page.Rows, page.Total)
	})
	_ = t.SetLoading(true)
	t.Refresh()

	if fetchErr != nil {
		t.Close()
		return nil, fmt.Errorf("fetch %s page: %w", def.Info.Key, fetchErr)
	}
	return t, nil
}

// matchingRows returns every row an export of the current state includes:
// the backend's full match for remote screens, the engine's for local ones.
func (s *Server) matchingRows(ctx context.Context, def core.ScreenDefinition, st *tableState) ([]datatable.Row, error) {
	if def.Info.Mode == datatable.ModeRemote {
		rows, err := s.backend.FetchMatching(ctx, def.Info.Key, st.params)
		if err != nil {
			return nil, fmt.Errorf("fetch %s rows: %w", def.Info.Key, err)
		}
		return rows, nil
	}

	t, err := s.openTable(ctx, def, st)
	if err != nil {
		return nil, err
	}
	defer t.Close()
	return t.Matching(), nil
}
