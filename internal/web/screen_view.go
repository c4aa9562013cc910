package web

import (
	"net/url"
	"strconv"

	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/JonMunkholm/crewboard/internal/datatable"
)

// screenView is the render model of one list screen.
type screenView struct {
	Info core.ScreenInfo

	Headers []headerView
	Rows    []rowView
	Filters []filterView
	Hidden  []hiddenInput

	Search           string
	ShowFilters      bool
	HasActiveFilters bool
	Empty            bool

	Page       int
	TotalPages int
	Total      int

	ToggleFiltersLink string
	ClearAllLink      string
	PrevLink          string
	NextLink          string
	ExportCSVLink     string
	ExportXLSXLink    string
}

type headerView struct {
	Label     string
	Align     datatable.Align
	Link      string // empty for unsortable columns
	Indicator string
}

type rowView struct {
	Tone  string
	Cells []cellView
}

type cellView struct {
	Text  string
	Align datatable.Align
}

type filterView struct {
	Name      string
	Label     string
	InputType string
	Value     string
	Options   []optionView
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type hiddenInput struct {
	Name  string
	Value string
}

// yesNoOptions back checkbox filters, which render as a select so "any"
// stays expressible.
var yesNoOptions = []datatable.FilterOption{
	{Value: "true", Label: "Yes"},
	{Value: "false", Label: "No"},
}

// buildScreenView renders the table's current view into links and cells.
// Links carry the whole state, so every control is a plain GET.
func buildScreenView(def core.ScreenDefinition, st *tableState, t *datatable.Table) screenView {
	view := t.View()
	base := "/screens/" + url.PathEscape(def.Info.Key)

	v := screenView{
		Info:             def.Info,
		Search:           view.Search,
		ShowFilters:      view.ShowFilters,
		HasActiveFilters: view.HasActiveFilters,
		Empty:            view.Empty,
		Page:             view.Page,
		TotalPages:       max(view.TotalPages, 1),
		Total:            view.Total,
	}

	for _, col := range t.Columns() {
		h := headerView{Label: col.Label, Align: col.Align}
		if col.Sortable {
			next := st.with(func(n *tableState) {
				sort := datatable.NextSort(n.params.Sort(), col.ID)
				n.params.SortField, n.params.SortDirection = "", ""
				if sort != nil {
					n.params.SortField, n.params.SortDirection = sort.Field, sort.Direction
				}
				n.params.Page = 1
			})
			h.Link = link(base, next.query())
			if view.Sort != nil && view.Sort.Field == col.ID {
				h.Indicator = "▲"
				if view.Sort.Direction == datatable.Desc {
					h.Indicator = "▼"
				}
			}
		}
		v.Headers = append(v.Headers, h)
	}

	for _, row := range view.Rows {
		rv := rowView{Tone: t.RowStyle(row)["tone"]}
		for _, col := range t.Columns() {
			rv.Cells = append(rv.Cells, cellView{Text: col.Format(row), Align: col.Align})
		}
		v.Rows = append(v.Rows, rv)
	}

	for _, d := range t.FilterDescriptors() {
		v.Filters = append(v.Filters, filterInput(d, view.Filters[d.ID]))
	}

	v.Hidden = append(v.Hidden, hiddenInput{datatable.QuerySortField, st.params.SortField})
	if st.params.SortField != "" {
		v.Hidden = append(v.Hidden, hiddenInput{datatable.QuerySortDirection, string(st.params.SortDirection)})
	}
	v.Hidden = append(v.Hidden, hiddenInput{datatable.QueryPageSize, strconv.Itoa(st.params.PageSize)})
	if st.showFilters {
		v.Hidden = append(v.Hidden, hiddenInput{queryShowFilters, "1"})
	}

	v.ToggleFiltersLink = link(base, st.with(func(n *tableState) { n.showFilters = !view.ShowFilters }).query())
	v.ClearAllLink = link(base, st.with(func(n *tableState) {
		n.params.Search = ""
		n.params.Filters = nil
		n.params.Page = 1
	}).query())
	if view.Page > 1 {
		v.PrevLink = link(base, st.with(func(n *tableState) { n.params.Page = view.Page - 1 }).query())
	}
	if view.Page < view.TotalPages {
		v.NextLink = link(base, st.with(func(n *tableState) { n.params.Page = view.Page + 1 }).query())
	}

	exportBase := "/api/screens/" + url.PathEscape(def.Info.Key) + "/export"
	v.ExportCSVLink = exportLink(exportBase, st, "csv")
	v.ExportXLSXLink = exportLink(exportBase, st, "xlsx")
	return v
}

func filterInput(d datatable.FilterDescriptor, value any) filterView {
	f := filterView{
		Name:  "filters[" + d.ID + "]",
		Label: d.Label,
		Value: datatable.String(value),
	}

	opts := d.Options
	switch d.Kind {
	case datatable.FilterCheckbox:
		opts = yesNoOptions
		if b, ok := datatable.CoerceBool(value); ok {
			f.Value = "false"
			if b {
				f.Value = "true"
			}
		}
	case datatable.FilterDate:
		f.InputType = "date"
	case datatable.FilterNumber:
		f.InputType = "number"
	default:
		f.InputType = "text"
	}

	for _, o := range opts {
		f.Options = append(f.Options, optionView{Value: o.Value, Label: o.Label, Selected: o.Value == f.Value})
	}
	return f
}

func exportLink(base string, st *tableState, format string) string {
	q := st.query()
	q.Del(datatable.QueryPage)
	q.Del(queryShowFilters)
	q.Set("format", format)
	return link(base, q)
}

func link(base string, q url.Values) string {
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}
