package datatable

import (
	"fmt"
	"strings"
)

// Row is one opaque keyed record. The engine reads it only through column
// and filter ids.
type Row map[string]any

// Align is the horizontal alignment hint for a column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// RenderFunc formats a cell. It must not mutate the row.
type RenderFunc func(value any, row Row) string

// Column describes one projection of a row. ID must be unique within a table.
type Column struct {
	ID         string
	Label      string
	Align      Align
	Sortable   bool
	Filterable bool
	Render     RenderFunc
}

// Format returns the display text for the column's cell in row.
// Missing values render as "".
func (c Column) Format(row Row) string {
	v := row[c.ID]
	if c.Render != nil {
		return c.Render(v, row)
	}
	return stringify(v)
}

// FilterKind selects the comparison used when narrowing by a filter.
type FilterKind string

const (
	FilterSelect   FilterKind = "select"
	FilterText     FilterKind = "text"
	FilterCheckbox FilterKind = "checkbox"
	FilterDate     FilterKind = "date"
	FilterNumber   FilterKind = "number"
)

// FilterOption is one choice of a select filter.
type FilterOption struct {
	Value string
	Label string
}

// FilterDescriptor declares one addressable filter. For local tables ID
// should match a Column ID; remote tables may use any id the backend knows.
type FilterDescriptor struct {
	ID      string
	Label   string
	Kind    FilterKind
	Options []FilterOption
}

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection returns Desc for "desc" (any case) and Asc otherwise.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// SortSpec is the single active sort.
type SortSpec struct {
	Field     string
	Direction Direction
}

// FilterValues maps filter ids to the value chosen by the user.
type FilterValues map[string]any

// IsActive reports whether a filter value takes part in filtering.
// nil and empty strings are "not applied".
func IsActive(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case *string:
		return val != nil && *val != ""
	}
	return true
}

// Active returns a copy holding only applied values, or nil when none are.
func (f FilterValues) Active() FilterValues {
	var out FilterValues
	for id, v := range f {
		if !IsActive(v) {
			continue
		}
		if out == nil {
			out = make(FilterValues, len(f))
		}
		out[id] = v
	}
	return out
}

// Clone returns a shallow copy.
func (f FilterValues) Clone() FilterValues {
	if f == nil {
		return nil
	}
	out := make(FilterValues, len(f))
	for id, v := range f {
		out[id] = v
	}
	return out
}

// Pagination is the 1-based page request.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the index of the first row on the page.
func (p Pagination) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.PageSize
}

// TotalPages returns ceil(total/pageSize), at least 1.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Params is the snapshot handed to the remote data collaborator. Field
// names and optionality are a stable contract.
type Params struct {
	Page          int          `json:"page"`
	PageSize      int          `json:"pageSize"`
	Search        string       `json:"search,omitempty"`
	SortField     string       `json:"sortField,omitempty"`
	SortDirection Direction    `json:"sortDirection,omitempty"`
	Filters       FilterValues `json:"filters,omitempty"`
}

// Sort returns the snapshot's sort, or nil when unsorted.
func (p Params) Sort() *SortSpec {
	if p.SortField == "" {
		return nil
	}
	dir := p.SortDirection
	if dir == "" {
		dir = Asc
	}
	return &SortSpec{Field: p.SortField, Direction: dir}
}

// Equal reports whether two snapshots describe the same request.
func (p Params) Equal(o Params) bool {
	if p.Page != o.Page || p.PageSize != o.PageSize || p.Search != o.Search ||
		p.SortField != o.SortField || p.SortDirection != o.SortDirection ||
		len(p.Filters) != len(o.Filters) {
		return false
	}
	for id, v := range p.Filters {
		w, ok := o.Filters[id]
		if !ok || fmt.Sprint(v) != fmt.Sprint(w) {
			return false
		}
	}
	return true
}

// onlySearchDiffers reports whether p and o differ in search text alone,
// ignoring the page reset that accompanies a search edit.
func (p Params) onlySearchDiffers(o Params) bool {
	if p.Search == o.Search {
		return false
	}
	a, b := p, o
	a.Search, b.Search = "", ""
	a.Page, b.Page = 1, 1
	return a.Equal(b)
}
