package datatable

import (
	"slices"
	"strings"
)

// Query is the local pipeline's input: everything that decides which rows
// are visible.
type Query struct {
	Search       string
	SearchFields []string
	Filters      FilterValues
	Sort         *SortSpec
	Page         Pagination
}

// Result is one run of the local pipeline.
type Result struct {
	Rows  []Row // rows on the requested page
	Total int   // rows matching search and filters, before pagination
}

// Process runs search, filter narrowing, sort and pagination in that order.
// The input slice is never modified.
func Process(rows []Row, columns []Column, filters []FilterDescriptor, q Query) Result {
	matched := Match(rows, columns, filters, q)
	return Result{
		Rows:  Paginate(matched, q.Page),
		Total: len(matched),
	}
}

// Match runs every stage except pagination.
func Match(rows []Row, columns []Column, filters []FilterDescriptor, q Query) []Row {
	out := Search(rows, q.Search, q.SearchFields)
	out = Narrow(out, columns, filters, q.Filters)
	return SortRows(out, q.Sort)
}

// Search keeps rows where any searchable field contains text, ignoring case.
// With no fields given every field of the row is searched.
func Search(rows []Row, text string, fields []string) []Row {
	if text == "" {
		return rows
	}
	f := newFolder()
	needle := f.fold(text)
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if rowContains(f, row, needle, fields) {
			out = append(out, row)
		}
	}
	return out
}

func rowContains(f *folder, row Row, needle string, fields []string) bool {
	if len(fields) == 0 {
		for _, v := range row {
			if f.contains(stringify(v), needle) {
				return true
			}
		}
		return false
	}
	for _, field := range fields {
		if f.contains(stringify(row[field]), needle) {
			return true
		}
	}
	return false
}

// Narrow applies each active filter value against the column with the same
// id. Filters without a matching column are ignored.
func Narrow(rows []Row, columns []Column, descriptors []FilterDescriptor, values FilterValues) []Row {
	active := values.Active()
	if len(active) == 0 {
		return rows
	}

	kinds := make(map[string]FilterKind, len(descriptors))
	for _, d := range descriptors {
		kinds[d.ID] = d.Kind
	}

	out := rows
	for id, want := range active {
		if !hasColumn(columns, id) {
			continue
		}
		kind, ok := kinds[id]
		if !ok {
			kind = FilterSelect
		}
		match := matcher(kind, want)
		next := make([]Row, 0, len(out))
		for _, row := range out {
			if match(row[id]) {
				next = append(next, row)
			}
		}
		out = next
	}
	return out
}

func hasColumn(columns []Column, id string) bool {
	for _, c := range columns {
		if c.ID == id {
			return true
		}
	}
	return false
}

// matcher builds the per-kind predicate once per filter.
func matcher(kind FilterKind, want any) func(any) bool {
	switch kind {
	case FilterText:
		f := newFolder()
		needle := f.fold(stringify(want))
		return func(v any) bool {
			return !isAbsent(v) && f.contains(stringify(v), needle)
		}

	case FilterCheckbox:
		wb, ok := toBool(want)
		return func(v any) bool {
			got, gotOK := toBool(v)
			return ok && gotOK && got == wb
		}

	case FilterNumber:
		wf, ok := toFloat(want)
		return func(v any) bool {
			got, gotOK := toFloat(v)
			return ok && gotOK && got == wf
		}

	case FilterDate:
		wd, ok := dateKey(want)
		return func(v any) bool {
			got, gotOK := dateKey(v)
			return ok && gotOK && got == wd
		}

	default:
		ws := stringify(want)
		return func(v any) bool {
			return !isAbsent(v) && stringify(v) == ws
		}
	}
}

// SortRows returns a stably sorted copy. Absent values go last in both
// directions.
func SortRows(rows []Row, spec *SortSpec) []Row {
	if spec == nil || spec.Field == "" {
		return rows
	}
	out := slices.Clone(rows)
	desc := strings.EqualFold(string(spec.Direction), string(Desc))
	slices.SortStableFunc(out, func(a, b Row) int {
		av, bv := a[spec.Field], b[spec.Field]
		aNil, bNil := isAbsent(av), isAbsent(bv)
		switch {
		case aNil && bNil:
			return 0
		case aNil:
			return 1
		case bNil:
			return -1
		}
		c := compareValues(av, bv)
		if desc {
			return -c
		}
		return c
	})
	return out
}

// Paginate slices [(page-1)*size, page*size). A non-positive page size
// returns every row.
func Paginate(rows []Row, p Pagination) []Row {
	if p.PageSize <= 0 {
		return rows
	}
	start := p.Offset()
	if start >= len(rows) {
		return []Row{}
	}
	end := min(start+p.PageSize, len(rows))
	return rows[start:end]
}
