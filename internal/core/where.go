package core

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/crewboard/internal/datatable"
)

// WhereBuilder accumulates AND-ed SQL conditions with positional arguments.
type WhereBuilder struct {
	conditions []string
	args       []interface{}
	argIndex   int
}

// NewWhereBuilder returns an empty builder whose first placeholder is $1.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{argIndex: 1}
}

func (wb *WhereBuilder) add(cond string, args ...interface{}) {
	wb.conditions = append(wb.conditions, cond)
	wb.args = append(wb.args, args...)
	wb.argIndex += len(args)
}

// AddSearch matches text against every searchable field with ILIKE.
// Empty text adds nothing.
func (wb *WhereBuilder) AddSearch(text string, specs []FieldSpec) {
	if text == "" {
		return
	}

	var parts []string
	for _, spec := range specs {
		if !spec.Searchable {
			continue
		}
		parts = append(parts, fmt.Sprintf(`%s::text ILIKE $%d`, quoteIdentifier(resolveDBColumn(spec)), wb.argIndex))
	}
	if len(parts) == 0 {
		return
	}

	wb.add("("+strings.Join(parts, " OR ")+")", "%"+escapeLike(text)+"%")
}

// AddFilter narrows by one filter value using the field's filter kind.
// Inactive values add nothing; values that cannot be read as the field's
// type match no rows.
func (wb *WhereBuilder) AddFilter(spec FieldSpec, value any) {
	if !datatable.IsActive(value) {
		return
	}
	col := quoteIdentifier(resolveDBColumn(spec))

	switch spec.Type.FilterKind() {
	case datatable.FilterText:
		wb.add(fmt.Sprintf("%s::text ILIKE $%d", col, wb.argIndex), "%"+escapeLike(datatable.String(value))+"%")

	case datatable.FilterCheckbox:
		b, ok := datatable.CoerceBool(value)
		if !ok {
			wb.add("FALSE")
			return
		}
		wb.add(fmt.Sprintf("%s = $%d", col, wb.argIndex), b)

	case datatable.FilterNumber:
		f, ok := datatable.CoerceNumber(value)
		if !ok {
			wb.add("FALSE")
			return
		}
		wb.add(fmt.Sprintf("%s = $%d", col, wb.argIndex), f)

	case datatable.FilterDate:
		d, ok := datatable.CoerceDate(value)
		if !ok {
			wb.add("FALSE")
			return
		}
		wb.add(fmt.Sprintf("%s::date = $%d::date", col, wb.argIndex), d)

	default:
		wb.add(fmt.Sprintf("%s::text = $%d", col, wb.argIndex), datatable.String(value))
	}
}

// AddFilters applies every active value whose id names a field. Unknown
// ids are ignored.
func (wb *WhereBuilder) AddFilters(specs []FieldSpec, values datatable.FilterValues) {
	for _, spec := range specs {
		if v, ok := values[spec.Name]; ok {
			wb.AddFilter(spec, v)
		}
	}
}

// Build returns the WHERE clause (with a leading space) and its arguments.
// Both are empty when no condition was added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

// NextArgIndex returns the next free placeholder number.
func (wb *WhereBuilder) NextArgIndex() int {
	return wb.argIndex
}
