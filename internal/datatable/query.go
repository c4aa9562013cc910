package datatable

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query parameter names used on the wire between a remote table and its
// data backend.
const (
	QueryPage          = "page"
	QueryPageSize      = "pageSize"
	QuerySearch        = "search"
	QuerySortField     = "sortField"
	QuerySortDirection = "sortDirection"
	queryFilterPrefix  = "filters["
)

// Query encodes the snapshot as URL query values. Omitted snapshot fields
// produce no parameter.
func (p Params) Query() url.Values {
	q := url.Values{}
	q.Set(QueryPage, strconv.Itoa(p.Page))
	q.Set(QueryPageSize, strconv.Itoa(p.PageSize))
	if p.Search != "" {
		q.Set(QuerySearch, p.Search)
	}
	if p.SortField != "" {
		q.Set(QuerySortField, p.SortField)
		dir := p.SortDirection
		if dir == "" {
			dir = Asc
		}
		q.Set(QuerySortDirection, string(dir))
	}
	ids := make([]string, 0, len(p.Filters))
	for id := range p.Filters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		q.Set(queryFilterPrefix+id+"]", stringify(p.Filters[id]))
	}
	return q
}

// ParseParams decodes query values produced by [Params.Query]. It never
// fails: malformed numbers fall back to defaults, unknown directions to
// ascending, and empty filter values are dropped. The default sort applies
// only when sortField is absent; an empty sortField means unsorted.
func ParseParams(q url.Values, defaults Params) Params {
	p := Params{
		Page:     positiveInt(q.Get(QueryPage), defaults.Page),
		PageSize: positiveInt(q.Get(QueryPageSize), defaults.PageSize),
		Search:   q.Get(QuerySearch),
	}
	if p.Page < 1 {
		p.Page = 1
	}

	if _, explicit := q[QuerySortField]; explicit {
		if field := strings.TrimSpace(q.Get(QuerySortField)); field != "" {
			p.SortField = field
			p.SortDirection = ParseDirection(q.Get(QuerySortDirection))
		}
	} else if defaults.SortField != "" {
		p.SortField = defaults.SortField
		p.SortDirection = defaults.SortDirection
	}

	for key, values := range q {
		if !strings.HasPrefix(key, queryFilterPrefix) || !strings.HasSuffix(key, "]") {
			continue
		}
		id := key[len(queryFilterPrefix) : len(key)-1]
		if id == "" || len(values) == 0 || values[0] == "" {
			continue
		}
		if p.Filters == nil {
			p.Filters = FilterValues{}
		}
		p.Filters[id] = values[0]
	}
	return p
}

func positiveInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 {
		return def
	}
	return i
}
