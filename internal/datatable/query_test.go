package datatable

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsQuery_EncodesOnlyPresentFields(t *testing.T) {
	q := Params{Page: 2, PageSize: 25}.Query()
	assert.Equal(t, url.Values{"page": {"2"}, "pageSize": {"25"}}, q)

	q = Params{
		Page:          1,
		PageSize:      10,
		Search:        "boiler",
		SortField:     "scheduled_for",
		SortDirection: Desc,
		Filters:       FilterValues{"status": "ACTIVE", "invoiced": true},
	}.Query()
	assert.Equal(t, "boiler", q.Get("search"))
	assert.Equal(t, "scheduled_for", q.Get("sortField"))
	assert.Equal(t, "desc", q.Get("sortDirection"))
	assert.Equal(t, "ACTIVE", q.Get("filters[status]"))
	assert.Equal(t, "true", q.Get("filters[invoiced]"))
}

func TestParseParams(t *testing.T) {
	defaults := Params{Page: 1, PageSize: 25, SortField: "created_at", SortDirection: Desc}

	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{
			name:  "empty query uses defaults",
			query: "",
			want:  Params{Page: 1, PageSize: 25, SortField: "created_at", SortDirection: Desc},
		},
		{
			name:  "bad numbers fall back",
			query: "page=-2&pageSize=abc",
			want:  Params{Page: 1, PageSize: 25, SortField: "created_at", SortDirection: Desc},
		},
		{
			name:  "unknown direction is ascending",
			query: "sortField=name&sortDirection=sideways",
			want:  Params{Page: 1, PageSize: 25, SortField: "name", SortDirection: Asc},
		},
		{
			name:  "empty sort field clears the default",
			query: "sortField=&page=2",
			want:  Params{Page: 2, PageSize: 25},
		},
		{
			name:  "blank sort field clears the default",
			query: "sortField=+&sortDirection=desc",
			want:  Params{Page: 1, PageSize: 25},
		},
		{
			name:  "filters and search",
			query: "page=3&pageSize=5&search=pump&filters%5Bstatus%5D=ACTIVE&filters%5Bcity%5D=&filters%5B%5D=x",
			want: Params{
				Page: 3, PageSize: 5, Search: "pump",
				SortField: "created_at", SortDirection: Desc,
				Filters: FilterValues{"status": "ACTIVE"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ParseParams(q, defaults))
		})
	}
}

func TestParseParams_ReadsWhatQueryWrites(t *testing.T) {
	p := Params{
		Page:          4,
		PageSize:      15,
		Search:        "leak",
		SortField:     "priority",
		SortDirection: Desc,
		Filters:       FilterValues{"status": "ON_HOLD"},
	}
	assert.True(t, p.Equal(ParseParams(p.Query(), Params{Page: 1, PageSize: 10})))
}
