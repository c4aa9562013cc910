package web

import (
	"context"
	"html/template"
	"io"

	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/a-h/templ"
)

// Page components wrap html/template so handlers render through
// templ.Component like the rest of the UI.

var pages = template.Must(template.New("pages").Parse(`
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.}} · crewboard</title>
<style>
body{font-family:system-ui,sans-serif;margin:0;color:#1f2933;background:#f5f7fa}
header{background:#243b53;color:#fff;padding:.75rem 1.5rem}
header a{color:#fff;text-decoration:none;font-weight:600}
main{padding:1.5rem;max-width:1200px;margin:0 auto}
table{border-collapse:collapse;width:100%;background:#fff}
th,td{padding:.4rem .6rem;border-bottom:1px solid #d9e2ec}
th a{color:inherit;text-decoration:none}
.left{text-align:left}.right{text-align:right}.center{text-align:center}
tr.muted td{color:#9aa5b1}
tr.alert td{background:#ffe3e3}
.toolbar{display:flex;gap:.75rem;align-items:center;margin-bottom:1rem;flex-wrap:wrap}
.filters{display:flex;gap:1rem;flex-wrap:wrap;padding:.75rem;background:#fff;margin-bottom:1rem}
.pager{display:flex;gap:1rem;align-items:center;margin-top:1rem}
.card{background:#fff;padding:1rem;margin:.5rem 0;border-left:4px solid #486581}
.error{background:#fff;padding:1.5rem;border-left:4px solid #cf1124}
.empty{padding:2rem;text-align:center;color:#627d98}
</style>
</head>
<body>
<header><a href="/">crewboard</a></header>
<main>{{end}}

{{define "foot"}}</main>
</body>
</html>{{end}}

{{define "dashboard"}}{{template "head" "Dashboard"}}
{{range .}}<section>
<h2>{{.Name}}</h2>
{{range .Screens}}<div class="card">
<a href="/screens/{{.Key}}"><strong>{{.Label}}</strong></a>
<p>{{.Description}}</p>
</div>{{end}}
</section>{{else}}<p class="empty">No screens registered.</p>{{end}}
{{template "foot"}}{{end}}

{{define "screen"}}{{template "head" .Info.Label}}
<h1>{{.Info.Label}}</h1>
<form method="get" action="/screens/{{.Info.Key}}">
{{range .Hidden}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">{{end}}
<div class="toolbar">
<input type="search" name="search" value="{{.Search}}" placeholder="Search">
<button type="submit">Apply</button>
<a href="{{.ToggleFiltersLink}}">{{if .ShowFilters}}Hide filters{{else}}Show filters{{end}}</a>
{{if .HasActiveFilters}}<a href="{{.ClearAllLink}}">Clear all</a>{{end}}
<a href="{{.ExportCSVLink}}">Export CSV</a>
<a href="{{.ExportXLSXLink}}">Export Excel</a>
</div>
{{if .ShowFilters}}<div class="filters">
{{range .Filters}}<label>{{.Label}}
{{if .Options}}<select name="{{.Name}}"><option value="">Any</option>{{range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
{{else}}<input type="{{.InputType}}" name="{{.Name}}" value="{{.Value}}">{{end}}
</label>{{end}}
</div>{{end}}
</form>
<table>
<thead><tr>{{range .Headers}}<th class="{{.Align}}">{{if .Link}}<a href="{{.Link}}">{{.Label}} {{.Indicator}}</a>{{else}}{{.Label}}{{end}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr class="{{.Tone}}">{{range .Cells}}<td class="{{.Align}}">{{.Text}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{if .Empty}}<p class="empty">{{if .HasActiveFilters}}No rows match the current search and filters.{{else}}No rows yet.{{end}}</p>{{end}}
<div class="pager">
{{if .PrevLink}}<a href="{{.PrevLink}}">Previous</a>{{end}}
<span>Page {{.Page}} of {{.TotalPages}} · {{.Total}} rows</span>
{{if .NextLink}}<a href="{{.NextLink}}">Next</a>{{end}}
</div>
{{template "foot"}}{{end}}

{{define "error"}}{{template "head" "Error"}}
<div class="error">
<h1>{{.Status}} {{.Message}}</h1>
{{if .Action}}<p>{{.Action}}</p>{{end}}
<p><small>Code {{.Code}}</small></p>
<p><a href="/">Back to dashboard</a></p>
</div>
{{template "foot"}}{{end}}
`))

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

// dashboardGroup is one menu section on the dashboard.
type dashboardGroup struct {
	Name    string
	Screens []core.ScreenInfo
}

// Dashboard renders the screen index.
func Dashboard(groups []dashboardGroup) templ.Component {
	return page("dashboard", groups)
}

// ScreenPage renders one list screen.
func ScreenPage(v screenView) templ.Component {
	return page("screen", v)
}

// ErrorPage renders a user-facing error.
func ErrorPage(msg core.UserMessage, status int) templ.Component {
	return page("error", struct {
		core.UserMessage
		Status int
	}{msg, status})
}
