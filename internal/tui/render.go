package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JonMunkholm/crewboard/internal/datatable"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxColumnWidth = 24
	ellipsis       = "…"
)

func (m Model) View() string {
	var b strings.Builder
	if m.screen != nil {
		b.WriteString(m.screen.render())
	} else {
		b.WriteString(m.renderMenu())
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(successStyle.Render(m.status))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.menu.Title))
	b.WriteString("\n")
	for i, item := range m.menu.Items {
		if i == m.cursor {
			b.WriteString(focusStyle.Render("> " + item.Label))
		} else {
			b.WriteString("  " + item.Label)
		}
		b.WriteString("\n")
	}
	b.WriteString(subtleStyle.Render("\n↑/↓ move · enter select · esc back · q quit"))
	return b.String()
}

func (s *screenModel) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %s", s.def.Info.Label, subtleStyle.Render("("+string(s.def.Info.Mode)+")"))))
	b.WriteString("\n")

	if s.table == nil {
		if s.err != nil {
			b.WriteString(errorStyle.Render(s.err.Error()))
		} else {
			b.WriteString(subtleStyle.Render("Loading..."))
		}
		return b.String()
	}

	view := s.table.View()

	search := "Search: " + view.Search
	if s.focus == focusSearch {
		b.WriteString(focusStyle.Render(search + "▏"))
	} else {
		b.WriteString(subtleStyle.Render(search))
	}
	b.WriteString("\n")

	if view.ShowFilters {
		b.WriteString(s.renderFilters(view))
		b.WriteString("\n")
	}

	if s.detail != nil {
		b.WriteString(s.renderDetail())
		return b.String()
	}

	b.WriteString(s.renderTable(view))
	b.WriteString("\n")

	footer := fmt.Sprintf("Page %d of %d · %d rows", view.Page, max(view.TotalPages, 1), view.Total)
	if view.Loading {
		footer += " · loading..."
	}
	b.WriteString(subtleStyle.Render(footer))
	if s.err != nil {
		b.WriteString("\n" + errorStyle.Render(s.err.Error()))
	}
	b.WriteString(subtleStyle.Render("\n/ search · ←/→ column · s sort · n/p page · f filters · c clear · enter details · esc back · q quit"))
	return b.String()
}

func (s *screenModel) renderTable(view datatable.View) string {
	cols := s.table.Columns()
	cells := make([][]string, len(view.Rows))
	widths := make([]int, len(cols))

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Label + sortIndicator(view.Sort, c.ID)
		widths[i] = lipgloss.Width(headers[i])
	}
	for r, row := range view.Rows {
		cells[r] = make([]string, len(cols))
		for i, c := range cols {
			cells[r][i] = truncate(c.Format(row), maxColumnWidth)
			widths[i] = max(widths[i], lipgloss.Width(cells[r][i]))
		}
	}

	var b strings.Builder
	for i, h := range headers {
		style := headerStyle
		if i == s.col {
			style = cursorHeader
		}
		b.WriteString(style.Render(pad(h, widths[i], datatable.AlignLeft)))
		b.WriteString("  ")
	}
	b.WriteString("\n")

	if view.Empty {
		msg := "No rows."
		if view.HasActiveFilters {
			msg = "No rows match the current search and filters."
		}
		b.WriteString(subtleStyle.Render(msg))
		return b.String()
	}

	for r, row := range view.Rows {
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = pad(cells[r][i], widths[i], c.Align)
		}
		line := strings.Join(parts, "  ")
		if tone, ok := toneStyles[s.table.RowStyle(row)["tone"]]; ok {
			line = tone.Render(line)
		}
		if r == s.row {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *screenModel) renderFilters(view datatable.View) string {
	var lines []string
	for i, d := range s.table.FilterDescriptors() {
		value := datatable.String(view.Filters[d.ID])
		if value == "" {
			value = "any"
		} else if label := optionLabel(d, value); label != "" {
			value = label
		}
		line := fmt.Sprintf("%s: %s", d.Label, value)
		if s.focus == focusFilters && i == s.filter {
			line = focusStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if s.focus == focusFilters {
		lines = append(lines, subtleStyle.Render("↑/↓ filter · ←/→ choose · type to edit · enter done"))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (s *screenModel) renderDetail() string {
	keys := make([]string, 0, len(s.detail))
	labels := map[string]string{}
	for _, c := range s.table.Columns() {
		labels[c.ID] = c.Label
	}
	for k := range s.detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		label := labels[k]
		if label == "" {
			label = k
		}
		lines = append(lines, fmt.Sprintf("%-16s %s", label, datatable.String(s.detail[k])))
	}
	lines = append(lines, subtleStyle.Render("any key to close"))
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func optionLabel(d datatable.FilterDescriptor, value string) string {
	if d.Kind == datatable.FilterCheckbox {
		if b, ok := datatable.CoerceBool(value); ok {
			if b {
				return "Yes"
			}
			return "No"
		}
	}
	for _, o := range d.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return ""
}

func sortIndicator(spec *datatable.SortSpec, id string) string {
	if spec == nil || spec.Field != id {
		return ""
	}
	if spec.Direction == datatable.Desc {
		return " ▼"
	}
	return " ▲"
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + ellipsis
}

func pad(s string, width int, align datatable.Align) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case datatable.AlignRight:
		return strings.Repeat(" ", gap) + s
	case datatable.AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
