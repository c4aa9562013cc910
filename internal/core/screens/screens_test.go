package screens

import (
	"testing"
	"time"

	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/JonMunkholm/crewboard/internal/datatable"
)

func TestScreensRegistered(t *testing.T) {
	tests := []struct {
		key  string
		mode datatable.Mode
	}{
		{"jobs", datatable.ModeRemote},
		{"workers", datatable.ModeLocal},
	}

	for _, tt := range tests {
		def, ok := core.Get(tt.key)
		if !ok {
			t.Errorf("screen %q not registered", tt.key)
			continue
		}
		if def.Info.Mode != tt.mode {
			t.Errorf("screen %q mode = %q, want %q", tt.key, def.Info.Mode, tt.mode)
		}
		if def.DefaultSort == nil {
			t.Errorf("screen %q has no default sort", tt.key)
			continue
		}
		if f, ok := def.Field(def.DefaultSort.Field); !ok || !f.Sortable {
			t.Errorf("screen %q default sort %q is not a sortable field", tt.key, def.DefaultSort.Field)
		}
	}
}

func TestJobsFilterKinds(t *testing.T) {
	def, _ := core.Get("jobs")

	want := map[string]datatable.FilterKind{
		"status":          datatable.FilterSelect,
		"priority":        datatable.FilterSelect,
		"assigned_worker": datatable.FilterText,
		"scheduled_for":   datatable.FilterDate,
		"estimated_hours": datatable.FilterNumber,
		"invoiced":        datatable.FilterCheckbox,
	}
	got := def.Filters()
	if len(got) != len(want) {
		t.Fatalf("jobs filters = %d, want %d", len(got), len(want))
	}
	for _, f := range got {
		if f.Kind != want[f.ID] {
			t.Errorf("filter %s kind = %q, want %q", f.ID, f.Kind, want[f.ID])
		}
	}
}

func TestRenderers(t *testing.T) {
	tests := []struct {
		name   string
		render datatable.RenderFunc
		in     any
		want   string
	}{
		{"date", renderDate, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "Mar 5, 2024"},
		{"nil date", renderDate, nil, ""},
		{"yes", renderYesNo, true, "Yes"},
		{"no", renderYesNo, false, "No"},
		{"unknown bool", renderYesNo, nil, ""},
		{"hours", renderHours, 2.5, "2.5 h"},
		{"money", renderMoney, int64(45), "$45.00"},
		{"missing money", renderMoney, nil, ""},
		{"enum", renderEnum, "on_leave", "On Leave"},
		{"empty enum", renderEnum, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.render(tt.in, nil); got != tt.want {
				t.Errorf("render(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRowStyles(t *testing.T) {
	tests := []struct {
		name  string
		style func(datatable.Row) datatable.Style
		row   datatable.Row
		want  string
	}{
		{"urgent open job", jobStyle, datatable.Row{"priority": "urgent", "status": "scheduled"}, "alert"},
		{"urgent done job", jobStyle, datatable.Row{"priority": "urgent", "status": "done"}, ""},
		{"cancelled job", jobStyle, datatable.Row{"priority": "low", "status": "cancelled"}, "muted"},
		{"inactive worker", workerStyle, datatable.Row{"status": "inactive"}, "muted"},
		{"active worker", workerStyle, datatable.Row{"status": "active"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.style(tt.row)["tone"]; got != tt.want {
				t.Errorf("tone = %q, want %q", got, tt.want)
			}
		})
	}
}
