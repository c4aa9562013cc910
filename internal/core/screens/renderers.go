package screens

import (
	"fmt"
	"time"

	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/JonMunkholm/crewboard/internal/datatable"
)

// Status values shared by the schema and the select filters.
var (
	JobStatuses    = []string{"scheduled", "in_progress", "on_hold", "done", "cancelled"}
	JobPriorities  = []string{"low", "normal", "high", "urgent"}
	Trades         = []string{"electrician", "plumber", "hvac", "carpenter", "general"}
	WorkerStatuses = []string{"active", "on_leave", "inactive"}
)

// renderDate shows a calendar day as "Mar 5, 2024".
func renderDate(v any, _ datatable.Row) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	case nil:
		return ""
	}
	return datatable.String(v)
}

// renderYesNo shows booleans as Yes/No and leaves unknown values blank.
func renderYesNo(v any, _ datatable.Row) string {
	b, ok := datatable.CoerceBool(v)
	if !ok {
		return ""
	}
	if b {
		return "Yes"
	}
	return "No"
}

// renderHours shows a duration estimate with one decimal.
func renderHours(v any, _ datatable.Row) string {
	f, ok := datatable.CoerceNumber(v)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.1f h", f)
}

// renderMoney shows an hourly rate in dollars.
func renderMoney(v any, _ datatable.Row) string {
	f, ok := datatable.CoerceNumber(v)
	if !ok {
		return ""
	}
	return fmt.Sprintf("$%.2f", f)
}

// renderEnum shows a stored enum value as its label.
func renderEnum(v any, _ datatable.Row) string {
	s := datatable.String(v)
	if s == "" {
		return ""
	}
	return core.EnumLabel(s)
}
