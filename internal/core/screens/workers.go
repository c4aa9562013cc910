package screens

import (
	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/JonMunkholm/crewboard/internal/datatable"
)

func init() {
	registerWorkers()
}

// The crew roster is small enough to load whole and filter in memory.
func registerWorkers() {
	core.Register(core.ScreenDefinition{
		Info: core.ScreenInfo{
			Key:         "workers",
			Group:       "People",
			Label:       "Workers",
			Description: "Field crew roster and availability",
			Table:       "workers",
			Mode:        datatable.ModeLocal,
		},
		Fields: []core.FieldSpec{
			{Name: "name", Label: "Name", Type: core.FieldText, Searchable: true, Sortable: true},
			{Name: "email", Label: "Email", Type: core.FieldText, Searchable: true, Sortable: true},
			{Name: "phone", Label: "Phone", Type: core.FieldText, Searchable: true},
			{Name: "trade", Label: "Trade", Type: core.FieldEnum, EnumValues: Trades, Sortable: true, Filterable: true, Render: renderEnum},
			{Name: "status", Label: "Status", Type: core.FieldEnum, EnumValues: WorkerStatuses, Sortable: true, Filterable: true, Render: renderEnum},
			{Name: "hourly_rate", Label: "Rate", Type: core.FieldNumeric, Sortable: true, Filterable: true, Render: renderMoney},
			{Name: "available", Label: "Available", Type: core.FieldBool, Sortable: true, Filterable: true, Render: renderYesNo},
			{Name: "jobs_completed", Label: "Jobs Done", Type: core.FieldNumeric, Sortable: true},
		},
		DefaultSort: &datatable.SortSpec{Field: "name", Direction: datatable.Asc},
		RowStyle:    workerStyle,
	})
}

func workerStyle(row datatable.Row) datatable.Style {
	if row["status"] == "inactive" {
		return datatable.Style{"tone": "muted"}
	}
	return nil
}
