package screens

import (
	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/JonMunkholm/crewboard/internal/datatable"
)

func init() {
	registerJobs()
}

// Jobs can run to tens of thousands of rows, so the screen filters and
// pages in the database.
func registerJobs() {
	core.Register(core.ScreenDefinition{
		Info: core.ScreenInfo{
			Key:         "jobs",
			Group:       "Operations",
			Label:       "Jobs",
			Description: "Scheduled and completed field jobs",
			Table:       "jobs",
			Mode:        datatable.ModeRemote,
		},
		Fields: []core.FieldSpec{
			{Name: "reference", Label: "Ref", Type: core.FieldText, Searchable: true, Sortable: true},
			{Name: "title", Label: "Title", Type: core.FieldText, Searchable: true, Sortable: true},
			{Name: "customer", Label: "Customer", Type: core.FieldText, Searchable: true, Sortable: true},
			{Name: "site", Label: "Site", Type: core.FieldText, Searchable: true},
			{Name: "status", Label: "Status", Type: core.FieldEnum, EnumValues: JobStatuses, Sortable: true, Filterable: true, Render: renderEnum},
			{Name: "priority", Label: "Priority", Type: core.FieldEnum, EnumValues: JobPriorities, Sortable: true, Filterable: true, Render: renderEnum},
			{Name: "assigned_worker", Label: "Assigned To", Type: core.FieldText, Searchable: true, Sortable: true, Filterable: true},
			{Name: "scheduled_for", Label: "Scheduled", Type: core.FieldDate, Sortable: true, Filterable: true, Render: renderDate},
			{Name: "estimated_hours", Label: "Est. Hours", Type: core.FieldNumeric, Sortable: true, Filterable: true, Render: renderHours},
			{Name: "invoiced", Label: "Invoiced", Type: core.FieldBool, Filterable: true, Render: renderYesNo},
		},
		DefaultSort: &datatable.SortSpec{Field: "scheduled_for", Direction: datatable.Desc},
		RowStyle:    jobStyle,
	})
}

func jobStyle(row datatable.Row) datatable.Style {
	switch {
	case row["status"] == "cancelled":
		return datatable.Style{"tone": "muted"}
	case row["priority"] == "urgent" && row["status"] != "done":
		return datatable.Style{"tone": "alert"}
	}
	return nil
}
