// Package core provides the back-office domain behind crewboard's list
// screens.
//
// This package holds the screen registry and the SQL-backed data source
// that remote-mode tables call with their parameter snapshots. It has no
// UI dependencies and is used by the web server and the terminal UI alike.
//
// # Screen Registry
//
// Screens are registered at init time using [Register]. Each
// [ScreenDefinition] declares its fields, which of them are searchable,
// sortable and filterable, its default sort and whether its table runs in
// local or remote mode:
//
//	core.Register(ScreenDefinition{
//	    Info: ScreenInfo{Key: "jobs", Group: "Operations", Label: "Jobs", Table: "jobs", Mode: datatable.ModeRemote},
//	    Fields: []FieldSpec{
//	        {Name: "reference", Label: "Ref", Type: FieldText, Searchable: true, Sortable: true},
//	        {Name: "status", Label: "Status", Type: FieldEnum, EnumValues: statuses, Filterable: true},
//	    },
//	})
//
// # Fetching Pages
//
// [Service.FetchPage] answers one [datatable.Params] snapshot: search is an
// ILIKE over the searchable fields, filters are applied per field type, the
// single sort column orders NULLs last in both directions and the page is
// clamped to the last page that exists. [Service.FetchAll] loads a whole
// screen for local-mode tables and [Service.FetchMatching] returns every
// matching row for exports.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError].
// Each category has a code for support reference:
//
//   - SCR001: unknown screen
//   - PRM001: invalid table parameters
//   - DB001-DB004: database errors (connection, timeout, schema)
//   - EXP001: export failures
//   - GEN001: anything else
package core
