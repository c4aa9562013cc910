package core

import (
	"context"
	"errors"

	"github.com/JonMunkholm/crewboard/internal/datatable"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUnknownScreen is returned for a screen key that was never registered.
	ErrUnknownScreen = errors.New("unknown screen")

	// ErrInvalidParams is returned when a parameter snapshot cannot be served.
	ErrInvalidParams = errors.New("invalid table parameters")
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// FieldType represents the data type of a screen field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldNumeric
	FieldBool
)

// FilterKind returns the filter control used for the field type.
func (t FieldType) FilterKind() datatable.FilterKind {
	switch t {
	case FieldEnum:
		return datatable.FilterSelect
	case FieldDate:
		return datatable.FilterDate
	case FieldNumeric:
		return datatable.FilterNumber
	case FieldBool:
		return datatable.FilterCheckbox
	default:
		return datatable.FilterText
	}
}

// FieldSpec describes one column of a screen.
type FieldSpec struct {
	Name       string    // Row key and column id: "scheduled_for"
	Label      string    // Header text: "Scheduled"
	DBColumn   string    // Database column name (derived from Name when empty)
	Type       FieldType // Data type, selects the filter kind
	EnumValues []string  // Options for FieldEnum filters

	Searchable bool
	Sortable   bool
	Filterable bool

	Render datatable.RenderFunc // Optional cell formatter
}

// Column returns the table column for the field.
func (f FieldSpec) Column() datatable.Column {
	align := datatable.AlignLeft
	switch f.Type {
	case FieldNumeric:
		align = datatable.AlignRight
	case FieldBool:
		align = datatable.AlignCenter
	}
	return datatable.Column{
		ID:         f.Name,
		Label:      f.Label,
		Align:      align,
		Sortable:   f.Sortable,
		Filterable: f.Filterable,
		Render:     f.Render,
	}
}

// Filter returns the filter descriptor for the field.
func (f FieldSpec) Filter() datatable.FilterDescriptor {
	d := datatable.FilterDescriptor{ID: f.Name, Label: f.Label, Kind: f.Type.FilterKind()}
	for _, v := range f.EnumValues {
		d.Options = append(d.Options, datatable.FilterOption{Value: v, Label: EnumLabel(v)})
	}
	return d
}

// ScreenInfo contains display information about a screen.
type ScreenInfo struct {
	Key         string         `json:"key"`         // Unique identifier: "jobs"
	Group       string         `json:"group"`       // Menu section: "Operations"
	Label       string         `json:"label"`       // Display name: "Jobs"
	Description string         `json:"description"` // One line for the dashboard
	Table       string         `json:"-"`           // Backing database table
	Mode        datatable.Mode `json:"mode"`        // Where filtering happens
}

// ScreenDefinition contains everything needed to serve a list screen.
type ScreenDefinition struct {
	Info        ScreenInfo
	Fields      []FieldSpec
	DefaultSort *datatable.SortSpec

	// RowStyle optionally highlights rows, e.g. urgent jobs.
	RowStyle func(datatable.Row) datatable.Style
}

// Columns returns the table columns in field order.
func (d ScreenDefinition) Columns() []datatable.Column {
	cols := make([]datatable.Column, len(d.Fields))
	for i, f := range d.Fields {
		cols[i] = f.Column()
	}
	return cols
}

// Filters returns descriptors for the filterable fields.
func (d ScreenDefinition) Filters() []datatable.FilterDescriptor {
	var out []datatable.FilterDescriptor
	for _, f := range d.Fields {
		if f.Filterable {
			out = append(out, f.Filter())
		}
	}
	return out
}

// SearchFields returns the names of the searchable fields.
func (d ScreenDefinition) SearchFields() []string {
	var out []string
	for _, f := range d.Fields {
		if f.Searchable {
			out = append(out, f.Name)
		}
	}
	return out
}

// Field returns the field with the given name.
func (d ScreenDefinition) Field(name string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// TableOptions returns engine options for a table backing this screen.
// Callers add controlled state and hooks on top.
func (d ScreenDefinition) TableOptions(pageSize int) datatable.Options {
	return datatable.Options{
		Name:         d.Info.Key,
		Columns:      d.Columns(),
		Filters:      d.Filters(),
		SearchFields: d.SearchFields(),
		DefaultSort:  d.DefaultSort,
		PageSize:     pageSize,
		GetRowStyle:  d.RowStyle,
	}
}

// DefaultParams returns the snapshot a fresh table of this screen starts
// from.
func (d ScreenDefinition) DefaultParams(pageSize int) datatable.Params {
	p := datatable.Params{Page: 1, PageSize: pageSize}
	if d.DefaultSort != nil {
		p.SortField = d.DefaultSort.Field
		p.SortDirection = d.DefaultSort.Direction
	}
	return p
}

// Page is one page of rows answered for a parameter snapshot.
type Page struct {
	Rows     []datatable.Row `json:"rows"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}
