package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// resolveDBColumn returns the database column name for a field.
// It uses the DBColumn mapping, falling back to snake_case conversion.
func resolveDBColumn(spec FieldSpec) string {
	if spec.DBColumn != "" {
		return spec.DBColumn
	}
	return toDBColumnName(spec.Name)
}

// resolveDBColumns returns database column names for every field.
func resolveDBColumns(specs []FieldSpec) []string {
	result := make([]string, len(specs))
	for i, spec := range specs {
		result[i] = resolveDBColumn(spec)
	}
	return result
}

// quoteIdentifier quotes a SQL identifier to prevent injection.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteColumns quotes each column name in the slice.
func quoteColumns(cols []string) []string {
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = quoteIdentifier(col)
	}
	return quoted
}

// toDBColumnName converts a display name to a database column name.
// "Hourly Rate" -> "hourly_rate"
func toDBColumnName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// escapeLike escapes LIKE wildcards so user text matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

var titleCaser = cases.Title(language.English)

// EnumLabel turns a stored enum value into display text.
// "in_progress" -> "In Progress"
func EnumLabel(v string) string {
	return titleCaser.String(strings.ReplaceAll(v, "_", " "))
}
