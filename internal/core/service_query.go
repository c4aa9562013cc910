package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/crewboard/internal/datatable"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Columns every screen table carries besides its fields.
const (
	idColumn      = "id"
	createdColumn = "created_at"
)

// selectList returns the quoted SELECT list: id followed by every field.
func selectList(def ScreenDefinition) string {
	cols := append([]string{idColumn}, resolveDBColumns(def.Fields)...)
	return strings.Join(quoteColumns(cols), ", ")
}

// orderBy builds the ORDER BY clause for a snapshot. An unknown or
// unsortable sort field falls back to insertion order. NULLs sort last in
// both directions and insertion order breaks ties.
func orderBy(def ScreenDefinition, p datatable.Params) string {
	base := fmt.Sprintf("%s ASC, %s ASC", quoteIdentifier(createdColumn), quoteIdentifier(idColumn))

	sort := p.Sort()
	if sort == nil {
		return base
	}
	spec, ok := def.Field(sort.Field)
	if !ok || !spec.Sortable {
		return base
	}
	dir := "ASC"
	if sort.Direction == datatable.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s NULLS LAST, %s", quoteIdentifier(resolveDBColumn(spec)), dir, base)
}

// where builds the WHERE clause for a snapshot's search and filters.
func where(def ScreenDefinition, p datatable.Params) *WhereBuilder {
	wb := NewWhereBuilder()
	wb.AddSearch(p.Search, def.Fields)
	wb.AddFilters(def.Fields, p.Filters)
	return wb
}

// FetchPage returns the page of rows matching the snapshot. The requested
// page is clamped to the last page that exists.
func (s *Service) FetchPage(ctx context.Context, key string, p datatable.Params) (Page, error) {
	def, err := Lookup(key)
	if err != nil {
		return Page{}, err
	}
	p = s.normalize(p)

	wb := where(def, p)
	whereClause, queryArgs := wb.Build()

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", quoteIdentifier(def.Info.Table), whereClause)
	var total int64
	if err := s.db.QueryRow(ctx, countQuery, queryArgs...).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("count rows: %w", err)
	}

	totalPages := datatable.TotalPages(int(total), p.PageSize)
	if p.Page > totalPages {
		p.Page = totalPages
	}
	offset := datatable.Pagination{Page: p.Page, PageSize: p.PageSize}.Offset()

	argIndex := wb.NextArgIndex()
	query := fmt.Sprintf(
		"SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		selectList(def),
		quoteIdentifier(def.Info.Table),
		whereClause,
		orderBy(def, p),
		argIndex,
		argIndex+1,
	)
	queryArgs = append(queryArgs, p.PageSize, offset)

	rows, err := s.collect(ctx, def, query, queryArgs)
	if err != nil {
		return Page{}, err
	}

	s.logger(ctx, def).Debug("page fetched",
		"page", p.Page,
		"page_size", p.PageSize,
		"total", total,
		"rows", len(rows),
	)

	return Page{Rows: rows, Total: int(total), Page: p.Page, PageSize: p.PageSize}, nil
}

// FetchMatching returns every row matching the snapshot's search, filters
// and sort, ignoring pagination.
func (s *Service) FetchMatching(ctx context.Context, key string, p datatable.Params) ([]datatable.Row, error) {
	def, err := Lookup(key)
	if err != nil {
		return nil, err
	}

	whereClause, queryArgs := where(def, p).Build()
	query := fmt.Sprintf(
		"SELECT %s FROM %s%s ORDER BY %s",
		selectList(def),
		quoteIdentifier(def.Info.Table),
		whereClause,
		orderBy(def, p),
	)
	return s.collect(ctx, def, query, queryArgs)
}

// FetchAll returns the full row set of a screen in insertion order, for
// tables that filter locally.
func (s *Service) FetchAll(ctx context.Context, key string) ([]datatable.Row, error) {
	def, err := Lookup(key)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s",
		selectList(def),
		quoteIdentifier(def.Info.Table),
		orderBy(def, datatable.Params{}),
	)
	rows, err := s.collect(ctx, def, query, nil)
	if err != nil {
		return nil, err
	}

	s.logger(ctx, def).Debug("screen loaded", "rows", len(rows))
	return rows, nil
}

// collect runs query and converts each result row to a datatable.Row keyed
// by field name.
func (s *Service) collect(ctx context.Context, def ScreenDefinition, query string, args []interface{}) ([]datatable.Row, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, def)
}

func scanRows(rows pgx.Rows, def ScreenDefinition) ([]datatable.Row, error) {
	result := []datatable.Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}

		row := make(datatable.Row, len(def.Fields)+1)
		row[idColumn] = plainValue(values[0])
		for i, spec := range def.Fields {
			row[spec.Name] = plainValue(values[i+1])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// plainValue converts driver values to the plain Go values the table
// engine compares and renders.
func plainValue(v any) any {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val).String()
	case pgtype.Numeric:
		if !val.Valid {
			return nil
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case int32:
		return int64(val)
	case int16:
		return int64(val)
	case float32:
		return float64(val)
	}
	return v
}
