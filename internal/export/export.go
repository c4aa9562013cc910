// Package export writes the rows currently matching a table as CSV or XLSX.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/crewboard/internal/datatable"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned by ParseFormat for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export file format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// ParseFormat reads a format name. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return CSV, nil
	case "xlsx", "excel":
		return XLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename returns a download name such as "jobs_20240305_101500.csv".
func Filename(screen string, f Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", screen, now.Format("20060102_150405"), f)
}

// Write encodes rows in the given format. sheet names the XLSX worksheet.
func Write(w io.Writer, f Format, sheet string, cols []datatable.Column, rows []datatable.Row) error {
	if f == XLSX {
		return WriteXLSX(w, sheet, cols, rows)
	}
	return WriteCSV(w, cols, rows)
}

// flushInterval is how many CSV records are buffered between flushes.
const flushInterval = 1000

// WriteCSV writes a header of column labels followed by one record per row.
func WriteCSV(w io.Writer, cols []datatable.Column, rows []datatable.Row) error {
	csvWriter := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Label
	}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("export csv: write header: %w", err)
	}

	record := make([]string, len(cols))
	for n, row := range rows {
		for i, col := range cols {
			record[i] = formatCell(row[col.ID])
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("export csv: write row %d: %w", n+1, err)
		}
		if (n+1)%flushInterval == 0 {
			csvWriter.Flush()
			if err := csvWriter.Error(); err != nil {
				return fmt.Errorf("export csv: flush: %w", err)
			}
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("export csv: flush: %w", err)
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook with a bold header row. Cells
// keep their native type so numbers and dates stay sortable in Excel.
func WriteXLSX(w io.Writer, sheet string, cols []datatable.Column, rows []datatable.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export xlsx: name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export xlsx: header style: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return fmt.Errorf("export xlsx: date style: %w", err)
	}

	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col.Label); err != nil {
			return fmt.Errorf("export xlsx: header %s: %w", col.ID, err)
		}
	}
	if len(cols) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(cols), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("export xlsx: style header: %w", err)
		}
		lastCol, _ := excelize.ColumnNumberToName(len(cols))
		if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
			return fmt.Errorf("export xlsx: column width: %w", err)
		}
	}

	for r, row := range rows {
		rowNum := r + 2
		for c, col := range cols {
			v := xlsxValue(row[col.ID])
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, rowNum)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("export xlsx: cell %s: %w", cell, err)
			}
			if _, ok := v.(time.Time); ok {
				if err := f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
					return fmt.Errorf("export xlsx: cell %s: %w", cell, err)
				}
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export xlsx: write: %w", err)
	}
	return nil
}

// formatCell renders a value for CSV: whole numbers without decimals,
// other numbers with two, booleans as Yes/No and dates as YYYY-MM-DD.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%.2f", val)
	case float32:
		return formatCell(float64(val))
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02")
	}
	return datatable.String(v)
}

// xlsxValue returns the value excelize should store, or nil for an empty
// cell.
func xlsxValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string, bool, float64, float32, int, int32, int64:
		return val
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return val
	}
	s := datatable.String(v)
	if s == "" {
		return nil
	}
	return s
}
