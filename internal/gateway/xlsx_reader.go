package gateway

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"sales-comparison/internal/domain"
)

// XLSXTableReader reads the first non-empty worksheet of a workbook into a
// raw table.
type XLSXTableReader struct {
	dateColumns map[string]struct{}
}

// NewXLSXTableReader creates a new reader. Cells under any of dateColumns
// that hold an Excel date serial are rendered as day-first date text, so
// they parse like their CSV counterparts.
func NewXLSXTableReader(dateColumns ...string) *XLSXTableReader {
	cols := make(map[string]struct{}, len(dateColumns))
	for _, c := range dateColumns {
		cols[c] = struct{}{}
	}
	return &XLSXTableReader{dateColumns: cols}
}

// ReadFile reads and parses the workbook at path.
func (r *XLSXTableReader) ReadFile(ctx context.Context, path string) (*domain.RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sales file %s: %w", path, err)
	}
	defer file.Close()

	return r.ReadStream(ctx, filepath.Base(path), file)
}

// ReadStream parses a workbook payload.
func (r *XLSXTableReader) ReadStream(ctx context.Context, name string, in io.Reader) (*domain.RawTable, error) {
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", name, err)
	}
	defer f.Close()

	var rows [][]string
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sheetRows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, name, err)
		}
		if len(sheetRows) > 0 {
			rows = sheetRows
			break
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header row", name)
	}

	header := rows[0]
	dateIdx := make(map[int]struct{})
	for i, h := range header {
		if _, ok := r.dateColumns[strings.TrimSpace(strings.TrimPrefix(h, string(bom)))]; ok {
			dateIdx[i] = struct{}{}
		}
	}

	table := &domain.RawTable{Source: name, Header: header}
	for _, record := range rows[1:] {
		if isBlank(record) {
			continue
		}
		for i := range dateIdx {
			if i < len(record) {
				record[i] = serialToDate(record[i])
			}
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// serialToDate renders an Excel date serial as "02/01/2006", adding the
// time of day when there is one. Other values are returned unchanged.
func serialToDate(cell string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("02/01/2006")
	}
	return t.Format("02/01/2006 15:04:05")
}
