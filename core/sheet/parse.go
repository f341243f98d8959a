package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"inventory-comparer/core/reconcile"
)

// Parse reads the first worksheet of an xlsx workbook into a named
// source. The header row is scanned for column roles; every later row
// becomes one raw source row with trimmed, display-formatted cell
// values. Rows without identifiers are kept here and dropped by the
// engine, so skip accounting stays in one place.
func Parse(name string, r io.Reader) (reconcile.Source, error) {
	src := reconcile.Source{Name: name}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return src, fmt.Errorf("source %q: open workbook: %w", name, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return src, fmt.Errorf("source %q: read sheet %q: %w", name, sheetName, err)
	}
	if len(rows) == 0 {
		return src, fmt.Errorf("source %q: sheet %q is empty", name, sheetName)
	}

	cols, err := resolveColumns(name, rows[0])
	if err != nil {
		return src, err
	}

	for _, cells := range rows[1:] {
		src.Rows = append(src.Rows, reconcile.Row{
			SKU:         cellAt(cells, cols.sku),
			Barcode:     cellAt(cells, cols.barcode),
			ProductName: cellAt(cells, cols.name),
			Remark:      cellAt(cells, cols.remark),
		})
	}
	return src, nil
}

type columnRoles struct {
	sku     int
	barcode int
	name    int
	remark  int
}

// resolveColumns maps header cells to column roles by substring match.
// A later matching header wins over an earlier one. Missing both the
// SKU and the Barcode column makes the source unusable.
func resolveColumns(source string, header []string) (columnRoles, error) {
	cols := columnRoles{sku: -1, barcode: -1, name: -1, remark: -1}
	for i, cell := range header {
		value := strings.ToLower(strings.TrimSpace(cell))
		if value == "" {
			continue
		}
		if strings.Contains(value, "sku") {
			cols.sku = i
		}
		if strings.Contains(value, "barcode") {
			cols.barcode = i
		}
		if value == "product" || strings.Contains(value, "title") {
			cols.name = i
		}
		if strings.Contains(value, "remark") {
			cols.remark = i
		}
	}
	if cols.sku < 0 && cols.barcode < 0 {
		return cols, fmt.Errorf("source %q: header has neither a SKU nor a Barcode column", source)
	}
	return cols, nil
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
