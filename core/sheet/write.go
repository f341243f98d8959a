package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"inventory-comparer/core/reconcile"
)

// ReportFileName is the attachment name the report is served under.
const ReportFileName = "Inventory_Comparison_Report.xlsx"

const (
	minColWidth = 12
	maxColWidth = 60
)

// WriteReport renders a finished run into a single-worksheet xlsx
// workbook and returns its bytes. Column layout: the three consolidated
// identity columns, SKU+Barcode per unlisted source, SKU+Barcode+Remark
// per location source, then the flag and status columns. Source columns
// follow the run's configured order.
func WriteReport(res *reconcile.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheetName := f.GetSheetName(0)

	headers := reportHeaders(res.Config)
	if err := writeHeaderRow(f, sheetName, headers); err != nil {
		return nil, err
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	for i, row := range res.Rows {
		cells := flattenRow(row)
		r := i + 2
		for c, value := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r)
			if err != nil {
				return nil, fmt.Errorf("report cell (%d,%d): %w", c+1, r, err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("report cell %s: %w", cell, err)
			}
			if len(value) > widths[c] {
				widths[c] = len(value)
			}
		}
	}

	for c, width := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return nil, err
		}
		if width < minColWidth {
			width = minColWidth
		}
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := f.SetColWidth(sheetName, col, col, float64(width)+2); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write report workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func reportHeaders(cfg reconcile.RunConfig) []string {
	headers := []string{
		"Primary SKU (Consolidated)",
		"Primary Barcode (Consolidated)",
		"Product Name",
	}
	for _, name := range cfg.UnlistedNames {
		dn := displayName(name, "OGF Unlisted")
		headers = append(headers,
			fmt.Sprintf("SKU (%s)", dn),
			fmt.Sprintf("Barcode (%s)", dn),
		)
	}
	for _, name := range cfg.LocationNames {
		dn := displayName(name, "OGF Location")
		headers = append(headers,
			fmt.Sprintf("SKU (%s)", dn),
			fmt.Sprintf("Barcode (%s)", dn),
			fmt.Sprintf("Remark (%s)", dn),
		)
	}
	return append(headers,
		"In ALL Locations?",
		"In ANY UNLISTED?",
		"Simple Status",
		"ID / Data Problem",
		"CONSOLIDATED REMARKS",
	)
}

// displayName canonicalizes OGF source names so the temp upload names
// they arrive under never leak into the report header.
func displayName(name, canonical string) string {
	if strings.Contains(strings.ToLower(name), "ogf") {
		return canonical
	}
	return name
}

func flattenRow(row reconcile.ReportRow) []string {
	cells := []string{row.PrimarySKU, row.PrimaryBarcode, row.ProductName}
	for _, cell := range row.Unlisted {
		cells = append(cells, cell.SKU, cell.Barcode)
	}
	for _, cell := range row.Locations {
		cells = append(cells, cell.SKU, cell.Barcode, cell.Remark)
	}
	return append(cells,
		yesNo(row.InAllLocations),
		yesNo(row.InAnyRelevantUnlisted),
		row.StatusCode,
		row.ConflictCodes,
		row.Remarks,
	)
}

func yesNo(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}

func writeHeaderRow(f *excelize.File, sheetName string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "center"},
		Border: []excelize.Border{
			{Type: "top", Style: 1, Color: "#000000"},
			{Type: "bottom", Style: 1, Color: "#000000"},
			{Type: "left", Style: 1, Color: "#000000"},
			{Type: "right", Style: 1, Color: "#000000"},
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, "A1", last, style)
}
