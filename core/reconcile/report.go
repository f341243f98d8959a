package reconcile

import "strings"

// RemarkSeparator joins an item's remarks into the single report cell.
const RemarkSeparator = " | "

// SourceCell carries the identifiers one source contributed to an item.
// Fields are empty when the item is absent from that source.
type SourceCell struct {
	SKU     string
	Barcode string
	Remark  string
}

// ReportRow is the flattened, render-ready view of one consolidated
// item. Unlisted and Locations align index-for-index with the run's
// configured source name lists.
type ReportRow struct {
	PrimarySKU     string
	PrimaryBarcode string
	ProductName    string

	Unlisted  []SourceCell
	Locations []SourceCell

	InAllLocations        bool
	InAnyRelevantUnlisted bool

	StatusCode    string
	ConflictCodes string
	Remarks       string
}

// buildReportRows flattens classified items into report rows, one per
// item, in item order.
func buildReportRows(items []*Item, cfg RunConfig) []ReportRow {
	rows := make([]ReportRow, 0, len(items))
	for _, it := range items {
		row := ReportRow{
			PrimarySKU:     it.PrimarySKU,
			PrimaryBarcode: it.PrimaryBarcode,
			ProductName:    it.ProductName,
			StatusCode:     it.StatusCode(),
			ConflictCodes:  it.Conflicts.String(),
			Remarks:        strings.Join(it.Remarks, RemarkSeparator),
		}

		for _, name := range cfg.UnlistedNames {
			cell := SourceCell{}
			if rec, ok := it.Record(name); ok {
				cell.SKU = rec.RawSKU
				cell.Barcode = rec.RawBarcode
			}
			row.Unlisted = append(row.Unlisted, cell)
		}

		present := 0
		for _, name := range cfg.LocationNames {
			cell := SourceCell{}
			if rec, ok := it.Record(name); ok {
				cell.SKU = rec.RawSKU
				cell.Barcode = rec.RawBarcode
				cell.Remark = rec.Remark
				present++
			}
			row.Locations = append(row.Locations, cell)
		}

		row.InAllLocations = len(cfg.LocationNames) > 0 && present == len(cfg.LocationNames)
		row.InAnyRelevantUnlisted = computePresence(it, cfg).inAnyRelevantUnlisted()

		rows = append(rows, row)
	}
	return rows
}
