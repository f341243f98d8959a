package reconcile

import "strings"

// sourceRecords turns one source's rows into validated records.
//
// When validate is true (location sources), it computes, independently
// for SKU and barcode, the set of values occurring in more than one row
// of this source (case-insensitive, placeholders excluded) and flags
// every row carrying such a value. It also flags short barcodes. This
// is a pure function of one source's rows: it has no cross-source
// visibility, and the flags travel with the record into consolidation.
//
// Unlisted sources are ingested with validate false: exclusion sheets
// are reference lists, not stock counts, so repeats there are not
// treated as data defects.
//
// Rows with neither a SKU nor a barcode are dropped; the second return
// value counts them.
func sourceRecords(src Source, validate bool) ([]SourceRecord, int) {
	skuCount := make(map[string]int)
	barcodeCount := make(map[string]int)
	if validate {
		for _, row := range src.Rows {
			sku := strings.TrimSpace(row.SKU)
			barcode := strings.TrimSpace(row.Barcode)
			if sku != "" && !IsPlaceholder(sku) {
				skuCount[strings.ToLower(sku)]++
			}
			if barcode != "" && !IsPlaceholder(barcode) {
				barcodeCount[strings.ToLower(barcode)]++
			}
		}
	}

	records := make([]SourceRecord, 0, len(src.Rows))
	skipped := 0
	for _, row := range src.Rows {
		sku := strings.TrimSpace(row.SKU)
		barcode := strings.TrimSpace(row.Barcode)
		if sku == "" && barcode == "" {
			skipped++
			continue
		}

		rec := SourceRecord{
			SourceName:     src.Name,
			RawSKU:         sku,
			RawBarcode:     barcode,
			RawProductName: strings.TrimSpace(row.ProductName),
			Remark:         strings.TrimSpace(row.Remark),
		}

		if validate {
			if sku != "" && !IsPlaceholder(sku) && skuCount[strings.ToLower(sku)] > 1 {
				rec.SKUDuplicate = true
			}
			if barcode != "" && !IsPlaceholder(barcode) && barcodeCount[strings.ToLower(barcode)] > 1 {
				rec.BarcodeDuplicate = true
			}
			rec.DuplicateInSource = rec.SKUDuplicate || rec.BarcodeDuplicate
			rec.ShortBarcode = isShortBarcode(barcode)
		}

		records = append(records, rec)
	}
	return records, skipped
}

// isShortBarcode reports whether a barcode is real but implausibly
// short. Placeholders never count.
func isShortBarcode(barcode string) bool {
	return barcode != "" && !IsPlaceholder(barcode) && len(barcode) < 3
}
