package reconcile

import (
	"fmt"
	"strings"
)

// detectCrossItemConflicts runs the two barcode-grouping passes over
// the full item set. Items must already be in their final sort order so
// the remark text lists conflicting SKUs deterministically.
//
// The first pass flags every barcode held by two or more items. The
// second, stricter pass flags only groups whose items carry genuinely
// different primary SKUs. The same product merged once under its SKU
// and once under its bare barcode does not count.
func detectCrossItemConflicts(items []*Item) {
	byBarcode := make(map[string][]*Item)
	barcodeOrder := make([]string, 0)
	for _, it := range items {
		barcode := strings.TrimSpace(it.PrimaryBarcode)
		if barcode == "" || IsPlaceholder(barcode) {
			continue
		}
		key := strings.ToLower(barcode)
		if _, seen := byBarcode[key]; !seen {
			barcodeOrder = append(barcodeOrder, key)
		}
		byBarcode[key] = append(byBarcode[key], it)
	}

	for _, barcode := range barcodeOrder {
		group := byBarcode[barcode]
		if len(group) < 2 {
			continue
		}

		for _, it := range group {
			it.Conflicts.Add(ConflictDuplicateBarcodeAcrossItems)
			it.addRemark(fmt.Sprintf("Barcode %s shared with other SKUs: %s",
				barcode, strings.Join(otherSKUs(group, it), ", ")))
		}

		distinct := make(map[string]struct{})
		for _, it := range group {
			if sku := strings.ToLower(strings.TrimSpace(it.PrimarySKU)); sku != "" {
				distinct[sku] = struct{}{}
			}
		}
		if len(distinct) < 2 {
			continue
		}
		for _, it := range group {
			it.Conflicts.Add(ConflictDuplicateBarcodeAcrossSKUs)
			it.addRemark(fmt.Sprintf("CRITICAL: Barcode %s shared with other SKU(s): %s",
				barcode, strings.Join(otherSKUs(group, it), ", ")))
		}
	}
}

// otherSKUs lists the primary SKUs of every other item in the group, in
// group order, rendering key-less items recognizably.
func otherSKUs(group []*Item, self *Item) []string {
	out := make([]string, 0, len(group)-1)
	for _, other := range group {
		if other == self {
			continue
		}
		if other.PrimarySKU == "" {
			out = append(out, "(no SKU)")
			continue
		}
		out = append(out, other.PrimarySKU)
	}
	return out
}

// detectItemConsistency runs the per-item checks that need no
// cross-item visibility: identifier disagreement between the item's own
// merged sources, duplicates carried in from a single source, and short
// barcodes.
type valueSource struct {
	value  string
	source string
}

func detectItemConsistency(it *Item) {
	var skus, barcodes []valueSource
	seenSKU := make(map[string]struct{})
	seenBarcode := make(map[string]struct{})
	var duplicateRemarks []string

	for _, name := range it.mergedSources() {
		rec := it.Sources[name]
		if rec.RawSKU != "" {
			if _, ok := seenSKU[rec.RawSKU]; !ok {
				seenSKU[rec.RawSKU] = struct{}{}
				skus = append(skus, valueSource{rec.RawSKU, name})
			}
		}
		if rec.RawBarcode != "" {
			if _, ok := seenBarcode[rec.RawBarcode]; !ok {
				seenBarcode[rec.RawBarcode] = struct{}{}
				barcodes = append(barcodes, valueSource{rec.RawBarcode, name})
			}
		}
		if rec.DuplicateInSource {
			duplicateRemarks = append(duplicateRemarks, duplicateRemark(rec))
		}
	}

	if len(skus) > 1 {
		it.Conflicts.Add(ConflictInconsistentSKU)
		it.addRemark("Different SKUs for same item across sources: " + joinValueSources(skus))
	}
	if len(barcodes) > 1 {
		it.Conflicts.Add(ConflictInconsistentBarcode)
		it.addRemark("Different barcodes for same item across sources: " + joinValueSources(barcodes))
	}
	if len(duplicateRemarks) > 0 {
		it.Conflicts.Add(ConflictFileDuplicate)
		it.Remarks = append(it.Remarks, duplicateRemarks...)
	}

	detectShortBarcodes(it)
}

func joinValueSources(values []valueSource) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%s (%s)", v.value, v.source))
	}
	return strings.Join(parts, " vs ")
}

func duplicateRemark(rec SourceRecord) string {
	switch {
	case rec.SKUDuplicate && rec.BarcodeDuplicate:
		return fmt.Sprintf("Duplicate in '%s': SKU '%s' and barcode '%s' appear multiple times in this source",
			rec.SourceName, rec.RawSKU, rec.RawBarcode)
	case rec.SKUDuplicate:
		return fmt.Sprintf("Duplicate in '%s': SKU '%s' appears multiple times in this source",
			rec.SourceName, rec.RawSKU)
	default:
		return fmt.Sprintf("Duplicate in '%s': barcode '%s' appears multiple times in this source",
			rec.SourceName, rec.RawBarcode)
	}
}

// detectShortBarcodes flags real barcodes shorter than three characters
// on any merged record or on the primary barcode itself.
func detectShortBarcodes(it *Item) {
	var where []string
	seen := make(map[string]struct{})
	for _, name := range it.mergedSources() {
		rec := it.Sources[name]
		if isShortBarcode(rec.RawBarcode) {
			where = append(where, fmt.Sprintf("%s ('%s')", name, rec.RawBarcode))
			seen[rec.RawBarcode] = struct{}{}
		}
	}
	if isShortBarcode(it.PrimaryBarcode) {
		if _, ok := seen[it.PrimaryBarcode]; !ok {
			where = append(where, fmt.Sprintf("primary ('%s')", it.PrimaryBarcode))
		}
	}
	if len(where) == 0 {
		return
	}
	it.Conflicts.Add(ConflictShortBarcode)
	it.addRemark("Short barcodes (<3 chars) in: " + strings.Join(where, ", "))
}
