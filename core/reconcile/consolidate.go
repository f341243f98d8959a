package reconcile

import (
	"sort"
	"strings"
)

// keyKind tags the consolidation key: items with a SKU are keyed by it,
// items without one fall back to their barcode. The two key spaces are
// distinct, so a barcode-keyed item never merges into a SKU-keyed one.
type keyKind uint8

const (
	keySKU keyKind = iota
	keyBarcode
)

type itemKey struct {
	kind  keyKind
	value string
}

// consolidator folds (source, record) pairs into consolidated items.
// One map over tagged keys replaces the usual map-by-SKU plus
// linear-scan list-by-barcode split.
type consolidator struct {
	cfg   RunConfig
	byKey map[itemKey]*Item
	order []*Item
}

func newConsolidator(cfg RunConfig) *consolidator {
	return &consolidator{cfg: cfg, byKey: make(map[itemKey]*Item)}
}

// add merges one record. Records with both keys empty must have been
// dropped upstream.
func (c *consolidator) add(rec SourceRecord) {
	var key itemKey
	switch {
	case rec.RawSKU != "":
		key = itemKey{kind: keySKU, value: strings.ToLower(rec.RawSKU)}
	case rec.RawBarcode != "":
		key = itemKey{kind: keyBarcode, value: strings.ToLower(rec.RawBarcode)}
	default:
		return
	}

	it, ok := c.byKey[key]
	if !ok {
		if key.kind == keySKU {
			it = newItem(rec.RawSKU, rec.RawBarcode)
		} else {
			it = newItem("", rec.RawBarcode)
		}
		c.byKey[key] = it
		c.order = append(c.order, it)
	}
	c.merge(it, rec)
}

// merge attaches the record to the item and re-evaluates the attributes
// that every merge can change: the SKU-source used for product-name
// precedence, and the rule-group membership.
func (c *consolidator) merge(it *Item, rec SourceRecord) {
	if _, seen := it.Sources[rec.SourceName]; !seen {
		it.Sources[rec.SourceName] = rec
		it.sourceOrder = append(it.sourceOrder, rec.SourceName)
	}

	// A source merged after creation can still become the name source
	// when the creating source lacked a usable SKU match.
	if it.PrimarySKUSource == "" && rec.RawSKU != "" && strings.EqualFold(rec.RawSKU, it.PrimarySKU) {
		it.PrimarySKUSource = rec.SourceName
	}

	// Special membership is sticky: once special, never downgraded.
	if c.cfg.RuleSet.SpecialSource(rec.SourceName) {
		it.Group = GroupSpecial
	}
}

// items returns all consolidated items sorted by primary SKU then
// primary barcode, case-insensitive. Sorting here makes every later
// pass, and therefore the whole run, deterministic.
func (c *consolidator) items() []*Item {
	out := make([]*Item, len(c.order))
	copy(out, c.order)
	sort.Slice(out, func(i, j int) bool {
		si, sj := strings.ToLower(out[i].PrimarySKU), strings.ToLower(out[j].PrimarySKU)
		if si != sj {
			return si < sj
		}
		return strings.ToLower(out[i].PrimaryBarcode) < strings.ToLower(out[j].PrimaryBarcode)
	})
	return out
}

// resolveProductName picks the item's display name after all merges.
// Precedence: the record that supplied the primary SKU, then any merged
// source whose SKU matches the key, then any location source, then the
// longest usable title among unlisted sources, then the placeholder.
func resolveProductName(it *Item, cfg RunConfig) {
	if it.PrimarySKUSource != "" {
		if rec, ok := it.Record(it.PrimarySKUSource); ok && validProductTitle(rec.RawProductName) {
			it.ProductName = rec.RawProductName
			return
		}
	}

	for _, name := range it.mergedSources() {
		rec := it.Sources[name]
		if strings.EqualFold(rec.RawSKU, it.PrimarySKU) && validProductTitle(rec.RawProductName) {
			it.ProductName = rec.RawProductName
			return
		}
	}

	for _, loc := range cfg.LocationNames {
		if rec, ok := it.Record(loc); ok && validProductTitle(rec.RawProductName) {
			it.ProductName = rec.RawProductName
			return
		}
	}

	best := ""
	for _, unl := range cfg.UnlistedNames {
		if rec, ok := it.Record(unl); ok && validProductTitle(rec.RawProductName) {
			if len(rec.RawProductName) > len(best) {
				best = rec.RawProductName
			}
		}
	}
	if best != "" {
		it.ProductName = best
		return
	}

	it.ProductName = DefaultProductName
}

// validProductTitle rejects empty, single-character and placeholder
// titles.
func validProductTitle(title string) bool {
	t := strings.TrimSpace(title)
	if len(t) < 2 {
		return false
	}
	switch strings.ToLower(t) {
	case "null", "n/a", "na", "none", strings.ToLower(DefaultProductName):
		return false
	}
	return true
}
