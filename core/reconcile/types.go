package reconcile

import "strings"

// Row is one already-resolved row handed over by the source ingestor.
// Column roles (SKU, barcode, product name, remark) are resolved by the
// ingestor; the engine never sees raw spreadsheet cells.
type Row struct {
	SKU         string
	Barcode     string
	ProductName string
	Remark      string
}

// Source is one named tabular input: a location sheet or an unlisted sheet.
type Source struct {
	Name string
	Rows []Row
}

// SourceRecord is one row of one source after per-source validation.
// It is created once during ingestion and never mutated afterwards.
type SourceRecord struct {
	SourceName     string
	RawSKU         string
	RawBarcode     string
	RawProductName string
	Remark         string

	// DuplicateInSource is true when the row's SKU or barcode repeats
	// within the same source. The specific flags record which value.
	DuplicateInSource bool
	SKUDuplicate      bool
	BarcodeDuplicate  bool

	// ShortBarcode is true for a non-empty, non-placeholder barcode
	// shorter than three characters.
	ShortBarcode bool
}

// RuleGroup classifies an item by the kind of source it was merged from.
// It decides which subset of locations and unlisted sources the presence
// rules compare the item against.
type RuleGroup int

const (
	GroupDefault RuleGroup = iota
	GroupSpecial
)

// ConflictCode is a symbolic tag for one detected data-quality conflict.
type ConflictCode string

const (
	ConflictDuplicateBarcodeAcrossItems ConflictCode = "DUPLICATE_BARCODE_ACROSS_ITEMS"
	ConflictDuplicateBarcodeAcrossSKUs  ConflictCode = "DUPLICATE_BARCODE_ACROSS_SKUS"
	ConflictInconsistentSKU             ConflictCode = "INCONSISTENT_SKU"
	ConflictInconsistentBarcode         ConflictCode = "INCONSISTENT_BARCODE"
	ConflictFileDuplicate               ConflictCode = "FILE_DUPLICATE"
	ConflictShortBarcode                ConflictCode = "SHORT_BARCODE"
)

// ConflictSet is an insertion-ordered set of conflict codes.
type ConflictSet struct {
	codes []ConflictCode
}

// Add appends the code unless it is already present.
func (s *ConflictSet) Add(code ConflictCode) {
	if !s.Has(code) {
		s.codes = append(s.codes, code)
	}
}

// Has reports whether the set contains the code.
func (s *ConflictSet) Has(code ConflictCode) bool {
	for _, c := range s.codes {
		if c == code {
			return true
		}
	}
	return false
}

// Empty reports whether no conflicts were recorded.
func (s *ConflictSet) Empty() bool {
	return len(s.codes) == 0
}

// Codes returns the codes in insertion order.
func (s *ConflictSet) Codes() []ConflictCode {
	return s.codes
}

// HasQualityIssue reports whether the set contains any conflict other
// than the two cross-item duplicate-barcode codes. These are the codes
// that annotate a rule violation with "+DATA_ISSUES" or, on their own,
// downgrade an otherwise clean item to StatusDataIssues.
func (s *ConflictSet) HasQualityIssue() bool {
	for _, c := range s.codes {
		if c != ConflictDuplicateBarcodeAcrossItems && c != ConflictDuplicateBarcodeAcrossSKUs {
			return true
		}
	}
	return false
}

// String joins the codes with " + " in insertion order.
func (s *ConflictSet) String() string {
	parts := make([]string, 0, len(s.codes))
	for _, c := range s.codes {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, " + ")
}

// Status is the final, mutually exclusive classification of an item.
type Status string

const (
	StatusCriticalDuplicateBarcode Status = "CRITICAL_DUPLICATE_BARCODE"
	StatusNoData                   Status = "NO_DATA"
	StatusRuleViolation            Status = "RULE_VIOLATION"
	StatusDataIssues               Status = "DATA_ISSUES"
	StatusGood                     Status = "GOOD"
)

// Item is the consolidated, cross-source representation of one physical
// product. Items are created during consolidation and mutated by every
// later pass; exactly one report row is emitted per item.
type Item struct {
	// PrimarySKU is the normalized consolidation key. Empty for items
	// keyed by barcode.
	PrimarySKU string

	// PrimaryBarcode is the fallback key, taken from the first record.
	PrimaryBarcode string

	// PrimarySKUSource names the first merged source whose SKU matched
	// PrimarySKU. It gets first pick when resolving the product name.
	PrimarySKUSource string

	// ProductName is the resolved display name, set after all merges.
	ProductName string

	Group RuleGroup

	// Sources maps source name to the record merged from that source.
	// At most one record is kept per source; later records for the same
	// source and key are ignored.
	Sources map[string]SourceRecord

	// sourceOrder preserves merge order for deterministic remark text.
	sourceOrder []string

	Conflicts ConflictSet
	Status    Status

	// QualityAnnotated is set when a rule violation coincides with
	// non-barcode data-quality conflicts.
	QualityAnnotated bool

	// Remarks is append-only; insertion order is the display order.
	Remarks []string
}

func newItem(sku, barcode string) *Item {
	return &Item{
		PrimarySKU:     strings.TrimSpace(sku),
		PrimaryBarcode: strings.TrimSpace(barcode),
		Sources:        make(map[string]SourceRecord),
	}
}

// PresentIn reports whether a record from the named source was merged.
func (it *Item) PresentIn(source string) bool {
	_, ok := it.Sources[source]
	return ok
}

// Record returns the merged record for the named source, if any.
func (it *Item) Record(source string) (SourceRecord, bool) {
	rec, ok := it.Sources[source]
	return rec, ok
}

// StatusCode returns the short status code for report output.
func (it *Item) StatusCode() string {
	if it.Status == StatusRuleViolation && it.QualityAnnotated {
		return string(StatusRuleViolation) + "+DATA_ISSUES"
	}
	return string(it.Status)
}

func (it *Item) addRemark(remark string) {
	it.Remarks = append(it.Remarks, remark)
}

// mergedSources returns the source names in merge order.
func (it *Item) mergedSources() []string {
	return it.sourceOrder
}

// DefaultProductName is the placeholder title used when no merged source
// provides a usable one.
const DefaultProductName = "Default Title"

// IsPlaceholder reports whether the value is a placeholder that must
// never be treated as a real, comparable identifier. Placeholders are
// stored verbatim on records but excluded from duplicate, collision and
// short-barcode detection.
func IsPlaceholder(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return true
	}
	switch v {
	case "n/a", "na", "none", "null",
		"no barcode", "no barcode available", "missing barcode":
		return true
	}
	return strings.HasPrefix(v, "no ") && strings.Contains(v, "barcode")
}
