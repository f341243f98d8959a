package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func locSource(name string, rows ...Row) Source {
	return Source{Name: name, Rows: rows}
}

func TestEngineRun_ConfigErrors(t *testing.T) {
	e := NewEngine(nil)
	loc := locSource("LocA", Row{SKU: "S1", Barcode: "B123"})

	tests := []struct {
		name      string
		ruleSet   RuleSet
		locations []Source
		unlisted  []Source
		wantErr   string
	}{
		{
			name:      "unknown rule set",
			ruleSet:   RuleSet("bogus"),
			locations: []Source{loc},
			wantErr:   "unknown rule set",
		},
		{
			name:    "no locations",
			ruleSet: RuleSetStandard,
			wantErr: "at least one location source",
		},
		{
			name:      "duplicate source names across kinds",
			ruleSet:   RuleSetStandard,
			locations: []Source{loc},
			unlisted:  []Source{locSource("loca")},
			wantErr:   "duplicate source name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Run(tt.ruleSet, tt.locations, tt.unlisted)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEngineRun_CleanRun(t *testing.T) {
	e := NewEngine(nil)

	res, err := e.Run(RuleSetStandard,
		[]Source{
			locSource("LocA",
				Row{SKU: "S1", Barcode: "111222", ProductName: "Widget"},
				Row{SKU: "S2", Barcode: "333444", ProductName: "Gadget"},
			),
			locSource("LocB",
				Row{SKU: "S1", Barcode: "111222", ProductName: "Widget"},
				Row{SKU: "S2", Barcode: "333444", ProductName: "Gadget"},
			),
		},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, Summary{Items: 2, Good: 2}, res.Summary)
	require.Len(t, res.Rows, 2)

	row := res.Rows[0]
	assert.Equal(t, "S1", row.PrimarySKU)
	assert.Equal(t, "Widget", row.ProductName)
	assert.Equal(t, "GOOD", row.StatusCode)
	assert.Empty(t, row.ConflictCodes)
	assert.True(t, row.InAllLocations)
	assert.False(t, row.InAnyRelevantUnlisted)
	assert.Contains(t, row.Remarks, "Item correctly placed in locations and absent from unlisted sources")
}

func TestEngineRun_BarcodeFallbackMerge(t *testing.T) {
	e := NewEngine(nil)

	// LocA has no SKU column values for this item; LocB does. The rows
	// stay separate items because a barcode-keyed item never folds into
	// an SKU-keyed one.
	res, err := e.Run(RuleSetStandard,
		[]Source{
			locSource("LocA", Row{Barcode: "111222", ProductName: "Widget"}),
			locSource("LocB", Row{Barcode: "111222", ProductName: "Widget Deluxe"}),
		},
		nil,
	)
	require.NoError(t, err)

	require.Equal(t, 1, res.Summary.Items)
	it := res.Items[0]
	assert.Empty(t, it.PrimarySKU)
	assert.Equal(t, "111222", it.PrimaryBarcode)
	assert.True(t, it.PresentIn("LocA"))
	assert.True(t, it.PresentIn("LocB"))
}

func TestEngineRun_CriticalBarcodeCollision(t *testing.T) {
	e := NewEngine(nil)

	res, err := e.Run(RuleSetStandard,
		[]Source{
			locSource("LocA",
				Row{SKU: "S1", Barcode: "999888"},
				Row{SKU: "S2", Barcode: "999888"},
			),
		},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Summary.Critical)
	for _, row := range res.Rows {
		assert.Equal(t, "CRITICAL_DUPLICATE_BARCODE", row.StatusCode)
		assert.Contains(t, row.ConflictCodes, "DUPLICATE_BARCODE_ACROSS_ITEMS")
		assert.Contains(t, row.ConflictCodes, "DUPLICATE_BARCODE_ACROSS_SKUS")
		assert.Contains(t, row.Remarks, "CRITICAL: Barcode 999888 shared with other SKU(s)")
	}
}

func TestEngineRun_RuleViolationWithDataIssues(t *testing.T) {
	e := NewEngine(nil)

	// S1 sits in its cosmetics location and in the WEB unlisted sheet at
	// once, and carries a short barcode on top.
	res, err := e.Run(RuleSetStandard,
		[]Source{locSource("Cosmetics_Store", Row{SKU: "S1", Barcode: "B1"})},
		[]Source{locSource("WEB_Unlisted", Row{SKU: "S1", Barcode: "B1"})},
	)
	require.NoError(t, err)

	require.Equal(t, 1, res.Summary.Items)
	assert.Equal(t, 1, res.Summary.RuleViolation)

	row := res.Rows[0]
	assert.Equal(t, "RULE_VIOLATION+DATA_ISSUES", row.StatusCode)
	assert.Contains(t, row.Remarks, "Item should not appear in both Cosmetics_Store and WEB_Unlisted")
	assert.Contains(t, row.ConflictCodes, "SHORT_BARCODE")
	assert.True(t, row.InAnyRelevantUnlisted)
}

func TestEngineRun_UnlistedOnlyItem(t *testing.T) {
	e := NewEngine(nil)

	res, err := e.Run(RuleSetStandard,
		[]Source{locSource("LocA", Row{SKU: "S1", Barcode: "111222"})},
		[]Source{locSource("Unlisted_Main", Row{SKU: "S9", Barcode: "777666"})},
	)
	require.NoError(t, err)

	require.Equal(t, 2, res.Summary.Items)
	assert.Equal(t, 2, res.Summary.Good)

	// Sorted by SKU: S1 first, then S9.
	row := res.Rows[1]
	assert.Equal(t, "S9", row.PrimarySKU)
	assert.Contains(t, row.Remarks, "Item correctly listed only in unlisted sources: Unlisted_Main")
	assert.False(t, row.InAllLocations)
}

func TestEngineRun_SkippedRowsCounted(t *testing.T) {
	e := NewEngine(nil)

	res, err := e.Run(RuleSetStandard,
		[]Source{locSource("LocA",
			Row{SKU: "S1", Barcode: "111222"},
			Row{ProductName: "no identifiers"},
			Row{SKU: "  ", Barcode: ""},
		)},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Summary.Items)
	assert.Equal(t, 2, res.Summary.SkippedRows)
}

func TestEngineRun_Deterministic(t *testing.T) {
	e := NewEngine(nil)
	locations := []Source{
		locSource("LocB",
			Row{SKU: "zeta", Barcode: "222333"},
			Row{SKU: "alpha", Barcode: "444555"},
		),
		locSource("LocA",
			Row{SKU: "Alpha", Barcode: "444555"},
			Row{Barcode: "666777"},
		),
	}
	unlisted := []Source{locSource("Unlisted_Main", Row{SKU: "zeta", Barcode: "222333"})}

	first, err := e.Run(RuleSetStandard, locations, unlisted)
	require.NoError(t, err)
	second, err := e.Run(RuleSetStandard, locations, unlisted)
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Rows, second.Rows)

	// SKU-keyed items ordered case-insensitively, barcode-keyed item
	// (empty SKU) first.
	require.Len(t, first.Rows, 3)
	assert.Equal(t, "", first.Rows[0].PrimarySKU)
	assert.Equal(t, "alpha", first.Rows[1].PrimarySKU)
	assert.Equal(t, "zeta", first.Rows[2].PrimarySKU)
}
