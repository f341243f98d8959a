// Package reconcile implements the inventory consolidation and
// rule-violation classification engine.
//
// The engine takes a set of named tabular sources, per-location stock
// sheets and "unlisted" (exclusion) sheets, and merges their rows into
// one consolidated item per physical product, keyed by SKU with a
// barcode fallback for rows that carry no SKU. It then detects
// data-quality conflicts (duplicates within a source, inconsistent
// identifiers across sources, short barcodes, barcodes shared by
// different products) and classifies every item against a group-based
// presence rule set.
//
// # Pipeline
//
// A run is a pure batch transform over its inputs:
//
//  1. Per-source duplicate detection: flag rows whose SKU or barcode
//     repeats within the same source (location sources only).
//  2. Consolidation: fold records into items keyed by normalized SKU,
//     or by barcode when the SKU is empty.
//  3. Cross-item conflict detection: find barcodes shared by two or
//     more items, and the stricter case where the sharing items carry
//     genuinely different SKUs.
//  4. Classification: evaluate the active rule set's presence rules and
//     assign a final status plus human-readable remarks.
//  5. Assembly: emit one report row per item, sorted by primary SKU
//     then primary barcode.
//
// # Concurrency
//
// The engine holds no mutable state between runs. Every run receives
// its own RunConfig and produces a private item set, so concurrent runs
// (different uploads from different users) never interact.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(logger)
//	result, err := engine.Run(reconcile.RuleSetStandard, locations, unlisted)
//	for _, row := range result.Rows {
//	    // render row
//	}
package reconcile
