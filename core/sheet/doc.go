// Package sheet reads tabular inventory sources from xlsx workbooks and
// renders reconciliation results back into a report workbook.
//
// Parsing resolves column roles from the header row by substring match,
// so sources exported from different systems work without configuration
// as long as their headers mention "sku", "barcode", "product"/"title"
// or "remark". A source missing both identifier columns is rejected.
package sheet
