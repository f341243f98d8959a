// Package comparer exposes the inventory reconciliation engine over HTTP.
//
// It accepts multipart uploads of location and unlisted spreadsheets,
// runs the consolidation and rule classification, and returns the
// comparison report as an xlsx attachment. When the report archive is
// enabled, every generated report is also stored in object storage and
// can be listed and re-downloaded later.
//
// # Endpoints
//
//   - POST /comparer/generate: run a comparison over uploaded sources
//   - GET  /comparer/reports: list archived reports
//   - GET  /comparer/reports/:name: download one archived report
//
// The feature is wired into the application through the loader.Feature
// interface.
package comparer
