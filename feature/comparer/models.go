package comparer

import (
	"io"
	"time"

	"inventory-comparer/core/reconcile"
)

// Upload is one spreadsheet handed in by the caller, named after the
// uploaded file. The name doubles as the source name in the run.
type Upload struct {
	Name   string
	Reader io.Reader
}

// Report is the outcome of one comparison run.
type Report struct {
	// FileName is the attachment name the report should be served under.
	FileName string
	// Content is the rendered xlsx workbook.
	Content []byte
	// Result carries the run's items, rows and summary.
	Result *reconcile.Result
	// ArchivedAs is the archive object name, empty when archiving is
	// disabled or failed.
	ArchivedAs string
}

// ReportInfo describes one archived report.
type ReportInfo struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}
