package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// RunAudit is one row of the run audit trail. It records only run
// metadata; item-level results are never persisted.
type RunAudit struct {
	ID             uint   `gorm:"primaryKey"`
	RayID          string `gorm:"size:64;index"`
	RuleSet        string `gorm:"size:16"`
	LocationCount  int
	UnlistedCount  int
	ItemCount      int
	GoodCount      int
	ViolationCount int
	DataIssueCount int
	CriticalCount  int
	NoDataCount    int
	SkippedRows    int
	DurationMS     int64
	CreatedAt      time.Time
}

// Recorder writes run audit rows. A nil Recorder is valid and records
// nothing, so callers don't have to branch on whether auditing is on.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder migrates the audit table and returns a recorder bound to
// the connection.
func NewRecorder(db *gorm.DB) (*Recorder, error) {
	if err := db.AutoMigrate(&RunAudit{}); err != nil {
		return nil, fmt.Errorf("migrate run audit table: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Record inserts one audit row.
func (r *Recorder) Record(audit *RunAudit) error {
	if r == nil {
		return nil
	}
	if err := r.db.Create(audit).Error; err != nil {
		return fmt.Errorf("record run audit: %w", err)
	}
	return nil
}
