// Package database handles database connections and the run audit trail.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration, with an SQLite
// driver branch for local and test use.
//
// # Connect
//
// The generic Connect function establishes a connection to the database. The
// connection is optional: when it fails at startup the application logs a
// warning and keeps running without auditing.
//
// # Run Audit
//
// The Recorder persists one RunAudit row per comparison run: rule set, source
// counts, per-status item counts and duration. Item-level results are never
// written; each run's report stays self-contained.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Audit trail disabled", zap.Error(err))
//	}
//	recorder, err := database.NewRecorder(db)
package database
