// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures and valid values for server settings,
// such as the default rule preset applied to comparison runs.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, upload size limit, and
// the default rule set (standard or ogf).
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the comparer feature to resolve the rule preset for a run.
package server
