// Package config defines the configuration of stockroom.
//
// Defaults are declared with `default:` struct tags and applied by
// NewConfigurationWithDefaults. The cmd package binds every field to a
// command-line flag; flags can also be set from STOCKROOM_* environment
// variables or from a config file.
//
//	Configuration
//	├── Server     - HTTP server settings
//	├── Store      - database engine and location
//	├── Scheduler  - worker pool size
//	├── LogFormat  - "console" or "json"
//	└── LogLevel   - zap level name
//
// # Server
//
//	┌────────────┬─────────┬──────────────────────────────────┐
//	│ Field      │ Default │ Description                      │
//	├────────────┼─────────┼──────────────────────────────────┤
//	│ ServerMode │ "dev"   │ "dev" (gin debug) or "prod"      │
//	│ HTTPPort   │ 8000    │ HTTP listen port                 │
//	└────────────┴─────────┴──────────────────────────────────┘
//
// # Store
//
//	┌─────────────┬──────────┬─────────────────────────────────────────────┐
//	│ Field       │ Default  │ Description                                 │
//	├─────────────┼──────────┼─────────────────────────────────────────────┤
//	│ Backend     │ "sqlite" │ "sqlite" or "duckdb"                        │
//	│ DataFolder  │ ""       │ Folder of the database file, "" = in-memory │
//	│ OpenTimeout │ 0s       │ How long to retry a locked database         │
//	└─────────────┴──────────┴─────────────────────────────────────────────┘
//
// # Scheduler
//
//	┌─────────┬─────────┬────────────────────────────────┐
//	│ Field   │ Default │ Description                    │
//	├─────────┼─────────┼────────────────────────────────┤
//	│ Workers │ 3       │ Number of scheduler workers    │
//	└─────────┴─────────┴────────────────────────────────┘
package config
