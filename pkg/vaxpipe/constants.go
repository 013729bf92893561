package vaxpipe

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Run completed and every table loaded
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitExtractFailed   = 12 // An input spreadsheet could not be read
	ExitLoadFailed      = 13 // At least one table failed to load
	ExitSchemaFailed    = 14 // Schema creation failed in strict mode
)

const (
	// DefaultHost is the database host used when nothing else is configured.
	DefaultHost = "localhost"

	// DefaultPort is the PostgreSQL default port.
	DefaultPort = 5432

	// DefaultUsername is the role used when neither config nor $PGUSER name one.
	DefaultUsername = "postgres"

	// DefaultDatabaseName is the target database that receives the five tables.
	DefaultDatabaseName = "vaccination_analysis"

	// DefaultManagementDB is the database to connect to for CREATE DATABASE.
	DefaultManagementDB = "postgres"

	// DefaultSSLMode mirrors libpq's default.
	DefaultSSLMode = "prefer"

	// DefaultPlotPath is where the trend chart is written.
	DefaultPlotPath = "vaccination_trends.png"

	// DefaultTimeout is catastrophic failure protection for a whole run.
	DefaultTimeout = 10 * time.Minute
)
