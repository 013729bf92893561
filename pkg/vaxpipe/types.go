package vaxpipe

import (
	"errors"
	"fmt"
	"time"
)

// Config contains everything a single pipeline run needs. It is resolved once
// at process start and passed explicitly to the pipeline.
type Config struct {
	// Connection addresses the target database. Connection.Database is the
	// database that receives the five tables.
	Connection ConnectionConfig

	// ManagementDatabase is the database to connect to for CREATE DATABASE.
	// Typically "postgres".
	ManagementDatabase string

	// InputDir is the directory holding the five spreadsheets.
	InputDir string

	// InputFiles overrides the spreadsheet file name per destination table.
	// Tables without an entry use their default file name.
	InputFiles map[string]string

	// PlotPath is the PNG file the trend chart is written to.
	PlotPath string

	// StrictSchema makes database or table creation failures abort the run.
	StrictSchema bool

	// Timeout is the global timeout for the entire run
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the Config has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Connection.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.ManagementDatabase == "" {
		errs = append(errs, fmt.Errorf("ManagementDatabase is required: %w", ErrInvalidConfig))
	}

	if c.ManagementDatabase != "" && c.ManagementDatabase == c.Connection.Database {
		errs = append(errs, fmt.Errorf("target database %q cannot be the management database: %w",
			c.Connection.Database, ErrInvalidConfig))
	}

	if c.InputDir == "" {
		errs = append(errs, fmt.Errorf("InputDir is required: %w", ErrInvalidConfig))
	}

	if c.PlotPath == "" {
		errs = append(errs, fmt.Errorf("PlotPath is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents resolved connection parameters.
// Only plain username/password authentication is supported.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	AppName        string
	ConnectTimeout time.Duration
}

// Validate reports missing or out-of-range connection fields.
func (c *ConnectionConfig) Validate() error {
	var errs []error

	if c.Host == "" {
		errs = append(errs, fmt.Errorf("host is required: %w", ErrInvalidConfig))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range: %w", c.Port, ErrInvalidConfig))
	}
	if c.Username == "" {
		errs = append(errs, fmt.Errorf("username is required: %w", ErrInvalidConfig))
	}
	if c.Database == "" {
		errs = append(errs, fmt.Errorf("database name is required: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// WithDatabase returns a copy of the config pointing at another database.
func (c ConnectionConfig) WithDatabase(name string) *ConnectionConfig {
	c.Database = name
	return &c
}
