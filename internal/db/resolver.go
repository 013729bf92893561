package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/vaxpipe/internal/config"
	"github.com/vvka-141/vaxpipe/pkg/vaxpipe"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Password is NOT a CLI flag. Use $PGPASSWORD, a connection string, or the
// password field of vaxpipe.yaml.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no server-addressing flags were provided.
// Database is excluded because it selects the target database in every mode.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// EnvVars represents PostgreSQL standard environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string
}

// LoadFromEnvironment loads PostgreSQL environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:       os.Getenv("PGHOST"),
		PGPORT:       os.Getenv("PGPORT"),
		PGUSER:       os.Getenv("PGUSER"),
		PGPASSWORD:   os.Getenv("PGPASSWORD"),
		PGDATABASE:   os.Getenv("PGDATABASE"),
		PGSSLMODE:    os.Getenv("PGSSLMODE"),
		DATABASE_URL: os.Getenv("DATABASE_URL"),
	}
}

// ResolveConnectionParams resolves connection parameters:
//
//  1. Connection string (--connection flag, then $DATABASE_URL when no granular
//     flags are given). Its database is the management database.
//  2. Otherwise each field is taken from flag > environment > vaxpipe.yaml > default.
//
// The target database is always -d > $PGDATABASE > vaxpipe.yaml > vaccination_analysis.
//
// Returns the target ConnectionConfig and the management database name.
// Specifying both --connection and granular server flags is an error.
func ResolveConnectionParams(
	connStringFlag string,
	flags *GranularConnFlags,
	envVars *EnvVars,
	fileConfig *config.FileConfig,
) (*vaxpipe.ConnectionConfig, string, error) {
	if flags == nil {
		flags = &GranularConnFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}
	var fc config.ConnectionConfig
	if fileConfig != nil {
		fc = fileConfig.Connection
	}

	if connStringFlag != "" && !flags.IsEmpty() {
		return nil, "", fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/postgres\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d mydb\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser: %w",
			vaxpipe.ErrInvalidConfig,
		)
	}

	connStr := connStringFlag
	if connStr == "" && flags.IsEmpty() {
		connStr = envVars.DATABASE_URL
	}

	var cfg *vaxpipe.ConnectionConfig
	var maintenanceDB string
	var err error
	if connStr != "" {
		cfg, maintenanceDB, err = resolveFromConnectionString(connStr, envVars)
	} else {
		cfg, maintenanceDB, err = resolveFromGranularParams(flags, envVars, fc)
	}
	if err != nil {
		return nil, "", err
	}

	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, fc.Database, vaxpipe.DefaultDatabaseName)
	return cfg, maintenanceDB, nil
}

// resolveFromConnectionString parses a connection string. The database it
// names is used for CREATE DATABASE; the password, when absent, falls back to
// $PGPASSWORD.
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*vaxpipe.ConnectionConfig, string, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, "", fmt.Errorf("invalid connection string: %v: %w", err, vaxpipe.ErrInvalidConfig)
	}

	if cfg.Password == "" {
		cfg.Password = envVars.PGPASSWORD
	}
	if cfg.Username == "" {
		cfg.Username = firstNonEmpty(envVars.PGUSER, vaxpipe.DefaultUsername)
	}

	maintenanceDB := cfg.Database
	if maintenanceDB == "" {
		maintenanceDB = vaxpipe.DefaultManagementDB
	}
	return cfg, maintenanceDB, nil
}

// resolveFromGranularParams builds a ConnectionConfig field by field:
// flag > environment variable > vaxpipe.yaml > default.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	fc config.ConnectionConfig,
) (*vaxpipe.ConnectionConfig, string, error) {
	cfg := &vaxpipe.ConnectionConfig{
		Host:     firstNonEmpty(flags.Host, envVars.PGHOST, fc.Host, vaxpipe.DefaultHost),
		Username: firstNonEmpty(flags.Username, envVars.PGUSER, fc.Username, vaxpipe.DefaultUsername),
		Password: firstNonEmpty(envVars.PGPASSWORD, fc.Password),
		SSLMode:  firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, fc.SSLMode, vaxpipe.DefaultSSLMode),
	}

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, "", fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", envVars.PGPORT, vaxpipe.ErrInvalidConfig)
		}
		cfg.Port = port
	case fc.Port != 0:
		cfg.Port = fc.Port
	default:
		cfg.Port = vaxpipe.DefaultPort
	}

	maintenanceDB := firstNonEmpty(fc.ManagementDatabase, vaxpipe.DefaultManagementDB)
	return cfg, maintenanceDB, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
