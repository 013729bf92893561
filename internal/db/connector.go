package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/vaxpipe/pkg/vaxpipe"
)

// Connection pool configuration constants. The pipeline is single-threaded,
// so the pool never needs more than a couple of connections.
const (
	DefaultMaxConns        = 2
	DefaultMinConns        = 0
	DefaultMaxConnIdleTime = 5 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
}

// StandardConnector implements vaxpipe.Connector for username/password
// authentication. A failed connection attempt is returned as is; there are no retries.
type StandardConnector struct {
	config *vaxpipe.ConnectionConfig
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *vaxpipe.ConnectionConfig) *StandardConnector {
	return &StandardConnector{config: config}
}

// Connect opens a pool and verifies it with a ping.
func (c *StandardConnector) Connect(ctx context.Context) (vaxpipe.Database, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(c.config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %v: %w", err, vaxpipe.ErrInvalidConfig)
	}

	configurePool(poolConfig)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
	}

	return NewPoolAdapter(pool), nil
}

// NewConnector is the vaxpipe.ConnectorFactory used by the CLI.
func NewConnector(config *vaxpipe.ConnectionConfig) (vaxpipe.Connector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return NewStandardConnector(config), nil
}

var _ vaxpipe.ConnectorFactory = NewConnector

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
// Every returned error wraps vaxpipe.ErrConnectionFailed.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var hint string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		hint = fmt.Sprintf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port
  - Firewall blocking the connection`, addr, host, port)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		hint = fmt.Sprintf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable`, host)

	case strings.Contains(errStr, "password authentication failed"):
		hint = fmt.Sprintf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD or the password in vaxpipe.yaml)
  - Wrong username`, database)

	case strings.Contains(errStr, "does not exist"):
		hint = fmt.Sprintf(`database "%s" does not exist

The management database must exist before vaxpipe can create the target
database (see --management-db).`, database)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		hint = fmt.Sprintf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Wrong host/port (server not listening)`, addr)

	default:
		return fmt.Errorf("failed to connect to database %q at %s: %v: %w", database, addr, err, vaxpipe.ErrConnectionFailed)
	}

	return fmt.Errorf("%s\n\nOriginal error: %v: %w", hint, err, vaxpipe.ErrConnectionFailed)
}
