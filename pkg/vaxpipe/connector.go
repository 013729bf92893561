package vaxpipe

import (
	"context"
)

// Connector establishes database connections.
type Connector interface {
	// Connect opens a connection to the configured database.
	// The returned Database should be closed by the caller when done.
	Connect(ctx context.Context) (Database, error)
}

// ConnectorFactory builds a Connector for a resolved connection config.
type ConnectorFactory func(config *ConnectionConfig) (Connector, error)
