// Package schema creates the target database and the five destination tables.
// Every operation is idempotent and safe to repeat on each run.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/vaxpipe/internal/dataset"
	"github.com/vvka-141/vaxpipe/pkg/vaxpipe"
)

// Store ensures the database objects the loader writes into exist.
type Store struct {
	manager vaxpipe.DatabaseManager
	logger  vaxpipe.Logger
}

// New creates a Store.
func New(manager vaxpipe.DatabaseManager, logger vaxpipe.Logger) *Store {
	return &Store{manager: manager, logger: logger}
}

// EnsureDatabase creates the database unless it already exists. conn must be
// connected to a management database such as "postgres".
func (s *Store) EnsureDatabase(ctx context.Context, conn vaxpipe.DBConnection, name string) error {
	exists, err := s.manager.Exists(ctx, conn, name)
	if err != nil {
		return fmt.Errorf("database %q: %w: %w", name, err, vaxpipe.ErrSchemaFailed)
	}

	if exists {
		s.logger.Verbose("Database %q already exists", name)
	} else {
		s.logger.Verbose("Creating database %q", name)
		if err := s.manager.Create(ctx, conn, name); err != nil {
			return fmt.Errorf("database %q: %w: %w", name, err, vaxpipe.ErrSchemaFailed)
		}
	}

	s.logger.Info("Database '%s' created or already exists.", name)
	return nil
}

// EnsureTables creates every dataset's table if it does not exist. Tables
// that already exist are left untouched, even if their columns differ.
// It stops at the first failing statement.
func (s *Store) EnsureTables(ctx context.Context, conn vaxpipe.DBConnection, datasets []dataset.Dataset) error {
	for _, ds := range datasets {
		s.logger.Verbose("Ensuring table %s", ds.Table)
		if _, err := conn.Exec(ctx, DDL(ds)); err != nil {
			return fmt.Errorf("create table %s: %w: %w", ds.Table, err, vaxpipe.ErrSchemaFailed)
		}
	}

	s.logger.Info("Tables created successfully!")
	return nil
}

// DDL renders the CREATE TABLE IF NOT EXISTS statement for a dataset.
// Identifiers are always quoted since column names such as GROUP are
// reserved words.
func DDL(ds dataset.Dataset) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(pgx.Identifier{ds.Table}.Sanitize())
	sb.WriteString(" (\n")
	for i, c := range ds.Columns {
		sb.WriteString("    ")
		sb.WriteString(pgx.Identifier{c.Name}.Sanitize())
		sb.WriteByte(' ')
		sb.WriteString(c.Type.SQLType())
		if i < len(ds.Columns)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(")")
	return sb.String()
}
