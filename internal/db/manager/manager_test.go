package manager_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/vaxpipe/internal/db/manager"
	"github.com/vvka-141/vaxpipe/pkg/vaxpipe"
)

type mockDBConnection struct {
	queryRowFunc func(ctx context.Context, sql string, args ...any) vaxpipe.Row
	acquireFunc  func(ctx context.Context) (vaxpipe.PooledConnection, error)
}

func (m *mockDBConnection) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockDBConnection) QueryRow(ctx context.Context, sql string, args ...any) vaxpipe.Row {
	if m.queryRowFunc != nil {
		return m.queryRowFunc(ctx, sql, args...)
	}
	return &mockRow{}
}

func (m *mockDBConnection) Acquire(ctx context.Context) (vaxpipe.PooledConnection, error) {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx)
	}
	return &mockPooledConnection{}, nil
}

type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.scanFunc != nil {
		return m.scanFunc(dest...)
	}
	return nil
}

type mockPooledConnection struct {
	execFunc func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	released bool
}

func (m *mockPooledConnection) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.execFunc != nil {
		return m.execFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (m *mockPooledConnection) Release() { m.released = true }

func existsRow(value bool) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error {
		if ptr, ok := dest[0].(*bool); ok {
			*ptr = value
		}
		return nil
	}}
}

func TestManager_Create_QuotesName(t *testing.T) {
	testCases := []struct {
		name   string
		dbName string
		want   string
	}{
		{"plain", "vaccination_analysis", `CREATE DATABASE "vaccination_analysis"`},
		{"spaces", "my database", `CREATE DATABASE "my database"`},
		{"quotes", `my"database`, `CREATE DATABASE "my""database"`},
		{"injection", "x; DROP DATABASE postgres; --", `CREATE DATABASE "x; DROP DATABASE postgres; --"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var executedSQL string
			pooled := &mockPooledConnection{
				execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
					executedSQL = sql
					return pgconn.CommandTag{}, nil
				},
			}
			conn := &mockDBConnection{
				acquireFunc: func(ctx context.Context) (vaxpipe.PooledConnection, error) { return pooled, nil },
			}

			if err := manager.New().Create(context.Background(), conn, tc.dbName); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if executedSQL != tc.want {
				t.Errorf("SQL = %q, want %q", executedSQL, tc.want)
			}
			if !pooled.released {
				t.Error("connection was not released")
			}
		})
	}
}

func TestManager_Create_ExecFailure(t *testing.T) {
	pooled := &mockPooledConnection{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, errors.New("permission denied to create database")
		},
	}
	conn := &mockDBConnection{
		acquireFunc: func(ctx context.Context) (vaxpipe.PooledConnection, error) { return pooled, nil },
	}

	err := manager.New().Create(context.Background(), conn, "vax")
	if err == nil || !strings.Contains(err.Error(), `"vax"`) {
		t.Fatalf("expected error naming the database, got %v", err)
	}
	if !pooled.released {
		t.Error("connection was not released")
	}
}

func TestManager_Create_ConnectionAcquireFailure(t *testing.T) {
	expectedErr := errors.New("pool exhausted")
	conn := &mockDBConnection{
		acquireFunc: func(ctx context.Context) (vaxpipe.PooledConnection, error) { return nil, expectedErr },
	}

	err := manager.New().Create(context.Background(), conn, "vax")
	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected wrapped error, got: %v", err)
	}
}

func TestManager_Exists(t *testing.T) {
	for _, want := range []bool{true, false} {
		var gotArgs []any
		conn := &mockDBConnection{
			queryRowFunc: func(ctx context.Context, sql string, args ...any) vaxpipe.Row {
				gotArgs = args
				return existsRow(want)
			},
		}

		exists, err := manager.New().Exists(context.Background(), conn, "vax")
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists != want {
			t.Errorf("Exists = %v, want %v", exists, want)
		}
		if len(gotArgs) != 1 || gotArgs[0] != "vax" {
			t.Errorf("query args = %v", gotArgs)
		}
	}
}

func TestManager_Exists_QueryError(t *testing.T) {
	expectedErr := errors.New("connection lost")
	conn := &mockDBConnection{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) vaxpipe.Row {
			return &mockRow{scanFunc: func(dest ...any) error { return expectedErr }}
		},
	}

	_, err := manager.New().Exists(context.Background(), conn, "vax")
	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected wrapped error, got: %v", err)
	}
}
