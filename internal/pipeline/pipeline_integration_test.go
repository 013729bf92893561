package pipeline_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/vaxpipe/internal/dataset"
	"github.com/vvka-141/vaxpipe/internal/db"
	"github.com/vvka-141/vaxpipe/internal/db/manager"
	"github.com/vvka-141/vaxpipe/internal/logging"
	"github.com/vvka-141/vaxpipe/internal/pipeline"
	"github.com/vvka-141/vaxpipe/internal/testinfra"
	"github.com/vvka-141/vaxpipe/pkg/vaxpipe"
)

func TestRun_AgainstPostgres(t *testing.T) {
	connString := testinfra.RequireDatabase(t)

	conn, err := db.ParseConnectionString(connString)
	require.NoError(t, err)
	managementDB := conn.Database
	conn.Database = "vax_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	t.Cleanup(func() { dropDatabase(t, conn.WithDatabase(managementDB), conn.Database) })

	dir := t.TempDir()
	testinfra.WriteSampleInputs(t, dir)

	cfg := vaxpipe.Config{
		Connection:         *conn,
		ManagementDatabase: managementDB,
		InputDir:           dir,
		PlotPath:           filepath.Join(dir, "trends.png"),
		StrictSchema:       true,
		Timeout:            2 * time.Minute,
	}
	runner := pipeline.NewRunner(db.NewConnector, manager.New(), logging.NewNullLogger(), &strings.Builder{})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		summary, err := runner.Run(ctx, cfg)
		require.NoError(t, err, "run %d", i+1)
		assert.Equal(t, 5, summary.LoadedTables())
	}

	target, err := db.NewStandardConnector(conn).Connect(ctx)
	require.NoError(t, err)
	defer target.Close()

	var count int
	require.NoError(t, target.QueryRow(ctx, `SELECT count(*) FROM coverage_data`).Scan(&count))
	assert.Equal(t, testinfra.SampleCoverageRows, count)

	var maxCoverage float64
	var year time.Time
	require.NoError(t, target.QueryRow(ctx,
		`SELECT max("COVERAGE"), min("YEAR") FROM coverage_data`).Scan(&maxCoverage, &year))
	assert.LessOrEqual(t, maxCoverage, 1.0)
	assert.Equal(t, 2020, year.Year())

	var intro time.Time
	require.NoError(t, target.QueryRow(ctx,
		`SELECT "INTRO" FROM vaccine_intro_data WHERE "ISO_3_CODE" = 'ABW'`).Scan(&intro))
	assert.Equal(t, 1995, intro.Year())

	for _, ds := range dataset.All() {
		require.NoError(t, target.QueryRow(ctx, `SELECT count(*) FROM `+ds.Table).Scan(&count))
		assert.Positive(t, count, ds.Table)
	}
}

func dropDatabase(t *testing.T, mgmt *vaxpipe.ConnectionConfig, name string) {
	t.Helper()
	ctx := context.Background()

	database, err := db.NewStandardConnector(mgmt).Connect(ctx)
	if err != nil {
		t.Logf("cleanup: %v", err)
		return
	}
	defer database.Close()

	if _, err := database.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{name}.Sanitize()); err != nil {
		t.Logf("cleanup: %v", err)
	}
}
