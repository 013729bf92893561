package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/vaxpipe/pkg/vaxpipe"
)

var connEnvVars = []string{"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE", "DATABASE_URL"}

// isolate runs the test in an empty directory with no connection variables set.
func isolate(t *testing.T) string {
	t.Helper()
	for _, v := range connEnvVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
	dir := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return dir
}

func newTestRunCmd(t *testing.T, args ...string) (*cobra.Command, runFlagValues) {
	t.Helper()
	cmd := &cobra.Command{Use: "run"}
	var f runFlagValues
	addRunFlags(cmd, &f)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, f
}

func resetRunFlags() {
	runFlags = runFlagValues{
		inputDir: ".",
		plot:     vaxpipe.DefaultPlotPath,
		timeout:  vaxpipe.DefaultTimeout,
	}
}

func TestBuildRunConfig_Defaults(t *testing.T) {
	isolate(t)
	cmd, f := newTestRunCmd(t)

	cfg, err := buildRunConfig(cmd, f, false)
	require.NoError(t, err)

	assert.Equal(t, vaxpipe.DefaultHost, cfg.Connection.Host)
	assert.Equal(t, vaxpipe.DefaultPort, cfg.Connection.Port)
	assert.Equal(t, vaxpipe.DefaultUsername, cfg.Connection.Username)
	assert.Equal(t, vaxpipe.DefaultDatabaseName, cfg.Connection.Database)
	assert.Equal(t, vaxpipe.DefaultSSLMode, cfg.Connection.SSLMode)
	assert.Equal(t, "vaxpipe", cfg.Connection.AppName)
	assert.Equal(t, vaxpipe.DefaultManagementDB, cfg.ManagementDatabase)
	assert.Equal(t, ".", cfg.InputDir)
	assert.Equal(t, vaxpipe.DefaultPlotPath, cfg.PlotPath)
	assert.Equal(t, vaxpipe.DefaultTimeout, cfg.Timeout)
	assert.False(t, cfg.StrictSchema)
}

const sampleYAML = `connection:
  host: yaml-host
  port: 6543
  username: analyst
  database: vax_yaml
  management_database: template1
inputs:
  dir: data
  files:
    coverage_data: wuenic.xlsx
plot_output: charts/trends.png
strict_schema: true
timeout: 30s
`

func TestBuildRunConfig_FromYAML(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vaxpipe.yaml"), []byte(sampleYAML), 0644))
	cmd, f := newTestRunCmd(t)

	cfg, err := buildRunConfig(cmd, f, false)
	require.NoError(t, err)

	assert.Equal(t, "yaml-host", cfg.Connection.Host)
	assert.Equal(t, 6543, cfg.Connection.Port)
	assert.Equal(t, "analyst", cfg.Connection.Username)
	assert.Equal(t, "vax_yaml", cfg.Connection.Database)
	assert.Equal(t, "template1", cfg.ManagementDatabase)
	assert.Equal(t, "data", cfg.InputDir)
	assert.Equal(t, map[string]string{"coverage_data": "wuenic.xlsx"}, cfg.InputFiles)
	assert.Equal(t, "charts/trends.png", cfg.PlotPath)
	assert.True(t, cfg.StrictSchema)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestBuildRunConfig_FlagsOverrideYAML(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vaxpipe.yaml"), []byte(sampleYAML), 0644))
	t.Setenv("PGHOST", "env-host")
	cmd, f := newTestRunCmd(t,
		"-p", "7000", "-d", "vax_flag", "--management-db", "postgres",
		"--input-dir", "other", "--plot", "out.png", "--timeout", "1m")

	cfg, err := buildRunConfig(cmd, f, false)
	require.NoError(t, err)

	assert.Equal(t, "env-host", cfg.Connection.Host)
	assert.Equal(t, 7000, cfg.Connection.Port)
	assert.Equal(t, "vax_flag", cfg.Connection.Database)
	assert.Equal(t, "postgres", cfg.ManagementDatabase)
	assert.Equal(t, "other", cfg.InputDir)
	assert.Equal(t, "out.png", cfg.PlotPath)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestBuildRunConfig_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PGHOST=dotenv-host\nPGPASSWORD=s3cret\n"), 0644))
	cmd, f := newTestRunCmd(t)

	cfg, err := buildRunConfig(cmd, f, false)
	require.NoError(t, err)

	assert.Equal(t, "dotenv-host", cfg.Connection.Host)
	assert.Equal(t, "s3cret", cfg.Connection.Password)
}

func TestBuildRunConfig_ConnectionString(t *testing.T) {
	isolate(t)
	cmd, f := newTestRunCmd(t, "--connection", "postgresql://analyst:pw@pg:5433/maint?sslmode=disable")

	cfg, err := buildRunConfig(cmd, f, false)
	require.NoError(t, err)

	assert.Equal(t, "pg", cfg.Connection.Host)
	assert.Equal(t, 5433, cfg.Connection.Port)
	assert.Equal(t, "disable", cfg.Connection.SSLMode)
	assert.Equal(t, "maint", cfg.ManagementDatabase)
	assert.Equal(t, vaxpipe.DefaultDatabaseName, cfg.Connection.Database)
}

func TestBuildRunConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		yaml string
	}{
		{"connection with granular flags", []string{"--connection", "postgresql://localhost/postgres", "-h", "other"}, ""},
		{"missing explicit config", []string{"--config", "nope.yaml"}, ""},
		{"target is management database", []string{"-d", "postgres"}, ""},
		{"bad yaml timeout", nil, "timeout: soon\n"},
		{"malformed yaml", nil, "connection: [\n"},
		{"negative timeout", []string{"--timeout=-1s"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.yaml != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "vaxpipe.yaml"), []byte(tt.yaml), 0644))
			}
			cmd, f := newTestRunCmd(t, tt.args...)

			_, err := buildRunConfig(cmd, f, false)
			require.Error(t, err)
			assert.True(t, errors.Is(err, vaxpipe.ErrInvalidConfig), "got %v", err)
			assert.Equal(t, vaxpipe.ExitConfigError, vaxpipe.ExitCodeForError(err))
		})
	}
}

func TestRunCmd_ArgsValidation(t *testing.T) {
	err := runCmd.Args(runCmd, []string{"extra"})
	require.Error(t, err)
	assert.Equal(t, vaxpipe.ExitUsageError, vaxpipe.ExitCodeForError(err))
}

func TestRunPipeline_MissingInputs(t *testing.T) {
	isolate(t)
	resetRunFlags()
	runFlags.noSummary = true
	defer resetRunFlags()

	err := runPipeline(runCmd, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, vaxpipe.ErrExtractFailed)
	assert.Equal(t, vaxpipe.ExitExtractFailed, vaxpipe.ExitCodeForError(err))
}
