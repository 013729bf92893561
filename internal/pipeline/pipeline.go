package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/vaxpipe/internal/analysis"
	"github.com/vvka-141/vaxpipe/internal/clean"
	"github.com/vvka-141/vaxpipe/internal/dataset"
	"github.com/vvka-141/vaxpipe/internal/extract"
	"github.com/vvka-141/vaxpipe/internal/load"
	"github.com/vvka-141/vaxpipe/internal/schema"
	"github.com/vvka-141/vaxpipe/internal/table"
	"github.com/vvka-141/vaxpipe/pkg/vaxpipe"
)

// Runner executes pipeline runs.
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
type Runner struct {
	connectorFactory vaxpipe.ConnectorFactory
	dbManager        vaxpipe.DatabaseManager
	logger           vaxpipe.Logger
	out              io.Writer
}

// NewRunner creates a Runner. Results meant for the analyst (the correlation
// line) go to out; everything else goes to logger. A nil out means os.Stdout.
//
// Panics on nil dependencies: these are wiring mistakes, not runtime conditions.
func NewRunner(
	connectorFactory vaxpipe.ConnectorFactory,
	dbManager vaxpipe.DatabaseManager,
	logger vaxpipe.Logger,
	out io.Writer,
) *Runner {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if dbManager == nil {
		panic("dbManager cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if out == nil {
		out = os.Stdout
	}
	return &Runner{
		connectorFactory: connectorFactory,
		dbManager:        dbManager,
		logger:           logger,
		out:              out,
	}
}

// Run executes one batch. The returned Summary is non-nil whenever extraction
// succeeded, including when err is non-nil.
func (r *Runner) Run(ctx context.Context, cfg vaxpipe.Config) (*Summary, error) {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	datasets, err := dataset.WithFiles(cfg.InputFiles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, vaxpipe.ErrInvalidConfig)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	summary := &Summary{
		RunID:    uuid.NewString(),
		Database: cfg.Connection.Database,
	}
	r.logger.Verbose("Run %s started", summary.RunID)

	// Extract
	raw, err := extract.New(cfg.InputDir, r.logger).Extract(ctx, datasets)
	if err != nil {
		return nil, err
	}

	// Clean
	cleaned := make(map[string]*table.Table, len(datasets))
	for _, ds := range datasets {
		t, rep := clean.Clean(raw[ds.Table])
		cleaned[ds.Table] = t
		summary.Tables = append(summary.Tables, TableResult{Table: ds.Table, File: ds.File, Clean: rep})
		r.logger.Verbose("Cleaned %s: %d rows in, %d filled, %d dropped, %d rows out",
			ds.Table, rep.Input, rep.Filled, rep.Dropped(), rep.Output)
	}

	// Schema and load
	dbErr := r.persist(ctx, cfg, datasets, cleaned, summary)
	if dbErr != nil && (errors.Is(dbErr, vaxpipe.ErrSchemaFailed) || ctx.Err() != nil) {
		summary.Duration = time.Since(start)
		return summary, dbErr
	}

	// Analyze
	r.analyze(cfg, cleaned, summary)

	summary.Duration = time.Since(start)
	r.logger.Verbose("Run %s finished in %s", summary.RunID, summary.Duration.Round(time.Millisecond))

	if dbErr != nil {
		return summary, dbErr
	}
	if failed := summary.FailedTables(); len(failed) > 0 {
		return summary, fmt.Errorf("%d of %d tables failed to load %v: %w",
			len(failed), len(summary.Tables), failed, vaxpipe.ErrLoadFailed)
	}
	return summary, nil
}

// persist ensures the schema and loads every table. It returns a non-nil
// error only for conditions that end the run with a failure: a strict schema
// failure or an unreachable target database.
func (r *Runner) persist(
	ctx context.Context,
	cfg vaxpipe.Config,
	datasets []dataset.Dataset,
	cleaned map[string]*table.Table,
	summary *Summary,
) error {
	store := schema.New(r.dbManager, r.logger)

	summary.DatabaseErr = r.ensureDatabase(ctx, cfg, store)
	if summary.DatabaseErr != nil {
		r.logger.Error("Error creating database: %v", summary.DatabaseErr)
		if cfg.StrictSchema {
			return summary.DatabaseErr
		}
	}

	target, err := r.connect(ctx, &cfg.Connection)
	if err != nil {
		r.logger.Error("Error connecting to database %q: %v", cfg.Connection.Database, err)
		for i := range summary.Tables {
			summary.Tables[i].LoadErr = err
		}
		return err
	}
	defer target.Close()

	summary.TablesErr = store.EnsureTables(ctx, target, datasets)
	if summary.TablesErr != nil {
		r.logger.Error("Error creating tables: %v", summary.TablesErr)
		if cfg.StrictSchema {
			return summary.TablesErr
		}
	}

	loader := load.New(r.logger)
	for i, ds := range datasets {
		n, err := loader.Load(ctx, target, ds, cleaned[ds.Table])
		summary.Tables[i].Loaded = n
		summary.Tables[i].LoadErr = err
		if err != nil {
			r.logger.Error("Error populating table %s: %v", ds.Table, err)
			continue
		}
		r.logger.Verbose("Loaded %d rows into %s", n, ds.Table)
	}

	if len(summary.FailedTables()) == 0 {
		r.logger.Info("Data populated into tables successfully!")
	}
	return ctx.Err()
}

func (r *Runner) ensureDatabase(ctx context.Context, cfg vaxpipe.Config, store *schema.Store) error {
	r.logger.Verbose("Connecting to management database '%s'", cfg.ManagementDatabase)

	mgmt, err := r.connect(ctx, cfg.Connection.WithDatabase(cfg.ManagementDatabase))
	if err != nil {
		return fmt.Errorf("%w: %w", err, vaxpipe.ErrSchemaFailed)
	}
	defer mgmt.Close()

	return store.EnsureDatabase(ctx, mgmt, cfg.Connection.Database)
}

func (r *Runner) connect(ctx context.Context, conn *vaxpipe.ConnectionConfig) (vaxpipe.Database, error) {
	connector, err := r.connectorFactory(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	return connector.Connect(ctx)
}

func (r *Runner) analyze(cfg vaxpipe.Config, cleaned map[string]*table.Table, summary *Summary) {
	a := analysis.New(cfg.PlotPath, r.logger)
	coverage, incidence := cleaned[dataset.Coverage], cleaned[dataset.Incidence]

	summary.PlotPath, summary.PlotErr = a.PlotTrends(coverage)
	switch {
	case errors.Is(summary.PlotErr, analysis.ErrMissingColumns):
		r.logger.Info("Required columns for plotting are missing.")
	case summary.PlotErr != nil:
		r.logger.Error("Error plotting vaccination trends: %v", summary.PlotErr)
	default:
		r.logger.Info("Vaccination trends chart written to %s", summary.PlotPath)
	}

	summary.Correlation, summary.CorrelationErr = a.CorrelateCoverageIncidence(coverage, incidence)
	switch {
	case errors.Is(summary.CorrelationErr, analysis.ErrMissingColumns):
		r.logger.Info("Required columns for correlation analysis are missing.")
	case summary.CorrelationErr != nil:
		r.logger.Info("Correlation between vaccination coverage and disease incidence is undefined: %v", summary.CorrelationErr)
	default:
		fmt.Fprintf(r.out, "Correlation between vaccination coverage and disease incidence: %v\n", summary.Correlation.R)
	}
}
