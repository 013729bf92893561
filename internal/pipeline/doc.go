// Package pipeline runs one vaxpipe batch: extract the five spreadsheets,
// clean them, ensure the database schema, load every table and finally run
// the trend chart and correlation analyses.
//
// Stages run strictly in sequence and nothing is retried. Failures follow a
// fixed policy:
//
//   - A spreadsheet that cannot be read aborts the run before any database work.
//   - Database or table creation failures are logged and the run continues,
//     unless Config.StrictSchema is set.
//   - A table that fails to load is logged; the other tables are still loaded
//     and the run ends with vaxpipe.ErrLoadFailed.
//   - When the target database is unreachable the load is skipped, the analyses
//     still run on the cleaned tables and the run ends with
//     vaxpipe.ErrConnectionFailed.
//   - Analyses lacking their columns print a diagnostic and are skipped.
package pipeline
