// Package clean applies the uniform null-handling and normalization pass to
// an extracted table.
//
// The steps run in a fixed order:
//  1. Forward-fill COVERAGE, INCIDENCE_RATE and CASES.
//  2. Drop every row that still has a missing cell in any column.
//  3. Parse YEAR as a four-digit calendar year; drop rows that fail.
//  4. Divide COVERAGE by 100; drop rows outside [0, 1].
//
// Each step only applies when its column is present. A row with a bad YEAR is
// therefore dropped only after forward-fill has already consumed it as a fill
// source, which affects output row counts.
package clean
