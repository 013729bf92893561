package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const banner = `                       _
 __   ____ ___  ___ __ (_)_ __   ___
 \ \ / / _` + "`" + ` \ \/ / '_ \| | '_ \ / _ \
  \ V / (_| |>  <| |_) | | |_) |  __/
   \_/ \__,_/_/\_\ .__/|_| .__/ \___|
                 |_|     |_|`

var rootCmd = &cobra.Command{
	Use:   "vaxpipe",
	Short: "Vaccination data pipeline",
	Long: banner + `

vaxpipe loads five WHO vaccination spreadsheets (coverage, incidence rate,
reported cases, vaccine introduction, vaccine schedule), cleans them, replaces
the matching PostgreSQL tables and reports a coverage trend chart plus the
correlation between coverage and disease incidence.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - Input spreadsheet missing or unreadable
  13 - One or more tables failed to load
  14 - Schema creation failed (--strict only)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is taken by --host, so help gets a long flag only.
	rootCmd.PersistentFlags().Bool("help", false, "Help for vaxpipe")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
