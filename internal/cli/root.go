package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dwhetl",
	Short: "Load, transform and report on a Redshift warehouse",
	Long: `dwhetl runs a warehouse ETL over a single connection described by dwh.cfg.

Three phases run in a fixed order, each statement committed on its own:
  1. copy      - bulk-load staging tables from external storage
  2. insert    - populate the analytics tables from staging
  3. analytic  - run report queries and print each result as a table

The first failing statement stops the run. Statements come from
sql_queries.yaml and may reference dwh.cfg values as {{ .SECTION.KEY }}.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration (dwh.cfg, manifest or flags)
  11 - Cluster connection failed
  13 - SQL execution failed
  14 - Statement manifest not found
  15 - Result rendering failed`,
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
