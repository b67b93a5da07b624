package cmd

import (
	"os"

	"github.com/huangsam/kpitrend/core"
	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/internal/kpistore"
	"github.com/spf13/cobra"
)

// sheetCmd focused on KPI sheet management.
var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Manage the KPI sheet",
	Long: `Manage the KPI sheet that holds one row per day.

Supported backends: SQLite (default), MySQL, PostgreSQL, Google Sheets

Subcommands:
  seed   - Add empty rows for a range of dates
  status - Show row counts and the covered dates`,
}

// sheetSeedCmd appends empty dated rows.
var sheetSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add one empty row per day between two dates",
	Long: `Append an empty row for every day from --start to --end inclusive.

Dates that already have a row are skipped, so seeding twice is harmless.
A date needs 30 rows above it before its trend can be analyzed.

Examples:
  # Prepare a year of rows
  kpitrend sheet seed --start 01/01/2022 --end 31/12/2022`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeed(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot seed sheet", err)
		}
	},
}

// sheetStatusCmd shows KPI sheet status.
var sheetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display KPI sheet statistics and connection details",
	Long: `Show the backend of the KPI sheet, how many rows it has, how many are
fully recorded, and the first and last date.

Examples:
  kpitrend sheet status`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetSheetStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get sheet status", err)
		}
		kpistore.PrintSheetStatus(os.Stdout, status)
	},
}
