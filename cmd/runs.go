package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/internal/kpistore"
	"github.com/huangsam/kpitrend/schema"
	"github.com/spf13/cobra"
)

// runsCmd focused on run tracking management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage run tracking",
	Long: `Manage the optional record of every interactive run.

Each run stores the date, start and end time, the outcome (analyzed, record_only
or failed) and, when analyzed, the completeness, positive count and tier.

Tracking is off unless --runs-backend is set.

Subcommands:
  status - Show run statistics
  clear  - Remove all tracked runs`,
}

// runsStatusCmd shows run tracking status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics",
	Long: `Show the run tracking backend, total runs, last run and outcome counts.

Examples:
  kpitrend runs status --runs-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		kpistore.PrintRunStatus(os.Stdout, status)
	},
}

// runsClearCmd clears run tracking data.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all tracked runs",
	Long: `Delete all run tracking data from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the runs table

Examples:
  kpitrend runs clear --runs-backend sqlite

  # Clear PostgreSQL runs (set connection string via env variable)
  KPITREND_RUNS_BACKEND=postgresql KPITREND_RUNS_DB_CONNECT="..." kpitrend runs clear`,
	Args:    cobra.NoArgs,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := cfg.RunDBConnect
		if cfg.RunBackend == schema.SQLiteBackend && dbFilePath == "" {
			dbFilePath = contract.GetRunDBFilePath()
		}
		if err := kpistore.ClearRuns(cfg.RunBackend, dbFilePath, cfg.RunDBConnect); err != nil {
			contract.LogFatal("Failed to clear runs", err)
		}
		fmt.Println("Run tracking data cleared successfully.")
	},
}
