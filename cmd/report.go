package cmd

import (
	"github.com/huangsam/kpitrend/core"
	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd prints the trend report of a date whose values are already recorded.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the trend report of a recorded date.",
	Long: `Compare the values already saved for a date against the 30 days before it.

Nothing is written. Use this to review a past day or to export the report.

Examples:
  # Show the report in the terminal
  kpitrend report --date 22/02/2022

  # Save the report as JSON
  kpitrend report --date 22/02/2022 --output json --output-file report.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build report", err)
		}
	},
}
