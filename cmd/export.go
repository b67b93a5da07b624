package cmd

import (
	"os"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/internal/kpistore"
	"github.com/spf13/cobra"
)

// exportCmd writes the KPI rows and tracked runs to Parquet files.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export KPI rows and runs to Parquet files",
	Long: `Write every KPI row, and every tracked run when tracking is on, to Parquet.

--output-file is used as a prefix: PREFIX.kpi_rows.parquet and PREFIX.runs.parquet.

Examples:
  kpitrend export --output-file backup/kpis`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := kpistore.ExecuteExport(rootCtx, storeManager, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export", err)
		}
	},
}
