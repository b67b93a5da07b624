package kpistore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/internal/parquet"
)

// ExecuteExport writes the KPI rows and the tracked runs to Parquet files
// named after the outputFile prefix.
func ExecuteExport(ctx context.Context, mgr contract.StoreManager, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	sheetStore := mgr.GetSheetStore()
	status, err := sheetStore.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sheet status: %w", err)
	}
	if status.TotalRows == 0 {
		return errors.New("no KPI rows found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total KPI rows: %d (%d filled)\n", status.TotalRows, status.FilledRows)

	rows, err := sheetStore.Rows(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve KPI rows: %w", err)
	}

	rowsFile := outputFile + ".kpi_rows.parquet"
	if err := parquet.WriteKPIRowsParquet(parquet.ConvertKPIRows(rows), rowsFile); err != nil {
		return fmt.Errorf("failed to write KPI rows: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d KPI rows to: %s\n", len(rows), rowsFile)

	runs, err := mgr.GetRunStore().GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	if len(runs) > 0 {
		runsFile := outputFile + ".runs.parquet"
		if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
			return fmt.Errorf("failed to write runs: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)
	}

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(w, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(w, "  - DuckDB")
	_, _ = fmt.Fprintln(w, "  - Any other Parquet-compatible tool")

	return nil
}
