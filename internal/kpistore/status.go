package kpistore

import (
	"fmt"
	"io"
	"sort"

	"github.com/huangsam/kpitrend/schema"
)

// PrintSheetStatus prints sheet store status information.
func PrintSheetStatus(w io.Writer, status schema.SheetStatus) {
	_, _ = fmt.Fprintf(w, "Sheet Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Rows: %d\n", status.TotalRows)
	if status.TotalRows > 0 {
		_, _ = fmt.Fprintf(w, "Filled Rows: %d\n", status.FilledRows)
		_, _ = fmt.Fprintf(w, "First Date: %s\n", status.FirstDate)
		_, _ = fmt.Fprintf(w, "Last Date: %s\n", status.LastDate)
	}
}

// PrintRunStatus prints run store status information.
func PrintRunStatus(w io.Writer, status schema.RunStatus) {
	_, _ = fmt.Fprintf(w, "Runs Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "Last Run ID: %s\n", status.LastRunID)
	_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Local().Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Local().Format("2006-01-02 15:04:05"))

	outcomes := make([]string, 0, len(status.Outcomes))
	for outcome := range status.Outcomes {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)
	_, _ = fmt.Fprintln(w, "Outcomes:")
	for _, outcome := range outcomes {
		_, _ = fmt.Fprintf(w, "  %s: %d\n", outcome, status.Outcomes[outcome])
	}
}
