// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTrendReport outputs a trend report to the configured output file, dispatching
// based on the output format configured.
func PrintTrendReport(report *schema.TrendReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteTrendReport(w, report, cfg)
	}, "Wrote report")
}

// WriteTrendReport writes a trend report to w in the configured output format.
func WriteTrendReport(w io.Writer, report *schema.TrendReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, report); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
		return nil
	case schema.CSVOut:
		return writeMetricsCSV(w, report.Date, report.Metrics, true)
	default:
		return writeReportText(w, report, cfg)
	}
}

// writeReportText writes the human-readable trend report.
func writeReportText(w io.Writer, report *schema.TrendReport, cfg *contract.Config) error {
	lines := []string{
		fmt.Sprintf("\nResults for %s (history: %s)\n", report.Date, report.Completeness),
		fmt.Sprintf("The worst performing KPI: %s\n", colorExtreme(report.Worst)),
		fmt.Sprintf("The best performing KPI: %s\n", colorExtreme(report.Best)),
		fmt.Sprintf("%s\n\n", contract.GetColorTierMessage(report.Tier, report.TierMessage)),
	}
	for _, line := range lines {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	if err := writeMetricTable(w, report.Metrics, true, cfg); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d KPIs are above their %d-day average.\n",
		report.PositiveCount, report.MetricCount, schema.WindowSize)
	return err
}

// colorExtreme renders the extreme sentence with a colored direction.
func colorExtreme(e schema.TrendExtreme) string {
	p := e.Percent
	if p < 0 {
		p = -p
	}
	return fmt.Sprintf("%s is %s by %d%%", e.Metric, contract.GetColorDirection(e.Direction), p)
}

// formatTrend renders a trend as a signed, colored percentage.
func formatTrend(trend float64) string {
	percent := schema.TrendPercent(trend)
	text := fmt.Sprintf("%+d%%", percent)
	if trend > 0 {
		return contract.IncreasingColor.Sprint(text)
	}
	if trend < 0 {
		return contract.DecreasingColor.Sprint(text)
	}
	return text
}

// writeMetricTable writes one row per metric. Entry and Trend columns are
// included only when withEntry is set.
func writeMetricTable(w io.Writer, metrics []schema.MetricAnalysis, withEntry bool, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"KPI", "Days", fmt.Sprintf("%d-Day Avg", schema.WindowSize)}
	if withEntry {
		headers = append(headers, "Entry", "Trend")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg)
	var data [][]string
	for _, m := range metrics {
		row := []string{
			contract.TruncateText(m.Name, nameWidth),
			fmt.Sprintf("%d/%d", m.Present, schema.WindowSize),
			formatAverage(m.Average),
		}
		if withEntry {
			row = append(row, strconv.FormatInt(m.Entry, 10), formatTrend(m.Trend))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteWindowSummary writes the history of a date in the configured output format.
func WriteWindowSummary(w io.Writer, summary *schema.WindowSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, summary)
	case schema.CSVOut:
		return writeMetricsCSV(w, summary.Date, summary.Metrics, false)
	}
	if _, err := fmt.Fprintf(w, "\nHistory for %s (%s)\n", summary.Date, summary.Completeness); err != nil {
		return err
	}
	if summary.Advisory != "" {
		if _, err := fmt.Fprintf(w, "%s\n", contract.AdvisoryColor.Sprint(summary.Advisory)); err != nil {
			return err
		}
	}
	if len(summary.Metrics) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return writeMetricTable(w, summary.Metrics, false, cfg)
}

// writeMetricsCSV writes one record per metric with unformatted numbers.
func writeMetricsCSV(w io.Writer, date schema.DateKey, metrics []schema.MetricAnalysis, withEntry bool) error {
	header := []string{"date", "kpi", "days", "average"}
	if withEntry {
		header = append(header, "entry", "trend", "percent")
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, m := range metrics {
			record := []string{
				string(date),
				m.Name,
				strconv.Itoa(m.Present),
				strconv.FormatFloat(m.Average, 'f', 4, 64),
			}
			if withEntry {
				record = append(record,
					strconv.FormatInt(m.Entry, 10),
					strconv.FormatFloat(m.Trend, 'f', 4, 64),
					strconv.Itoa(schema.TrendPercent(m.Trend)),
				)
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// WriteAdvisory writes a non-fatal notice for the operator.
func WriteAdvisory(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s\n", contract.AdvisoryColor.Sprint(msg))
}
