// Package core has core logic for recording KPIs and analyzing their trends.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/internal/outwriter"
	"github.com/huangsam/kpitrend/internal/prompt"
	"github.com/huangsam/kpitrend/schema"
)

// ExecutorFunc defines the function signature for executing a non-interactive command.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// dateSelection is the history gathered for the date the operator picked.
type dateSelection struct {
	date         schema.DateKey
	window       schema.HistoricalWindow
	completeness schema.Completeness
	advisory     string
	averages     []float64
	skip         error // Precondition that rules out analysis; values can still be recorded
}

// selectDate validates a typed date and gathers its history.
// Recoverable errors make the operator pick again; collaborator errors are returned as-is.
func selectDate(ctx context.Context, sheet contract.Sheet, answer string) (dateSelection, error) {
	date, err := ParseDateKey(answer)
	if err != nil {
		return dateSelection{}, err
	}

	window, err := FetchWindow(ctx, sheet, date)
	if err != nil {
		if errors.Is(err, contract.ErrInsufficientHistory) {
			return dateSelection{date: date, skip: err}, nil
		}
		return dateSelection{}, err
	}

	completeness, advisory := CheckCompleteness(window)
	if completeness == schema.EmptyWindow {
		return dateSelection{}, fmt.Errorf("%w: %s", contract.ErrInvalidInput, advisory)
	}

	sel := dateSelection{date: date, window: window, completeness: completeness, advisory: advisory}
	averages, err := ComputeAverages(window)
	if err != nil {
		if !errors.Is(err, contract.ErrEmptyMetricWindow) {
			return dateSelection{}, err
		}
		sel.skip = err
		return sel, nil
	}
	sel.averages = averages
	return sel, nil
}

// ExecuteRecord runs the interactive flow: pick a date, check its history, enter
// today's values, save them and report how they compare to the trailing average.
// Precondition failures skip the analysis and return nil. Collaborator failures are returned.
func ExecuteRecord(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, p *prompt.Prompter) error {
	sheet := mgr.GetSheetStore()
	w := p.Out()

	p.Say("For which date would you like to enter the KPIs for Preglife Connect?\n")
	p.Say("Please enter the date in the following format: DD/MM/YYYY, e.g. 22/02/2022\n\n")

	var sel dateSelection
	err := p.Ask("Enter the date here:\n", func(answer string) error {
		s, err := selectDate(ctx, sheet, answer)
		if err != nil {
			return err
		}
		sel = s
		return nil
	})
	if err != nil {
		return err
	}

	start := time.Now()
	runID := beginRun(mgr, sel.date, start)

	if sel.skip != nil {
		outwriter.WriteAdvisory(w, fmt.Sprintf("Trend analysis is not available: %v. The values will still be saved.", sel.skip))
	} else {
		summary := summarize(sel.window, sel.completeness, sel.advisory)
		if err := outwriter.WriteWindowSummary(w, summary, &contract.Config{Output: schema.TextOut, Width: cfg.Width}); err != nil {
			return err
		}
	}

	entries := make([]int64, len(schema.MetricSet))
	for i, m := range schema.MetricSet {
		question := fmt.Sprintf("\nHow many %s were there on %s?\n", m.Name, sel.date)
		err := p.Ask(question, func(answer string) error {
			v, err := ParseEntry(answer)
			if err != nil {
				return err
			}
			entries[i] = v
			return nil
		})
		if err != nil {
			endRun(mgr, runID, schema.FailedOutcome, nil)
			return err
		}
	}

	if err := PersistEntry(ctx, sheet, sel.date, entries); err != nil {
		endRun(mgr, runID, schema.FailedOutcome, nil)
		return err
	}
	p.Say("\nThe values for %s have been saved.\n", sel.date)

	if sel.skip != nil {
		endRun(mgr, runID, schema.RecordOnlyOutcome, nil)
		return nil
	}

	report, err := buildReport(sel, entries)
	if err != nil {
		if contract.IsPrecondition(err) {
			outwriter.WriteAdvisory(w, fmt.Sprintf("Trend analysis stopped: %v.", err))
			endRun(mgr, runID, schema.RecordOnlyOutcome, nil)
			return nil
		}
		endRun(mgr, runID, schema.FailedOutcome, nil)
		return err
	}

	if err := outwriter.WriteTrendReport(w, report, cfg); err != nil {
		endRun(mgr, runID, schema.FailedOutcome, nil)
		return err
	}
	endRun(mgr, runID, schema.AnalyzedOutcome, report)
	return nil
}

// buildReport computes trends for the entries and classifies them.
func buildReport(sel dateSelection, entries []int64) (*schema.TrendReport, error) {
	trends, err := ComputeTrends(entries, sel.averages)
	if err != nil {
		return nil, err
	}
	report, err := ClassifyTrends(schema.MetricNames(), trends)
	if err != nil {
		return nil, err
	}

	report.Date = sel.date
	report.Completeness = sel.completeness
	report.Metrics = make([]schema.MetricAnalysis, len(schema.MetricSet))
	for i, m := range schema.MetricSet {
		report.Metrics[i] = schema.MetricAnalysis{
			Metric:  m,
			Name:    m.Name,
			Window:  sel.window.Columns[i],
			Present: schema.CountPresent(sel.window.Columns[i]),
			Average: sel.averages[i],
			Entry:   entries[i],
			Trend:   trends[i],
		}
	}
	return &report, nil
}

// summarize describes a window without entries. Metrics with no data average 0.
func summarize(window schema.HistoricalWindow, completeness schema.Completeness, advisory string) *schema.WindowSummary {
	summary := &schema.WindowSummary{
		Date:         window.Date,
		Row:          window.Row,
		Completeness: completeness,
		Advisory:     advisory,
		Metrics:      make([]schema.MetricAnalysis, 0, len(schema.MetricSet)),
	}
	for i, m := range schema.MetricSet {
		if i >= len(window.Columns) {
			break
		}
		cells := window.Columns[i]
		analysis := schema.MetricAnalysis{Metric: m, Name: m.Name, Window: cells, Present: schema.CountPresent(cells)}
		if analysis.Present > 0 {
			var sum float64
			for _, c := range cells {
				if c.Present {
					sum += float64(c.Value)
				}
			}
			analysis.Average = sum / float64(analysis.Present)
		}
		summary.Metrics = append(summary.Metrics, analysis)
	}
	return summary
}

// GetWindowSummary returns the history of a date without analyzing any entry.
func GetWindowSummary(ctx context.Context, sheet contract.Sheet, date schema.DateKey) (*schema.WindowSummary, error) {
	window, err := FetchWindow(ctx, sheet, date)
	if err != nil {
		return nil, err
	}
	completeness, advisory := CheckCompleteness(window)
	return summarize(window, completeness, advisory), nil
}

// readEntry reads the recorded values of a row in MetricSet order.
func readEntry(ctx context.Context, sheet contract.Sheet, date schema.DateKey, row int) ([]int64, error) {
	entries := make([]int64, len(schema.MetricSet))
	for i, m := range schema.MetricSet {
		texts, err := sheet.ReadRange(ctx, m.Column, row, row)
		if err != nil {
			return nil, collaboratorError("read "+m.Name, err)
		}
		text := ""
		if len(texts) > 0 {
			text = texts[0]
		}
		cell, err := schema.ParseCell(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %s on %s: %v", contract.ErrInvalidInput, m.Name, date, err)
		}
		if !cell.Present {
			return nil, fmt.Errorf("%w: no %s recorded on %s", contract.ErrInvalidInput, m.Name, date)
		}
		entries[i] = cell.Value
	}
	return entries, nil
}

// GetTrendReport analyzes the values already recorded for date against their history.
func GetTrendReport(ctx context.Context, sheet contract.Sheet, date schema.DateKey) (*schema.TrendReport, error) {
	window, err := FetchWindow(ctx, sheet, date)
	if err != nil {
		return nil, err
	}
	completeness, advisory := CheckCompleteness(window)
	averages, err := ComputeAverages(window)
	if err != nil {
		return nil, err
	}
	entries, err := readEntry(ctx, sheet, date, window.Row)
	if err != nil {
		return nil, err
	}
	return buildReport(dateSelection{
		date:         date,
		window:       window,
		completeness: completeness,
		advisory:     advisory,
		averages:     averages,
	}, entries)
}

// ExecuteReport prints the trend report for cfg.Date using the values already recorded.
// Precondition failures are reported to the operator and are not errors.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.Date == "" {
		return errors.New("--date is required")
	}
	date, err := ParseDateKey(string(cfg.Date))
	if err != nil {
		return err
	}
	report, err := GetTrendReport(ctx, mgr.GetSheetStore(), date)
	if err != nil {
		if contract.IsPrecondition(err) {
			outwriter.WriteAdvisory(reportAdvisoryOut, fmt.Sprintf("Trend analysis is not available: %v.", err))
			return nil
		}
		return err
	}
	return outwriter.PrintTrendReport(report, cfg)
}

// reportAdvisoryOut receives advisories of non-interactive commands.
var reportAdvisoryOut io.Writer = os.Stdout

// ExecuteSeed appends one empty row per day from cfg.SeedStart to cfg.SeedEnd inclusive.
func ExecuteSeed(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.SeedStart.IsZero() || cfg.SeedEnd.IsZero() {
		return errors.New("--start and --end are required")
	}
	dates := DateRange(cfg.SeedStart, cfg.SeedEnd)
	added, err := mgr.GetSheetStore().AppendDates(ctx, dates)
	if err != nil {
		return collaboratorError("append dates", err)
	}
	_, _ = fmt.Fprintf(reportAdvisoryOut, "Added %d of %d dates (%s to %s).\n",
		added, len(dates), dates[0], dates[len(dates)-1])
	return nil
}

// DateRange returns the date keys of every day from start to end inclusive.
func DateRange(start, end time.Time) []schema.DateKey {
	var dates []schema.DateKey
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, schema.DateKey(d.Format(schema.DateLayout)))
	}
	return dates
}

// beginRun records the start of a run. Tracking failures are logged, not returned.
func beginRun(mgr contract.StoreManager, date schema.DateKey, start time.Time) string {
	store := mgr.GetRunStore()
	if store == nil {
		return ""
	}
	runID, err := store.BeginRun(date, start)
	if err != nil {
		contract.LogWarn("failed to record run start", err)
		return ""
	}
	return runID
}

// endRun records how a run ended. Tracking failures are logged, not returned.
func endRun(mgr contract.StoreManager, runID string, outcome schema.RunOutcome, report *schema.TrendReport) {
	store := mgr.GetRunStore()
	if store == nil || runID == "" {
		return
	}
	if err := store.EndRun(runID, time.Now(), outcome, report); err != nil {
		contract.LogWarn("failed to record run end", err)
	}
}
