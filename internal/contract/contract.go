// Package contract provides interfaces and shared utilities for the kpitrend internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/kpitrend/schema"
)

// Sheet defines the row/column operations the trend pipeline needs from the KPI store.
// This allows the core logic to be tested against an in-memory store or a mock.
type Sheet interface {
	// FindRow returns the row locator of the given date, or ErrDateNotFound.
	FindRow(ctx context.Context, date schema.DateKey) (int, error)

	// ReadRange returns the text of the cells in column col for rows fromRow..toRow inclusive.
	// Blank cells are returned as empty strings. The result may be shorter than requested
	// when trailing cells are blank.
	ReadRange(ctx context.Context, col, fromRow, toRow int) ([]string, error)

	// WriteCell stores the text value into the given row and column.
	WriteCell(ctx context.Context, row, col int, value string) error

	// WriteRow stores the metric values of a row in MetricSet order as one write.
	// Either every value is stored or none is.
	WriteRow(ctx context.Context, row int, values []string) error

	// FirstDataRow returns the locator of the first dated row.
	FirstDataRow() int
}

// SheetStore is a Sheet backed by a concrete storage backend.
type SheetStore interface {
	Sheet

	// Rows returns every dated row in sheet order.
	Rows(ctx context.Context) ([]schema.KPIRow, error)

	// AppendDates adds empty rows for the given dates after the last row.
	// Dates that already exist are skipped. It returns how many rows were added.
	AppendDates(ctx context.Context, dates []schema.DateKey) (int, error)

	// GetStatus returns status information about the sheet store.
	GetStatus(ctx context.Context) (schema.SheetStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// RunStore defines the interface for tracking recording runs.
type RunStore interface {
	// BeginRun creates a new run for the date and returns its unique ID.
	BeginRun(date schema.DateKey, startTime time.Time) (string, error)

	// EndRun updates the run with its outcome and, when analyzed, the report summary.
	EndRun(runID string, endTime time.Time, outcome schema.RunOutcome, report *schema.TrendReport) error

	// GetStatus returns status information about the run store.
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every tracked run ordered by start time.
	GetAllRuns() ([]schema.RunRecord, error)

	// Close closes the underlying connection.
	Close() error
}

// StoreManager defines the interface for reaching the configured stores.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetSheetStore() SheetStore
	GetRunStore() RunStore
}
