// Package parquet provides data structures and functions for exporting kpitrend
// rows and runs to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/kpitrend/schema"
	"github.com/parquet-go/parquet-go"
)

// KPIRow represents one dated row of the KPI sheet.
// Metric columns are nullable since a day may not be recorded yet.
type KPIRow struct {
	// RowNum is the row locator in the sheet store
	RowNum int32 `parquet:"row_num,snappy"`

	// DateKey is the date as typed by the operator (DD/MM/YYYY)
	DateKey string `parquet:"date_key,snappy"`

	AppOpens       *int64 `parquet:"app_opens,optional,snappy"`
	ScreenViews    *int64 `parquet:"screen_views,optional,snappy"`
	AdViews        *int64 `parquet:"ad_views,optional,snappy"`
	ThreadsCreated *int64 `parquet:"threads_created,optional,snappy"`
	Swipes         *int64 `parquet:"swipes,optional,snappy"`
}

// Run represents a single recording run.
// This struct maps to the kpitrend_runs database table.
type Run struct {
	// RunID is the UUID of the run
	RunID string `parquet:"run_id,snappy"`

	// DateKey is the date the run recorded values for
	DateKey string `parquet:"date_key,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// Outcome is analyzed, record_only or failed (empty for runs that never ended)
	Outcome string `parquet:"outcome,snappy"`

	Completeness  *string `parquet:"completeness,optional,snappy"`
	PositiveCount *int32  `parquet:"positive_count,optional,snappy"`
	Tier          *string `parquet:"tier,optional,snappy"`
}

// WriteKPIRowsParquet writes a slice of KPIRow structs to a Parquet file.
func WriteKPIRowsParquet(data []KPIRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes records to outputPath with a schema inferred from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// cellPtr returns a pointer to the value of a present cell and nil otherwise.
func cellPtr(values []schema.Cell, i int) *int64 {
	if i >= len(values) || !values[i].Present {
		return nil
	}
	v := values[i].Value
	return &v
}

// ConvertKPIRows converts sheet rows to their Parquet form.
func ConvertKPIRows(rows []schema.KPIRow) []KPIRow {
	result := make([]KPIRow, len(rows))
	for i, r := range rows {
		result[i] = KPIRow{
			RowNum:         int32(r.Row),
			DateKey:        string(r.Date),
			AppOpens:       cellPtr(r.Values, 0),
			ScreenViews:    cellPtr(r.Values, 1),
			AdViews:        cellPtr(r.Values, 2),
			ThreadsCreated: cellPtr(r.Values, 3),
			Swipes:         cellPtr(r.Values, 4),
		}
	}
	return result
}

// ConvertRunRecords converts run records to their Parquet form.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, r := range records {
		run := Run{
			RunID:         r.RunID,
			DateKey:       string(r.Date),
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			Outcome:       string(r.Outcome),
			PositiveCount: r.PositiveCount,
		}
		if r.Completeness != nil {
			c := string(*r.Completeness)
			run.Completeness = &c
		}
		if r.Tier != nil {
			t := string(*r.Tier)
			run.Tier = &t
		}
		result[i] = run
	}
	return result
}
