package core

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
)

func init() {
	color.NoColor = true
}

// memSheet is an in-memory SheetStore with one dated row per day starting on 01/01/2022.
type memSheet struct {
	first int
	dates []schema.DateKey
	cells map[[2]int]string

	findErr  error
	readErr  error
	writeErr  error
	writes    int // Cells written
	rowWrites int
}

var _ contract.SheetStore = &memSheet{} // Compile-time check

func newMemSheet(first, days int) *memSheet {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	return &memSheet{
		first: first,
		dates: DateRange(start, start.AddDate(0, 0, days-1)),
		cells: make(map[[2]int]string),
	}
}

// rowOf returns the row locator of the day-th date (0-indexed).
func (m *memSheet) rowOf(day int) int {
	return m.first + day
}

// fill sets col to value for rows fromRow..toRow inclusive.
func (m *memSheet) fill(col, fromRow, toRow int, value string) {
	for r := fromRow; r <= toRow; r++ {
		m.cells[[2]int{r, col}] = value
	}
}

// fillHistory gives every metric a constant value over the window preceding the day-th date.
func (m *memSheet) fillHistory(day int, values ...int64) {
	row := m.rowOf(day)
	for i, metric := range schema.MetricSet {
		m.fill(metric.Column, row-schema.WindowSize, row-1, strconv.FormatInt(values[i], 10))
	}
}

func (m *memSheet) FindRow(_ context.Context, date schema.DateKey) (int, error) {
	if m.findErr != nil {
		return 0, m.findErr
	}
	for i, d := range m.dates {
		if d == date {
			return m.rowOf(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", contract.ErrDateNotFound, date)
}

func (m *memSheet) ReadRange(_ context.Context, col, fromRow, toRow int) ([]string, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	var out []string
	for r := fromRow; r <= toRow; r++ {
		out = append(out, m.cells[[2]int{r, col}])
	}
	return out, nil
}

func (m *memSheet) WriteCell(_ context.Context, row, col int, value string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.cells[[2]int{row, col}] = value
	m.writes++
	return nil
}

// WriteRow stores every value or, when writeErr is set, none of them.
func (m *memSheet) WriteRow(_ context.Context, row int, values []string) error {
	m.rowWrites++
	if m.writeErr != nil {
		return m.writeErr
	}
	if len(values) != len(schema.MetricSet) {
		return fmt.Errorf("got %d values", len(values))
	}
	for i, metric := range schema.MetricSet {
		m.cells[[2]int{row, metric.Column}] = values[i]
	}
	m.writes += len(values)
	return nil
}

func (m *memSheet) FirstDataRow() int { return m.first }

func (m *memSheet) Rows(context.Context) ([]schema.KPIRow, error) { return nil, nil }

func (m *memSheet) AppendDates(_ context.Context, dates []schema.DateKey) (int, error) {
	added := 0
	for _, d := range dates {
		if _, err := m.FindRow(context.Background(), d); err == nil {
			continue
		}
		m.dates = append(m.dates, d)
		added++
	}
	return added, nil
}

func (m *memSheet) GetStatus(context.Context) (schema.SheetStatus, error) {
	return schema.SheetStatus{Backend: "memory", Connected: true, TotalRows: len(m.dates)}, nil
}

func (m *memSheet) Close() error { return nil }

// staticManager serves a fixed pair of stores.
type staticManager struct {
	sheet contract.SheetStore
	runs  contract.RunStore
}

func (s staticManager) GetSheetStore() contract.SheetStore { return s.sheet }
func (s staticManager) GetRunStore() contract.RunStore     { return s.runs }

// windowOf builds a window whose every metric holds the given cells.
func windowOf(cells []schema.Cell) schema.HistoricalWindow {
	w := schema.HistoricalWindow{Date: "31/01/2022", Row: 32, Columns: make([][]schema.Cell, len(schema.MetricSet))}
	for i := range w.Columns {
		w.Columns[i] = append([]schema.Cell(nil), cells...)
	}
	return w
}

// constantCells returns WindowSize present cells holding v.
func constantCells(v int64) []schema.Cell {
	cells := make([]schema.Cell, schema.WindowSize)
	for i := range cells {
		cells[i] = schema.Cell{Value: v, Present: true}
	}
	return cells
}
