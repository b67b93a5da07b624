package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
)

// collaboratorError marks err as a failure of the backing store.
func collaboratorError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", contract.ErrCollaboratorUnavailable, op, err)
}

// FetchWindow reads, for every metric, the WindowSize rows strictly preceding date.
// Cells the store returns short or malformed are treated as absent.
func FetchWindow(ctx context.Context, sheet contract.Sheet, date schema.DateKey) (schema.HistoricalWindow, error) {
	row, err := sheet.FindRow(ctx, date)
	if err != nil {
		if errors.Is(err, contract.ErrDateNotFound) {
			return schema.HistoricalWindow{}, err
		}
		return schema.HistoricalWindow{}, collaboratorError("find date", err)
	}

	preceding := row - sheet.FirstDataRow()
	if preceding < schema.WindowSize {
		return schema.HistoricalWindow{}, fmt.Errorf("%w: %s has %d of %d preceding days",
			contract.ErrInsufficientHistory, date, preceding, schema.WindowSize)
	}

	fromRow, toRow := row-schema.WindowSize, row-1
	window := schema.HistoricalWindow{
		Date:    date,
		Row:     row,
		Columns: make([][]schema.Cell, len(schema.MetricSet)),
	}
	for i, m := range schema.MetricSet {
		texts, err := sheet.ReadRange(ctx, m.Column, fromRow, toRow)
		if err != nil {
			return schema.HistoricalWindow{}, collaboratorError("read "+m.Name, err)
		}
		window.Columns[i] = parseColumn(m, fromRow, texts)
	}

	contract.Logger.Debug().Str("date", string(date)).Int("from", fromRow).Int("to", toRow).Msg("fetched window")
	return window, nil
}

// parseColumn converts the texts of one metric column into exactly WindowSize cells.
func parseColumn(m schema.Metric, fromRow int, texts []string) []schema.Cell {
	cells := make([]schema.Cell, schema.WindowSize)
	for i, text := range texts {
		if i >= schema.WindowSize {
			break
		}
		cell, err := schema.ParseCell(text)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("treating %s on row %d as absent", m.Name, fromRow+i), err)
			continue
		}
		cells[i] = cell
	}
	return cells
}
