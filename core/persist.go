package core

import (
	"context"
	"fmt"
	"strconv"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
)

// PersistEntry writes the entries into the metric columns of the date's row.
// The row is written in one call so a failure never leaves it partly saved.
// Any failure is a collaborator failure; callers must not analyze unwritten data.
func PersistEntry(ctx context.Context, sheet contract.Sheet, date schema.DateKey, entries []int64) error {
	if len(entries) != len(schema.MetricSet) {
		return fmt.Errorf("got %d entries for %d metrics", len(entries), len(schema.MetricSet))
	}

	row, err := sheet.FindRow(ctx, date)
	if err != nil {
		return collaboratorError("find date", err)
	}
	values := make([]string, len(entries))
	for i, v := range entries {
		values[i] = strconv.FormatInt(v, 10)
	}
	if err := sheet.WriteRow(ctx, row, values); err != nil {
		return collaboratorError("write entry", err)
	}

	contract.Logger.Debug().Str("date", string(date)).Int("row", row).Msg("persisted entry")
	return nil
}
