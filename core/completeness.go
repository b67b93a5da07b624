package core

import (
	"fmt"

	"github.com/huangsam/kpitrend/schema"
)

// CheckCompleteness classifies the window by the first metric's column,
// which stands in for the whole row, and returns an advisory for the operator.
func CheckCompleteness(window schema.HistoricalWindow) (schema.Completeness, string) {
	present := 0
	if len(window.Columns) > 0 {
		present = schema.CountPresent(window.Columns[0])
	}

	switch {
	case present == schema.WindowSize:
		return schema.CompleteWindow, fmt.Sprintf("All %d days before %s have data.", schema.WindowSize, window.Date)
	case present == 0:
		return schema.EmptyWindow, fmt.Sprintf("None of the %d days before %s have data. Please choose a different date.",
			schema.WindowSize, window.Date)
	default:
		return schema.IncompleteWindow, fmt.Sprintf("Only %d of the %d days before %s have data. Averages use the available days.",
			present, schema.WindowSize, window.Date)
	}
}
