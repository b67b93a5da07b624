package core

import (
	"fmt"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
)

// ComputeAverages returns the mean of the present cells of each metric in MetricSet order.
func ComputeAverages(window schema.HistoricalWindow) ([]float64, error) {
	if len(window.Columns) != len(schema.MetricSet) {
		return nil, fmt.Errorf("window has %d columns, expected %d", len(window.Columns), len(schema.MetricSet))
	}

	averages := make([]float64, len(schema.MetricSet))
	for i, cells := range window.Columns {
		var sum float64
		n := 0
		for _, c := range cells {
			if c.Present {
				sum += float64(c.Value)
				n++
			}
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %s has no data in the %d days before %s",
				contract.ErrEmptyMetricWindow, schema.MetricSet[i].Name, schema.WindowSize, window.Date)
		}
		averages[i] = sum / float64(n)
	}
	return averages, nil
}
