package core

import (
	"fmt"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
)

// ComputeTrends returns entry/average - 1 for each metric in MetricSet order.
func ComputeTrends(entries []int64, averages []float64) ([]float64, error) {
	if len(entries) != len(averages) {
		return nil, fmt.Errorf("got %d entries for %d averages", len(entries), len(averages))
	}

	trends := make([]float64, len(entries))
	for i, entry := range entries {
		if averages[i] == 0 {
			name := fmt.Sprintf("metric %d", i)
			if i < len(schema.MetricSet) {
				name = schema.MetricSet[i].Name
			}
			return nil, fmt.Errorf("%w: %s averaged 0 over the last %d days", contract.ErrZeroAverage, name, schema.WindowSize)
		}
		trends[i] = float64(entry)/averages[i] - 1
	}
	return trends, nil
}
