package core

import (
	"errors"
	"fmt"

	"github.com/huangsam/kpitrend/schema"
)

// ClassifyTrends picks the worst and best metric and rates the day by how many trends are positive.
// Ties resolve to the first metric in order.
func ClassifyTrends(names []string, trends []float64) (schema.TrendReport, error) {
	if len(trends) == 0 {
		return schema.TrendReport{}, errors.New("no trends to classify")
	}
	if len(names) != len(trends) {
		return schema.TrendReport{}, fmt.Errorf("got %d names for %d trends", len(names), len(trends))
	}

	worst, best := 0, 0
	positive := 0
	for i, t := range trends {
		if t < trends[worst] {
			worst = i
		}
		if t > trends[best] {
			best = i
		}
		if t > 0 {
			positive++
		}
	}

	// Zero reads as increasing for the worst metric and decreasing for the best
	worstDir := schema.Increasing
	if trends[worst] < 0 {
		worstDir = schema.Decreasing
	}
	bestDir := schema.Decreasing
	if trends[best] > 0 {
		bestDir = schema.Increasing
	}

	tier := rateDay(positive, len(trends))
	return schema.TrendReport{
		Worst:         extreme(names, trends, worst, worstDir),
		Best:          extreme(names, trends, best, bestDir),
		PositiveCount: positive,
		MetricCount:   len(trends),
		Tier:          tier,
		TierMessage:   schema.TierMessages[tier],
	}, nil
}

func extreme(names []string, trends []float64, i int, dir schema.Direction) schema.TrendExtreme {
	return schema.TrendExtreme{
		Metric:    names[i],
		Index:     i,
		Value:     trends[i],
		Percent:   schema.TrendPercent(trends[i]),
		Direction: dir,
	}
}

// rateDay maps the number of positive trends to a tier.
func rateDay(positive, total int) schema.Tier {
	switch {
	case positive == total:
		return schema.TopTier
	case positive >= 3:
		return schema.SecondTier
	case positive >= 1:
		return schema.ThirdTier
	default:
		return schema.BottomTier
	}
}
