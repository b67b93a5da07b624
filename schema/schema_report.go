package schema

import (
	"fmt"
	"math"
)

// TrendExtreme describes the best or worst performing metric of a run.
type TrendExtreme struct {
	Metric    string    `json:"metric"`
	Index     int       `json:"index"` // Position in MetricSet
	Value     float64   `json:"value"`
	Percent   int       `json:"percent"` // round(Value * 100), signed
	Direction Direction `json:"direction"`
}

// TrendReport is the classified outcome of comparing new entries to their history.
type TrendReport struct {
	Date          DateKey          `json:"date"`
	Completeness  Completeness     `json:"completeness"`
	Worst         TrendExtreme     `json:"worst"`
	Best          TrendExtreme     `json:"best"`
	PositiveCount int              `json:"positive_count"`
	MetricCount   int              `json:"metric_count"`
	Tier          Tier             `json:"tier"`
	TierMessage   string           `json:"tier_message"`
	Metrics       []MetricAnalysis `json:"metrics"`
}

// Message renders the extreme as an operator sentence, e.g. "App Opens is increasing by 30%".
// The percentage is shown as a magnitude; Direction carries the sign.
func (e TrendExtreme) Message() string {
	p := e.Percent
	if p < 0 {
		p = -p
	}
	return fmt.Sprintf("%s is %s by %d%%", e.Metric, e.Direction, p)
}

// WindowSummary describes the history of a date without any new entry.
type WindowSummary struct {
	Date         DateKey          `json:"date"`
	Row          int              `json:"row"`
	Completeness Completeness     `json:"completeness"`
	Advisory     string           `json:"advisory"`
	Metrics      []MetricAnalysis `json:"metrics"` // Entry and Trend are unset
}

// TrendPercent converts a relative trend to a whole signed percentage.
// Halves round away from zero.
func TrendPercent(trend float64) int {
	return int(math.Round(trend * 100))
}
