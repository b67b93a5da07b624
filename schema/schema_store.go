package schema

import "time"

// RunRecord represents a row from the kpitrend_runs table.
type RunRecord struct {
	RunID         string
	Date          DateKey
	StartTime     time.Time
	EndTime       *time.Time
	Outcome       RunOutcome
	Completeness  *Completeness
	PositiveCount *int32
	Tier          *Tier
}
