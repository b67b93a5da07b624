package schema

import "time"

// SheetStatus represents the status of the KPI sheet store.
type SheetStatus struct {
	Backend    string `json:"backend"`
	Connected  bool   `json:"connected"`
	TotalRows  int    `json:"total_rows"`
	FilledRows int    `json:"filled_rows"` // Rows with every metric present
	FirstDate  string `json:"first_date"`
	LastDate   string `json:"last_date"`
}

// RunStatus represents the status of the run tracking store.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     string           `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	Outcomes      map[string]int64 `json:"outcomes"`
}
