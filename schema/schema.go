// Package schema has models, constants and helpers shared by all parts of kpitrend.
package schema

// Metric is one tracked usage counter and the sheet column that stores it.
type Metric struct {
	Name   string // Display name, e.g. "App Opens"
	Key    string // Storage key, e.g. "app_opens"
	Column int    // 1-indexed sheet column
}

// MetricSet is the canonical, ordered list of tracked KPIs.
// Position i is stored in sheet column i+2, right after the date column.
var MetricSet = []Metric{
	{Name: "App Opens", Key: "app_opens", Column: 2},
	{Name: "Screen Views", Key: "screen_views", Column: 3},
	{Name: "Ad Views", Key: "ad_views", Column: 4},
	{Name: "Threads Created", Key: "threads_created", Column: 5},
	{Name: "Swipes", Key: "swipes", Column: 6},
}

// DateKey identifies one dated row in the KPI sheet.
type DateKey string

// Cell is one metric value of one day. Absent cells have no entry for that day.
type Cell struct {
	Value   int64
	Present bool
}

// HistoricalWindow holds, per metric in MetricSet order, the cells of the
// WindowSize rows preceding a date (oldest first).
type HistoricalWindow struct {
	Date    DateKey
	Row     int      // Row locator of Date itself
	Columns [][]Cell // Columns[i] belongs to MetricSet[i]
}

// MetricAnalysis carries everything computed for a single metric during one run.
type MetricAnalysis struct {
	Metric  Metric  `json:"-"`
	Name    string  `json:"name"`
	Window  []Cell  `json:"-"`
	Present int     `json:"present"` // Number of non-absent cells in Window
	Average float64 `json:"average"`
	Entry   int64   `json:"entry"`
	Trend   float64 `json:"trend"`
}

// KPIRow is one full row of the KPI sheet.
type KPIRow struct {
	Row    int     // Row locator
	Date   DateKey // Column 1
	Values []Cell  // MetricSet order
}
