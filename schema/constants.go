package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the report output.
	OutputMode string

	// DatabaseBackend represents the storage backend for sheets and runs.
	DatabaseBackend string

	// Completeness represents how well a historical window is populated.
	Completeness string

	// Direction represents whether a metric moved up or down against its average.
	Direction string

	// Tier represents the overall performance bucket of a recorded day.
	Tier string

	// RunOutcome represents how a recording run ended.
	RunOutcome string
)

// WindowSize is the number of dated rows preceding a date that form its history.
const WindowSize = 30

// DateLayout is the layout operators type dates in, e.g. 22/02/2022.
const DateLayout = "02/01/2006"

// DateColumn is the 1-indexed sheet column holding the date key.
const DateColumn = 1

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	SheetsBackend     DatabaseBackend = "sheets" // Google Sheets, sheet store only
	NoneBackend       DatabaseBackend = "none"
)

// Completeness states of a historical window.
const (
	CompleteWindow   Completeness = "complete"
	IncompleteWindow Completeness = "incomplete"
	EmptyWindow      Completeness = "empty"
)

// Trend directions.
const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
)

// Overall performance tiers, from best to worst.
const (
	TopTier    Tier = "top"
	SecondTier Tier = "second"
	ThirdTier  Tier = "third"
	BottomTier Tier = "bottom"
)

// Run outcomes recorded by the run store.
const (
	AnalyzedOutcome   RunOutcome = "analyzed"    // values persisted and report produced
	RecordOnlyOutcome RunOutcome = "record_only" // values persisted, analysis skipped
	FailedOutcome     RunOutcome = "failed"      // collaborator failure
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidSheetBackends lists all valid backends for the KPI sheet.
var ValidSheetBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	SheetsBackend:     {},
}

// ValidRunBackends lists all valid backends for run tracking.
var ValidRunBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// TierMessages maps each tier to the message shown to the operator.
var TierMessages = map[Tier]string{
	TopTier:    "Outstanding day! Every KPI is above its 30-day average.",
	SecondTier: "Good day! Most KPIs are above their 30-day average.",
	ThirdTier:  "Mixed day. Some KPIs are above their 30-day average, but most are below.",
	BottomTier: "Tough day. No KPI is above its 30-day average.",
}
