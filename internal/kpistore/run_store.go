package kpistore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
)

// runsTable is the name of the table for run tracking.
const runsTable = "kpitrend_runs"

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (*RunStoreImpl, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{db: nil, backend: backend}, nil
	}

	db, err := openSQL(backend, connStr, contract.GetRunDBFilePath())
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(getCreateRunsQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", runsTable, err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// getCreateRunsQuery returns the CREATE TABLE query for kpitrend_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id CHAR(36) PRIMARY KEY,
				date_key VARCHAR(32) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				outcome VARCHAR(20),
				completeness VARCHAR(20),
				positive_count INT,
				tier VARCHAR(20)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				date_key TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				outcome TEXT,
				completeness TEXT,
				positive_count INT,
				tier TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				date_key TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				outcome TEXT,
				completeness TEXT,
				positive_count INTEGER,
				tier TEXT
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(date schema.DateKey, startTime time.Time) (string, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return "", nil
	}

	runID := uuid.NewString()
	query := fmt.Sprintf("INSERT INTO %s (run_id, date_key, start_time) VALUES (%s)",
		quoteTableName(runsTable, rs.backend), placeholders(rs.backend, 3))
	if _, err := rs.db.Exec(query, runID, string(date), formatTime(startTime, rs.backend)); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	contract.Logger.Debug().Str("run_id", runID).Str("date", string(date)).Msg("began run")
	return runID, nil
}

// EndRun updates the run with its outcome and, when present, the report summary.
func (rs *RunStoreImpl) EndRun(runID string, endTime time.Time, outcome schema.RunOutcome, report *schema.TrendReport) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	var completeness, tier, positive any
	if report != nil {
		completeness = string(report.Completeness)
		tier = string(report.Tier)
		positive = report.PositiveCount
	}

	query := fmt.Sprintf("UPDATE %s SET end_time = %s, outcome = %s, completeness = %s, positive_count = %s, tier = %s WHERE run_id = %s",
		quoteTableName(runsTable, rs.backend),
		placeholder(rs.backend, 1), placeholder(rs.backend, 2), placeholder(rs.backend, 3),
		placeholder(rs.backend, 4), placeholder(rs.backend, 5), placeholder(rs.backend, 6))

	if _, err := rs.db.Exec(query, formatTime(endTime, rs.backend), string(outcome), completeness, positive, tier, runID); err != nil {
		return fmt.Errorf("failed to update run %s: %w", runID, err)
	}

	contract.Logger.Debug().Str("run_id", runID).Str("outcome", string(outcome)).Msg("ended run")
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// scanTime reads a start or end time column in the backend's storage format.
func (rs *RunStoreImpl) scanTime(row interface{ Scan(...any) error }, dest *time.Time) error {
	if rs.backend != schema.SQLiteBackend {
		return row.Scan(dest)
	}
	var s string
	if err := row.Scan(&s); err != nil {
		return err
	}
	t, err := parseStoredTime(s)
	if err != nil {
		return fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	*dest = t
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:   string(rs.backend),
		Connected: rs.db != nil,
		Outcomes:  make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	if status.TotalRuns == 0 {
		return status, nil
	}

	lastQuery := fmt.Sprintf("SELECT run_id FROM %s ORDER BY start_time DESC LIMIT 1", quotedTableName)
	if err := rs.db.QueryRow(lastQuery).Scan(&status.LastRunID); err != nil {
		return status, fmt.Errorf("failed to get last run info: %w", err)
	}

	lastTimeQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time DESC LIMIT 1", quotedTableName)
	if err := rs.scanTime(rs.db.QueryRow(lastTimeQuery), &status.LastRunTime); err != nil {
		return status, fmt.Errorf("failed to get last run time: %w", err)
	}

	oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", quotedTableName)
	if err := rs.scanTime(rs.db.QueryRow(oldestQuery), &status.OldestRunTime); err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}

	outcomeQuery := fmt.Sprintf("SELECT COALESCE(outcome, 'open'), COUNT(*) FROM %s GROUP BY outcome", quotedTableName)
	rows, err := rs.db.Query(outcomeQuery)
	if err != nil {
		return status, fmt.Errorf("failed to count outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var outcome string
		var count int64
		if err := rows.Scan(&outcome, &count); err != nil {
			return status, fmt.Errorf("failed to scan outcome count: %w", err)
		}
		status.Outcomes[outcome] += count
	}
	if err := rows.Err(); err != nil {
		return status, fmt.Errorf("error iterating outcomes: %w", err)
	}

	return status, nil
}

// GetAllRuns retrieves all runs ordered by start time.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, date_key, start_time, end_time, outcome, completeness, positive_count, tier FROM %s ORDER BY start_time",
		quoteTableName(runsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var date string
		var outcome, completeness, tier sql.NullString
		var positive sql.NullInt32

		switch rs.backend {
		case schema.SQLiteBackend:
			var startStr string
			var endStr sql.NullString
			if err := rows.Scan(&record.RunID, &date, &startStr, &endStr, &outcome, &completeness, &positive, &tier); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			start, err := parseStoredTime(startStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = start
			if endStr.Valid {
				end, err := parseStoredTime(endStr.String)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &end
			}
		default: // MySQL and PostgreSQL store as native datetime
			var end sql.NullTime
			if err := rows.Scan(&record.RunID, &date, &record.StartTime, &end, &outcome, &completeness, &positive, &tier); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if end.Valid {
				record.EndTime = &end.Time
			}
		}

		record.Date = schema.DateKey(date)
		record.Outcome = schema.RunOutcome(outcome.String)
		if completeness.Valid {
			c := schema.Completeness(completeness.String)
			record.Completeness = &c
		}
		if positive.Valid {
			p := positive.Int32
			record.PositiveCount = &p
		}
		if tier.Valid {
			tr := schema.Tier(tier.String)
			record.Tier = &tr
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}
