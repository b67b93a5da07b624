package kpistore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
)

// kpiRowsTable is the name of the table holding the KPI sheet.
const kpiRowsTable = "kpi_rows"

// sqlFirstDataRow is the row locator of the first dated row in SQL backends.
const sqlFirstDataRow = 1

// SQLSheetStoreImpl is a SheetStore backed by a SQL database.
// Each row of the kpi_rows table is one sheet row; row_num is the row locator.
type SQLSheetStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.SheetStore = &SQLSheetStoreImpl{} // Compile-time check

// NewSQLSheetStore initializes and returns a new SQL SheetStore based on the backend type.
func NewSQLSheetStore(tableName string, backend schema.DatabaseBackend, connStr string) (*SQLSheetStoreImpl, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	db, err := openSQL(backend, connStr, contract.GetSheetDBFilePath())
	if err != nil {
		return nil, err
	}

	query := getCreateKPIRowsQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &SQLSheetStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateKPIRowsQuery returns the CREATE TABLE query for the given backend.
func getCreateKPIRowsQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)

	var dateType, intType string
	switch backend {
	case schema.MySQLBackend:
		dateType, intType = "VARCHAR(32)", "BIGINT"
	case schema.PostgreSQLBackend:
		dateType, intType = "TEXT", "BIGINT"
	default: // SQLite
		dateType, intType = "TEXT", "INTEGER"
	}

	columns := make([]string, 0, len(schema.MetricSet))
	for _, m := range schema.MetricSet {
		columns = append(columns, fmt.Sprintf("%s %s NULL", m.Key, intType))
	}

	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			row_num %s PRIMARY KEY,
			date_key %s NOT NULL UNIQUE,
			%s
		);
	`, quotedTableName, intType, dateType, strings.Join(columns, ",\n\t\t\t"))
}

// columnName maps a 1-indexed sheet column to its SQL column.
func columnName(col int) (string, error) {
	if col == schema.DateColumn {
		return "date_key", nil
	}
	idx := col - schema.DateColumn - 1
	if idx < 0 || idx >= len(schema.MetricSet) {
		return "", fmt.Errorf("column %d is outside the KPI sheet", col)
	}
	return schema.MetricSet[idx].Key, nil
}

// metricColumns returns the SQL metric columns in MetricSet order.
func metricColumns() string {
	keys := make([]string, len(schema.MetricSet))
	for i, m := range schema.MetricSet {
		keys[i] = m.Key
	}
	return strings.Join(keys, ", ")
}

// FirstDataRow implements the Sheet interface.
func (s *SQLSheetStoreImpl) FirstDataRow() int {
	return sqlFirstDataRow
}

// FindRow implements the Sheet interface.
func (s *SQLSheetStoreImpl) FindRow(ctx context.Context, date schema.DateKey) (int, error) {
	query := fmt.Sprintf("SELECT row_num FROM %s WHERE date_key = %s",
		quoteTableName(s.tableName, s.backend), placeholder(s.backend, 1))

	var row int
	err := s.db.QueryRowContext(ctx, query, string(date)).Scan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", contract.ErrDateNotFound, date)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find row for %s: %w", date, err)
	}
	contract.Logger.Debug().Str("date", string(date)).Int("row", row).Msg("found row")
	return row, nil
}

// ReadRange implements the Sheet interface.
// Missing rows and NULL cells come back as empty strings.
func (s *SQLSheetStoreImpl) ReadRange(ctx context.Context, col, fromRow, toRow int) ([]string, error) {
	name, err := columnName(col)
	if err != nil {
		return nil, err
	}
	if toRow < fromRow {
		return []string{}, nil
	}

	query := fmt.Sprintf("SELECT row_num, %s FROM %s WHERE row_num BETWEEN %s ORDER BY row_num",
		name, quoteTableName(s.tableName, s.backend),
		placeholder(s.backend, 1)+" AND "+placeholder(s.backend, 2))

	rows, err := s.db.QueryContext(ctx, query, fromRow, toRow)
	if err != nil {
		return nil, fmt.Errorf("failed to read column %d rows %d-%d: %w", col, fromRow, toRow, err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]string, toRow-fromRow+1)
	for rows.Next() {
		var rowNum int
		var text string
		if col == schema.DateColumn {
			if err := rows.Scan(&rowNum, &text); err != nil {
				return nil, fmt.Errorf("failed to scan date cell: %w", err)
			}
		} else {
			var v sql.NullInt64
			if err := rows.Scan(&rowNum, &v); err != nil {
				return nil, fmt.Errorf("failed to scan metric cell: %w", err)
			}
			text = schema.FormatCell(schema.Cell{Value: v.Int64, Present: v.Valid})
		}
		result[rowNum-fromRow] = text
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column %d: %w", col, err)
	}

	contract.Logger.Debug().Int("col", col).Int("from", fromRow).Int("to", toRow).Msg("read range")
	return result, nil
}

// WriteCell implements the Sheet interface. Only metric columns are writable.
func (s *SQLSheetStoreImpl) WriteCell(ctx context.Context, row, col int, value string) error {
	if col == schema.DateColumn {
		return fmt.Errorf("the date column is not writable")
	}
	name, err := columnName(col)
	if err != nil {
		return err
	}
	cell, err := schema.ParseCell(value)
	if err != nil {
		return err
	}

	quotedTableName := quoteTableName(s.tableName, s.backend)

	// RowsAffected is unreliable on MySQL for unchanged values, so check existence first
	var count int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE row_num = %s", quotedTableName, placeholder(s.backend, 1))
	if err := s.db.QueryRowContext(ctx, countQuery, row).Scan(&count); err != nil {
		return fmt.Errorf("failed to check row %d: %w", row, err)
	}
	if count == 0 {
		return fmt.Errorf("row %d does not exist", row)
	}

	var arg any
	if cell.Present {
		arg = cell.Value
	}
	query := fmt.Sprintf("UPDATE %s SET %s = %s WHERE row_num = %s",
		quotedTableName, name, placeholder(s.backend, 1), placeholder(s.backend, 2))
	if _, err := s.db.ExecContext(ctx, query, arg, row); err != nil {
		return fmt.Errorf("failed to write row %d column %d: %w", row, col, err)
	}

	contract.Logger.Debug().Int("row", row).Int("col", col).Str("value", value).Msg("wrote cell")
	return nil
}

// WriteRow implements the Sheet interface with one UPDATE over every metric column,
// so a failure leaves the row unchanged.
func (s *SQLSheetStoreImpl) WriteRow(ctx context.Context, row int, values []string) error {
	cells, err := parseRow(values)
	if err != nil {
		return err
	}

	quotedTableName := quoteTableName(s.tableName, s.backend)

	var count int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE row_num = %s", quotedTableName, placeholder(s.backend, 1))
	if err := s.db.QueryRowContext(ctx, countQuery, row).Scan(&count); err != nil {
		return fmt.Errorf("failed to check row %d: %w", row, err)
	}
	if count == 0 {
		return fmt.Errorf("row %d does not exist", row)
	}

	sets := make([]string, len(cells))
	args := make([]any, 0, len(cells)+1)
	for i, cell := range cells {
		sets[i] = fmt.Sprintf("%s = %s", schema.MetricSet[i].Key, placeholder(s.backend, i+1))
		if cell.Present {
			args = append(args, cell.Value)
		} else {
			args = append(args, nil)
		}
	}
	args = append(args, row)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE row_num = %s",
		quotedTableName, strings.Join(sets, ", "), placeholder(s.backend, len(cells)+1))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}

	contract.Logger.Debug().Int("row", row).Strs("values", values).Msg("wrote row")
	return nil
}

// Rows implements the SheetStore interface.
func (s *SQLSheetStoreImpl) Rows(ctx context.Context) ([]schema.KPIRow, error) {
	query := fmt.Sprintf("SELECT row_num, date_key, %s FROM %s ORDER BY row_num",
		metricColumns(), quoteTableName(s.tableName, s.backend))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query KPI rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.KPIRow
	for rows.Next() {
		var record schema.KPIRow
		var date string
		values := make([]sql.NullInt64, len(schema.MetricSet))
		dest := []any{&record.Row, &date}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan KPI row: %w", err)
		}
		record.Date = schema.DateKey(date)
		record.Values = make([]schema.Cell, len(values))
		for i, v := range values {
			record.Values[i] = schema.Cell{Value: v.Int64, Present: v.Valid}
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating KPI rows: %w", err)
	}
	return results, nil
}

// AppendDates implements the SheetStore interface.
func (s *SQLSheetStoreImpl) AppendDates(ctx context.Context, dates []schema.DateKey) (int, error) {
	if len(dates) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	quotedTableName := quoteTableName(s.tableName, s.backend)

	var lastRow int
	maxQuery := fmt.Sprintf("SELECT COALESCE(MAX(row_num), 0) FROM %s", quotedTableName)
	if err := tx.QueryRowContext(ctx, maxQuery).Scan(&lastRow); err != nil {
		return 0, fmt.Errorf("failed to get last row: %w", err)
	}
	if lastRow < sqlFirstDataRow-1 {
		lastRow = sqlFirstDataRow - 1
	}

	existsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE date_key = %s", quotedTableName, placeholder(s.backend, 1))
	insertQuery := fmt.Sprintf("INSERT INTO %s (row_num, date_key) VALUES (%s)", quotedTableName, placeholders(s.backend, 2))

	added := 0
	for _, date := range dates {
		var count int
		if err := tx.QueryRowContext(ctx, existsQuery, string(date)).Scan(&count); err != nil {
			return 0, fmt.Errorf("failed to check date %s: %w", date, err)
		}
		if count > 0 {
			continue
		}
		lastRow++
		if _, err := tx.ExecContext(ctx, insertQuery, lastRow, string(date)); err != nil {
			return 0, fmt.Errorf("failed to insert date %s: %w", date, err)
		}
		added++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit dates: %w", err)
	}
	return added, nil
}

// Close closes the underlying DB connection.
func (s *SQLSheetStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the sheet store.
func (s *SQLSheetStoreImpl) GetStatus(ctx context.Context) (schema.SheetStatus, error) {
	status := schema.SheetStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.db == nil {
		return status, nil
	}

	// Report the database name for server backends
	if s.backend == schema.MySQLBackend {
		if cfg, err := mysql.ParseDSN(s.connStr); err == nil && cfg.DBName != "" {
			status.Backend = fmt.Sprintf("%s (%s)", s.backend, cfg.DBName)
		}
	}

	quotedTableName := quoteTableName(s.tableName, s.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&status.TotalRows); err != nil {
		return status, fmt.Errorf("failed to get total rows: %w", err)
	}
	if status.TotalRows == 0 {
		return status, nil
	}

	conditions := make([]string, len(schema.MetricSet))
	for i, m := range schema.MetricSet {
		conditions[i] = m.Key + " IS NOT NULL"
	}
	filledQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", quotedTableName, strings.Join(conditions, " AND "))
	if err := s.db.QueryRowContext(ctx, filledQuery).Scan(&status.FilledRows); err != nil {
		return status, fmt.Errorf("failed to get filled rows: %w", err)
	}

	firstQuery := fmt.Sprintf("SELECT date_key FROM %s ORDER BY row_num ASC LIMIT 1", quotedTableName)
	if err := s.db.QueryRowContext(ctx, firstQuery).Scan(&status.FirstDate); err != nil {
		return status, fmt.Errorf("failed to get first date: %w", err)
	}

	lastQuery := fmt.Sprintf("SELECT date_key FROM %s ORDER BY row_num DESC LIMIT 1", quotedTableName)
	if err := s.db.QueryRowContext(ctx, lastQuery).Scan(&status.LastDate); err != nil {
		return status, fmt.Errorf("failed to get last date: %w", err)
	}

	return status, nil
}
