package kpistore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// NewSheetStore opens the sheet store for the configured backend.
func NewSheetStore(ctx context.Context, cfg *contract.Config) (contract.SheetStore, error) {
	switch cfg.SheetBackend {
	case schema.SheetsBackend:
		store, err := NewGoogleSheetStore(ctx, cfg.SheetsCredentials, cfg.SheetsSpreadsheetID, cfg.SheetsWorksheet)
		if err != nil {
			return nil, err
		}
		return store, nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		store, err := NewSQLSheetStore(kpiRowsTable, cfg.SheetBackend, cfg.SheetDBConnect)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or sheets", cfg.SheetBackend)
	}
}

// InitStores initializes the global manager with the sheet store and the run store.
// Only the first call has an effect.
func InitStores(ctx context.Context, cfg *contract.Config) error {
	var initErr error

	initOnce.Do(func() {
		sheetStore, err := NewSheetStore(ctx, cfg)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize sheet store: %w", err)
			return
		}

		runStore, err := NewRunStore(cfg.RunBackend, cfg.RunDBConnect)
		if err != nil {
			_ = sheetStore.Close()
			initErr = fmt.Errorf("failed to initialize run store: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.sheet = sheetStore
		Manager.runs = runStore
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.sheet != nil {
			_ = Manager.sheet.Close()
		}
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearRuns clears the run tracking data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the runs table.
// For NoneBackend, it does nothing.
func ClearRuns(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropSQLTable("mysql", connStr, quoteTableName(runsTable, backend))

	case schema.PostgreSQLBackend:
		return dropSQLTable("pgx", connStr, quoteTableName(runsTable, backend))

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported runs backend for clearing: %s", backend)
	}
}

// dropSQLTable connects to the SQL database and drops the table if it exists.
func dropSQLTable(driverName, connStr, quotedTableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quotedTableName)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", quotedTableName, err)
	}
	return nil
}
