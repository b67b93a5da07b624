package kpistore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSheetStore_SQLite(t *testing.T) {
	cfg := &contract.Config{SheetBackend: schema.SQLiteBackend, SheetDBConnect: ":memory:"}
	store, err := NewSheetStore(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	assert.Equal(t, 1, store.FirstDataRow())
}

func TestNewSheetStore_Unsupported(t *testing.T) {
	cfg := &contract.Config{SheetBackend: schema.NoneBackend}
	store, err := NewSheetStore(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestStoreManager_Getters(t *testing.T) {
	sheet := &MockSheetStore{}
	runs := &MockRunStore{}
	mgr := &StoreManagerImpl{sheet: sheet, runs: runs}
	assert.Same(t, sheet, mgr.GetSheetStore())
	assert.Same(t, runs, mgr.GetRunStore())
}

func TestClearRuns(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "runs.db")
		store, err := NewRunStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		_, err = store.BeginRun("22/02/2022", time.Now())
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearRuns(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		assert.NoError(t, ClearRuns(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("sqlite requires path", func(t *testing.T) {
		assert.Error(t, ClearRuns(schema.SQLiteBackend, "", ""))
	})

	t.Run("none", func(t *testing.T) {
		assert.NoError(t, ClearRuns(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, ClearRuns(schema.SheetsBackend, "", ""))
	})
}

func TestExecuteExport(t *testing.T) {
	ctx := context.Background()

	t.Run("requires output file", func(t *testing.T) {
		err := ExecuteExport(ctx, &MockStoreManager{}, "", &bytes.Buffer{})
		assert.ErrorContains(t, err, "--output-file")
	})

	t.Run("no rows", func(t *testing.T) {
		sheet := &MockSheetStore{}
		sheet.On("GetStatus", ctx).Return(schema.SheetStatus{Backend: "sqlite", Connected: true}, nil)
		mgr := &MockStoreManager{}
		mgr.On("GetSheetStore").Return(sheet)

		err := ExecuteExport(ctx, mgr, filepath.Join(t.TempDir(), "out"), &bytes.Buffer{})
		assert.ErrorContains(t, err, "no KPI rows")
	})

	t.Run("writes rows and runs", func(t *testing.T) {
		sheet := newMemorySheet(t)
		seedDates(t, sheet, 2)
		require.NoError(t, sheet.WriteCell(ctx, 1, 2, "100"))

		runs, err := NewRunStore(schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = runs.Close() }()
		_, err = runs.BeginRun("01/01/2022", time.Now())
		require.NoError(t, err)

		mgr := &StoreManagerImpl{sheet: sheet, runs: runs}
		prefix := filepath.Join(t.TempDir(), "kpis")
		var out bytes.Buffer
		require.NoError(t, ExecuteExport(ctx, mgr, prefix, &out))

		_, err = os.Stat(prefix + ".kpi_rows.parquet")
		assert.NoError(t, err)
		_, err = os.Stat(prefix + ".runs.parquet")
		assert.NoError(t, err)
		assert.Contains(t, out.String(), "Exported 2 KPI rows")
		assert.Contains(t, out.String(), "Exported 1 runs")
	})

	t.Run("run store failure", func(t *testing.T) {
		sheet := newMemorySheet(t)
		seedDates(t, sheet, 1)
		runs := &MockRunStore{}
		runs.On("GetAllRuns").Return(nil, errors.New("down"))
		mgr := &StoreManagerImpl{sheet: sheet, runs: runs}

		err := ExecuteExport(ctx, mgr, filepath.Join(t.TempDir(), "kpis"), &bytes.Buffer{})
		assert.ErrorContains(t, err, "failed to retrieve runs")
	})
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintSheetStatus(&buf, schema.SheetStatus{Backend: "sqlite", Connected: true, TotalRows: 3, FilledRows: 2, FirstDate: "01/01/2022", LastDate: "03/01/2022"})
	assert.Contains(t, buf.String(), "Sheet Backend: sqlite")
	assert.Contains(t, buf.String(), "Filled Rows: 2")
	assert.Contains(t, buf.String(), "Last Date: 03/01/2022")

	buf.Reset()
	PrintRunStatus(&buf, schema.RunStatus{Backend: "none"})
	assert.Contains(t, buf.String(), "Connected: false")
	assert.NotContains(t, buf.String(), "Total Runs")

	buf.Reset()
	PrintRunStatus(&buf, schema.RunStatus{
		Backend: "sqlite", Connected: true, TotalRuns: 2, LastRunID: "abc",
		Outcomes: map[string]int64{"record_only": 1, "analyzed": 1},
	})
	out := buf.String()
	assert.Contains(t, out, "Last Run ID: abc")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("analyzed")), bytes.Index(buf.Bytes(), []byte("record_only")))
}
