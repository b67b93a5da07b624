//go:build basic

// Package integration contains integration tests for kpitrend.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or with containers: go test -tags database ./integration
package integration

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/huangsam/kpitrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqliteEnv points both stores at fresh SQLite files.
func sqliteEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	sheetPath := filepath.Join(dir, "sheet.db")
	t.Setenv("KPITREND_STORE_BACKEND", "sqlite")
	t.Setenv("KPITREND_STORE_DB_CONNECT", sheetPath)
	t.Setenv("KPITREND_RUNS_BACKEND", "sqlite")
	t.Setenv("KPITREND_RUNS_DB_CONNECT", filepath.Join(dir, "runs.db"))
	return sheetPath
}

// exitCode returns the exit status of a finished command, 0 on success.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

// TestKpitrendWithSQLite runs every command against SQLite files.
func TestKpitrendWithSQLite(t *testing.T) {
	sheetPath := sqliteEnv(t)
	exerciseBackend(t, schema.SQLiteBackend, sheetPath)

	prefix := filepath.Join(t.TempDir(), "backup")
	_, err := runKpitrend(t, "", "export", "--output-file", prefix)
	require.NoError(t, err)
	for _, suffix := range []string{".kpi_rows.parquet", ".runs.parquet"} {
		info, err := os.Stat(prefix + suffix)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

// TestRecordOnlyExitsZero verifies that a date without enough history is saved and exits 0.
func TestRecordOnlyExitsZero(t *testing.T) {
	sqliteEnv(t)
	_, err := runKpitrend(t, "", "sheet", "seed", "--start", "01/01/2022", "--end", "10/01/2022")
	require.NoError(t, err)

	out, err := runKpitrend(t, "05/01/2022\n1\n2\n3\n4\n5\n")
	assert.Equal(t, 0, exitCode(err))
	assert.Contains(t, out, "Trend analysis is not available")
	assert.Contains(t, out, "have been saved")
}

// TestInvalidInputIsRetried verifies that bad answers are asked again.
func TestInvalidInputIsRetried(t *testing.T) {
	sheetPath := sqliteEnv(t)
	_, err := runKpitrend(t, "", "sheet", "seed", "--start", "01/01/2022", "--end", "01/02/2022")
	require.NoError(t, err)
	fillHistory(t, schema.SQLiteBackend, sheetPath)

	out, err := runKpitrend(t, "2022-01-31\n31/01/2022\nabc\n-3\n"+"130\n100\n100\n100\n100\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid data")
	assert.Contains(t, out, "App Opens is increasing by 30%")
}

// TestCollaboratorFailureExitsOne verifies that an unreachable store is fatal.
func TestCollaboratorFailureExitsOne(t *testing.T) {
	t.Setenv("KPITREND_STORE_BACKEND", "postgresql")
	t.Setenv("KPITREND_STORE_DB_CONNECT", "host=127.0.0.1 port=1 user=nobody dbname=none connect_timeout=1")

	_, err := runKpitrend(t, recordingInput)
	assert.Equal(t, 1, exitCode(err))
}

// TestVersion verifies the version command.
func TestVersion(t *testing.T) {
	out, err := runKpitrend(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "kpitrend CLI")
}
