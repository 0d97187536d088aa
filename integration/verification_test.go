//go:build basic

// Package integration contains end-to-end tests for the farmstat binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends need Docker: go test -tags database ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/farmstat/core"
	"github.com/huangsam/farmstat/internal/recordstore"
	"github.com/huangsam/farmstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteEnv(t *testing.T) []string {
	t.Helper()
	return []string{
		"FARMSTAT_DB_BACKEND=sqlite",
		"FARMSTAT_DB_CONNECT=" + filepath.Join(t.TempDir(), "farmstat.db"),
	}
}

// TestReportVerification imports the sample CSV into SQLite and checks the report
// against an aggregation computed straight from the file.
func TestReportVerification(t *testing.T) {
	env := sqliteEnv(t)

	_, err := runFarmstat(t, env, "import", recordsCSV)
	require.NoError(t, err)

	out, err := runFarmstat(t, env, "report", "--start", "2025-06-01", "--end", "2025-06-30", "--output", "json")
	require.NoError(t, err)
	report := verifyJuneReport(t, out)

	f, err := os.Open(filepath.Join("..", recordsCSV))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := recordstore.ReadRecordsCSV(f)
	require.NoError(t, err)

	expected := core.Aggregate(records, report.Period, core.DefaultAggregateOptions())
	for name, value := range expected.Summary {
		assert.InDelta(t, value, report.Aggregation.Summary[name], 1e-9, name)
	}
	assert.Equal(t, expected.Monthly, report.Aggregation.Monthly)
}

// TestReportTextOutput checks the human-readable report end to end.
func TestReportTextOutput(t *testing.T) {
	env := sqliteEnv(t)

	_, err := runFarmstat(t, env, "import", recordsCSV)
	require.NoError(t, err)

	out, err := runFarmstat(t, env, "report", "--start", "2025-06-01", "--end", "2025-06-30", "--color", "no")
	require.NoError(t, err)
	assert.Contains(t, out, "Farm report 2025-06-01..2025-06-30 compared with 2025-05-02..2025-05-31")
	assert.Contains(t, out, "Trends: 1 up, 0 down, 2 stable, 1 new")
}

// TestInvalidImportRejected checks that one bad row aborts the whole import.
func TestInvalidImportRejected(t *testing.T) {
	env := sqliteEnv(t)

	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("kind,date,amount\nexpense,2025-06-01,10\nharvest,2025-06-02,5\n"), 0o600))

	_, err := runFarmstat(t, env, "import", bad)
	require.Error(t, err)

	out, err := runFarmstat(t, env, "report", "--start", "2025-06-01", "--end", "2025-06-30", "--output", "json", "--metrics", "total_records")
	require.NoError(t, err)
	var report schema.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Zero(t, report.Aggregation.Summary[schema.MetricTotalRecords])
}

// TestInvalidRangeFails checks that start after end is rejected before touching the store.
func TestInvalidRangeFails(t *testing.T) {
	_, err := runFarmstat(t, sqliteEnv(t), "report", "--start", "2025-06-30", "--end", "2025-06-01")
	assert.Error(t, err)
}
