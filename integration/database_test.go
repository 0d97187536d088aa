//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/farmstat/internal/recordstore"
	"github.com/huangsam/farmstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestFarmstatWithMySQL runs the CLI and the store against a MySQL backend.
func TestFarmstatWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "farmstat",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/farmstat", host, port.Port())
	runStoreScenario(t, schema.MySQLBackend, connStr)
}

// TestFarmstatWithPostgres runs the CLI and the store against a PostgreSQL backend.
func TestFarmstatWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runStoreScenario(t, schema.PostgreSQLBackend, connStr)
}

// runStoreScenario migrates, imports, reports and inspects history on one backend.
func runStoreScenario(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	env := []string{
		"FARMSTAT_DB_BACKEND=" + string(backend),
		"FARMSTAT_DB_CONNECT=" + connStr,
	}

	t.Run("migrate", func(t *testing.T) {
		out, err := runFarmstat(t, env, "db", "migrate")
		require.NoError(t, err)
		assert.Contains(t, out, "to version 4")

		require.NoError(t, recordstore.Migrate(backend, connStr, 2, io.Discard))
		require.NoError(t, recordstore.Migrate(backend, connStr, -1, io.Discard))
	})

	t.Run("store round trip", func(t *testing.T) {
		store, err := recordstore.NewRecordStore(backend, connStr)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		ctx := context.Background()
		require.NoError(t, store.Clear(ctx))

		f, err := os.Open(filepath.Join("..", recordsCSV))
		require.NoError(t, err)
		records, err := recordstore.ReadRecordsCSV(f)
		_ = f.Close()
		require.NoError(t, err)

		n, err := store.ImportRecords(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, len(records), n)

		june := schema.NewDateRange(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
		fetched, err := store.FetchRecords(ctx, june)
		require.NoError(t, err)
		require.Len(t, fetched, 3)
		for _, rec := range fetched {
			assert.True(t, june.Contains(rec.Date), rec.Date)
		}

		require.NoError(t, store.Clear(ctx))
	})

	t.Run("cli report", func(t *testing.T) {
		_, err := runFarmstat(t, env, "db", "clear")
		require.NoError(t, err)

		out, err := runFarmstat(t, env, "import", recordsCSV)
		require.NoError(t, err)
		assert.Contains(t, out, "Imported 6 records.")

		out, err = runFarmstat(t, env, "report", "--start", "2025-06-01", "--end", "2025-06-30", "--output", "json")
		require.NoError(t, err)
		verifyJuneReport(t, out)

		out, err = runFarmstat(t, env, "db", "runs", "--output", "json")
		require.NoError(t, err)
		var runs []struct {
			RunID       string `json:"run_id"`
			Period      string `json:"period"`
			RecordCount int32  `json:"record_count"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &runs))
		require.Len(t, runs, 1)
		assert.NotEmpty(t, runs[0].RunID)
		assert.Equal(t, "2025-06-01..2025-06-30", runs[0].Period)
		assert.Equal(t, int32(3), runs[0].RecordCount)

		out, err = runFarmstat(t, env, "db", "status")
		require.NoError(t, err)
		assert.Contains(t, out, string(backend))
	})
}
