package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/internal/outwriter"
	"github.com/huangsam/farmstat/internal/recordstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dbCmd focused on record store management.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the record store and report history",
	Long: `Manage the database that holds farm records and the history of generated reports.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show record and run statistics
  runs    - List the most recent report runs
  export  - Export records and runs to Parquet
  clear   - Remove all records and runs
  migrate - Run database schema migrations

Examples:
  # Check what is stored
  farmstat db status

  # Export for analysis in pandas/DuckDB
  farmstat db export --output-file farm-data`,
}

// dbStatusCmd shows store status.
var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display record store statistics and connection details",
	Long: `Show detailed information about the record store.

Displays:
- Backend type and connection status
- Record counts per kind and the covered date span
- Report run count and the latest run
- Table sizes

Examples:
  farmstat db status`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open record store", err)
		}
		defer closeStore(store)

		status, err := store.GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		recordstore.PrintStoreStatus(os.Stdout, status)
	},
}

// dbRunsCmd lists recent report runs.
var dbRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List the most recent report runs",
	Long: `List report runs recorded by previous report calls, newest first.

Honors --output (text, json, csv) and --output-file.

Examples:
  farmstat db runs --runs 25
  farmstat db runs --output json`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open record store", err)
		}
		defer closeStore(store)

		runs, err := store.ListRuns(rootCtx, cfg.RunLimit)
		if err != nil {
			contract.LogFatal("Failed to list report runs", err)
		}
		if err := outwriter.NewOutWriter().WriteRuns(runs, cfg); err != nil {
			contract.LogFatal("Cannot write report runs", err)
		}
	},
}

// dbClearCmd clears the store.
var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all records and report runs",
	Long: `Delete every stored record and report run.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  farmstat db export --output-file backup
  farmstat db clear`,
	PreRunE: sharedSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open record store", err)
		}
		defer closeStore(store)

		if err := store.Clear(rootCtx); err != nil {
			contract.LogFatal("Failed to clear record store", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Record store cleared successfully.")
	},
}

// dbExportCmd exports stored data to Parquet files.
var dbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records and report runs to Parquet",
	Long: `Export all stored records and report runs to Parquet files for analytics tools.

Writes two files next to the --output-file prefix:
- <prefix>.records.parquet
- <prefix>.report_runs.parquet

Requires: --output-file parameter

Examples:
  farmstat db export --output-file farm-data
  duckdb -c "SELECT kind, sum(amount) FROM read_parquet('farm-data.records.parquet') GROUP BY kind"`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open record store", err)
		}
		defer closeStore(store)

		if err := recordstore.ExportParquet(rootCtx, store, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export record data", err)
		}
	},
}

// dbMigrateCmd runs database migrations. It does not open the store,
// so migrations can run against a fresh database.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the record store.

Versions:
  1 - records table
  2 - report runs table
  3 - index on record dates
  4 - index on run timestamps

Examples:
  # Migrate to the latest version
  farmstat db migrate

  # Roll back to the first version
  farmstat db migrate --target-version 1

  # Migrate a PostgreSQL store
  FARMSTAT_DB_BACKEND=postgresql FARMSTAT_DB_CONNECT="..." farmstat db migrate`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := recordstore.Migrate(cfg.Backend, cfg.DBConnect, target, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
