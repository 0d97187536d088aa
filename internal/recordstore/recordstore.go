// Package recordstore persists farm records and report history over SQLite, MySQL or PostgreSQL.
package recordstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for record storage.
const (
	recordsTable    = "farmstat_records"
	reportRunsTable = "farmstat_report_runs"
)

// Store implements the RecordStore interface.
type Store struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.RecordStore = &Store{} // Compile-time check

// NewRecordStore creates a new Store with the specified backend and makes sure its tables exist.
func NewRecordStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	if backend == schema.NoneBackend {
		// No-op store for disabled persistence
		return &Store{backend: backend}, nil
	}

	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create record tables: %w", err)
	}

	return &Store{db: db, backend: backend, driverName: driverName}, nil
}

// NewRecordStoreWithDB wraps an already opened database. Tables are expected to exist.
func NewRecordStoreWithDB(db *sql.DB, backend schema.DatabaseBackend) *Store {
	return &Store{db: db, backend: backend}
}

// openDB opens the database for a backend without touching the schema.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, "sqlite", nil

	case schema.MySQLBackend:
		dsn, err := mysqlDSN(connStr)
		if err != nil {
			return nil, "", err
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		return db, "mysql", nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=", err)
		}
		return db, "pgx", nil

	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// mysqlDSN makes sure DATETIME columns scan into time.Time.
func mysqlDSN(connStr string) (string, error) {
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL connection string: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// createTables creates the record and report-run tables.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{recordsTable, getCreateRecordsQuery(backend)},
		{reportRunsTable, getCreateReportRunsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRecordsQuery returns the CREATE TABLE query for farmstat_records.
// Dates are stored as YYYY-MM-DD text so range filters compare lexically on every backend.
func getCreateRecordsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(recordsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				kind VARCHAR(32) NOT NULL,
				record_date CHAR(10) NOT NULL,
				category VARCHAR(100) NOT NULL DEFAULT '',
				amount DOUBLE NULL,
				area DOUBLE NULL,
				expected_yield DOUBLE NULL,
				market_price DOUBLE NULL,
				note VARCHAR(500) NOT NULL DEFAULT ''
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				kind TEXT NOT NULL,
				record_date CHAR(10) NOT NULL,
				category TEXT NOT NULL DEFAULT '',
				amount DOUBLE PRECISION,
				area DOUBLE PRECISION,
				expected_yield DOUBLE PRECISION,
				market_price DOUBLE PRECISION,
				note TEXT NOT NULL DEFAULT ''
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				kind TEXT NOT NULL,
				record_date TEXT NOT NULL,
				category TEXT NOT NULL DEFAULT '',
				amount REAL,
				area REAL,
				expected_yield REAL,
				market_price REAL,
				note TEXT NOT NULL DEFAULT ''
			);
		`, quotedTableName)
	}
}

// getCreateReportRunsQuery returns the CREATE TABLE query for farmstat_report_runs.
func getCreateReportRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(reportRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(64) PRIMARY KEY,
				generated_at DATETIME(6) NOT NULL,
				period_start CHAR(10) NOT NULL,
				period_end CHAR(10) NOT NULL,
				previous_start CHAR(10) NOT NULL,
				previous_end CHAR(10) NOT NULL,
				metrics TEXT NOT NULL,
				trends_json TEXT,
				record_count INT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				generated_at TIMESTAMPTZ NOT NULL,
				period_start CHAR(10) NOT NULL,
				period_end CHAR(10) NOT NULL,
				previous_start CHAR(10) NOT NULL,
				previous_end CHAR(10) NOT NULL,
				metrics TEXT NOT NULL,
				trends_json TEXT,
				record_count INT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				generated_at TEXT NOT NULL,
				period_start TEXT NOT NULL,
				period_end TEXT NOT NULL,
				previous_start TEXT NOT NULL,
				previous_end TEXT NOT NULL,
				metrics TEXT NOT NULL,
				trends_json TEXT,
				record_count INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Backend returns the configured backend.
func (s *Store) Backend() schema.DatabaseBackend {
	return s.backend
}

// disabled reports whether the store is a no-op.
func (s *Store) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// placeholder returns the n-th (1-based) bind parameter for the backend.
func (s *Store) placeholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// placeholders returns a comma separated list of n bind parameters.
func (s *Store) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = s.placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

// quoteTableName quotes an identifier for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + name + "`"
	default:
		return `"` + name + `"`
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// scanTime reads a timestamp column, which SQLite stores as RFC3339 text.
func scanTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		return time.Parse(time.RFC3339Nano, v)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(v))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", raw)
	}
}

// withTimeout bounds maintenance queries that do not get a caller deadline.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 30*time.Second)
}
