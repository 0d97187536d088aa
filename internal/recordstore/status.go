package recordstore

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/huangsam/farmstat/schema"
)

// GetStatus returns status information about the record store.
func (s *Store) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:       string(s.backend),
		Connected:     s.db != nil,
		RecordsByKind: make(map[string]int64),
		TableSizes:    make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	records := quoteTableName(recordsTable, s.backend)
	runs := quoteTableName(reportRunsTable, s.backend)

	// Get records per kind
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT kind, COUNT(*) FROM %s GROUP BY kind", records))
	if err != nil {
		return status, fmt.Errorf("failed to count records by kind: %w", err)
	}
	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			_ = rows.Close()
			return status, fmt.Errorf("failed to scan record count: %w", err)
		}
		status.RecordsByKind[kind] = count
		status.TotalRecords += count
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return status, fmt.Errorf("error iterating record counts: %w", err)
	}

	if status.TotalRecords > 0 {
		var oldest, newest string
		row := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT MIN(record_date), MAX(record_date) FROM %s", records))
		if err := row.Scan(&oldest, &newest); err != nil {
			return status, fmt.Errorf("failed to get record date bounds: %w", err)
		}
		if status.OldestRecord, err = time.Parse(schema.DateLayout, oldest); err != nil {
			return status, fmt.Errorf("failed to parse oldest record date: %w", err)
		}
		if status.NewestRecord, err = time.Parse(schema.DateLayout, newest); err != nil {
			return status, fmt.Errorf("failed to parse newest record date: %w", err)
		}
	}

	// Get total runs
	row := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", runs))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRunTime any
		row = s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT run_id, generated_at FROM %s ORDER BY generated_at DESC, run_id DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID, &lastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		if status.LastRunTime, err = scanTime(lastRunTime); err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
	}

	status.TableSizes[recordsTable] = status.TotalRecords
	status.TableSizes[reportRunsTable] = status.TotalRuns
	return status, nil
}

// Clear removes all records and report runs in one transaction.
func (s *Store) Clear(ctx context.Context) error {
	if s.disabled() {
		return nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin clear: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{recordsTable, reportRunsTable} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", quoteTableName(table, s.backend))); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// PrintStoreStatus prints store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Records: %d\n", status.TotalRecords)
	if status.TotalRecords > 0 {
		_, _ = fmt.Fprintf(w, "Oldest Record: %s\n", status.OldestRecord.Format(schema.DateLayout))
		_, _ = fmt.Fprintf(w, "Newest Record: %s\n", status.NewestRecord.Format(schema.DateLayout))
		for _, kind := range schema.AllRecordKinds {
			_, _ = fmt.Fprintf(w, "  %s: %d\n", kind, status.RecordsByKind[string(kind)])
		}
	}
	_, _ = fmt.Fprintf(w, "Total Report Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %s\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
