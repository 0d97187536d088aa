// Package contract provides interfaces and shared utilities for farmstat's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/farmstat/schema"
)

// RecordStore defines the persistence collaborator the reporting engine reads from.
// This allows the report flow to be tested without a real database.
type RecordStore interface {
	// --- Records ---

	// FetchRecords returns every record whose date falls inside r, ordered by date then id.
	FetchRecords(ctx context.Context, r schema.DateRange) (schema.RecordSet, error)

	// ImportRecords inserts records in a single transaction and returns how many were written.
	ImportRecords(ctx context.Context, records schema.RecordSet) (int, error)

	// --- Report runs ---

	// RecordRun stores one generated report in the run history.
	RecordRun(ctx context.Context, run schema.ReportRunRecord) error

	// ListRuns returns the most recent report runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]schema.ReportRunRecord, error)

	// --- Maintenance ---

	// GetStatus returns status information about the store.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Clear removes all records and report runs.
	Clear(ctx context.Context) error

	// Close closes the underlying connection.
	Close() error
}

// Clock returns the current time. Commands and servers take one so tests can pin "now".
type Clock func() time.Time
