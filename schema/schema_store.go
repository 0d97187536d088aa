package schema

import "time"

// ReportRunRecord represents a row from the farmstat_report_runs table.
type ReportRunRecord struct {
	RunID         string    `json:"run_id"`
	GeneratedAt   time.Time `json:"generated_at"`
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
	PreviousStart time.Time `json:"previous_start"`
	PreviousEnd   time.Time `json:"previous_end"`
	Metrics       string    `json:"metrics"` // comma separated metric names
	TrendsJSON    *string   `json:"trends_json,omitempty"`
	RecordCount   int32     `json:"record_count"` // records inside the current period
}

// StoreStatus holds status information about the record store.
type StoreStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRecords  int64            `json:"total_records"`
	RecordsByKind map[string]int64 `json:"records_by_kind"`
	OldestRecord  time.Time        `json:"oldest_record"`
	NewestRecord  time.Time        `json:"newest_record"`
	TotalRuns     int64            `json:"total_runs"`
	LastRunID     string           `json:"last_run_id,omitempty"`
	LastRunTime   time.Time        `json:"last_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
