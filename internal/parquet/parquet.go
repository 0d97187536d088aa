// Package parquet provides data structures and functions for exporting farmstat
// records and report history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/farmstat/schema"
	"github.com/parquet-go/parquet-go"
)

// Record represents a single farm record.
// This struct maps to the farmstat_records database table.
type Record struct {
	// ID is the store-assigned identifier
	ID int64 `parquet:"id,snappy"`

	// Kind is crop, expense or livestock_expense
	Kind string `parquet:"kind,snappy,dict"`

	// RecordDate is the calendar day as YYYY-MM-DD
	RecordDate string `parquet:"record_date,snappy"`

	// Category is the crop type or expense category
	Category string `parquet:"category,snappy,dict"`

	Amount        *float64 `parquet:"amount,optional,snappy"`
	Area          *float64 `parquet:"area,optional,snappy"`
	ExpectedYield *float64 `parquet:"expected_yield,optional,snappy"`
	MarketPrice   *float64 `parquet:"market_price,optional,snappy"`

	// Note is free text (nullable)
	Note *string `parquet:"note,optional,snappy"`
}

// ReportRun represents one generated report.
// This struct maps to the farmstat_report_runs database table.
type ReportRun struct {
	// RunID is the report ID
	RunID string `parquet:"run_id,snappy"`

	// GeneratedAt is when the report was assembled (stored as TIMESTAMP with nanosecond precision)
	GeneratedAt time.Time `parquet:"generated_at,snappy"`

	PeriodStart   string `parquet:"period_start,snappy"`
	PeriodEnd     string `parquet:"period_end,snappy"`
	PreviousStart string `parquet:"previous_start,snappy"`
	PreviousEnd   string `parquet:"previous_end,snappy"`

	// Metrics is the comma separated list of compared metrics
	Metrics string `parquet:"metrics,snappy"`

	// TrendsJSON contains the JSON-encoded trend results (nullable)
	TrendsJSON *string `parquet:"trends_json,optional,snappy"`

	// RecordCount is the number of records in the current period
	RecordCount int32 `parquet:"record_count,snappy"`
}

// WriteRecordsParquet writes a slice of Record structs to a Parquet file.
func WriteRecordsParquet(data []Record, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteReportRunsParquet writes a slice of ReportRun structs to a Parquet file.
func WriteReportRunsParquet(data []ReportRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows of any struct type whose schema is derived from its parquet tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRecords converts schema.RecordSet to Record rows for Parquet export.
func ConvertRecords(records schema.RecordSet) []Record {
	result := make([]Record, len(records))
	for i, record := range records {
		var note *string
		if record.Note != "" {
			n := record.Note
			note = &n
		}
		result[i] = Record{
			ID:            record.ID,
			Kind:          string(record.Kind),
			RecordDate:    record.Date.Format(schema.DateLayout),
			Category:      record.Category,
			Amount:        record.Amount,
			Area:          record.Area,
			ExpectedYield: record.ExpectedYield,
			MarketPrice:   record.MarketPrice,
			Note:          note,
		}
	}
	return result
}

// ConvertReportRunRecords converts schema.ReportRunRecord to ReportRun for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		result[i] = ReportRun{
			RunID:         record.RunID,
			GeneratedAt:   record.GeneratedAt,
			PeriodStart:   record.PeriodStart.Format(schema.DateLayout),
			PeriodEnd:     record.PeriodEnd.Format(schema.DateLayout),
			PreviousStart: record.PreviousStart.Format(schema.DateLayout),
			PreviousEnd:   record.PreviousEnd.Format(schema.DateLayout),
			Metrics:       record.Metrics,
			TrendsJSON:    record.TrendsJSON,
			RecordCount:   record.RecordCount,
		}
	}
	return result
}
