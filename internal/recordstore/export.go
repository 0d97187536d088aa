package recordstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/internal/parquet"
	"github.com/huangsam/farmstat/schema"
)

// allTime spans every date a record can carry.
var allTime = schema.DateRange{
	Start: time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC),
}

// ExportParquet writes every stored record and report run to two Parquet files
// named after outputFile, and reports progress to out.
func ExportParquet(ctx context.Context, store contract.RecordStore, outputFile string, out io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRecords == 0 && status.TotalRuns == 0 {
		return errors.New("no record data found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total records: %d\n", status.TotalRecords)
	_, _ = fmt.Fprintf(out, "Total report runs: %d\n", status.TotalRuns)

	records, err := store.FetchRecords(ctx, allTime)
	if err != nil {
		return fmt.Errorf("failed to retrieve records: %w", err)
	}
	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}

	recordsFile := outputFile + ".records.parquet"
	parquetRecords := parquet.ConvertRecords(records)
	if err := parquet.WriteRecordsParquet(parquetRecords, recordsFile); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d records to: %s\n", len(parquetRecords), recordsFile)

	runsFile := outputFile + ".report_runs.parquet"
	parquetRuns := parquet.ConvertReportRunRecords(runs)
	if err := parquet.WriteReportRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d report runs to: %s\n", len(parquetRuns), runsFile)

	_, _ = fmt.Fprintln(out, "\nExport complete! The Parquet files can be loaded with DuckDB, Pandas or Spark.")
	return nil
}
