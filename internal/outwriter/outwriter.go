// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints a report to the configured output file, or stdout when none is set.
func (ow *OutWriter) WriteReport(report schema.Report, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteReportResults(w, report, cfg, duration)
	}, "Wrote report")
}

// WriteRuns prints the report run history using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.ReportRunRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteRunResults(w, runs, cfg)
	}, "Wrote report history")
}
