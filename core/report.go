package core

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
	"github.com/rs/zerolog"
)

// GenerateReport runs one report for cfg against the store and appends it to the run history.
// A failure to record the run is logged and does not fail the report.
func GenerateReport(ctx context.Context, cfg *contract.Config, store contract.RecordStore, opts ...AssemblerOption) (schema.Report, error) {
	assemblerOpts := []AssemblerOption{WithMonthlyWindow(cfg.MonthlyWindow)}
	assembler := NewAssembler(append(assemblerOpts, opts...)...)

	report, err := assembler.Generate(ctx, cfg.Range, cfg.Metrics, store.FetchRecords, GenerateOptions(cfg)...)
	if err != nil {
		return schema.Report{}, err
	}

	if err := store.RecordRun(ctx, NewRunRecord(report, cfg.Metrics)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("report_id", report.ID).Msg("failed to record report run")
	}
	return report, nil
}

// GenerateOptions maps the comparison settings of cfg onto Generate options.
func GenerateOptions(cfg *contract.Config) []GenerateOption {
	var opts []GenerateOption
	if cfg.PreviousRange != nil {
		opts = append(opts, WithPreviousRange(*cfg.PreviousRange))
	}
	if cfg.CompareTo == contract.CompareLastYear {
		opts = append(opts, WithYearOverYear())
	}
	return opts
}

// NewRunRecord summarizes a report for the run history.
func NewRunRecord(report schema.Report, metricNames []string) schema.ReportRunRecord {
	run := schema.ReportRunRecord{
		RunID:         report.ID,
		GeneratedAt:   report.GeneratedAt,
		PeriodStart:   report.Period.Start,
		PeriodEnd:     report.Period.End,
		PreviousStart: report.PreviousPeriod.Start,
		PreviousEnd:   report.PreviousPeriod.End,
		Metrics:       strings.Join(metricNames, ","),
		RecordCount:   int32(report.Aggregation.Summary[schema.MetricTotalRecords]),
	}
	if data, err := json.Marshal(report.Trends); err == nil {
		trends := string(data)
		run.TrendsJSON = &trends
	}
	return run
}
