package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	summarySheet       = "Summary"
	trendsSheet        = "Trends"
	distributionsSheet = "Distributions"
	monthlySheet       = "Monthly"
)

// writeXLSXResultsForReport writes the report as a workbook with one sheet per section.
// Numbers are stored as numbers so the sheet stays usable for further analysis.
func writeXLSXResultsForReport(w io.Writer, report schema.Report, cfg *contract.Config) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	for _, name := range []string{trendsSheet, distributionsSheet, monthlySheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	summary := [][]any{
		{"report_id", report.ID},
		{"generated_at", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"period", report.Period.String()},
		{"previous_period", report.PreviousPeriod.String()},
		{},
		{"metric", "current", "previous", "unit"},
	}
	for _, m := range report.Aggregation.Metrics() {
		summary = append(summary, []any{m.Name, m.Value, report.PreviousAggregation.Summary[m.Name], m.Unit})
	}
	if err := writeSheetRows(f, summarySheet, summary); err != nil {
		return err
	}
	if err := f.SetRowStyle(summarySheet, 6, 6, headerStyle); err != nil {
		return err
	}

	trends := [][]any{{"metric", "current", "previous", "change_percent", "classification"}}
	for _, t := range report.Trends {
		var pct any
		if t.ChangePercent != nil {
			pct = *t.ChangePercent
		}
		trends = append(trends, []any{t.Metric, t.Current, t.Previous, pct, string(t.Classification)})
	}
	if err := writeSheetRows(f, trendsSheet, trends); err != nil {
		return err
	}

	distributions := [][]any{{"distribution", "key", "count", "sum"}}
	for _, d := range report.Aggregation.Distributions {
		for _, g := range d.Groups {
			distributions = append(distributions, []any{d.Name, g.Key, g.Count, g.Sum})
		}
	}
	if err := writeSheetRows(f, distributionsSheet, distributions); err != nil {
		return err
	}

	monthly := [][]any{{"month", "count", "total"}}
	for _, b := range report.Aggregation.Monthly {
		monthly = append(monthly, []any{b.Month, b.Count, b.Total})
	}
	if err := writeSheetRows(f, monthlySheet, monthly); err != nil {
		return err
	}

	for _, sheet := range []string{trendsSheet, distributionsSheet, monthlySheet} {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return err
		}
	}

	if cfg.Precision > 0 {
		if err := setNumberFormat(f, cfg.Precision); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeSheetRows writes rows starting at A1. A nil row leaves a blank line.
func writeSheetRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// setNumberFormat applies the configured decimal places to the value columns of the trend sheet.
func setNumberFormat(f *excelize.File, precision int) error {
	format := "0."
	for range precision {
		format += "0"
	}
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return err
	}
	return f.SetColStyle(trendsSheet, "B:D", style)
}
