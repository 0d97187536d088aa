package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/farmstat/core"
	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteReportResults outputs a report, dispatching based on the output format configured.
func WriteReportResults(w io.Writer, report schema.Report, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, report); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForReport(w, report, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.XLSXOut:
		if err := writeXLSXResultsForReport(w, report, cfg); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeReportTable(w, report, cfg, fmtFloat, intFmt, duration)
	}
	return nil
}

// writeReportTable writes the report as a set of tables: trends, summary, distributions and months.
func writeReportTable(w io.Writer, report schema.Report, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	bold := fmt.Sprint
	if cfg.UseColors {
		bold = color.New(color.Bold).SprintFunc()
	}

	if _, err := fmt.Fprintf(w, "%s %s compared with %s\n\n", bold("Farm report"), report.Period, report.PreviousPeriod); err != nil {
		return err
	}

	// --- Trends ---
	if len(report.Trends) > 0 {
		var data [][]string
		for _, t := range report.Trends {
			unit := metricUnit(t.Metric)
			data = append(data, []string{
				t.Metric,
				formatMetricValue(t.Current, unit, fmtFloat, intFmt),
				formatMetricValue(t.Previous, unit, fmtFloat, intFmt),
				formatChange(t.ChangePercent, cfg.Precision),
				trendLabel(t.Classification, cfg.UseColors),
			})
		}
		if err := renderTable(w, []string{"Metric", "Current", "Previous", "Change", "Trend"}, data); err != nil {
			return err
		}
	}

	// --- Summary ---
	var summary [][]string
	for _, m := range report.Aggregation.Metrics() {
		summary = append(summary, []string{
			m.Name,
			formatMetricValue(m.Value, m.Unit, fmtFloat, intFmt),
			formatMetricValue(report.PreviousAggregation.Summary[m.Name], m.Unit, fmtFloat, intFmt),
			m.Unit,
		})
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", bold("Summary")); err != nil {
		return err
	}
	if err := renderTable(w, []string{"Metric", "Current", "Previous", "Unit"}, summary); err != nil {
		return err
	}

	// --- Distributions ---
	keyWidth := GetMaxTableKeyWidth(cfg)
	for _, d := range report.Aggregation.Distributions {
		if len(d.Groups) == 0 {
			continue
		}
		var data [][]string
		for _, g := range d.Groups {
			data = append(data, []string{
				contract.TruncateKey(g.Key, keyWidth),
				itoa(g.Count),
				fmtFloat(g.Sum),
			})
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", bold(d.Name)); err != nil {
			return err
		}
		if err := renderTable(w, []string{"Key", "Count", "Sum"}, data); err != nil {
			return err
		}
	}

	// --- Monthly ---
	if len(report.Aggregation.Monthly) > 0 {
		var data [][]string
		for _, b := range report.Aggregation.Monthly {
			data = append(data, []string{b.Month, itoa(b.Count), fmtFloat(b.Total)})
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", bold("Monthly costs")); err != nil {
			return err
		}
		if err := renderTable(w, []string{"Month", "Records", "Total"}, data); err != nil {
			return err
		}
	}

	counts := core.TrendCounts(report.Trends)
	if _, err := fmt.Fprintf(w, "\nTrends: %d up, %d down, %d stable, %d new\n",
		counts[schema.TrendUp], counts[schema.TrendDown], counts[schema.TrendStable], counts[schema.TrendNew]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Report %s generated in %v. Store backend: %s\n", report.ID, duration, cfg.Backend); err != nil {
		return err
	}
	return nil
}

// renderTable renders one right-aligned table.
func renderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForReport flattens the report into one long-format CSV:
// each row is tagged with the section it belongs to.
func writeCSVResultsForReport(w io.Writer, report schema.Report, fmtFloat func(float64) string) error {
	header := []string{
		"section",
		"name",
		"key",
		"count",
		"value",
		"previous",
		"change_percent",
		"classification",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, t := range report.Trends {
			row := []string{
				"trend",
				t.Metric,
				"",
				"",
				fmtFloat(t.Current),
				fmtFloat(t.Previous),
				formatChangeRaw(t.ChangePercent, fmtFloat),
				string(t.Classification),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		for _, m := range report.Aggregation.Metrics() {
			row := []string{
				"summary",
				m.Name,
				"",
				"",
				fmtFloat(m.Value),
				fmtFloat(report.PreviousAggregation.Summary[m.Name]),
				"",
				"",
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		for _, d := range report.Aggregation.Distributions {
			for _, g := range d.Groups {
				if err := cw.Write([]string{"distribution", d.Name, g.Key, itoa(g.Count), fmtFloat(g.Sum), "", "", ""}); err != nil {
					return err
				}
			}
		}
		for _, b := range report.Aggregation.Monthly {
			if err := cw.Write([]string{"monthly", "costs", b.Month, itoa(b.Count), fmtFloat(b.Total), "", "", ""}); err != nil {
				return err
			}
		}
		return nil
	})
}
