package outwriter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/farmstat/core"
	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse(schema.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// sampleReport compares 2025-06-08..2025-06-15 with 2025-05-31..2025-06-07.
func sampleReport(t *testing.T) schema.Report {
	t.Helper()
	records := schema.RecordSet{
		{Kind: schema.CropRecord, Date: day("2025-06-10"), Category: "corn", Area: schema.Float(10), ExpectedYield: schema.Float(5), MarketPrice: schema.Float(4)},
		{Kind: schema.ExpenseRecord, Date: day("2025-06-12"), Category: "fuel", Amount: schema.Float(120)},
		{Kind: schema.ExpenseRecord, Date: day("2025-06-14"), Category: "a-very-long-category-name-that-keeps-going-and-going", Amount: schema.Float(30)},
		{Kind: schema.ExpenseRecord, Date: day("2025-06-01"), Category: "fuel", Amount: schema.Float(100)},
		{Kind: schema.CropRecord, Date: day("2025-06-02"), Category: "corn", Area: schema.Float(4)},
	}
	assembler := core.NewAssembler(
		core.WithClock(func() time.Time { return fixedNow }),
		core.WithIDGenerator(func() string { return "report-1" }),
	)
	report, err := assembler.Generate(context.Background(), schema.PresetSpec(schema.Last7Days), schema.DefaultTrendMetrics, core.StaticFetch(records))
	require.NoError(t, err)
	return report
}

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:    output,
		Precision: 2,
		Width:     60,
		Backend:   schema.SQLiteBackend,
	}
}

func TestWriteReportResultsTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReportResults(&buf, sampleReport(t), testConfig(schema.TextOut), 150*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Farm report 2025-06-08..2025-06-15 compared with 2025-05-31..2025-06-07")
	assert.Contains(t, output, "total_expenses")
	assert.Contains(t, output, "150.00")
	assert.Contains(t, output, "+50.00%")
	assert.Contains(t, output, "▲ up")
	assert.Contains(t, output, "★ new")
	assert.Contains(t, output, "= stable")
	assert.Contains(t, output, "n/a")
	assert.Contains(t, output, "expense_category")
	assert.Contains(t, output, "...")
	assert.Contains(t, output, "2025-06")
	assert.Contains(t, output, "Trends: 2 up, 0 down, 1 stable, 1 new")
	assert.Contains(t, output, "Report report-1 generated in 150ms. Store backend: sqlite")
}

func TestWriteReportResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportResults(&buf, sampleReport(t), testConfig(schema.JSONOut), 0))

	var decoded schema.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "report-1", decoded.ID)
	require.Len(t, decoded.Trends, 4)
	assert.Equal(t, schema.MetricTotalExpenses, decoded.Trends[0].Metric)
	assert.Equal(t, schema.TrendUp, decoded.Trends[0].Classification)
	assert.Nil(t, decoded.Trends[2].ChangePercent)
	assert.InDelta(t, 150.0, decoded.Aggregation.Summary[schema.MetricTotalExpenses], 1e-9)
	assert.Contains(t, buf.String(), `"change_percent": 50`)
}

func TestWriteReportResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportResults(&buf, sampleReport(t), testConfig(schema.CSVOut), 0))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"section", "name", "key", "count", "value", "previous", "change_percent", "classification"}, rows[0])
	assert.Equal(t, []string{"trend", "total_expenses", "", "", "150.00", "100.00", "50.00", "up"}, rows[1])
	assert.Equal(t, []string{"trend", "projected_revenue", "", "", "20.00", "0.00", "", "new"}, rows[3])

	sections := map[string]int{}
	for _, row := range rows[1:] {
		sections[row[0]]++
	}
	assert.Equal(t, 4, sections["trend"])
	assert.Equal(t, len(schema.SummaryMetricOrder), sections["summary"])
	assert.Equal(t, 3, sections["distribution"])
	assert.Equal(t, 1, sections["monthly"])
}

func TestWriteReportResultsXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportResults(&buf, sampleReport(t), testConfig(schema.XLSXOut), 0))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{summarySheet, trendsSheet, distributionsSheet, monthlySheet}, f.GetSheetList())

	trends, err := f.GetRows(trendsSheet)
	require.NoError(t, err)
	require.Len(t, trends, 5)
	assert.Equal(t, []string{"metric", "current", "previous", "change_percent", "classification"}, trends[0])
	assert.Equal(t, "total_expenses", trends[1][0])
	assert.Equal(t, "up", trends[1][4])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"report_id", "report-1"}, summary[0])
	assert.Equal(t, []string{"period", "2025-06-08..2025-06-15"}, summary[2])

	monthly, err := f.GetRows(monthlySheet)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, "2025-06", monthly[1][0])
}

func TestOutWriterWriteReportToFile(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, NewOutWriter().WriteReport(sampleReport(t), cfg, 0))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": "report-1"`)
}

func TestOutWriterWriteReportBadPath(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "missing", "report.json")

	assert.Error(t, NewOutWriter().WriteReport(sampleReport(t), cfg, 0))
}

func sampleRuns() []schema.ReportRunRecord {
	trends := `[{"metric":"total_area","classification":"up"}]`
	return []schema.ReportRunRecord{
		{
			RunID:         "run-2",
			GeneratedAt:   time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
			PeriodStart:   day("2025-06-08"),
			PeriodEnd:     day("2025-06-15"),
			PreviousStart: day("2025-05-31"),
			PreviousEnd:   day("2025-06-07"),
			Metrics:       "total_area",
			TrendsJSON:    &trends,
			RecordCount:   3,
		},
		{
			RunID:         "run-1",
			GeneratedAt:   time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC),
			PeriodStart:   day("2025-05-16"),
			PeriodEnd:     day("2025-06-14"),
			PreviousStart: day("2025-04-15"),
			PreviousEnd:   day("2025-05-15"),
			Metrics:       "total_expenses,total_area",
			RecordCount:   7,
		},
	}
}

func TestWriteRunResults(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRunResults(&buf, sampleRuns(), testConfig(schema.TextOut)))
		output := buf.String()
		assert.Contains(t, output, "run-2")
		assert.Contains(t, output, "2025-06-08..2025-06-15")
		assert.Contains(t, output, "Showing 2 most recent runs")
	})

	t.Run("text empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRunResults(&buf, nil, testConfig(schema.TextOut)))
		assert.Equal(t, "No report runs recorded yet.\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRunResults(&buf, sampleRuns(), testConfig(schema.JSONOut)))
		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, "run-2", decoded[0]["run_id"])
		assert.Equal(t, "2025-06-08..2025-06-15", decoded[0]["period"])
		assert.NotNil(t, decoded[0]["trends"])
		assert.NotContains(t, decoded[1], "trends")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRunResults(&buf, sampleRuns(), testConfig(schema.CSVOut)))
		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "run_id", rows[0][0])
		assert.Equal(t, []string{"run-1", "2025-06-14T09:00:00Z", "2025-05-16", "2025-06-14", "2025-04-15", "2025-05-15", "total_expenses,total_area", "7"}, rows[2])
	})
}

func TestFormatChange(t *testing.T) {
	assert.Equal(t, "n/a", formatChange(nil, 1))
	assert.Equal(t, "+12.5%", formatChange(schema.Float(12.5), 1))
	assert.Equal(t, "-3.00%", formatChange(schema.Float(-3), 2))
	assert.Equal(t, "+0.0%", formatChange(schema.Float(0), 1))
}

func TestFormatMetricValue(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	assert.Equal(t, "7", formatMetricValue(7, schema.UnitCount, fmtFloat, intFmt))
	assert.Equal(t, "7.00", formatMetricValue(7, schema.UnitCurrency, fmtFloat, intFmt))
	assert.Equal(t, "1.50", formatMetricValue(1.5, "", fmtFloat, intFmt))
}

func TestGetMaxTableKeyWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{width: 30, want: 12},
		{width: 80, want: 40},
		{width: 200, want: 60},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetMaxTableKeyWidth(&contract.Config{Width: tt.width}))
	}
}

func TestTrendLabel(t *testing.T) {
	assert.Equal(t, "▼ down", trendLabel(schema.TrendDown, false))
	assert.Contains(t, trendLabel(schema.TrendDown, true), "▼ down")
}
