//go:build basic || database

package integration

import (
	"encoding/json"
	"testing"

	"github.com/huangsam/farmstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// verifyJuneReport checks the June 2025 report built from testdata/records.csv.
func verifyJuneReport(t *testing.T, out string) schema.Report {
	t.Helper()
	var report schema.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, "2025-06-01..2025-06-30", report.Period.String())
	assert.Equal(t, "2025-05-02..2025-05-31", report.PreviousPeriod.String())

	summary := report.Aggregation.Summary
	assert.InDelta(t, 3, summary[schema.MetricTotalRecords], 1e-9)
	assert.InDelta(t, 150, summary[schema.MetricTotalExpenses], 1e-9)
	assert.InDelta(t, 40, summary[schema.MetricTotalLivestockExpenses], 1e-9)
	assert.InDelta(t, 20, summary[schema.MetricProjectedRevenue], 1e-9)

	want := map[string]schema.Classification{
		schema.MetricTotalExpenses:    schema.TrendUp,
		schema.MetricTotalArea:        schema.TrendStable,
		schema.MetricProjectedRevenue: schema.TrendNew,
		schema.MetricTotalCrops:       schema.TrendStable,
	}
	require.Len(t, report.Trends, len(want))
	for i, name := range schema.DefaultTrendMetrics {
		assert.Equal(t, name, report.Trends[i].Metric)
		assert.Equal(t, want[name], report.Trends[i].Classification, name)
	}
	return report
}
