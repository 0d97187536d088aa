package core

import (
	"fmt"

	"github.com/huangsam/farmstat/schema"
)

// TrendThreshold is the percent band inside which a change counts as stable.
const TrendThreshold = 5.0

// ClassifyTrend compares one metric across two periods.
// A zero previous value is always "new" and carries no change percent.
func ClassifyTrend(metric string, current, previous float64) schema.TrendResult {
	result := schema.TrendResult{
		Metric:   metric,
		Current:  current,
		Previous: previous,
	}
	if previous == 0 {
		result.Classification = schema.TrendNew
		return result
	}

	pct := (current - previous) / previous * 100
	result.ChangePercent = &pct
	switch {
	case pct > TrendThreshold:
		result.Classification = schema.TrendUp
	case pct < -TrendThreshold:
		result.Classification = schema.TrendDown
	default:
		result.Classification = schema.TrendStable
	}
	return result
}

// Compare builds one trend per requested metric, in the order requested.
// A metric missing from current fails the whole comparison; one missing from
// previous is compared against zero.
func Compare(current, previous schema.AggregationResult, metricNames []string) ([]schema.TrendResult, error) {
	trends := make([]schema.TrendResult, 0, len(metricNames))
	for _, name := range metricNames {
		cur, ok := current.Summary[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMetricNotFound, name)
		}
		prev := previous.Summary[name]
		trends = append(trends, ClassifyTrend(name, cur, prev))
	}
	return trends, nil
}

// TrendCounts tallies classifications, used for report footers and run history.
func TrendCounts(trends []schema.TrendResult) map[schema.Classification]int {
	counts := map[schema.Classification]int{
		schema.TrendNew:    0,
		schema.TrendUp:     0,
		schema.TrendDown:   0,
		schema.TrendStable: 0,
	}
	for _, t := range trends {
		counts[t.Classification]++
	}
	return counts
}
