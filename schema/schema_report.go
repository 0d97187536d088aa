package schema

import "time"

// Metric is a named numeric observation for one reporting period.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// DistributionGroup is one grouping key of a distribution.
type DistributionGroup struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
}

// Distribution groups records by a key, ordered by count desc then key asc.
type Distribution struct {
	Name   string              `json:"name"`
	Groups []DistributionGroup `json:"groups"`
}

// MonthlyBucket is the rollup of one calendar month.
type MonthlyBucket struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// AggregationResult is the summary of one record set over one period.
type AggregationResult struct {
	Summary       map[string]float64 `json:"summary"`
	Distributions []Distribution     `json:"distributions"`
	Monthly       []MonthlyBucket    `json:"monthly"`
}

// Metrics returns the summary values in canonical order with their units.
// Names outside the canonical list are not included.
func (a AggregationResult) Metrics() []Metric {
	out := make([]Metric, 0, len(SummaryMetricOrder))
	for _, m := range SummaryMetricOrder {
		v, ok := a.Summary[m.Name]
		if !ok {
			continue
		}
		out = append(out, Metric{Name: m.Name, Value: v, Unit: m.Unit})
	}
	return out
}

// Distribution returns the named distribution, if present.
func (a AggregationResult) Distribution(name string) (Distribution, bool) {
	for _, d := range a.Distributions {
		if d.Name == name {
			return d, true
		}
	}
	return Distribution{}, false
}

// TrendResult is the period-over-period change of a single metric.
// ChangePercent is nil when Classification is TrendNew.
type TrendResult struct {
	Metric         string         `json:"metric"`
	Current        float64        `json:"current"`
	Previous       float64        `json:"previous"`
	Classification Classification `json:"classification"`
	ChangePercent  *float64       `json:"change_percent,omitempty"`
}

// Report is the assembled output of one generate call. It is never mutated after assembly.
type Report struct {
	ID                  string            `json:"id"`
	GeneratedAt         time.Time         `json:"generated_at"`
	Period              DateRange         `json:"period"`
	PreviousPeriod      DateRange         `json:"previous_period"`
	Aggregation         AggregationResult `json:"aggregation"`
	PreviousAggregation AggregationResult `json:"previous_aggregation"`
	Trends              []TrendResult     `json:"trends"`
}
