package core

import (
	"sort"

	"github.com/huangsam/farmstat/schema"
)

// DefaultMonthlyWindow is the number of most recent monthly buckets kept.
const DefaultMonthlyWindow = 12

// Grouping names one distribution: which records take part, how they are keyed
// and which value is summed per group.
type Grouping struct {
	Name  string
	Kind  schema.RecordKind // empty matches every kind
	Key   func(schema.Record) string
	Value func(schema.Record) float64
}

// AggregateOptions tunes the aggregation. The zero value is not useful; start from DefaultAggregateOptions.
type AggregateOptions struct {
	Groupings     []Grouping
	MonthlyWindow int
	MonthlyKinds  []schema.RecordKind // empty matches every kind
	MonthlyValue  func(schema.Record) float64
}

// Distribution names used by the default groupings.
const (
	CropTypeDistribution          = "crop_type"
	ExpenseCategoryDistribution   = "expense_category"
	LivestockCategoryDistribution = "livestock_category"
)

func categoryKey(r schema.Record) string {
	if r.Category == "" {
		return "uncategorized"
	}
	return r.Category
}

// DefaultAggregateOptions groups crops by type and costs by category, and rolls up
// expense amounts per month.
func DefaultAggregateOptions() AggregateOptions {
	return AggregateOptions{
		Groupings: []Grouping{
			{Name: CropTypeDistribution, Kind: schema.CropRecord, Key: categoryKey, Value: schema.Record.AreaValue},
			{Name: ExpenseCategoryDistribution, Kind: schema.ExpenseRecord, Key: categoryKey, Value: schema.Record.AmountValue},
			{Name: LivestockCategoryDistribution, Kind: schema.LivestockExpenseRecord, Key: categoryKey, Value: schema.Record.AmountValue},
		},
		MonthlyWindow: DefaultMonthlyWindow,
		MonthlyKinds:  []schema.RecordKind{schema.ExpenseRecord, schema.LivestockExpenseRecord},
		MonthlyValue:  schema.Record.AmountValue,
	}
}

// Aggregate reduces the records that fall inside r into summary metrics,
// distributions and monthly buckets. It is pure: the same input always yields the same result.
func Aggregate(records schema.RecordSet, r schema.DateRange, opts AggregateOptions) schema.AggregationResult {
	summary := map[string]float64{}
	for _, m := range schema.SummaryMetricOrder {
		summary[m.Name] = 0
	}

	inRange := make(schema.RecordSet, 0, len(records))
	for _, rec := range records {
		if !r.Contains(rec.Date) {
			continue
		}
		inRange = append(inRange, rec)

		summary[schema.MetricTotalRecords]++
		switch rec.Kind {
		case schema.CropRecord:
			summary[schema.MetricTotalCrops]++
			summary[schema.MetricTotalArea] += rec.AreaValue()
			summary[schema.MetricProjectedRevenue] += rec.RevenueValue()
		case schema.ExpenseRecord:
			summary[schema.MetricExpenseCount]++
			summary[schema.MetricTotalExpenses] += rec.AmountValue()
		case schema.LivestockExpenseRecord:
			summary[schema.MetricLivestockExpenseCount]++
			summary[schema.MetricTotalLivestockExpenses] += rec.AmountValue()
		}
	}
	summary[schema.MetricTotalCosts] = summary[schema.MetricTotalExpenses] + summary[schema.MetricTotalLivestockExpenses]
	summary[schema.MetricNetProjection] = summary[schema.MetricProjectedRevenue] - summary[schema.MetricTotalCosts]

	distributions := make([]schema.Distribution, 0, len(opts.Groupings))
	for _, g := range opts.Groupings {
		distributions = append(distributions, distribute(inRange, g))
	}

	return schema.AggregationResult{
		Summary:       summary,
		Distributions: distributions,
		Monthly:       monthlyBuckets(inRange, opts),
	}
}

// distribute groups records of the grouping's kind by key.
func distribute(records schema.RecordSet, g Grouping) schema.Distribution {
	index := make(map[string]int)
	groups := make([]schema.DistributionGroup, 0)
	for _, rec := range records {
		if g.Kind != "" && rec.Kind != g.Kind {
			continue
		}
		key := g.Key(rec)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, schema.DistributionGroup{Key: key})
		}
		groups[i].Count++
		if g.Value != nil {
			groups[i].Sum += g.Value(rec)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return schema.Distribution{Name: g.Name, Groups: groups}
}

// monthlyBuckets rolls records up by calendar month, newest first, keeping only
// months that have records and at most opts.MonthlyWindow of them.
func monthlyBuckets(records schema.RecordSet, opts AggregateOptions) []schema.MonthlyBucket {
	window := opts.MonthlyWindow
	if window <= 0 {
		window = DefaultMonthlyWindow
	}
	kinds := make(map[schema.RecordKind]struct{}, len(opts.MonthlyKinds))
	for _, k := range opts.MonthlyKinds {
		kinds[k] = struct{}{}
	}

	index := make(map[string]int)
	buckets := make([]schema.MonthlyBucket, 0)
	for _, rec := range records {
		if len(kinds) > 0 {
			if _, ok := kinds[rec.Kind]; !ok {
				continue
			}
		}
		month := rec.Date.Format("2006-01")
		i, ok := index[month]
		if !ok {
			i = len(buckets)
			index[month] = i
			buckets = append(buckets, schema.MonthlyBucket{Month: month})
		}
		buckets[i].Count++
		if opts.MonthlyValue != nil {
			buckets[i].Total += opts.MonthlyValue(rec)
		}
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Month > buckets[j].Month })
	if len(buckets) > window {
		buckets = buckets[:window]
	}
	return buckets
}
