package core

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/farmstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssembler() *Assembler {
	return NewAssembler(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "report-1" }),
	)
}

func seasonRecords() schema.RecordSet {
	return schema.RecordSet{
		// current 7d period: 2025-06-08..2025-06-15
		crop("2025-06-09", "maize", 10, 3, 200),
		expense("2025-06-10", "feed", 120),
		expense("2025-06-15", "fuel", 30),
		// previous period: 2025-05-31..2025-06-07
		expense("2025-06-01", "feed", 100),
		crop("2025-06-07", "maize", 4, 3, 200),
	}
}

func TestGenerate(t *testing.T) {
	report, err := testAssembler().Generate(
		context.Background(),
		schema.PresetSpec(schema.Last7Days),
		[]string{schema.MetricTotalExpenses, schema.MetricTotalArea, schema.MetricTotalLivestockExpenses},
		StaticFetch(seasonRecords()),
	)
	require.NoError(t, err)

	assert.Equal(t, "report-1", report.ID)
	assert.Equal(t, fixedNow, report.GeneratedAt)
	assert.Equal(t, "2025-06-08..2025-06-15", report.Period.String())
	assert.Equal(t, "2025-05-31..2025-06-07", report.PreviousPeriod.String())

	assert.Equal(t, 150.0, report.Aggregation.Summary[schema.MetricTotalExpenses])
	assert.Equal(t, 100.0, report.PreviousAggregation.Summary[schema.MetricTotalExpenses])

	require.Len(t, report.Trends, 3)
	assert.Equal(t, schema.MetricTotalExpenses, report.Trends[0].Metric)
	assert.Equal(t, schema.TrendUp, report.Trends[0].Classification)
	require.NotNil(t, report.Trends[0].ChangePercent)
	assert.InDelta(t, 50.0, *report.Trends[0].ChangePercent, 1e-9)

	assert.Equal(t, schema.MetricTotalArea, report.Trends[1].Metric)
	assert.Equal(t, schema.TrendUp, report.Trends[1].Classification)

	assert.Equal(t, schema.MetricTotalLivestockExpenses, report.Trends[2].Metric)
	assert.Equal(t, schema.TrendNew, report.Trends[2].Classification)
}

func TestGenerateWithPreviousRange(t *testing.T) {
	var calls atomic.Int32
	records := seasonRecords()
	fetch := func(ctx context.Context, r schema.DateRange) (schema.RecordSet, error) {
		calls.Add(1)
		return StaticFetch(records)(ctx, r)
	}

	baseline := schema.ExplicitSpec(day("2024-06-08"), day("2024-06-15"))
	report, err := testAssembler().Generate(
		context.Background(),
		schema.PresetSpec(schema.Last7Days),
		[]string{schema.MetricTotalExpenses},
		fetch,
		WithPreviousRange(baseline),
	)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "2024-06-08..2024-06-15", report.PreviousPeriod.String())
	assert.Equal(t, schema.TrendNew, report.Trends[0].Classification)
}

func TestGenerateInvalidRange(t *testing.T) {
	var calls atomic.Int32
	fetch := func(context.Context, schema.DateRange) (schema.RecordSet, error) {
		calls.Add(1)
		return nil, nil
	}
	report, err := testAssembler().Generate(
		context.Background(),
		schema.ExplicitSpec(day("2025-06-10"), day("2025-06-01")),
		nil,
		fetch,
	)
	require.ErrorIs(t, err, ErrInvalidRange)
	assert.Empty(t, report.ID)
	assert.Zero(t, calls.Load(), "no fetch happens for an invalid range")
}

func TestGenerateMetricNotFound(t *testing.T) {
	report, err := testAssembler().Generate(
		context.Background(),
		schema.PresetSpec(schema.Last7Days),
		[]string{schema.MetricTotalExpenses, "soil_moisture"},
		StaticFetch(seasonRecords()),
	)
	require.ErrorIs(t, err, ErrMetricNotFound)
	assert.Nil(t, report.Trends)
	assert.Empty(t, report.ID)
}

func TestGenerateFetchFailed(t *testing.T) {
	errDown := errors.New("database is down")
	period, _ := ResolveRange(schema.PresetSpec(schema.Last7Days), fixedNow)

	tests := []struct {
		name  string
		fails func(schema.DateRange) bool
	}{
		{name: "previous fetch fails", fails: func(r schema.DateRange) bool { return r != period }},
		{name: "current fetch fails", fails: func(r schema.DateRange) bool { return r == period }},
		{name: "both fetches fail", fails: func(schema.DateRange) bool { return true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetch := func(ctx context.Context, r schema.DateRange) (schema.RecordSet, error) {
				if tt.fails(r) {
					return nil, errDown
				}
				return StaticFetch(seasonRecords())(ctx, r)
			}
			report, err := testAssembler().Generate(
				context.Background(),
				schema.PresetSpec(schema.Last7Days),
				[]string{schema.MetricTotalExpenses},
				fetch,
			)
			require.ErrorIs(t, err, ErrFetchFailed)
			assert.ErrorIs(t, err, errDown)
			assert.NotErrorIs(t, err, ErrCancelled)
			assert.Equal(t, schema.Report{}, report)
		})
	}
}

func TestGenerateCancelled(t *testing.T) {
	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls atomic.Int32
		fetch := func(context.Context, schema.DateRange) (schema.RecordSet, error) {
			calls.Add(1)
			return nil, nil
		}
		report, err := testAssembler().Generate(ctx, schema.PresetSpec(schema.Last7Days), nil, fetch)
		require.ErrorIs(t, err, ErrCancelled)
		assert.NotErrorIs(t, err, ErrFetchFailed)
		assert.Zero(t, calls.Load())
		assert.Equal(t, schema.Report{}, report)
	})

	t.Run("cancelled while fetching", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		started := make(chan struct{}, 2)
		fetch := func(ctx context.Context, _ schema.DateRange) (schema.RecordSet, error) {
			started <- struct{}{}
			<-ctx.Done()
			return nil, ctx.Err()
		}
		go func() {
			<-started
			cancel()
		}()

		report, err := testAssembler().Generate(ctx, schema.PresetSpec(schema.Last30Days), nil, fetch)
		require.ErrorIs(t, err, ErrCancelled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrFetchFailed)
		assert.Equal(t, schema.Report{}, report)
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		fetch := func(ctx context.Context, _ schema.DateRange) (schema.RecordSet, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		_, err := testAssembler().Generate(ctx, schema.PresetSpec(schema.Last30Days), nil, fetch)
		require.ErrorIs(t, err, ErrCancelled)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("fetch timeout under live parent", func(t *testing.T) {
		fetch := func(ctx context.Context, _ schema.DateRange) (schema.RecordSet, error) {
			fetchCtx, cancel := context.WithTimeout(ctx, time.Millisecond)
			defer cancel()
			<-fetchCtx.Done()
			return nil, fetchCtx.Err()
		}
		report, err := testAssembler().Generate(context.Background(), schema.PresetSpec(schema.Last30Days), nil, fetch)
		require.ErrorIs(t, err, ErrFetchFailed)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, ErrCancelled)
		assert.Equal(t, schema.Report{}, report)
	})
}

func TestGenerateConcurrentCalls(t *testing.T) {
	a := testAssembler()
	records := seasonRecords()

	errs := make(chan error, 8)
	for range 8 {
		go func() {
			_, err := a.Generate(context.Background(), schema.PresetSpec(schema.Last7Days), schema.DefaultTrendMetrics, StaticFetch(records))
			errs <- err
		}()
	}
	for range 8 {
		require.NoError(t, <-errs)
	}
}

func TestStaticFetch(t *testing.T) {
	fetch := StaticFetch(seasonRecords())

	got, err := fetch(context.Background(), schema.DateRange{Start: day("2025-06-08"), End: day("2025-06-15")})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = fetch(ctx, june)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateYearOverYear(t *testing.T) {
	records := append(seasonRecords(), expense("2024-06-10", "feed", 300))

	report, err := testAssembler().Generate(
		context.Background(),
		schema.PresetSpec(schema.Last7Days),
		[]string{schema.MetricTotalExpenses},
		StaticFetch(records),
		WithYearOverYear(),
	)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-08..2024-06-15", report.PreviousPeriod.String())
	assert.Equal(t, schema.TrendDown, report.Trends[0].Classification)

	explicit := schema.ExplicitSpec(day("2025-01-01"), day("2025-01-07"))
	report, err = testAssembler().Generate(
		context.Background(),
		schema.PresetSpec(schema.Last7Days),
		[]string{schema.MetricTotalExpenses},
		StaticFetch(records),
		WithYearOverYear(),
		WithPreviousRange(explicit),
	)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01..2025-01-07", report.PreviousPeriod.String())
}
