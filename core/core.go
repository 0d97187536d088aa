// Package core has the reporting engine: range resolution, aggregation, trend comparison
// and report assembly.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/farmstat/schema"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// FetchFunc loads the records of one range. Implementations must honor ctx cancellation.
type FetchFunc func(ctx context.Context, r schema.DateRange) (schema.RecordSet, error)

// Assembler orchestrates range resolution, fetching, aggregation and comparison into a Report.
// It holds no per-report state and is safe for concurrent use.
type Assembler struct {
	now       func() time.Time
	newID     func() string
	aggregate AggregateOptions
}

// AssemblerOption customizes an Assembler.
type AssemblerOption func(*Assembler)

// WithClock sets the clock used to resolve presets and stamp reports.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) { a.now = now }
}

// WithIDGenerator sets the report ID generator.
func WithIDGenerator(newID func() string) AssemblerOption {
	return func(a *Assembler) { a.newID = newID }
}

// WithAggregateOptions replaces the default groupings and monthly window.
func WithAggregateOptions(opts AggregateOptions) AssemblerOption {
	return func(a *Assembler) { a.aggregate = opts }
}

// WithMonthlyWindow caps the number of monthly buckets.
func WithMonthlyWindow(n int) AssemblerOption {
	return func(a *Assembler) { a.aggregate.MonthlyWindow = n }
}

// NewAssembler creates an Assembler with the wall clock, UUID report IDs and default aggregation.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		now:       time.Now,
		newID:     uuid.NewString,
		aggregate: DefaultAggregateOptions(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type generateConfig struct {
	previous     *schema.RangeSpec
	yearOverYear bool
}

// GenerateOption customizes a single Generate call.
type GenerateOption func(*generateConfig)

// WithPreviousRange compares against an explicit baseline instead of the adjacent period.
func WithPreviousRange(spec schema.RangeSpec) GenerateOption {
	return func(c *generateConfig) { c.previous = &spec }
}

// WithYearOverYear compares against the same calendar days one year earlier.
// An explicit WithPreviousRange takes precedence.
func WithYearOverYear() GenerateOption {
	return func(c *generateConfig) { c.yearOverYear = true }
}

// Generate builds the report for spec. Both periods are fetched concurrently and the
// result is all-or-nothing: any fetch failure or cancellation aborts without a partial report.
func (a *Assembler) Generate(ctx context.Context, spec schema.RangeSpec, metricNames []string, fetch FetchFunc, opts ...GenerateOption) (schema.Report, error) {
	if err := ctx.Err(); err != nil {
		return schema.Report{}, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	var gc generateConfig
	for _, opt := range opts {
		opt(&gc)
	}

	now := a.now()
	period, previousPeriod, err := ResolvePeriods(spec, gc.previous, now)
	if err != nil {
		return schema.Report{}, err
	}
	if gc.yearOverYear && gc.previous == nil {
		previousPeriod = SamePeriodLastYear(period)
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("spec", spec.String()).
		Stringer("period", period).
		Stringer("previous_period", previousPeriod).
		Msg("resolved report periods")

	var current, previous schema.RecordSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := fetch(gctx, period)
		if err != nil {
			return fmt.Errorf("%w: current period %s: %w", ErrFetchFailed, period, err)
		}
		current = records
		return nil
	})
	g.Go(func() error {
		records, err := fetch(gctx, previousPeriod)
		if err != nil {
			return fmt.Errorf("%w: previous period %s: %w", ErrFetchFailed, previousPeriod, err)
		}
		previous = records
		return nil
	})
	waitErr := g.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return schema.Report{}, fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
	}
	if waitErr != nil {
		return schema.Report{}, waitErr
	}

	currentAgg := Aggregate(current, period, a.aggregate)
	previousAgg := Aggregate(previous, previousPeriod, a.aggregate)

	trends, err := Compare(currentAgg, previousAgg, metricNames)
	if err != nil {
		return schema.Report{}, err
	}

	logger.Debug().
		Int("current_records", len(current)).
		Int("previous_records", len(previous)).
		Int("trends", len(trends)).
		Msg("report assembled")

	return schema.Report{
		ID:                  a.newID(),
		GeneratedAt:         now,
		Period:              period,
		PreviousPeriod:      previousPeriod,
		Aggregation:         currentAgg,
		PreviousAggregation: previousAgg,
		Trends:              trends,
	}, nil
}

// StaticFetch serves records from memory, filtered to the requested range.
// Useful for callers that already hold the full record set.
func StaticFetch(records schema.RecordSet) FetchFunc {
	return func(ctx context.Context, r schema.DateRange) (schema.RecordSet, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := make(schema.RecordSet, 0, len(records))
		for _, rec := range records {
			if r.Contains(rec.Date) {
				out = append(out, rec)
			}
		}
		return out, nil
	}
}
