// Package schema has models and global variables for all parts of farmstat.
package schema

import (
	"fmt"
	"time"
)

// DateLayout is the calendar day representation used across inputs and outputs.
const DateLayout = "2006-01-02"

// Record is a single flat farm record as handed over by the persistence layer.
// Numeric fields are nullable; a nil value counts as zero in sums.
type Record struct {
	ID            int64      `json:"id,omitempty" validate:"gte=0"`
	Kind          RecordKind `json:"kind" validate:"required,oneof=crop expense livestock_expense"`
	Date          time.Time  `json:"date" validate:"required"`
	Category      string     `json:"category" validate:"max=100"` // crop type or expense category
	Amount        *float64   `json:"amount,omitempty"`            // expense amount
	Area          *float64   `json:"area,omitempty" validate:"omitempty,gte=0"`
	ExpectedYield *float64   `json:"expected_yield,omitempty" validate:"omitempty,gte=0"`
	MarketPrice   *float64   `json:"market_price,omitempty" validate:"omitempty,gte=0"`
	Note          string     `json:"note,omitempty" validate:"max=500"`
}

// RecordSet is an ordered sequence of records.
type RecordSet []Record

// AmountValue returns the amount or zero when it is missing.
func (r Record) AmountValue() float64 { return valueOrZero(r.Amount) }

// AreaValue returns the area or zero when it is missing.
func (r Record) AreaValue() float64 { return valueOrZero(r.Area) }

// RevenueValue returns expected_yield * market_price, missing factors count as zero.
func (r Record) RevenueValue() float64 {
	return valueOrZero(r.ExpectedYield) * valueOrZero(r.MarketPrice)
}

// IsExpense reports whether the record is a cost of any kind.
func (r Record) IsExpense() bool {
	return r.Kind == ExpenseRecord || r.Kind == LivestockExpenseRecord
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float returns a pointer to v, handy for building records.
func Float(v float64) *float64 { return &v }

// DateRange is an inclusive window of whole calendar days in UTC.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Day truncates t to its calendar day, keeping the wall-clock date of t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDateRange builds a day-granular range without validating order.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// Contains reports whether t falls on a day inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of days between Start and End (zero for a single-day range).
func (r DateRange) Days() int {
	return int((r.End.Unix() - r.Start.Unix()) / 86400)
}

// String renders the range as "start..end".
func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

// RangeSpec is either a named preset or an explicit range. Range wins when both are set.
type RangeSpec struct {
	Preset Preset     `json:"preset,omitempty"`
	Range  *DateRange `json:"range,omitempty"`
}

// PresetSpec builds a RangeSpec for a preset.
func PresetSpec(p Preset) RangeSpec { return RangeSpec{Preset: p} }

// ExplicitSpec builds a RangeSpec for an explicit range.
func ExplicitSpec(start, end time.Time) RangeSpec {
	r := NewDateRange(start, end)
	return RangeSpec{Range: &r}
}

// String describes the range spec for logs and headers.
func (s RangeSpec) String() string {
	if s.Range != nil {
		return s.Range.String()
	}
	return string(s.Preset)
}
