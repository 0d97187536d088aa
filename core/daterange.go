package core

import (
	"fmt"
	"time"

	"github.com/huangsam/farmstat/schema"
)

// ResolveRange turns a preset token or explicit bounds into a day-granular range.
// Presets are computed from now; "ly" is the closed previous calendar year.
func ResolveRange(spec schema.RangeSpec, now time.Time) (schema.DateRange, error) {
	if spec.Range != nil {
		r := schema.NewDateRange(spec.Range.Start, spec.Range.End)
		if r.Start.After(r.End) {
			return schema.DateRange{}, fmt.Errorf("%w: start %s is after end %s",
				ErrInvalidRange, r.Start.Format(schema.DateLayout), r.End.Format(schema.DateLayout))
		}
		return r, nil
	}

	today := schema.Day(now)
	switch spec.Preset {
	case schema.Last7Days:
		return schema.DateRange{Start: today.AddDate(0, 0, -7), End: today}, nil
	case schema.Last30Days:
		return schema.DateRange{Start: today.AddDate(0, 0, -30), End: today}, nil
	case schema.Last3Months:
		return schema.DateRange{Start: today.AddDate(0, -3, 0), End: today}, nil
	case schema.Last6Months:
		return schema.DateRange{Start: today.AddDate(0, -6, 0), End: today}, nil
	case schema.YearToDate:
		return schema.DateRange{Start: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), End: today}, nil
	case schema.LastYear:
		year := today.Year() - 1
		return schema.DateRange{
			Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		}, nil
	default:
		return schema.DateRange{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidRange, spec.Preset)
	}
}

// PreviousPeriodOf returns the range of equal length ending the day before r starts.
func PreviousPeriodOf(r schema.DateRange) schema.DateRange {
	end := r.Start.AddDate(0, 0, -1)
	return schema.DateRange{Start: end.AddDate(0, 0, -r.Days()), End: end}
}

// SamePeriodLastYear shifts r back by one calendar year.
func SamePeriodLastYear(r schema.DateRange) schema.DateRange {
	return schema.DateRange{Start: r.Start.AddDate(-1, 0, 0), End: r.End.AddDate(-1, 0, 0)}
}

// ResolvePeriods resolves the current range and its comparison baseline.
// With a nil previous range spec the baseline is the adjacent period of equal length.
func ResolvePeriods(spec schema.RangeSpec, previous *schema.RangeSpec, now time.Time) (current, prior schema.DateRange, err error) {
	current, err = ResolveRange(spec, now)
	if err != nil {
		return schema.DateRange{}, schema.DateRange{}, err
	}
	if previous == nil {
		return current, PreviousPeriodOf(current), nil
	}
	prior, err = ResolveRange(*previous, now)
	if err != nil {
		return schema.DateRange{}, schema.DateRange{}, fmt.Errorf("previous period: %w", err)
	}
	return current, prior, nil
}

// PresetRange is a preset together with the ranges it resolves to on a given day.
type PresetRange struct {
	Preset   schema.Preset    `json:"preset"`
	Range    schema.DateRange `json:"range"`
	Previous schema.DateRange `json:"previous"`
	Label    string           `json:"label"`
}

// PresetRanges resolves every preset against now, in display order.
func PresetRanges(now time.Time) []PresetRange {
	out := make([]PresetRange, 0, len(schema.AllPresets))
	for _, p := range schema.AllPresets {
		current, previous, err := ResolvePeriods(schema.PresetSpec(p), nil, now)
		if err != nil {
			continue
		}
		out = append(out, PresetRange{Preset: p, Range: current, Previous: previous, Label: current.String()})
	}
	return out
}

// ParsePreset validates a preset token.
func ParsePreset(s string) (schema.Preset, error) {
	p := schema.Preset(s)
	if _, ok := schema.ValidPresets[p]; !ok {
		return "", fmt.Errorf("%w: unknown preset %q", ErrInvalidRange, s)
	}
	return p, nil
}
