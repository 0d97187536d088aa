package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

// TestParseRelativeTimeUnit covers various valid and invalid cases.
func TestParseRelativeTimeUnit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "valid plural months (mixed case)",
			input:    "3 MoNtHs AgO",
			expected: fixedNow.AddDate(0, -3, 0),
		},
		{
			name:     "valid singular week (capitalized)",
			input:    "1 Week Ago",
			expected: fixedNow.AddDate(0, 0, -7),
		},
		{
			name:     "valid 10 days (upper case)",
			input:    "10 DAYS AGO",
			expected: fixedNow.AddDate(0, 0, -10),
		},
		{
			name:     "valid year",
			input:    "1 year ago",
			expected: fixedNow.AddDate(-1, 0, 0),
		},
		{
			name:        "invalid missing ago",
			input:       "2 years",
			expectError: true,
		},
		{
			name:        "invalid bad unit (decades)",
			input:       "4 decades ago",
			expectError: true,
		},
		{
			name:        "sub-day units are not calendar days",
			input:       "5 hours ago",
			expectError: true,
		},
		{
			name:        "invalid non-numeric value",
			input:       "one year ago",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseRelativeTime(tt.input, fixedNow)

			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		expectErr bool
	}{
		{"calendar day", "2025-03-01", "2025-03-01", false},
		{"rfc3339 is truncated", "2025-03-01T23:59:00Z", "2025-03-01", false},
		{"relative", "2 days ago", "2025-11-01", false},
		{"surrounding space", "  2025-03-01 ", "2025-03-01", false},
		{"garbage", "yesterday", "", true},
		{"bad month", "2025-13-01", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input, fixedNow)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

// FuzzParseRelativeTime fuzzes the ParseRelativeTime function with random inputs.
func FuzzParseRelativeTime(f *testing.F) {
	seeds := []string{
		"1 year ago",
		"2 months ago",
		"3 weeks ago",
		"4 days ago",
		"10 years ago",
		"0 years ago", // edge case
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, input string) {
		_, err := ParseRelativeTime(input, fixedNow)
		_ = err // testing for crashes only
	})
}

// FuzzParseDay fuzzes ParseDay, which must never panic on user input.
func FuzzParseDay(f *testing.F) {
	for _, seed := range []string{"2025-01-01", "2025-01-01T00:00:00Z", "3 weeks ago", "", "9999-99-99"} {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, input string) {
		_, _ = ParseDay(input, fixedNow)
	})
}
