package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/farmstat/schema"
)

// Trend label constants.
const (
	UpArrow   = "▲"
	DownArrow = "▼"
	NewMarker = "★"
	FlatMark  = "="
)

// Color variables for console output.
var (
	UpColor     = color.New(color.FgGreen, color.Bold) // growth in the metric
	DownColor   = color.New(color.FgRed, color.Bold)   // decline in the metric
	StableColor = color.New(color.FgYellow)            // inside the stable band
	NewColor    = color.New(color.FgCyan)              // no baseline to compare against
)

// GetPlainTrendLabel returns a plain text label for a classification.
// This is the core logic used for CSV and table printing.
func GetPlainTrendLabel(c schema.Classification) string {
	switch c {
	case schema.TrendUp:
		return UpArrow + " up"
	case schema.TrendDown:
		return DownArrow + " down"
	case schema.TrendNew:
		return NewMarker + " new"
	default:
		return FlatMark + " stable"
	}
}

// GetColorTrendLabel returns a colored trend label for console output (table).
func GetColorTrendLabel(c schema.Classification) string {
	text := GetPlainTrendLabel(c)

	switch c {
	case schema.TrendUp:
		return UpColor.Sprint(text)
	case schema.TrendDown:
		return DownColor.Sprint(text)
	case schema.TrendNew:
		return NewColor.Sprint(text)
	default:
		return StableColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// TruncateKey truncates a distribution key to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateKey(key string, maxWidth int) string {
	runes := []rune(key)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return key
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
