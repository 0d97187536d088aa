package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// formatMetricValue prints counts as integers and everything else with the configured precision.
func formatMetricValue(v float64, unit string, fmtFloat func(float64) string, intFmt string) string {
	if unit == schema.UnitCount {
		return fmt.Sprintf(intFmt, int64(v))
	}
	return fmtFloat(v)
}

// formatChange renders a change percent with an explicit sign, or "n/a" without a baseline.
func formatChange(pct *float64, precision int) string {
	if pct == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.*f%%", precision, *pct)
}

// formatChangeRaw renders a change percent for machine readable outputs.
func formatChangeRaw(pct *float64, fmtFloat func(float64) string) string {
	if pct == nil {
		return ""
	}
	return fmtFloat(*pct)
}

// trendLabel picks the colored or plain label.
func trendLabel(c schema.Classification, useColors bool) string {
	if useColors {
		return contract.GetColorTrendLabel(c)
	}
	return contract.GetPlainTrendLabel(c)
}

// metricUnit looks up the unit of a summary metric.
func metricUnit(name string) string {
	for _, m := range schema.SummaryMetricOrder {
		if m.Name == name {
			return m.Unit
		}
	}
	return ""
}

// itoa is strconv.Itoa for table cells.
func itoa(i int) string { return strconv.Itoa(i) }
