package recordstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
)

// CSVColumns is the header accepted by ReadRecordsCSV. Only kind and date are required;
// the remaining columns may be absent or left empty.
var CSVColumns = []string{"kind", "date", "category", "amount", "area", "expected_yield", "market_price", "note"}

// ReadRecordsCSV parses records from CSV with a header row. Columns are matched by name,
// case-insensitively, and every record is validated before any is returned.
func ReadRecordsCSV(r io.Reader) (schema.RecordSet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"kind", "date"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q", required)
		}
	}
	reader.FieldsPerRecord = len(header)

	records := schema.RecordSet{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}
		record, err := parseCSVRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := contract.ValidateRecord(record); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseCSVRow(row []string, index map[string]int) (schema.Record, error) {
	get := func(name string) string {
		i, ok := index[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	record := schema.Record{
		Kind:     schema.RecordKind(strings.ToLower(get("kind"))),
		Category: get("category"),
		Note:     get("note"),
	}
	if raw := get("date"); raw != "" {
		date, err := time.Parse(schema.DateLayout, raw)
		if err != nil {
			return schema.Record{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
		}
		record.Date = date
	}

	fields := []struct {
		name string
		dst  **float64
	}{
		{"amount", &record.Amount},
		{"area", &record.Area},
		{"expected_yield", &record.ExpectedYield},
		{"market_price", &record.MarketPrice},
	}
	for _, f := range fields {
		raw := get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return schema.Record{}, fmt.Errorf("invalid %s %q: %w", f.name, raw, err)
		}
		*f.dst = &v
	}
	return record, nil
}
