package recordstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
)

// ErrStoreDisabled is returned when writing records to the none backend.
var ErrStoreDisabled = errors.New("record storage is disabled (backend none)")

const recordColumns = "id, kind, record_date, category, amount, area, expected_yield, market_price, note"

// FetchRecords returns every record whose day falls inside r, ordered by date then id.
func (s *Store) FetchRecords(ctx context.Context, r schema.DateRange) (schema.RecordSet, error) {
	if s.disabled() {
		return schema.RecordSet{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE record_date >= %s AND record_date <= %s ORDER BY record_date, id`,
		recordColumns, quoteTableName(recordsTable, s.backend), s.placeholder(1), s.placeholder(2))

	rows, err := s.db.QueryContext(ctx, query, r.Start.Format(schema.DateLayout), r.End.Format(schema.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := schema.RecordSet{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

// scanRecord reads one row selected with recordColumns.
func scanRecord(rows *sql.Rows) (schema.Record, error) {
	var (
		record                          schema.Record
		kind, day                       string
		amount, area, yield, marketCost sql.NullFloat64
	)
	if err := rows.Scan(&record.ID, &kind, &day, &record.Category, &amount, &area, &yield, &marketCost, &record.Note); err != nil {
		return schema.Record{}, fmt.Errorf("failed to scan record: %w", err)
	}
	date, err := time.Parse(schema.DateLayout, day)
	if err != nil {
		return schema.Record{}, fmt.Errorf("failed to parse record_date %q: %w", day, err)
	}
	record.Kind = schema.RecordKind(kind)
	record.Date = date
	record.Amount = nullableFloat(amount)
	record.Area = nullableFloat(area)
	record.ExpectedYield = nullableFloat(yield)
	record.MarketPrice = nullableFloat(marketCost)
	return record, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// ImportRecords inserts records in one transaction. Either all records are written or none.
func (s *Store) ImportRecords(ctx context.Context, records schema.RecordSet) (int, error) {
	if s.disabled() {
		return 0, ErrStoreDisabled
	}
	if err := contract.ValidateRecords(records); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO %s (kind, record_date, category, amount, area, expected_yield, market_price, note) VALUES (%s)`,
		quoteTableName(recordsTable, s.backend), s.placeholders(8))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, record := range records {
		if _, err := stmt.ExecContext(ctx,
			string(record.Kind),
			schema.Day(record.Date).Format(schema.DateLayout),
			record.Category,
			nullFloat(record.Amount),
			nullFloat(record.Area),
			nullFloat(record.ExpectedYield),
			nullFloat(record.MarketPrice),
			record.Note,
		); err != nil {
			return 0, fmt.Errorf("failed to insert record %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return len(records), nil
}
