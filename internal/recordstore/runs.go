package recordstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/farmstat/schema"
)

const runColumns = "run_id, generated_at, period_start, period_end, previous_start, previous_end, metrics, trends_json, record_count"

// RecordRun stores one generated report in the run history.
func (s *Store) RecordRun(ctx context.Context, run schema.ReportRunRecord) error {
	// Skip for NoneBackend
	if s.disabled() {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteTableName(reportRunsTable, s.backend), runColumns, s.placeholders(9))
	_, err := s.db.ExecContext(ctx, query,
		run.RunID,
		formatTime(run.GeneratedAt, s.backend),
		run.PeriodStart.Format(schema.DateLayout),
		run.PeriodEnd.Format(schema.DateLayout),
		run.PreviousStart.Format(schema.DateLayout),
		run.PreviousEnd.Format(schema.DateLayout),
		run.Metrics,
		run.TrendsJSON,
		run.RecordCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent report runs, newest first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]schema.ReportRunRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY generated_at DESC, run_id DESC`,
		runColumns, quoteTableName(reportRunsTable, s.backend))
	var args []any
	if limit > 0 {
		query += " LIMIT " + s.placeholder(1)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRunRecord
	for rows.Next() {
		var (
			run                                 schema.ReportRunRecord
			generatedAt                         any
			start, end, previousStart, previous string
			trends                              sql.NullString
		)
		if err := rows.Scan(&run.RunID, &generatedAt, &start, &end, &previousStart, &previous, &run.Metrics, &trends, &run.RecordCount); err != nil {
			return nil, fmt.Errorf("failed to scan report run: %w", err)
		}
		generated, err := scanTime(generatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse generated_at: %w", err)
		}
		run.GeneratedAt = generated
		days := []struct {
			raw string
			dst *time.Time
		}{
			{start, &run.PeriodStart},
			{end, &run.PeriodEnd},
			{previousStart, &run.PreviousStart},
			{previous, &run.PreviousEnd},
		}
		for _, d := range days {
			parsed, err := time.Parse(schema.DateLayout, d.raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse period bound %q: %w", d.raw, err)
			}
			*d.dst = parsed
		}
		if trends.Valid {
			run.TrendsJSON = &trends.String
		}
		results = append(results, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return results, nil
}
