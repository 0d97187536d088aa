package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
)

// runView is the JSON shape of one report run.
type runView struct {
	RunID          string          `json:"run_id"`
	GeneratedAt    string          `json:"generated_at"`
	Period         string          `json:"period"`
	PreviousPeriod string          `json:"previous_period"`
	Metrics        string          `json:"metrics"`
	RecordCount    int32           `json:"record_count"`
	Trends         json.RawMessage `json:"trends,omitempty"`
}

// WriteRunResults outputs the report run history, newest first.
func WriteRunResults(w io.Writer, runs []schema.ReportRunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		views := make([]runView, 0, len(runs))
		for _, run := range runs {
			view := runView{
				RunID:          run.RunID,
				GeneratedAt:    run.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
				Period:         schema.DateRange{Start: run.PeriodStart, End: run.PeriodEnd}.String(),
				PreviousPeriod: schema.DateRange{Start: run.PreviousStart, End: run.PreviousEnd}.String(),
				Metrics:        run.Metrics,
				RecordCount:    run.RecordCount,
			}
			if run.TrendsJSON != nil {
				view.Trends = json.RawMessage(*run.TrendsJSON)
			}
			views = append(views, view)
		}
		return writeJSON(w, views)

	case schema.CSVOut:
		header := []string{"run_id", "generated_at", "period_start", "period_end", "previous_start", "previous_end", "metrics", "record_count"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, run := range runs {
				row := []string{
					run.RunID,
					run.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
					run.PeriodStart.Format(schema.DateLayout),
					run.PeriodEnd.Format(schema.DateLayout),
					run.PreviousStart.Format(schema.DateLayout),
					run.PreviousEnd.Format(schema.DateLayout),
					run.Metrics,
					strconv.Itoa(int(run.RecordCount)),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})

	default:
		if len(runs) == 0 {
			_, err := fmt.Fprintln(w, "No report runs recorded yet.")
			return err
		}
		data := make([][]string, 0, len(runs))
		for _, run := range runs {
			data = append(data, []string{
				run.RunID,
				run.GeneratedAt.Format("2006-01-02 15:04:05"),
				schema.DateRange{Start: run.PeriodStart, End: run.PeriodEnd}.String(),
				schema.DateRange{Start: run.PreviousStart, End: run.PreviousEnd}.String(),
				strconv.Itoa(int(run.RecordCount)),
				run.Metrics,
			})
		}
		if err := renderTable(w, []string{"Run", "Generated", "Period", "Previous", "Records", "Metrics"}, data); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Showing %d most recent runs\n", len(runs))
		return err
	}
}
