package cmd

import (
	"fmt"
	"time"

	"github.com/huangsam/farmstat/core"
	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/internal/outwriter"
	"github.com/spf13/cobra"
)

// reportCmd generates one comparative report.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compare farm records for a period against its baseline",
	Long: `Generate a report for a reporting period and compare it with a baseline period.

The current period comes from --preset or from --start/--end. The baseline is the
period of equal length that ends the day before the current one starts, unless
--compare-to last-year or --previous-start/--previous-end say otherwise.

Every requested metric gets a trend label:
- up / down: changed by more than 5% either way
- stable: changed by 5% or less
- new: the baseline value was zero

Examples:
  # Last 30 days against the 30 days before
  farmstat report

  # Year to date against the same days last year, as JSON
  farmstat report --preset ytd --compare-to last-year --output json

  # Explicit window with a custom metric list
  farmstat report --start 2025-03-01 --end 2025-05-31 --metrics total_costs,net_projection

  # Spreadsheet for the accountant
  farmstat report --preset ly --output xlsx --output-file farm-2024.xlsx`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open record store", err)
		}
		defer closeStore(store)

		start := time.Now()
		report, err := core.GenerateReport(rootCtx, cfg, store)
		if err != nil {
			contract.LogFatal("Cannot generate report", err)
		}
		if err := outwriter.NewOutWriter().WriteReport(report, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write report", err)
		}
	},
}

// presetsCmd lists how each preset resolves today.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Show the date range behind every reporting preset",
	Long: `List each reporting preset with the current and baseline ranges it resolves to today.

Examples:
  farmstat presets`,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, pr := range core.PresetRanges(time.Now()) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s  (compared with %s)\n", pr.Preset, pr.Label, pr.Previous)
		}
	},
}
