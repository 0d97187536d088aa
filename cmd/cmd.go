// Package cmd wires the farmstat command line.
package cmd

import (
	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbRunsCmd)
	dbCmd.AddCommand(dbClearCmd)
	dbCmd.AddCommand(dbExportCmd)
	dbCmd.AddCommand(dbMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Record store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for sqlite/mysql/postgresql")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Subcommand flags are bound in sharedSetup. The range flags exist on several
	// commands and viper keeps one binding per key, so only the running command binds.
	for _, c := range []*cobra.Command{reportCmd, serveCmd, mcpCmd} {
		c.Flags().String("preset", string(schema.DefaultPreset), "Reporting period: 7d or 30d or 3m or 6m or ytd or ly")
		c.Flags().String("start", "", "Explicit period start (YYYY-MM-DD or time ago); overrides --preset")
		c.Flags().String("end", "", "Explicit period end (defaults to today)")
		c.Flags().String("previous-start", "", "Explicit comparison period start")
		c.Flags().String("previous-end", "", "Explicit comparison period end")
		c.Flags().String("compare-to", contract.CompareAdjacent, "Comparison baseline: previous or last-year")
		c.Flags().String("metrics", "", "Comma-separated metrics to compare (default: total_expenses,total_area,projected_revenue,total_crops)")
		c.Flags().Int("monthly-window", contract.DefaultMonthlyWindow, "Number of most recent months in the monthly breakdown")
	}

	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address for the HTTP API to listen on")
	serveCmd.Flags().String("shutdown-timeout", contract.DefaultShutdownTimeout.String(), "Grace period for in-flight requests on shutdown")
	dbRunsCmd.Flags().Int("runs", contract.DefaultRunLimit, "Number of recent report runs to show")
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
}
