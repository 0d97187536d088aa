package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/internal/recordstore"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// importCmd loads records from CSV into the record store.
var importCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Import crop and expense records from CSV",
	Long: `Read farm records from a CSV file (or stdin when the file is "-" or omitted)
and add them to the record store in a single transaction.

The header row names the columns, in any order and case:
  kind, date, category, amount, area, expected_yield, market_price, note

Only kind and date are required. kind is crop or expense or livestock_expense.
Empty numeric cells are stored as missing values and count as zero in reports.
Any invalid row aborts the whole import.

Examples:
  # Import a season's records
  farmstat import records-2025.csv

  # Pipe from another tool into PostgreSQL
  export-tool | FARMSTAT_DB_BACKEND=postgresql FARMSTAT_DB_CONNECT="..." farmstat import -`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(cmd *cobra.Command, args []string) {
		var src io.Reader = os.Stdin
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				contract.LogFatal("Cannot open input file", err)
			}
			defer func() { _ = f.Close() }()
			src = f
		}

		records, err := recordstore.ReadRecordsCSV(src)
		if err != nil {
			contract.LogFatal("Cannot read records", err)
		}

		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open record store", err)
		}
		defer closeStore(store)

		n, err := store.ImportRecords(rootCtx, records)
		if err != nil {
			contract.LogFatal("Cannot import records", err)
		}
		zerolog.Ctx(rootCtx).Debug().Int("records", n).Str("backend", string(cfg.Backend)).Msg("import finished")
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records.\n", n)
	},
}
