package cmd

import (
	"time"

	"github.com/huangsam/farmstat/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the farmstat MCP server",
	Long: `Launch an MCP server over stdio so AI agents can generate reports via standard tools.

Tools: generate_report, list_presets, list_runs, store_status`,
	// Logs already go to stderr, so stdio stays reserved for the protocol.
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		return mcp.StartMCPServer(rootCtx, cfg, store, time.Now)
	},
}
