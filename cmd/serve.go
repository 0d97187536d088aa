package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/huangsam/farmstat/internal/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports over an HTTP JSON API",
	Long: `Start an HTTP server exposing reports, presets, run history and record import.

Routes:
  GET  /healthz
  GET  /metrics            Prometheus metrics
  GET  /api/v1/presets
  GET  /api/v1/reports     ?preset, start, end, previous_start, previous_end, compare_to, metrics
  GET  /api/v1/runs        ?limit
  GET  /api/v1/status
  POST /api/v1/records     {"records": [...]}

Flags such as --preset and --metrics set the defaults a request may override.
The server drains in-flight requests on SIGINT or SIGTERM.

Examples:
  farmstat serve --addr :9090
  curl 'localhost:9090/api/v1/reports?preset=ytd&compare_to=last-year'`,
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := zerolog.Ctx(rootCtx)
		return server.New(*logger, cfg, store, time.Now).Start(ctx)
	},
}
