// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the farmstat MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.RecordStore, clock contract.Clock) *server.MCPServer {
	s := server.NewMCPServer(
		"Farmstat Reporting Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
		clock:   clock,
	}

	// --- 1. Tool: generate_report ---
	s.AddTool(mcp.NewTool("generate_report",
		mcp.WithDescription("Summarize farm records for a period and compare each metric with a previous period."),
		mcp.WithString("preset", mcp.Description("Named range (7d, 30d, 3m, 6m, ytd, ly). Ignored when start is set."), mcp.Enum("7d", "30d", "3m", "6m", "ytd", "ly")),
		mcp.WithString("start", mcp.Description("Explicit range start (YYYY-MM-DD or e.g. '2 weeks ago').")),
		mcp.WithString("end", mcp.Description("Explicit range end. Defaults to today.")),
		mcp.WithString("previous_start", mcp.Description("Explicit comparison range start.")),
		mcp.WithString("previous_end", mcp.Description("Explicit comparison range end.")),
		mcp.WithString("compare_to", mcp.Description("Baseline when no explicit comparison range is given."), mcp.Enum(contract.CompareAdjacent, contract.CompareLastYear)),
		mcp.WithString("metrics", mcp.Description("Comma separated metric names to compare (e.g. 'total_expenses,total_area').")),
	), h.handleGenerateReport)

	// --- 2. Tool: list_presets ---
	s.AddTool(mcp.NewTool("list_presets",
		mcp.WithDescription("List the named date ranges and the concrete days each resolves to today."),
	), h.handleListPresets)

	// --- 3. Tool: list_runs ---
	s.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List recently generated reports, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return.")),
	), h.handleListRuns)

	// --- 4. Tool: store_status ---
	s.AddTool(mcp.NewTool("store_status",
		mcp.WithDescription("Show record counts and report history size of the configured store."),
	), h.handleStoreStatus)

	return s
}

// StartMCPServer starts the farmstat MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.RecordStore, clock contract.Clock) error {
	s := NewMCPServer(baseCfg, store, clock)
	return server.ServeStdio(s)
}
