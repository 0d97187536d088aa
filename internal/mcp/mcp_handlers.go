package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/farmstat/core"
	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.RecordStore
	clock   contract.Clock
}

func (h *toolHandler) handleGenerateReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := h.clock()
	cfg := h.baseCfg.Clone()
	req := contract.ReportRequest{
		Preset:        request.GetString("preset", ""),
		Start:         request.GetString("start", ""),
		End:           request.GetString("end", ""),
		PreviousStart: request.GetString("previous_start", ""),
		PreviousEnd:   request.GetString("previous_end", ""),
		CompareTo:     request.GetString("compare_to", ""),
		Metrics:       request.GetString("metrics", ""),
	}
	if err := contract.RevalidateReport(cfg, req, now); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}

	report, err := core.GenerateReport(ctx, cfg, h.store, core.WithClock(h.clock))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListPresets(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(core.PresetRanges(h.clock()), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", h.baseCfg.RunLimit)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	runs, err := h.store.ListRuns(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
	}
	if runs == nil {
		runs = []schema.ReportRunRecord{}
	}

	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleStoreStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.store.GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get store status: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
