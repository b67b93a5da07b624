// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the kpitrend MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"KPI Trend Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	dateParam := mcp.WithString("date", mcp.Description("Date of the row in DD/MM/YYYY format, e.g. 22/02/2022."), mcp.Required())

	// --- 1. Tool: get_trend_report ---
	s.AddTool(mcp.NewTool("get_trend_report",
		mcp.WithDescription("Compare the KPIs recorded for a date against their 30-day average and rate the day."),
		dateParam,
	), h.handleGetTrendReport)

	// --- 2. Tool: get_window_summary ---
	s.AddTool(mcp.NewTool("get_window_summary",
		mcp.WithDescription("Describe the 30 days of history before a date: completeness and per-KPI averages."),
		dateParam,
	), h.handleGetWindowSummary)

	// --- 3. Tool: record_kpis ---
	opts := []mcp.ToolOption{
		mcp.WithDescription("Save the KPI values of a date and return the resulting trend report."),
		dateParam,
	}
	for _, m := range schema.MetricSet {
		opts = append(opts, mcp.WithNumber(m.Key, mcp.Description("Value of "+m.Name+", a whole number of zero or more."), mcp.Required()))
	}
	s.AddTool(mcp.NewTool("record_kpis", opts...), h.handleRecordKPIs)

	// --- 4. Tool: get_sheet_status ---
	s.AddTool(mcp.NewTool("get_sheet_status",
		mcp.WithDescription("Report the backend and fill state of the KPI sheet."),
	), h.handleGetSheetStatus)

	// --- 5. Tool: get_run_history ---
	s.AddTool(mcp.NewTool("get_run_history",
		mcp.WithDescription("List the most recent recording runs and their outcomes."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return, newest last. Defaults to 20.")),
	), h.handleGetRunHistory)

	return s
}

// StartMCPServer starts the kpitrend MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
