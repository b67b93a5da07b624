package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/huangsam/kpitrend/core"
	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultRunLimit is the number of runs get_run_history returns without a limit.
const defaultRunLimit = 20

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// jsonResult encodes data as the text of a successful tool result.
func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// requireDate reads and validates the date argument.
func requireDate(request mcp.CallToolRequest) (schema.DateKey, error) {
	return core.ParseDateKey(request.GetString("date", ""))
}

func (h *toolHandler) handleGetTrendReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := requireDate(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := core.GetTrendReport(ctx, h.mgr.GetSheetStore(), date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trend analysis failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleGetWindowSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := requireDate(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary, err := core.GetWindowSummary(ctx, h.mgr.GetSheetStore(), date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("window lookup failed: %v", err)), nil
	}
	return jsonResult(summary)
}

// recordResult is returned by record_kpis. Report is nil when the history cannot support an analysis.
type recordResult struct {
	Date     schema.DateKey      `json:"date"`
	Saved    bool                `json:"saved"`
	Report   *schema.TrendReport `json:"report,omitempty"`
	Advisory string              `json:"advisory,omitempty"`
}

func (h *toolHandler) handleRecordKPIs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := requireDate(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries := make([]int64, len(schema.MetricSet))
	for i, m := range schema.MetricSet {
		v := request.GetFloat(m.Key, -1)
		// float64(math.MaxInt64) is 2^63, the first value int64 cannot hold
		if v < 0 || v >= math.MaxInt64 || v != math.Trunc(v) {
			return mcp.NewToolResultError(fmt.Sprintf("%s must be a whole number between 0 and %d", m.Key, int64(math.MaxInt64))), nil
		}
		entries[i] = int64(v)
	}

	sheet := h.mgr.GetSheetStore()
	if _, err := sheet.FindRow(ctx, date); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot record %s: %v", date, err)), nil
	}
	if err := core.PersistEntry(ctx, sheet, date, entries); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save values: %v", err)), nil
	}

	result := recordResult{Date: date, Saved: true}
	report, err := core.GetTrendReport(ctx, sheet, date)
	switch {
	case err == nil:
		result.Report = report
	case contract.IsPrecondition(err):
		result.Advisory = fmt.Sprintf("Trend analysis is not available: %v.", err)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("values saved but trend analysis failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetSheetStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.mgr.GetSheetStore().GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}
	return jsonResult(status)
}

func (h *toolHandler) handleGetRunHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultRunLimit)
	if limit < 1 {
		return mcp.NewToolResultError("limit must be at least 1"), nil
	}

	runs := h.mgr.GetRunStore()
	if runs == nil {
		return jsonResult([]schema.RunRecord{})
	}
	records, err := runs.GetAllRuns()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("run history failed: %v", err)), nil
	}
	if len(records) > limit {
		records = records[len(records)-limit:]
	}
	if records == nil {
		records = []schema.RunRecord{}
	}
	return jsonResult(records)
}
