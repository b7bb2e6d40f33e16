package mcpquery

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) listSymbolDaysHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days, err := ListSymbolDays(s.OutputRoot)
	if err != nil {
		return mcp.NewToolResultErrorf("failed to list symbol-days: %s", err), nil
	}
	jbytes, err := json.Marshal(days)
	if err != nil {
		return mcp.NewToolResultErrorf("failed to marshal symbol-days: %s", err), nil
	}
	s.Logger.Info("list_symbol_days", "count", len(days))
	return mcp.NewToolResultText(string(jbytes)), nil
}

func (s *Server) getSummaryHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := request.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date must be set"), nil
	}
	symbol, err := request.RequireString("symbol")
	if err != nil {
		return mcp.NewToolResultError("symbol must be set"), nil
	}

	data, err := os.ReadFile(SummaryPath(s.OutputRoot, date, symbol))
	if err != nil {
		return mcp.NewToolResultErrorf("failed to read summary for %s/%s: %s", date, symbol, err), nil
	}

	s.Logger.Info("get_summary", "date", date, "symbol", symbol)
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) queryBBOHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sqlStr, err := request.RequireString("sql")
	if err != nil {
		return mcp.NewToolResultError("sql must be set"), nil
	}
	result, err := s.Query(sqlStr)
	if err != nil {
		return mcp.NewToolResultErrorf("query failed: %s", err), nil
	}
	s.Logger.Info("query_bbo", "sql", sqlStr)
	return mcp.NewToolResultText(result), nil
}

func (s *Server) queryRacesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sqlStr, err := request.RequireString("sql")
	if err != nil {
		return mcp.NewToolResultError("sql must be set"), nil
	}
	result, err := s.Query(sqlStr)
	if err != nil {
		return mcp.NewToolResultErrorf("query failed: %s", err), nil
	}
	s.Logger.Info("query_races", "sql", sqlStr)
	return mcp.NewToolResultText(result), nil
}

func (s *Server) refreshViewsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.RefreshViews(); err != nil {
		return mcp.NewToolResultErrorf("failed to refresh views: %s", err), nil
	}
	s.Logger.Info("refresh_views")
	return mcp.NewToolResultText("views refreshed"), nil
}
