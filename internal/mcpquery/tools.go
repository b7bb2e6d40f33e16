package mcpquery

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcp_server "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers racewatch's query tools on mcpServer, grounded on
// the teacher's mcp_data.RegisterDataTools: read-only, idempotent,
// non-destructive listing and SQL tools, plus refresh_views, which rebuilds
// the views and is not marked read-only.
func (s *Server) RegisterTools(mcpServer *mcp_server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("list_symbol_days",
			mcp.WithDescription("Lists every symbol-day with a completed racewatch run under the configured output directory, as (date, symbol) pairs."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
		s.listSymbolDaysHandler,
	)

	mcpServer.AddTool(
		mcp.NewTool("get_summary",
			mcp.WithDescription("Returns the diagnostic summary (message/race counts and classify/book diagnostic counters) for one completed symbol-day run."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithString("date", mcp.Required(), mcp.Description("Symbol-day date, e.g. 2026-03-02")),
			mcp.WithString("symbol", mcp.Required(), mcp.Description("Symbol, e.g. AAPL")),
		),
		s.getSummaryHandler,
	)

	mcpServer.AddTool(
		mcp.NewTool("query_bbo",
			mcp.WithDescription("Runs a read-only SQL query against the \"bbo\" view, which unions every completed run's BBO-series Parquet artifact (spec.md artifact 2) with a filename column identifying the source symbol-day."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithString("sql", mcp.Required(), mcp.Description("SQL query against the bbo view")),
		),
		s.queryBBOHandler,
	)

	mcpServer.AddTool(
		mcp.NewTool("query_races",
			mcp.WithDescription("Runs a read-only SQL query against the \"races\" view, which unions every completed run's race-records CSV artifact (spec.md artifact 4) with a filename column identifying the source symbol-day."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithString("sql", mcp.Required(), mcp.Description("SQL query against the races view")),
		),
		s.queryRacesHandler,
	)

	mcpServer.AddTool(
		mcp.NewTool("refresh_views",
			mcp.WithDescription("Rebuilds the bbo/races views to pick up symbol-day runs completed since the server started."),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
		s.refreshViewsHandler,
	)
}
