// Package mcpquery exposes a completed run's output artifacts (spec.md
// §6.4) to LLM clients over the Model Context Protocol, backed by an
// in-process DuckDB database that reads the Parquet/CSV files directly —
// grounded on the teacher's internal/mcp_data (a DuckDB-backed cache for
// Databento API responses), adapted from "cache API results as Parquet"
// to "index racewatch's own already-written Parquet/CSV artifacts".
package mcpquery

import (
	"database/sql"
	"log/slog"
	"sync"
)

// Server holds the state shared by every MCP tool handler: where a prior
// fanout/pipeline run wrote its artifacts, and the DuckDB connection
// indexing them. Grounded on the teacher's mcp_data.Server embedding
// mcp_meta.Server for ApiKey/MaxCost/Logger — there is no billing concern
// here, so Server carries only what racewatch's domain needs.
type Server struct {
	OutputRoot string
	Logger     *slog.Logger

	mu sync.Mutex
	db *sql.DB
}

// NewServer constructs a Server for outputRoot. Call InitDB before
// registering tools.
func NewServer(outputRoot string, logger *slog.Logger) *Server {
	return &Server{OutputRoot: outputRoot, Logger: logger}
}

// Close closes the DuckDB connection.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
