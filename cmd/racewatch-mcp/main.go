// Copyright (c) 2026 Eric Budish
//
// racewatch-mcp is a Model Context Protocol server exposing a completed
// racewatch run's output artifacts (spec.md §6.4) to LLM clients over a
// DuckDB-backed query layer.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ericbudish/racewatch/internal/mcpquery"
	mcp_server "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"
)

///////////////////////////////////////////////////////////////////////////////

const (
	mcpServerVersion = "0.0.1"

	defaultSSEHostPort = ":8890"

	serverInstructions = `racewatch-mcp provides read-only SQL access to completed racewatch runs.

Recommended workflow:
1. Use list_symbol_days to discover which (date, symbol) runs are available under the configured output directory.
2. Use get_summary to check a run's message/race counts and diagnostic counters before querying it in depth.
3. Use query_bbo for SQL over the unioned BBO-series Parquet artifact (spec.md artifact 2), and query_races for SQL over the unioned race-records artifact (spec.md artifact 4). Both views carry a filename column identifying the source symbol-day.
4. Call refresh_views if new runs have completed since the server started.`
)

type Config struct {
	OutputRoot string

	LogJSON bool
	Verbose bool

	UseSSE      bool
	SSEHostPort string
}

var config Config
var logger *slog.Logger

///////////////////////////////////////////////////////////////////////////////

func main() {
	var showHelp bool
	var logFilename string

	pflag.StringVarP(&config.OutputRoot, "output-root", "o", "", "Directory holding completed pipeline.Process runs (or set RACEWATCH_MCP_OUTPUT_ROOT envvar)")
	pflag.StringVarP(&logFilename, "log-file", "l", "", "Log file destination (or RACEWATCH_MCP_LOG_FILE envvar). Default is stderr")
	pflag.BoolVarP(&config.LogJSON, "log-json", "j", false, "Log in JSON (default is plaintext)")
	pflag.StringVarP(&config.SSEHostPort, "port", "p", "", "host:port to listen to SSE connections")
	pflag.BoolVarP(&config.UseSSE, "sse", "", false, "Use SSE Transport (default is STDIO transport)")
	pflag.BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help")
	pflag.Parse()

	if showHelp {
		fmt.Fprintf(os.Stdout, "usage: %s -o <output-root> [opts]\n\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(0)
	}

	if config.OutputRoot == "" {
		config.OutputRoot = os.Getenv("RACEWATCH_MCP_OUTPUT_ROOT")
		requireValOrExit(config.OutputRoot, "missing output directory, use --output-root or set RACEWATCH_MCP_OUTPUT_ROOT envvar\n")
	}
	if config.SSEHostPort == "" {
		config.SSEHostPort = defaultSSEHostPort
	}

	logWriter := os.Stderr
	if logFilename == "" {
		logFilename = os.Getenv("RACEWATCH_MCP_LOG_FILE")
	}
	if logFilename != "" {
		logFile, err := os.OpenFile(logFilename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %s\n", err.Error())
			os.Exit(1)
		}
		logWriter = logFile
		defer logFile.Close()
	}

	logLevel := slog.LevelInfo
	if config.Verbose {
		logLevel = slog.LevelDebug
	}
	if config.LogJSON {
		logger = slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: logLevel}))
	} else {
		logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: logLevel}))
	}

	if err := run(); err != nil {
		logger.Error("run loop error", "error", err.Error())
		os.Exit(1)
	}
}

func requireValOrExit(val string, errstr string) {
	if val == "" {
		fmt.Fprintf(os.Stderr, "%s\n", errstr)
		os.Exit(1)
	}
}

///////////////////////////////////////////////////////////////////////////////

func run() error {
	mcpServer := mcp_server.NewMCPServer("racewatch-mcp", mcpServerVersion,
		mcp_server.WithRecovery(),
		mcp_server.WithInstructions(serverInstructions),
	)

	srv := mcpquery.NewServer(config.OutputRoot, logger)
	if err := srv.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize duckdb: %w", err)
	}
	defer srv.Close()

	srv.RegisterTools(mcpServer)

	if config.UseSSE {
		sseServer := mcp_server.NewSSEServer(mcpServer)
		logger.Info("MCP SSE server started", "hostPort", config.SSEHostPort)
		if err := sseServer.Start(config.SSEHostPort); err != nil {
			return fmt.Errorf("MCP SSE server error: %w", err)
		}
	} else {
		logger.Info("MCP STDIO server started")
		if err := mcp_server.ServeStdio(mcpServer); err != nil {
			return fmt.Errorf("MCP STDIO server error: %w", err)
		}
	}

	return nil
}
