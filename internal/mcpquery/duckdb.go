package mcpquery

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// safeName matches the (date, symbol) components racewatch uses to name
// artifact files; only these are ever interpolated into a view-creating SQL
// statement. Grounded on the teacher's mcp_data.safeName, used for the same
// reason: these values end up inside a CREATE VIEW statement, and DuckDB
// has no query-parameter placeholder for identifiers, so the pack's
// convention is to whitelist the character set instead.
var safeName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// InitDB opens an in-memory DuckDB database, applies the same security
// hardening as the teacher's mcp_data.InitCache (extensions and remote
// filesystem access disabled, configuration locked after), and builds the
// bbo/races views over OutputRoot's artifacts.
func (s *Server) InitDB() error {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("mcpquery: opening duckdb: %w", err)
	}
	for _, stmt := range []string{
		"SET autoinstall_known_extensions = false",
		"SET autoload_known_extensions = false",
		"SET allow_community_extensions = false",
		"SET disabled_filesystems = 'HTTPFileSystem'",
		"SET lock_configuration = true",
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("mcpquery: configuring duckdb (%s): %w", stmt, err)
		}
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()

	return s.RefreshViews()
}

// RefreshViews (re)creates the "bbo" and "races" views over every matching
// artifact file currently under OutputRoot, so a query_* tool call always
// sees artifacts written since the server started.
func (s *Server) RefreshViews() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return fmt.Errorf("mcpquery: db not initialized")
	}

	bboGlob := sqlLiteral(filepath.Join(s.OutputRoot, "*_bbo.parquet"))
	if _, err := s.db.Exec(fmt.Sprintf(
		`CREATE OR REPLACE VIEW bbo AS SELECT * FROM read_parquet(%s, filename=true)`, bboGlob)); err != nil {
		return fmt.Errorf("mcpquery: creating bbo view: %w", err)
	}

	racesGlob := sqlLiteral(filepath.Join(s.OutputRoot, "*_races.csv"))
	if _, err := s.db.Exec(fmt.Sprintf(
		`CREATE OR REPLACE VIEW races AS SELECT * FROM read_csv(%s, filename=true, header=true)`, racesGlob)); err != nil {
		return fmt.Errorf("mcpquery: creating races view: %w", err)
	}

	return nil
}

// sqlLiteral escapes s for use as a SQL string literal. Grounded directly
// on the teacher's mcp_data.sqlLiteral — the only place in either codebase
// a glob path is interpolated into SQL text rather than bound as a
// parameter.
func sqlLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Query runs userSQL against the bbo/races views and returns the result as
// CSV text, capped at 10,000 rows. Grounded directly on the teacher's
// mcp_data.queryDuckDB, including the same row cap and the same
// []byte-vs-other-type column rendering.
func (s *Server) Query(userSQL string) (string, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return "", fmt.Errorf("mcpquery: db not initialized")
	}

	wrapped := fmt.Sprintf("SELECT * FROM (%s) LIMIT 10000", userSQL)
	rows, err := db.Query(wrapped)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}

	return renderRowsAsCSV(rows, columns)
}
