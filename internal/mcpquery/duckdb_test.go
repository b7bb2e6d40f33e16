package mcpquery

import "testing"

func TestSqlLiteral(t *testing.T) {
	cases := map[string]string{
		"/out/2026-03-02_AAPL_bbo.parquet": "'/out/2026-03-02_AAPL_bbo.parquet'",
		"it's a path":                      "'it''s a path'",
	}
	for in, want := range cases {
		if got := sqlLiteral(in); got != want {
			t.Errorf("sqlLiteral(%q) = %q, want %q", in, got, want)
		}
	}
}
