package mcpquery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ericbudish/racewatch/internal/mcpquery"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListSymbolDays(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "2026-03-02_AAPL_summary.json"))
	touch(t, filepath.Join(dir, "2026-03-01_MSFT_summary.json"))
	touch(t, filepath.Join(dir, "2026-03-02_AAPL_messages.csv")) // not a summary file, ignored
	touch(t, filepath.Join(dir, "not_a_summary.txt"))

	days, err := mcpquery.ListSymbolDays(dir)
	if err != nil {
		t.Fatalf("ListSymbolDays: %v", err)
	}
	want := []mcpquery.SymbolDay{
		{Date: "2026-03-01", Symbol: "MSFT"},
		{Date: "2026-03-02", Symbol: "AAPL"},
	}
	if len(days) != len(want) {
		t.Fatalf("expected %d symbol-days, got %d: %v", len(want), len(days), days)
	}
	for i, d := range days {
		if d != want[i] {
			t.Errorf("day %d: got %+v, want %+v", i, d, want[i])
		}
	}
}

func TestSummaryPath(t *testing.T) {
	got := mcpquery.SummaryPath("/out", "2026-03-02", "AAPL")
	want := filepath.Join("/out", "2026-03-02_AAPL_summary.json")
	if got != want {
		t.Errorf("SummaryPath: got %s, want %s", got, want)
	}
}
