package tui_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/ericbudish/racewatch/internal/tui"
)

func TestLoadRaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2026-03-02_TEST_races.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	cw := csv.NewWriter(f)
	cw.Write([]string{"SingleLvlRaceID", "StartMsgIdx", "Timestamp", "Side", "SignedPrice", "HorizonNanos", "RaceMsgIdx"})
	cw.Write([]string{"1", "4", "2026-03-02T09:30:00.000000000Z", "Bid", "10000", "1000000", "4;5;7"})
	cw.Flush()
	if err := cw.Error(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	rows, err := tui.LoadRaces(dir, "2026-03-02", "TEST")
	if err != nil {
		t.Fatalf("LoadRaces: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 race row, got %d", len(rows))
	}
	r := rows[0]
	if r.SingleLvlRaceID != 1 || r.StartMsgIdx != 4 || r.Side != "Bid" || r.SignedPrice != 10000 {
		t.Errorf("unexpected row: %+v", r)
	}
	if len(r.MsgIdxs) != 3 || r.MsgIdxs[0] != 4 || r.MsgIdxs[2] != 7 {
		t.Errorf("unexpected MsgIdxs: %v", r.MsgIdxs)
	}
}

func TestLoadRaces_MissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := tui.LoadRaces(dir, "2026-03-02", "NOPE"); err == nil {
		t.Fatal("expected an error for a missing races file")
	}
}
