package fanout_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/fanout"
	"github.com/ericbudish/racewatch/internal/ingest"
)

var messageHeader = []string{
	"Date", "Symbol", "SessionID", "UserID", "FirmID", "ClientOrderID", "MEOrderID",
	"UniqueOrderID", "TradeMatchID", "MessageTimestamp", "MessageType", "Side",
	"QuoteRelated", "RegularHour", "OrderType", "TIF", "ExecType", "OrderStatus",
	"TradeInitiator", "CancelRejectReason", "OrderQty", "DisplayQty", "LeavesQty",
	"ExecutedQty", "LimitPrice", "StopPrice", "ExecutedPrice", "BidPrice", "AskPrice",
	"BidSize", "AskSize", "OrigClientOrderID", "AuctionTrade", "OpenAuctionTrade", "ExtensionJSON",
}

func blankRow() []string { return make([]string, len(messageHeader)) }

func newOrderRow(date, symbol, ts string) []string {
	r := blankRow()
	r[0], r[1] = date, symbol
	r[2] = "1"
	r[3], r[4] = "A", "FA"
	r[5], r[6], r[7] = "c1", "me1", "o1"
	r[9] = ts
	r[10] = string(racewatch.MessageType_NewOrder)
	r[11] = "Bid"
	r[12], r[13] = "false", "true"
	r[14] = string(racewatch.OrderType_Limit)
	r[15] = string(racewatch.TIF_GoodTill)
	r[20], r[21], r[22] = "10", "10", "10"
	r[24] = "10.00"
	r[32], r[33] = "false", "false"
	return r
}

func writeFixtureDay(t *testing.T, paths racewatch.Paths, date, symbol string) {
	t.Helper()
	path := filepath.Join(paths.DataRoot, date+"_"+symbol+".csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	cw := csv.NewWriter(f)
	cw.Write(messageHeader)
	cw.Write(newOrderRow(date, symbol, "2026-03-02T09:30:00.000000000Z"))
	cw.Flush()
	f.Close()

	ttPath := filepath.Join(paths.ReferenceRoot, symbol+"_ticktable.csv")
	if _, err := os.Stat(ttPath); err == nil {
		return
	}
	tf, err := os.Create(ttPath)
	if err != nil {
		t.Fatal(err)
	}
	tcw := csv.NewWriter(tf)
	tcw.Write([]string{"p_threshold", "tick_size"})
	tcw.Write([]string{"0", "1"})
	tcw.Flush()
	tf.Close()
}

func testPaths(t *testing.T) racewatch.Paths {
	root := t.TempDir()
	for _, d := range []string{"data", "reference", "log", "output"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return racewatch.Paths{
		DataRoot:      filepath.Join(root, "data"),
		ReferenceRoot: filepath.Join(root, "reference"),
		LogRoot:       filepath.Join(root, "log"),
		OutputRoot:    filepath.Join(root, "output"),
	}
}

func testConfig(workers int) racewatch.Config {
	return racewatch.Config{
		MaxDecScale: 4,
		NumWorkers:  workers,
		Race: racewatch.RaceParams{
			Method:             racewatch.RaceMethod_FixedHorizon,
			LenFixedHor:        time.Millisecond,
			MinNumParticipants: 2,
			MinNumTakes:        1,
			MinNumCancels:      1,
		},
	}
}

func TestRun_ProcessesAllSymbolDays(t *testing.T) {
	paths := testPaths(t)
	days := []ingest.SymbolDate{
		{Date: "2026-03-02", Symbol: "AAA"},
		{Date: "2026-03-02", Symbol: "BBB"},
		{Date: "2026-03-03", Symbol: "AAA"},
	}
	for _, d := range days {
		writeFixtureDay(t, paths, d.Date, d.Symbol)
	}

	results := fanout.Run(days, testConfig(2), paths)
	if len(results) != len(days) {
		t.Fatalf("expected %d results, got %d", len(days), len(results))
	}
	if errs := fanout.Errors(results); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestRun_ReportsPerSymbolDayFailures(t *testing.T) {
	paths := testPaths(t)
	days := []ingest.SymbolDate{
		{Date: "2026-03-02", Symbol: "GOOD"},
		{Date: "2026-03-02", Symbol: "MISSING"}, // no fixture written: load failure
	}
	writeFixtureDay(t, paths, days[0].Date, days[0].Symbol)

	results := fanout.Run(days, testConfig(2), paths)
	errs := fanout.Errors(results)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one failure, got %d: %v", len(errs), errs)
	}
	if errs[0].Symbol != "MISSING" {
		t.Errorf("expected the failing symbol to be MISSING, got %s", errs[0].Symbol)
	}
}
