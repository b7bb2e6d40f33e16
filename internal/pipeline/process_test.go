package pipeline_test

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/pipeline"
)

var messageHeader = []string{
	"Date", "Symbol", "SessionID", "UserID", "FirmID", "ClientOrderID", "MEOrderID",
	"UniqueOrderID", "TradeMatchID", "MessageTimestamp", "MessageType", "Side",
	"QuoteRelated", "RegularHour", "OrderType", "TIF", "ExecType", "OrderStatus",
	"TradeInitiator", "CancelRejectReason", "OrderQty", "DisplayQty", "LeavesQty",
	"ExecutedQty", "LimitPrice", "StopPrice", "ExecutedPrice", "BidPrice", "AskPrice",
	"BidSize", "AskSize", "OrigClientOrderID", "AuctionTrade", "OpenAuctionTrade", "ExtensionJSON",
}

func writeMessagesFixture(t *testing.T, dir, date, symbol string, rows [][]string) {
	t.Helper()
	path := filepath.Join(dir, date+"_"+symbol+".csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cw := csv.NewWriter(f)
	if err := cw.Write(messageHeader); err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		if err := cw.Write(r); err != nil {
			t.Fatal(err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		t.Fatal(err)
	}
}

func writeTicktableFixture(t *testing.T, dir, symbol string) {
	t.Helper()
	path := filepath.Join(dir, symbol+"_ticktable.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cw := csv.NewWriter(f)
	cw.Write([]string{"p_threshold", "tick_size"})
	cw.Write([]string{"0", "1"})
	cw.Flush()
	if err := cw.Error(); err != nil {
		t.Fatal(err)
	}
}

func blankRow() []string {
	return make([]string, len(messageHeader))
}

func newOrderRow(ts string) []string {
	r := blankRow()
	r[0], r[1] = "2026-03-02", "TEST"
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

func acceptRow(ts string) []string {
	r := blankRow()
	r[0], r[1] = "2026-03-02", "TEST"
	r[2] = "1"
	r[3], r[4] = "A", "FA"
	r[5], r[6], r[7] = "c1", "me1", "o1"
	r[9] = ts
	r[10] = string(racewatch.MessageType_ExecutionReport)
	r[11] = "Bid"
	r[12], r[13] = "false", "true"
	r[17] = string(racewatch.ExecType_Accepted)
	r[22] = "10"
	r[32], r[33] = "false", "false"
	return r
}

func testPaths(root string) racewatch.Paths {
	for _, d := range []string{"data", "reference", "log", "output"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			panic(err)
		}
	}
	return racewatch.Paths{
		DataRoot:         filepath.Join(root, "data"),
		ReferenceRoot:    filepath.Join(root, "reference"),
		LogRoot:          filepath.Join(root, "log"),
		IntermediateRoot: filepath.Join(root, "intermediate"),
		OutputRoot:       filepath.Join(root, "output"),
	}
}

func testConfig() racewatch.Config {
	return racewatch.Config{
		MaxDecScale: 4,
		NumWorkers:  1,
		Race: racewatch.RaceParams{
			Method:             racewatch.RaceMethod_FixedHorizon,
			LenFixedHor:        time.Millisecond,
			MinNumParticipants: 2,
			MinNumTakes:        1,
			MinNumCancels:      1,
		},
	}
}

func TestProcess_WritesAllArtifacts(t *testing.T) {
	root := t.TempDir()
	paths := testPaths(root)
	writeMessagesFixture(t, paths.DataRoot, "2026-03-02", "TEST", [][]string{
		newOrderRow("2026-03-02T09:30:00.000000000Z"),
		acceptRow("2026-03-02T09:30:00.000001000Z"),
	})
	writeTicktableFixture(t, paths.ReferenceRoot, "TEST")

	if err := pipeline.Process("2026-03-02", "TEST", testConfig(), paths); err != nil {
		t.Fatalf("Process: %v", err)
	}

	base := filepath.Join(paths.OutputRoot, "2026-03-02_TEST")
	for _, suffix := range []string{"_messages.csv", "_bbo.parquet", "_depth.csv", "_races.csv", "_summary.json"} {
		if _, err := os.Stat(base + suffix); err != nil {
			t.Errorf("expected artifact %s: %v", suffix, err)
		}
	}
	for _, step := range []string{"Step_1_Classify_Messages", "Step_2_Prep_Order_Book", "Step_3_Race_Detection"} {
		logPath := filepath.Join(paths.LogRoot, step+"_2026-03-02_TEST.log")
		if _, err := os.Stat(logPath); err != nil {
			t.Errorf("expected log %s: %v", logPath, err)
		}
	}
}

func TestProcess_MissingColumnIsSchemaViolation(t *testing.T) {
	root := t.TempDir()
	paths := testPaths(root)

	// Write a header missing the required UniqueOrderID column.
	path := filepath.Join(paths.DataRoot, "2026-03-02_TEST.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	cw := csv.NewWriter(f)
	cw.Write([]string{"Date", "Symbol", "SessionID", "UserID", "FirmID", "ClientOrderID", "MEOrderID"})
	cw.Flush()
	f.Close()

	writeTicktableFixture(t, paths.ReferenceRoot, "TEST")

	err = pipeline.Process("2026-03-02", "TEST", testConfig(), paths)
	if err == nil {
		t.Fatal("expected an error for a missing required column")
	}
	var sdErr *pipeline.SymbolDayError
	if !errors.As(err, &sdErr) {
		t.Fatalf("expected *pipeline.SymbolDayError, got %T: %v", err, err)
	}
	if sdErr.Kind != pipeline.KindSchemaViolation {
		t.Errorf("expected KindSchemaViolation, got %s", sdErr.Kind)
	}
}
