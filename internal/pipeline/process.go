// Package pipeline wires S1 (classify), S2 (book), and S3 (race) into
// spec.md §5's pure per-symbol-day entrypoint.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/book"
	"github.com/ericbudish/racewatch/internal/classify"
	"github.com/ericbudish/racewatch/internal/ingest"
	"github.com/ericbudish/racewatch/internal/out"
	"github.com/ericbudish/racewatch/internal/race"
)

// Process implements spec.md §5's `process(date, sym, config, paths) → ()`:
// read one symbol-day's raw messages and reference ticktable, run S1→S2→S3
// over them in a single sequential pass, and write the four output
// artifacts (§6.4). Its only side effects are the log and artifact writes
// under paths; it holds no state across calls, so a driver (internal/fanout)
// can call it concurrently for distinct symbol-days with no shared memory.
func Process(date, symbol string, cfg racewatch.Config, paths racewatch.Paths) error {
	pf := cfg.PriceFactor()

	msgs, err := loadMessages(paths, date, symbol, pf)
	if err != nil {
		return schemaViolation(date, symbol, err)
	}

	tt, err := ingest.LoadTicktable(filepath.Join(paths.ReferenceRoot, symbol+"_ticktable.csv"), pf)
	if err != nil {
		return schemaViolation(date, symbol, err)
	}

	classifyLog, closeClassifyLog, err := newStepLogger(paths, date, symbol, "Step_1_Classify_Messages")
	if err != nil {
		return outputIOError(date, symbol, err)
	}
	defer closeClassifyLog()

	classifyDiag, err := classify.Classify(msgs)
	if err != nil {
		return schemaViolation(date, symbol, err)
	}
	classifyLog.Info("classify complete",
		slog.Int("num_messages", len(msgs)),
		slog.Int("pf_no_further_reply", classifyDiag.PfNoFurtherReply),
		slog.Int("quote_force_closed", classifyDiag.QuoteForceClosed),
		slog.Int("quote_reject_closes", classifyDiag.QuoteRejectCloses),
		slog.Int("unclaimed_outbound", classifyDiag.UnclaimedOutbound))

	bookLog, closeBookLog, err := newStepLogger(paths, date, symbol, "Step_2_Prep_Order_Book")
	if err != nil {
		return outputIOError(date, symbol, err)
	}
	defer closeBookLog()

	bbo, bookDiag, err := book.Process(msgs, tt)
	if err != nil {
		return schemaViolation(date, symbol, err)
	}
	bookLog.Info("book complete",
		slog.Int("num_bbo_rows", len(bbo)),
		slog.Int("corrections_open_auction_sweep", bookDiag.CorrectionsAuction),
		slog.Int("corrections_accept", bookDiag.CorrectionsAccept),
		slog.Int("corrections_fill", bookDiag.CorrectionsFill),
		slog.Int("corrections_fill_opposite", bookDiag.CorrectionsFillOpp),
		slog.Int("book_testing_counter", bookDiag.BookTestingCounter),
		slog.Float64("depth_killed", bookDiag.DepthKilled))

	raceLog, closeRaceLog, err := newStepLogger(paths, date, symbol, "Step_3_Race_Detection")
	if err != nil {
		return outputIOError(date, symbol, err)
	}
	defer closeRaceLog()

	records, err := race.Process(msgs, bbo, tt, cfg.Race)
	if err != nil {
		return schemaViolation(date, symbol, err)
	}
	raceLog.Info("race detection complete", slog.Int("num_races", len(records)))

	summary := &out.Summary{
		Date: date, Symbol: symbol,
		NumMessages: len(msgs), NumRaces: len(records),
		Classify: classifyDiag, Book: bookDiag,
	}
	if err := writeArtifacts(paths, date, symbol, msgs, bbo, records, summary); err != nil {
		return outputIOError(date, symbol, err)
	}
	return nil
}

func loadMessages(paths racewatch.Paths, date, symbol string, pf racewatch.PriceFactor) ([]racewatch.MessageRecord, error) {
	path := filepath.Join(paths.DataRoot, fmt.Sprintf("%s_%s.csv", date, symbol))
	f, err := ingest.OpenCompressed(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ingest.LoadMessages(f, pf)
}

// newStepLogger opens one log file per pipeline stage per symbol-day
// (SPEC_FULL.md's supplemented per-step log feature, recovered from
// original_source/'s Step_1_Classify_Messages_<date>_<sym>.log layout),
// writing structured JSON via log/slog the way the teacher's
// cmd/dbn-go-mcp-meta and cmd/dbn-go-mcp-data configure their loggers.
func newStepLogger(paths racewatch.Paths, date, symbol, step string) (*slog.Logger, func(), error) {
	path := filepath.Join(paths.LogRoot, fmt.Sprintf("%s_%s_%s.log", step, date, symbol))
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewJSONHandler(f, nil)), func() { f.Close() }, nil
}

func writeArtifacts(paths racewatch.Paths, date, symbol string, msgs []racewatch.MessageRecord, bbo []book.BBORow, records []race.Record, summary *out.Summary) error {
	base := filepath.Join(paths.OutputRoot, fmt.Sprintf("%s_%s", date, symbol))

	writers := []struct {
		suffix string
		write  func(io.Writer) error
	}{
		{"_messages.csv", func(w io.Writer) error { return out.WriteMessagesCSV(w, msgs) }},
		{"_bbo.parquet", func(w io.Writer) error { return out.WriteBBOParquet(w, bbo) }},
		{"_depth.csv", func(w io.Writer) error { return out.WriteDepthMapCSV(w, bbo) }},
		{"_races.csv", func(w io.Writer) error { return out.WriteRaceRecordsCSV(w, records) }},
		{"_summary.json", func(w io.Writer) error { return out.WriteSummaryJSON(w, summary) }},
	}
	for _, wr := range writers {
		if err := writeFile(base+wr.suffix, wr.write); err != nil {
			return fmt.Errorf("pipeline: writing %s: %w", base+wr.suffix, err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
