package ingest

import (
	"encoding/csv"
	"fmt"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/ticktable"
)

// LoadTicktable opens path (transparently zstd-decompressing if named
// ".zst"/".zstd") and parses it as a symbol-day's ticktable reference file
// (spec.md §6.3), via ticktable.LoadCSV.
func LoadTicktable(path string, pf racewatch.PriceFactor) (*ticktable.Table, error) {
	f, err := OpenCompressed(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: opening ticktable %s: %w", path, err)
	}
	defer f.Close()
	return ticktable.LoadCSV(f, pf)
}

// SymbolDate is one (Date, Symbol) pair to process (spec.md §6.3).
type SymbolDate struct {
	Date   string
	Symbol string
}

// LoadSymbolDates reads the SymbolDates reference file: a two-column CSV
// of Date,Symbol pairs, one per symbol-day to process.
func LoadSymbolDates(path string) ([]SymbolDate, error) {
	f, err := OpenCompressed(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: opening symbol-dates %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: reading symbol-dates: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	start := 0
	if len(records[0]) >= 2 && (records[0][0] == "Date" || records[0][0] == "date") {
		start = 1
	}

	out := make([]SymbolDate, 0, len(records)-start)
	for _, rec := range records[start:] {
		if len(rec) < 2 {
			continue
		}
		out = append(out, SymbolDate{Date: rec[0], Symbol: rec[1]})
	}
	return out, nil
}
