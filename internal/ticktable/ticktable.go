// Package ticktable resolves a symbol-day's tick size for a given price
// (spec.md §3.1, §6.3): an ordered table of (p_threshold, tick_size) rows,
// where tick(p) is the tick_size of the last row whose threshold is <= p.
package ticktable

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/ericbudish/racewatch"
)

// Row is one ticktable entry, already converted to price-factor integer units.
type Row struct {
	Threshold racewatch.Price
	TickSize  racewatch.Tick
}

// Table is a symbol-day's ordered ticktable, ready for Tick() lookups.
type Table struct {
	rows []Row
}

// New builds a Table from rows, sorting them by threshold. Duplicate
// thresholds keep the last one supplied, matching a last-write-wins load
// from an ordered reference file.
func New(rows []Row) *Table {
	byThreshold := make(map[racewatch.Price]racewatch.Tick, len(rows))
	for _, r := range rows {
		byThreshold[r.Threshold] = r.TickSize
	}
	out := make([]Row, 0, len(byThreshold))
	for th, ts := range byThreshold {
		out = append(out, Row{Threshold: th, TickSize: ts})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Threshold < out[j].Threshold })
	return &Table{rows: out}
}

// Tick returns the tick size of the last row whose threshold is <= p.
// It errors if p is below every row's threshold (racewatch.ErrNoTicktableRow)
// or the table has no rows (racewatch.ErrEmptyTicktable).
func (t *Table) Tick(p racewatch.Price) (racewatch.Tick, error) {
	if len(t.rows) == 0 {
		return 0, racewatch.ErrEmptyTicktable
	}
	// rows are sorted ascending; find the last index with Threshold <= p.
	idx := sort.Search(len(t.rows), func(i int) bool { return t.rows[i].Threshold > p }) - 1
	if idx < 0 {
		return 0, fmt.Errorf("%w: price %d below lowest threshold %d", racewatch.ErrNoTicktableRow, p, t.rows[0].Threshold)
	}
	return t.rows[idx].TickSize, nil
}

// TickRound rounds p down to the nearest multiple of its resolved tick
// size. S3's candidate-price enumeration uses Ticks, not TickRound.
func (t *Table) TickRound(p racewatch.Price) (racewatch.Price, error) {
	tick, err := t.Tick(p)
	if err != nil {
		return 0, err
	}
	if tick <= 0 {
		return p, nil
	}
	return p - racewatch.Price(int64(p)%int64(tick)), nil
}

// Ticks returns every tick-aligned price in [lo, hi] inclusive, using the
// tick size resolved at each step (ticks may change across threshold
// boundaries). Used by S3's candidate-price enumeration (spec.md §4.3.4).
func (t *Table) Ticks(lo, hi racewatch.Price) ([]racewatch.Price, error) {
	if lo > hi {
		return nil, nil
	}
	var out []racewatch.Price
	p := lo
	for p <= hi {
		out = append(out, p)
		tick, err := t.Tick(p)
		if err != nil {
			return nil, err
		}
		if tick <= 0 {
			break
		}
		p += racewatch.Price(tick)
	}
	return out, nil
}

// LoadCSV reads a ticktable from a CSV reference file with columns
// "p_threshold,tick_size" (spec.md §6.3), converting both to integer
// price-factor units via f.
func LoadCSV(r io.Reader, f racewatch.PriceFactor) (*Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ticktable: reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, racewatch.ErrEmptyTicktable
	}

	start := 0
	if len(records[0]) >= 2 && (records[0][0] == "p_threshold" || records[0][0] == "P_Threshold") {
		start = 1 // header row
	}

	rows := make([]Row, 0, len(records)-start)
	for _, rec := range records[start:] {
		if len(rec) < 2 {
			continue
		}
		threshold, err := f.Convert(rec[0])
		if err != nil {
			return nil, fmt.Errorf("ticktable: threshold: %w", err)
		}
		tickPrice, err := f.Convert(rec[1])
		if err != nil {
			return nil, fmt.Errorf("ticktable: tick_size: %w", err)
		}
		rows = append(rows, Row{Threshold: threshold, TickSize: racewatch.Tick(tickPrice)})
	}
	return New(rows), nil
}
