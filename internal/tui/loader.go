package tui

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RaceRow is one row of artifact 4 (spec.md §6.4.4) as written by
// internal/out.WriteRaceRecordsCSV, read back for display rather than
// further processing — the browser is read-only over a completed run's
// output, so there's no need to reconstruct a race.Record.
type RaceRow struct {
	SingleLvlRaceID int
	StartMsgIdx     int
	Timestamp       string
	Side            string
	SignedPrice     int64
	HorizonNanos    int64
	MsgIdxs         []int
}

// LoadRaces reads <outputRoot>/<date>_<symbol>_races.csv, the artifact
// written by a prior pipeline.Process run.
func LoadRaces(outputRoot, date, symbol string) ([]RaceRow, error) {
	path := filepath.Join(outputRoot, fmt.Sprintf("%s_%s_races.csv", date, symbol))
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tui: reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	out := make([]RaceRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 6 {
			continue
		}
		row, err := parseRaceRow(rec)
		if err != nil {
			return nil, fmt.Errorf("tui: parsing %s: %w", path, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func parseRaceRow(rec []string) (RaceRow, error) {
	var row RaceRow
	var err error
	if row.SingleLvlRaceID, err = strconv.Atoi(rec[0]); err != nil {
		return row, err
	}
	if row.StartMsgIdx, err = strconv.Atoi(rec[1]); err != nil {
		return row, err
	}
	row.Timestamp = rec[2]
	row.Side = rec[3]
	if row.SignedPrice, err = strconv.ParseInt(rec[4], 10, 64); err != nil {
		return row, err
	}
	if row.HorizonNanos, err = strconv.ParseInt(rec[5], 10, 64); err != nil {
		return row, err
	}
	if len(rec) > 6 && rec[6] != "" {
		for _, s := range strings.Split(rec[6], ";") {
			idx, err := strconv.Atoi(s)
			if err != nil {
				return row, err
			}
			row.MsgIdxs = append(row.MsgIdxs, idx)
		}
	}
	return row, nil
}
