package race

import (
	"sort"
	"time"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/book"
	"github.com/ericbudish/racewatch/internal/ticktable"
)

// Record is one emitted race (spec.md §3.8, §4.3.5): the attempt that
// opened it, the race side and price level, the horizon that was in force,
// and every tag (take or cancel attempt) gathered into it.
type Record struct {
	SingleLvlRaceID int
	StartMsgIdx     int
	Timestamp       time.Time
	Side            racewatch.Side
	SignedPrice     racewatch.Price
	Horizon         time.Duration
	MsgIdxs         []int
}

// Process implements spec.md §4.3 end to end: relevance tagging (§4.3.1),
// processing time and horizon (§4.3.2-3), and the single-level race scan on
// both sides (§4.3.4), returning every race record sorted and numbered
// per §4.3.5. An empty result is valid (§4.3.6: most symbol-days have no
// races). msgs must already carry S1's and S2's annotations.
func Process(msgs []racewatch.MessageRecord, bbo []book.BBORow, tt *ticktable.Table, cfg racewatch.RaceParams) ([]Record, error) {
	tags := Tags(msgs, bbo)
	processingTime, known := ProcessingTime(msgs)
	lookup := newBBOLookup(bbo)

	var out []Record
	for _, side := range []racewatch.Side{racewatch.Side_Bid, racewatch.Side_Ask} {
		recs, err := ScanSide(filterSide(tags, side), side, processingTime, known, lookup, tt, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartMsgIdx != out[j].StartMsgIdx {
			return out[i].StartMsgIdx < out[j].StartMsgIdx
		}
		if out[i].Side != out[j].Side {
			return out[i].Side < out[j].Side
		}
		return out[i].SignedPrice < out[j].SignedPrice
	})
	for i := range out {
		out[i].SingleLvlRaceID = i + 1
	}
	return out, nil
}

func filterSide(tags []Tag, side racewatch.Side) []Tag {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if t.Side == side {
			out = append(out, t)
		}
	}
	return out
}
