package race

import (
	"fmt"
	"sort"
	"time"

	"github.com/ericbudish/racewatch"
)

// ProcessingTime implements spec.md §4.3.2: for each inbound message, the
// elapsed time to its event's first outbound reply. known reports whether
// out[i] has been observed yet rather than forward-filled from the zero
// value; before the first known value out[i] is zero and known[i] is false.
func ProcessingTime(msgs []racewatch.MessageRecord) (out []time.Duration, known []bool) {
	out = make([]time.Duration, len(msgs))
	has := make([]bool, len(msgs))

	assign := func(groups map[string][]int) {
		for _, idxs := range groups {
			sort.Ints(idxs)
			if len(idxs) < 2 {
				continue // no-response event: leave for forward-fill
			}
			first, reply := idxs[0], idxs[1]
			out[first] = msgs[reply].Timestamp.Sub(msgs[first].Timestamp)
			has[first] = true
		}
	}

	orderGroups := make(map[string][]int)
	bidGroups := make(map[string][]int)
	askGroups := make(map[string][]int)
	for i, m := range msgs {
		if m.EventNum != 0 {
			k := fmt.Sprintf("%s#%d", m.UniqueOrderID, m.EventNum)
			orderGroups[k] = append(orderGroups[k], i)
		}
		if m.BidEventNum != 0 {
			k := fmt.Sprintf("%s#%d", m.UserID, m.BidEventNum)
			bidGroups[k] = append(bidGroups[k], i)
		}
		if m.AskEventNum != 0 {
			k := fmt.Sprintf("%s#%d", m.UserID, m.AskEventNum)
			askGroups[k] = append(askGroups[k], i)
		}
	}
	assign(orderGroups)
	assign(bidGroups)
	assign(askGroups)

	known = make([]bool, len(msgs))
	var last time.Duration
	var haveLast bool
	for i := range msgs {
		if has[i] {
			last, haveLast = out[i], true
		}
		out[i] = last
		known[i] = haveLast
	}
	return out, known
}

// Horizon implements spec.md §4.3.3: FixedHorizon uses a constant window;
// InfoHorizon caps processingTime+MinReactionTime at InfoHorUpperBound, and
// falls back to the upper bound itself when no processing time is known yet.
func Horizon(cfg racewatch.RaceParams, processingTime time.Duration, known bool) time.Duration {
	if cfg.Method == racewatch.RaceMethod_FixedHorizon {
		return cfg.LenFixedHor
	}
	if !known {
		return cfg.InfoHorUpperBound
	}
	h := processingTime + cfg.MinReactionTime
	if h > cfg.InfoHorUpperBound {
		return cfg.InfoHorUpperBound
	}
	return h
}
