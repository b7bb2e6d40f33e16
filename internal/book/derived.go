package book

import (
	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/ticktable"
)

// deriveColumns implements spec.md §4.2.4: forward-fill within regular
// hours, spread/midpoint columns (display and total-depth variants),
// tick-size lookups, change flags, and the last-valid-midpoint fill.
func deriveColumns(rows []BBORow, tt *ticktable.Table) {
	forwardFill(rows)

	for i := range rows {
		r := &rows[i]
		if r.BestBid.IsSet() && r.BestAsk.IsSet() {
			r.Spread = r.BestAsk - r.BestBid
			r.MidPt = (r.BestBid + r.BestAsk) / 2
		}
		if r.BestBidH.IsSet() && r.BestAskH.IsSet() {
			r.SpreadH = r.BestAskH - r.BestBidH
			r.MidPtH = (r.BestBidH + r.BestAskH) / 2
		}
		if tt != nil {
			if r.BestBid.IsSet() {
				if t, err := tt.Tick(r.BestBid); err == nil {
					r.BestBidTick = t
				}
			}
			if r.BestAsk.IsSet() {
				if t, err := tt.Tick(r.BestAsk); err == nil {
					r.BestAskTick = t
				}
			}
			if r.MidPt.IsSet() {
				if t, err := tt.Tick(r.MidPt); err == nil {
					r.MidPtTick = t
				}
			}
		}
	}

	deriveChangeFlags(rows)
	deriveLastValidMidPt(rows)
}

// forwardFill carries the book state across gaps — messages that didn't
// update the book, or rows outside regular hours — restricted to runs
// within regular hours (spec.md §4.2.4).
func forwardFill(rows []BBORow) {
	var have bool
	var prev BBORow
	for i := range rows {
		r := &rows[i]
		if !r.RegularHour {
			have = false
			continue
		}
		if !r.BestBid.IsSet() && !r.BestAsk.IsSet() && have {
			r.BestBid, r.BestAsk = prev.BestBid, prev.BestAsk
			r.BidDispQty, r.AskDispQty = prev.BidDispQty, prev.AskDispQty
			r.BestBidH, r.BestAskH = prev.BestBidH, prev.BestAskH
			r.BidTotalQty, r.AskTotalQty = prev.BidTotalQty, prev.AskTotalQty
		}
		prev = *r
		have = true
	}
}

// deriveChangeFlags computes MidPt_TickChange, Chg_MidPt and Chg_MidPt_Tx,
// and stamps the last-change timestamps for best bid, best ask, and
// midpoint (spec.md §4.2.4).
func deriveChangeFlags(rows []BBORow) {
	if len(rows) == 0 {
		return
	}
	var havePrev bool
	prevBid, prevAsk, prevMid := racewatch.UnsetPrice, racewatch.UnsetPrice, racewatch.UnsetPrice
	lastChangeBid, lastChangeAsk, lastChangeMid := rows[0].Timestamp, rows[0].Timestamp, rows[0].Timestamp

	for i := range rows {
		r := &rows[i]
		if havePrev {
			if r.BestBid != prevBid {
				lastChangeBid = r.Timestamp
			}
			if r.BestAsk != prevAsk {
				lastChangeAsk = r.Timestamp
			}
			if r.MidPt != prevMid {
				r.ChgMidPt = true
				lastChangeMid = r.Timestamp
			}
			if r.MidPtTick != 0 && prevMid.IsSet() && r.MidPt != prevMid {
				r.MidPtTickChange = true
			}
		}
		r.LastChangeBestBid, r.LastChangeBestAsk, r.LastChangeMidPt = lastChangeBid, lastChangeAsk, lastChangeMid
		if i > 0 && r.Timestamp != rows[i-1].Timestamp && r.ChgMidPt {
			r.ChgMidPtTx = true
		}
		prevBid, prevAsk, prevMid = r.BestBid, r.BestAsk, r.MidPt
		havePrev = true
	}
}

// deriveLastValidMidPt forward-fills the midpoint across crossed/locked
// rows (spread <= 0), restricted to rows where the spread is positive
// (spec.md §4.2.4).
func deriveLastValidMidPt(rows []BBORow) {
	last := racewatch.UnsetPrice
	for i := range rows {
		r := &rows[i]
		if r.Spread > 0 {
			last = r.MidPt
		}
		r.LastValidMidPt = last
	}
}
