// Package out writes a processed symbol-day's four output artifacts
// (spec.md §6.4): classified messages, BBO series, depth map, and race
// records.
package out

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/book"
	"github.com/ericbudish/racewatch/internal/race"
)

var messageColumns = []string{
	"MsgIdx", "UniqueOrderID", "UserID", "MessageTimestamp", "MessageType", "Side",
	"UnifiedMessageType", "Event", "PriceLvl", "PrevPriceLvl",
	"BidEvent", "BidPriceLvl", "AskEvent", "AskPriceLvl",
}

// WriteMessagesCSV writes artifact 1 (spec.md §6.4.1) as a projection of
// each MessageRecord: its identity, type and side columns plus S1's event
// and price-level annotations (§3.6), as listed in messageColumns. The
// remaining MessageRecord fields are not written to this or any other
// artifact.
func WriteMessagesCSV(w io.Writer, msgs []racewatch.MessageRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(messageColumns); err != nil {
		return fmt.Errorf("out: writing message header: %w", err)
	}
	for _, m := range msgs {
		row := []string{
			strconv.Itoa(m.MsgIdx), m.UniqueOrderID, m.UserID,
			m.Timestamp.Format("2006-01-02T15:04:05.000000000Z07:00"),
			string(m.MessageType), m.Side.String(),
			string(m.UnifiedMessageType), m.Event,
			formatPrice(m.PriceLvl), formatPrice(m.PrevPriceLvl),
			m.BidEvent, formatPrice(m.BidPriceLvl),
			m.AskEvent, formatPrice(m.AskPriceLvl),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("out: writing message row %d: %w", m.MsgIdx, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var raceColumns = []string{
	"SingleLvlRaceID", "StartMsgIdx", "Timestamp", "Side", "SignedPrice", "HorizonNanos", "RaceMsgIdx",
}

// WriteRaceRecordsCSV writes artifact 4 (spec.md §6.4.4, §3.8).
func WriteRaceRecordsCSV(w io.Writer, recs []race.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(raceColumns); err != nil {
		return fmt.Errorf("out: writing race header: %w", err)
	}
	for _, r := range recs {
		row := []string{
			strconv.Itoa(r.SingleLvlRaceID), strconv.Itoa(r.StartMsgIdx),
			r.Timestamp.Format("2006-01-02T15:04:05.000000000Z07:00"),
			r.Side.String(), strconv.FormatInt(int64(r.SignedPrice), 10),
			strconv.FormatInt(r.Horizon.Nanoseconds(), 10),
			joinInts(r.MsgIdxs),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("out: writing race row %d: %w", r.SingleLvlRaceID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var depthColumns = []string{"Side", "Price", "Kind", "MsgIdx", "PostChangeQty"}

// WriteDepthMapCSV writes artifact 3 (spec.md §6.4.3): a time series of
// postChangeQty keyed by (Side, Price, Disp|Total). It is derived from the
// BBO series' own top-of-book quantities rather than a full per-level
// change log — book.Process does not currently emit one (DESIGN.md) — so
// this captures depth at the best price on each side, not every resting
// level.
func WriteDepthMapCSV(w io.Writer, rows []book.BBORow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(depthColumns); err != nil {
		return fmt.Errorf("out: writing depth header: %w", err)
	}
	for _, r := range rows {
		entries := []struct {
			side racewatch.Side
			p    racewatch.Price
			kind string
			qty  float64
		}{
			{racewatch.Side_Bid, r.BestBid, "Disp", r.BidDispQty},
			{racewatch.Side_Bid, r.BestBidH, "Total", r.BidTotalQty},
			{racewatch.Side_Ask, r.BestAsk, "Disp", r.AskDispQty},
			{racewatch.Side_Ask, r.BestAskH, "Total", r.AskTotalQty},
		}
		for _, e := range entries {
			if !e.p.IsSet() {
				continue
			}
			row := []string{
				e.side.String(), strconv.FormatInt(int64(e.p), 10), e.kind,
				strconv.Itoa(r.MsgIdx), strconv.FormatFloat(e.qty, 'f', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("out: writing depth row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatPrice(p racewatch.Price) string {
	if !p.IsSet() {
		return ""
	}
	return strconv.FormatInt(int64(p), 10)
}

func joinInts(vs []int) string {
	out := ""
	for i, v := range vs {
		if i > 0 {
			out += ";"
		}
		out += strconv.Itoa(v)
	}
	return out
}
