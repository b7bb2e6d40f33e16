// Package book implements S2, the order-book engine (spec.md §4.2): it
// decorates a classified message stream with book-update bookkeeping,
// replays it into a reconstructed limit-order-book, applies the raw feed's
// auction and continuous-trading corrections, and derives the BBO/depth
// history and its change columns.
package book

import (
	"sort"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/classify"
)

// Diagnostics are S2's corner-case counters (spec.md §4.2.3, §4.2.5):
// never influence a symbol-day's output rows, only its logs.
type Diagnostics struct {
	CorrectionsAuction  int
	CorrectionsAccept   int
	CorrectionsFill     int
	CorrectionsFillOpp  int
	DepthKilled         float64
	BookTestingCounter  int
}

func (d *Diagnostics) Merge(o Diagnostics) {
	d.CorrectionsAuction += o.CorrectionsAuction
	d.CorrectionsAccept += o.CorrectionsAccept
	d.CorrectionsFill += o.CorrectionsFill
	d.CorrectionsFillOpp += o.CorrectionsFillOpp
	d.DepthKilled += o.DepthKilled
	d.BookTestingCounter += o.BookTestingCounter
}

// groupKind distinguishes an order's single event stream from a quote
// user's two independent per-side event streams (spec.md §3.4).
type groupKind byte

const (
	groupOrder groupKind = 'O'
	groupBid   groupKind = 'B'
	groupAsk   groupKind = 'A'
)

type eventKey struct {
	kind groupKind
	id   string
	num  int
}

// Decorate implements spec.md §4.2.1: it marks each event's last message and
// parent, labels trade pairs, sets the book-update relevance flags, and
// resolves BookUpdEventN/BookPrevLvlUpdEventN from each event's outcome.
// msgs must already carry S1's annotations (internal/classify.Classify).
func Decorate(msgs []racewatch.MessageRecord) Diagnostics {
	var diag Diagnostics

	groups := make(map[eventKey][]int)
	for i, m := range msgs {
		if m.EventNum != 0 {
			k := eventKey{groupOrder, m.UniqueOrderID, m.EventNum}
			groups[k] = append(groups[k], i)
		}
		if m.BidEventNum != 0 {
			k := eventKey{groupBid, m.UserID, m.BidEventNum}
			groups[k] = append(groups[k], i)
		}
		if m.AskEventNum != 0 {
			k := eventKey{groupAsk, m.UserID, m.AskEventNum}
			groups[k] = append(groups[k], i)
		}
	}

	for k, indices := range groups {
		sort.Ints(indices)
		parent, last := indices[0], indices[len(indices)-1]
		event := parentEventLabel(msgs, parent, k.kind)
		bookUpd, prevLvlUpd := bookFlagsForEvent(event)

		for _, idx := range indices {
			if msgs[idx].EventFirstMsgIdx == 0 || parent < msgs[idx].EventFirstMsgIdx {
				msgs[idx].EventFirstMsgIdx = parent
			}
		}
		msgs[last].EventLastMsg = true
		msgs[last].BookUpdEventN = msgs[last].BookUpdEventN || bookUpd
		msgs[last].BookPrevLvlUpdEventN = msgs[last].BookPrevLvlUpdEventN || prevLvlUpd

		// Only the classifying message in the group (usually the inbound)
		// carries the price-level fields the book engine needs; the flags
		// above land on the group's last message, so propagate the levels
		// there too when they differ (spec.md §4.2.2).
		if last != parent {
			propagateLevels(&msgs[parent], &msgs[last], k.kind)
		}
	}

	decorateTradePairs(msgs, &diag)

	// Bullet 3's "TradePos=0 (orphan trade) or non-execution" case: every
	// outbound message that decorateTradePairs didn't already pair up.
	for i := range msgs {
		m := &msgs[i]
		switch m.MessageType {
		case racewatch.MessageType_NewOrder, racewatch.MessageType_NewQuote, racewatch.MessageType_CancelRequest,
			racewatch.MessageType_CancelReplaceReq, racewatch.MessageType_OtherInbound:
			continue
		}
		if m.TradePos == 0 && m.EventNum+m.BidEventNum+m.AskEventNum != 0 {
			m.UpdateRelevant1 = m.EventLastMsg
		}
	}
	return diag
}

// propagateLevels copies the classifying message's price-level fields onto
// the group's last message, keyed by which of the three streams (order,
// bid, ask) produced the group (spec.md §4.2.2).
func propagateLevels(parent, last *racewatch.MessageRecord, kind groupKind) {
	switch kind {
	case groupOrder:
		last.PriceLvl, last.PrevPriceLvl, last.PrevQty = parent.PriceLvl, parent.PrevPriceLvl, parent.PrevQty
	case groupBid:
		last.BidPriceLvl, last.PrevBidPriceLvl, last.PrevBidQty = parent.BidPriceLvl, parent.PrevBidPriceLvl, parent.PrevBidQty
	case groupAsk:
		last.AskPriceLvl, last.PrevAskPriceLvl, last.PrevAskQty = parent.AskPriceLvl, parent.PrevAskPriceLvl, parent.PrevAskQty
	}
}

func parentEventLabel(msgs []racewatch.MessageRecord, parent int, kind groupKind) string {
	switch kind {
	case groupBid:
		return msgs[parent].BidEvent
	case groupAsk:
		return msgs[parent].AskEvent
	default:
		return msgs[parent].Event
	}
}

// decorateTradePairs implements spec.md §4.2.1 bullets 2-3: TradeMatchID
// pairing by timestamp and the cross-message UpdateRelevant1/2 flags.
func decorateTradePairs(msgs []racewatch.MessageRecord, diag *Diagnostics) {
	byTrade := make(map[string][]int)
	for i, m := range msgs {
		if m.TradeMatchID != "" && m.UnifiedMessageType.IsExecution() {
			byTrade[m.TradeMatchID] = append(byTrade[m.TradeMatchID], i)
		}
	}
	for _, indices := range byTrade {
		sort.Slice(indices, func(a, b int) bool {
			ta, tb := msgs[indices[a]].Timestamp, msgs[indices[b]].Timestamp
			if ta.Equal(tb) {
				return indices[a] < indices[b]
			}
			return ta.Before(tb)
		})
		switch len(indices) {
		case 1:
			// TradePos stays 0 (orphan trade), left as the zero value.
		case 2:
			left, right := indices[0], indices[1]
			msgs[left].TradePos, msgs[right].TradePos = 1, 2
			msgs[left].UpdateRelevant1 = msgs[left].EventLastMsg
			msgs[left].UpdateRelevant2 = msgs[right].EventLastMsg
			msgs[right].UpdateRelevant1 = msgs[right].EventLastMsg
			msgs[right].UpdateRelevant2 = msgs[left].EventLastMsg
		default:
			diag.BookTestingCounter++
		}
	}
}

// bookFlagsForEvent implements the event-label table of spec.md §4.2.1
// bullet 4 (the full mapping lives in the original implementation's §10.2;
// this covers every label S1 can produce).
func bookFlagsForEvent(event string) (bookUpd, prevLvlUpd bool) {
	switch event {
	case classify.EventNewOrderAccepted, classify.EventNewOrderAggrPart,
		classify.EventNewQuoteAccepted,
		classify.EventOrderPassiveExecPart, classify.EventOrderPassiveExecFull,
		classify.EventOrderExecPartOther, classify.EventOrderExecFullOther,
		classify.EventOtherMEActivity,
		classify.EventQuotePassiveExecPart, classify.EventQuotePassiveExecFull,
		classify.EventQuoteExecPartOther, classify.EventQuoteExecFullOther,
		classify.EventOtherQuoteActivity, classify.EventQuoteAggrPart:
		return true, false
	case classify.EventCancelAccepted, classify.EventQuoteCancelAccepted:
		return false, true
	case classify.EventCancelReplaceAccepted, classify.EventCancelReplaceAggrPart,
		classify.EventNewQuoteUpdatedAccepted:
		return true, true
	case classify.EventCancelReplaceAggrFull, classify.EventQuoteAggrFull:
		return false, true
	default:
		return false, false
	}
}
