// Package race implements S3, the race detector (spec.md §4.3): it tags
// every message as a potential liquidity take or cancel attempt on each
// side, computes processing time and race horizon, and runs the
// single-level race scan to emit race records.
package race

import (
	"sort"
	"time"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/book"
	"github.com/ericbudish/racewatch/internal/classify"
)

// AttemptKind distinguishes a liquidity-taking attempt from a withdrawal
// attempt (spec.md §4.3.1).
type AttemptKind string

const (
	Take   AttemptKind = "Take"
	Cancel AttemptKind = "Cancel"
)

// Outcome is a race-relevant tag's result as seen from its own attempt.
// RacePriceDependent resolves to Success or Fail once a candidate race
// price is known (spec.md §4.3.4 step 4).
type Outcome string

const (
	Success            Outcome = "Success"
	Fail               Outcome = "Fail"
	RacePriceDependent Outcome = "RacePriceDependent"
	Unknown            Outcome = "Unknown"
)

// Tag is one message's race-relevance annotation on one race side. A
// message may carry up to two tags (a bid-side and an ask-side one), so
// Tag carries its own Side rather than mutating MessageRecord in place
// (spec.md §4.3.1).
type Tag struct {
	MsgIdx    int
	Side      racewatch.Side // the race side this tag belongs to
	UserID    string
	Timestamp time.Time
	Kind      AttemptKind
	Outcome   Outcome
	IsIOC     bool // Take attempts only, for strict_fail (§4.3.4 step 4)

	PriceRaw    racewatch.Price // the attempt's own raw price
	PriceSigned racewatch.Price // raceRlvtPriceSigned (§4.3.1)

	BestExecSigned racewatch.Price // Take attempts only; UnsetPrice otherwise
}

// Tags implements spec.md §4.3.1's preparation pass over a classified,
// book-decorated message stream, returning every race-relevant tag on
// both sides. bbo supplies the current best ask/bid for market orders,
// which carry no LimitPrice of their own. msgs must already carry S1's
// and S2's annotations.
func Tags(msgs []racewatch.MessageRecord, bbo []book.BBORow) []Tag {
	lookup := newBBOLookup(bbo)
	var tags []Tag
	for i := range msgs {
		m := &msgs[i]
		for _, side := range []racewatch.Side{racewatch.Side_Ask, racewatch.Side_Bid} {
			if t, ok := takeTag(m, side, lookup); ok {
				tags = append(tags, t)
			}
			if t, ok := cancelTag(m, side); ok {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

func newTag(m *racewatch.MessageRecord, raceSide racewatch.Side, kind AttemptKind, outcome Outcome, priceRaw, bestExecRaw racewatch.Price) Tag {
	bestExecSigned := racewatch.UnsetPrice
	if bestExecRaw.IsSet() {
		bestExecSigned = raceSide.SignedPrice(bestExecRaw)
	}
	return Tag{
		MsgIdx: m.MsgIdx, Side: raceSide, UserID: m.UserID, Timestamp: m.Timestamp,
		Kind: kind, Outcome: outcome,
		IsIOC:          m.TIF == racewatch.TIF_IOC || m.TIF == racewatch.TIF_FOK,
		PriceRaw:       priceRaw,
		PriceSigned:    raceSide.SignedPrice(priceRaw),
		BestExecSigned: bestExecSigned,
	}
}

// takeTag implements spec.md §4.3.1's "Take attempts" bullet for raceSide:
// messages on the opposite side that would consume liquidity resting on
// raceSide.
func takeTag(m *racewatch.MessageRecord, raceSide racewatch.Side, lookup *bboLookup) (Tag, bool) {
	attacker := raceSide.Opposite()
	switch {
	case !m.QuoteRelated && m.Side == attacker && m.MessageType == racewatch.MessageType_NewOrder:
		return newOrderTakeTag(m, raceSide, lookup)
	case !m.QuoteRelated && m.Side == attacker && m.MessageType == racewatch.MessageType_CancelReplaceReq:
		return cancelReplaceTakeTag(m, raceSide, attacker)
	case m.QuoteRelated && m.MessageType == racewatch.MessageType_NewQuote:
		return quoteTakeTag(m, raceSide, attacker)
	}
	return Tag{}, false
}

func newOrderTakeTag(m *racewatch.MessageRecord, raceSide racewatch.Side, lookup *bboLookup) (Tag, bool) {
	var outcome Outcome
	switch m.Event {
	case classify.EventNewOrderAggrFull, classify.EventNewOrderAggrPart:
		outcome = RacePriceDependent
	case classify.EventNewOrderAccepted:
		if m.OrderType == racewatch.OrderType_Market {
			return Tag{}, false // accepted never applies to a market order
		}
		outcome = Fail
	case classify.EventNewOrderExpired:
		if m.TIF != racewatch.TIF_IOC && m.TIF != racewatch.TIF_FOK {
			return Tag{}, false
		}
		outcome = Unknown
	case classify.EventNewOrderNoResponse:
		outcome = Unknown
	default:
		return Tag{}, false
	}

	price := m.PriceLvl
	if m.OrderType == racewatch.OrderType_Market {
		price = lookup.best(m.MsgIdx, raceSide)
		if !price.IsSet() {
			return Tag{}, false
		}
	}
	return newTag(m, raceSide, Take, outcome, price, bestExecRaw(m, raceSide)), true
}

// cancelReplaceTakeTag covers a price-improving cancel/replace on the
// attacking side (spec.md §4.3.1).
func cancelReplaceTakeTag(m *racewatch.MessageRecord, raceSide, attacker racewatch.Side) (Tag, bool) {
	if !priceImproved(attacker, m.PriceLvl, m.PrevPriceLvl) {
		return Tag{}, false
	}
	var outcome Outcome
	switch m.Event {
	case classify.EventCancelReplaceAggrFull, classify.EventCancelReplaceAggrPart:
		outcome = RacePriceDependent
	case classify.EventCancelReplaceAccepted:
		outcome = Fail
	case classify.EventCancelReplaceNoResponse:
		outcome = Unknown
	default:
		return Tag{}, false
	}
	return newTag(m, raceSide, Take, outcome, m.PriceLvl, bestExecRaw(m, raceSide)), true
}

// quoteTakeTag covers a New Quote whose attacking side improves (spec.md §4.3.1).
func quoteTakeTag(m *racewatch.MessageRecord, raceSide, attacker racewatch.Side) (Tag, bool) {
	price, prevPrice := quoteSideLevels(m, attacker)
	if !priceImproved(attacker, price, prevPrice) {
		return Tag{}, false
	}
	var outcome Outcome
	switch quoteSideEvent(m, attacker) {
	case classify.EventQuoteAggrFull, classify.EventQuoteAggrPart:
		outcome = RacePriceDependent
	case classify.EventNewQuoteAccepted, classify.EventNewQuoteUpdatedAccepted:
		outcome = Fail
	case classify.EventQuoteNoResponse:
		outcome = Unknown
	default:
		return Tag{}, false
	}
	return newTag(m, raceSide, Take, outcome, price, bestExecRawQuote(m, raceSide)), true
}

// cancelTag implements spec.md §4.3.1's "Cancel attempts" bullet for
// raceSide: attempts to withdraw liquidity resting on raceSide itself.
func cancelTag(m *racewatch.MessageRecord, raceSide racewatch.Side) (Tag, bool) {
	switch {
	case !m.QuoteRelated && m.Side == raceSide && m.MessageType == racewatch.MessageType_CancelRequest:
		return orderCancelTag(m, raceSide)
	case !m.QuoteRelated && m.Side == raceSide && m.MessageType == racewatch.MessageType_CancelReplaceReq:
		return cancelReplaceCancelTag(m, raceSide)
	case m.QuoteRelated && m.MessageType == racewatch.MessageType_CancelRequest:
		return quoteCancelTag(m, raceSide)
	case m.QuoteRelated && m.MessageType == racewatch.MessageType_NewQuote:
		if t, ok := quoteCancelTag(m, raceSide); ok {
			return t, true
		}
		return quoteWorsenTag(m, raceSide)
	}
	return Tag{}, false
}

func orderCancelTag(m *racewatch.MessageRecord, raceSide racewatch.Side) (Tag, bool) {
	var outcome Outcome
	switch m.Event {
	case classify.EventCancelAccepted:
		outcome = Success
	case classify.EventCancelRejected: // classify only emits this label for TLTC rejects
		outcome = Fail
	case classify.EventCancelNoResponse:
		outcome = Unknown
	default:
		return Tag{}, false
	}
	return newTag(m, raceSide, Cancel, outcome, m.PrevPriceLvl, racewatch.UnsetPrice), true
}

// cancelReplaceCancelTag covers a cancel/replace on raceSide moving to a
// worse price (spec.md §4.3.1).
func cancelReplaceCancelTag(m *racewatch.MessageRecord, raceSide racewatch.Side) (Tag, bool) {
	if !priceWorsened(raceSide, m.PriceLvl, m.PrevPriceLvl) {
		return Tag{}, false
	}
	var outcome Outcome
	switch m.Event {
	case classify.EventCancelReplaceAccepted:
		outcome = Success
	case classify.EventCancelReplaceRejected: // TLTC only, as above
		outcome = Fail
	case classify.EventCancelReplaceNoResponse:
		outcome = Unknown
	default:
		return Tag{}, false
	}
	return newTag(m, raceSide, Cancel, outcome, m.PrevPriceLvl, racewatch.UnsetPrice), true
}

// quoteCancelTag covers an explicit quote-side cancel (spec.md §4.3.1).
func quoteCancelTag(m *racewatch.MessageRecord, raceSide racewatch.Side) (Tag, bool) {
	var outcome Outcome
	switch quoteSideEvent(m, raceSide) {
	case classify.EventQuoteCancelAccepted:
		outcome = Success
	case classify.EventQuoteCancelRejected:
		outcome = Fail
	case classify.EventQuoteCancelNoResponse:
		outcome = Unknown
	default:
		return Tag{}, false
	}
	_, prevPrice := quoteSideLevels(m, raceSide)
	return newTag(m, raceSide, Cancel, outcome, prevPrice, racewatch.UnsetPrice), true
}

// quoteWorsenTag covers a New Quote whose raceSide worsens (spec.md §4.3.1).
func quoteWorsenTag(m *racewatch.MessageRecord, raceSide racewatch.Side) (Tag, bool) {
	price, prevPrice := quoteSideLevels(m, raceSide)
	if !priceWorsened(raceSide, price, prevPrice) {
		return Tag{}, false
	}
	var outcome Outcome
	switch quoteSideEvent(m, raceSide) {
	case classify.EventNewQuoteAccepted, classify.EventNewQuoteUpdatedAccepted:
		outcome = Success
	case classify.EventQuoteNoResponse:
		outcome = Unknown
	default:
		return Tag{}, false
	}
	return newTag(m, raceSide, Cancel, outcome, price, racewatch.UnsetPrice), true
}

func quoteSideLevels(m *racewatch.MessageRecord, side racewatch.Side) (price, prevPrice racewatch.Price) {
	if side == racewatch.Side_Bid {
		return m.BidPriceLvl, m.PrevBidPriceLvl
	}
	return m.AskPriceLvl, m.PrevAskPriceLvl
}

func quoteSideEvent(m *racewatch.MessageRecord, side racewatch.Side) string {
	if side == racewatch.Side_Bid {
		return m.BidEvent
	}
	return m.AskEvent
}

// priceImproved reports whether newP is strictly better than prevP on
// side (higher for a bid, lower for an ask), or prevP was never set.
func priceImproved(side racewatch.Side, newP, prevP racewatch.Price) bool {
	if !newP.IsSet() {
		return false
	}
	if !prevP.IsSet() {
		return true
	}
	if side == racewatch.Side_Bid {
		return newP > prevP
	}
	return newP < prevP
}

// priceWorsened reports whether newP is strictly worse than prevP on side.
func priceWorsened(side racewatch.Side, newP, prevP racewatch.Price) bool {
	if !newP.IsSet() || !prevP.IsSet() {
		return false
	}
	if side == racewatch.Side_Ask {
		return newP > prevP
	}
	return newP < prevP
}

// bestExecRaw resolves spec.md §4.3.1's "best-execution price used"
// field: MinExecPriceLvl for a take attempt in an ask race, and
// MaxExecPriceLvl for one in a bid race (the mirror).
func bestExecRaw(m *racewatch.MessageRecord, raceSide racewatch.Side) racewatch.Price {
	if raceSide == racewatch.Side_Bid {
		return m.MaxExecPriceLvl
	}
	return m.MinExecPriceLvl
}

// bestExecRawQuote is bestExecRaw's quote-mirror counterpart: raceSide
// determines both the Min/Max convention and, since the attacking side is
// always raceSide's opposite, which mirror field to read.
func bestExecRawQuote(m *racewatch.MessageRecord, raceSide racewatch.Side) racewatch.Price {
	if raceSide == racewatch.Side_Bid {
		return m.AskMaxExecPriceLvl
	}
	return m.BidMinExecPriceLvl
}

// bboLookup resolves the BBO in force at or immediately before a given
// message index, for market orders (which carry no LimitPrice of their
// own) and for the race scan's best-opposite-side lookups (spec.md §4.3.1, §4.3.4).
type bboLookup struct {
	rows []book.BBORow
}

func newBBOLookup(rows []book.BBORow) *bboLookup {
	return &bboLookup{rows: rows}
}

func (l *bboLookup) best(msgIdx int, side racewatch.Side) racewatch.Price {
	idx := sort.Search(len(l.rows), func(i int) bool { return l.rows[i].MsgIdx > msgIdx }) - 1
	if idx < 0 {
		return racewatch.UnsetPrice
	}
	if side == racewatch.Side_Bid {
		return l.rows[idx].BestBid
	}
	return l.rows[idx].BestAsk
}
