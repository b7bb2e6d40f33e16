package classify

import "github.com/ericbudish/racewatch"

// sideView adapts MessageRecord's Bid/Ask mirror fields (§3.4) into one set
// of accessors, so scanQuoteSide can be written once and run twice per user
// (spec.md §4.1.4).
type sideView struct {
	categorized  func(*racewatch.MessageRecord) bool
	setCatNum    func(mj *racewatch.MessageRecord, c int) // marks categorized + event num
	setEvent     func(m *racewatch.MessageRecord, event string)
	setPriceLvl  func(m *racewatch.MessageRecord, p racewatch.Price)
	setPrevLvl   func(m *racewatch.MessageRecord, p racewatch.Price)
	setPrevQty   func(m *racewatch.MessageRecord, q float64)
	setMinMax    func(m *racewatch.MessageRecord, lo, hi racewatch.Price)
	quotedPrice  func(m *racewatch.MessageRecord) racewatch.Price
	quotedQty    func(m *racewatch.MessageRecord) float64
}

func viewFor(side racewatch.Side) sideView {
	if side == racewatch.Side_Bid {
		return sideView{
			categorized: func(m *racewatch.MessageRecord) bool { return m.BidCategorized },
			setCatNum: func(m *racewatch.MessageRecord, c int) {
				m.BidCategorized, m.BidEventNum = true, c
			},
			setEvent:    func(m *racewatch.MessageRecord, e string) { m.BidEvent = e },
			setPriceLvl: func(m *racewatch.MessageRecord, p racewatch.Price) { m.BidPriceLvl = p },
			setPrevLvl:  func(m *racewatch.MessageRecord, p racewatch.Price) { m.PrevBidPriceLvl = p },
			setPrevQty:  func(m *racewatch.MessageRecord, q float64) { m.PrevBidQty = q },
			setMinMax: func(m *racewatch.MessageRecord, lo, hi racewatch.Price) {
				m.BidMinExecPriceLvl, m.BidMaxExecPriceLvl = lo, hi
			},
			quotedPrice: func(m *racewatch.MessageRecord) racewatch.Price { return m.BidPrice },
			quotedQty:   func(m *racewatch.MessageRecord) float64 { return m.BidSize },
		}
	}
	return sideView{
		categorized: func(m *racewatch.MessageRecord) bool { return m.AskCategorized },
		setCatNum: func(m *racewatch.MessageRecord, c int) {
			m.AskCategorized, m.AskEventNum = true, c
		},
		setEvent:    func(m *racewatch.MessageRecord, e string) { m.AskEvent = e },
		setPriceLvl: func(m *racewatch.MessageRecord, p racewatch.Price) { m.AskPriceLvl = p },
		setPrevLvl:  func(m *racewatch.MessageRecord, p racewatch.Price) { m.PrevAskPriceLvl = p },
		setPrevQty:  func(m *racewatch.MessageRecord, q float64) { m.PrevAskQty = q },
		setMinMax: func(m *racewatch.MessageRecord, lo, hi racewatch.Price) {
			m.AskMinExecPriceLvl, m.AskMaxExecPriceLvl = lo, hi
		},
		quotedPrice: func(m *racewatch.MessageRecord) racewatch.Price { return m.AskPrice },
		quotedQty:   func(m *racewatch.MessageRecord) float64 { return m.AskSize },
	}
}

func isQuoteAcceptType(u racewatch.UnifiedMessageType) bool {
	return u == racewatch.ME_NewOrderAccept || u == racewatch.ME_CancelReplaceAccept
}

func isQuoteRejectType(u racewatch.UnifiedMessageType) bool {
	return u == racewatch.ME_OrderReject || u == racewatch.ME_OtherReject ||
		u == racewatch.ME_CancelRejectTLTC || u == racewatch.ME_CancelRejectOther
}

// scanQuoteSide runs one (user, side) pass of spec.md §4.1.4 over indices,
// the user's full quote-related message list (shared by both side passes).
func scanQuoteSide(msgs []racewatch.MessageRecord, indices []int, side racewatch.Side) Diagnostics {
	var diag Diagnostics
	shadow := racewatch.NewQuoteShadow()
	c := 0
	v := viewFor(side)

	for pos, i := range indices {
		m := &msgs[i]
		if v.categorized(m) {
			continue
		}
		switch m.MessageType {
		case racewatch.MessageType_NewQuote:
			c++
			diag.Merge(scanNewQuote(msgs, indices, pos, side, v, shadow, c))
		case racewatch.MessageType_CancelRequest:
			c++
			scanQuoteCancel(msgs, indices, pos, side, v, shadow, c)
		case racewatch.MessageType_CancelReplaceReq:
			c++
			diag.Merge(scanQuoteCancelReplace(msgs, indices, pos, side, v, shadow, c))
		default:
			if m.Side != side {
				continue
			}
			c++
			scanQuoteUnclaimedOutbound(m, v, shadow, c)
			diag.UnclaimedOutbound++
		}
	}
	return diag
}

// scanQuoteSideLookahead walks indices[pos+1:] for the active side's terminal
// reply, applying the opposite-side interplay rules of spec.md §4.1.4:
// a second opposite-side Accept/CancelReplaceAccept force-closes the event,
// and an opposite-side reject is allowed to close it too (rejects are
// two-sided). It returns the resolved event label, exec price range and
// diagnostics; callers supply the label used for each outcome.
func scanQuoteSideLookahead(msgs []racewatch.MessageRecord, indices []int, pos int, side racewatch.Side, v sideView, clientOrderID string, c int, origTIF racewatch.TIF, origIdx int, labels quoteOutcomeLabels, noResponse string) (event string, minExec, maxExec racewatch.Price, diag Diagnostics) {
	event = noResponse
	minExec, maxExec = racewatch.UnsetPrice, racewatch.UnsetPrice
	oppositeAccepts := 0

	for k := pos + 1; k < len(indices); k++ {
		j := indices[k]
		mj := &msgs[j]
		if mj.ClientOrderID != clientOrderID {
			continue
		}
		if mj.Side != racewatch.Side_None && mj.Side != side {
			switch {
			case isQuoteAcceptType(mj.UnifiedMessageType):
				oppositeAccepts++
				if oppositeAccepts >= 2 {
					diag.QuoteForceClosed++
					return event, minExec, maxExec, diag
				}
			case isQuoteRejectType(mj.UnifiedMessageType):
				diag.QuoteRejectCloses++
				event = labels.failed
				return event, minExec, maxExec, diag
			}
			continue
		}
		if v.categorized(mj) {
			continue
		}
		switch mj.UnifiedMessageType {
		case racewatch.ME_NewOrderAccept:
			v.setCatNum(mj, c)
			event = labels.accepted
		case racewatch.ME_FullFillAggr:
			v.setCatNum(mj, c)
			event = labels.aggrFull
			minExec, maxExec = mj.ExecutedPrice, mj.ExecutedPrice
		case racewatch.ME_PartialFillAggr:
			v.setCatNum(mj, c)
			mark := func(mk *racewatch.MessageRecord, cc int) { v.setCatNum(mk, cc) }
			label, lo, hi, d := partialFillChain(msgs, indices, k, origTIF, origIdx, c, mark)
			diag.Merge(d)
			if label == "full" {
				event = labels.aggrFull
			} else {
				event = labels.aggrPart
			}
			minExec, maxExec = lo, hi
		case racewatch.ME_OrderExpire:
			v.setCatNum(mj, c)
			event = labels.expired
		case racewatch.ME_OrderReject, racewatch.ME_OtherReject:
			v.setCatNum(mj, c)
			event = labels.failed
		case racewatch.ME_OrderSuspend:
			v.setCatNum(mj, c)
			event = labels.suspended
		case racewatch.ME_CancelAccept:
			v.setCatNum(mj, c)
			event = labels.cancelAccepted
		case racewatch.ME_CancelReplaceAccept:
			v.setCatNum(mj, c)
			event = labels.accepted
		case racewatch.ME_CancelRejectTLTC:
			v.setCatNum(mj, c)
			event = labels.cancelRejected
		case racewatch.ME_CancelRejectOther:
			v.setCatNum(mj, c)
			event = labels.cancelFailed
		default:
			continue
		}
		return event, minExec, maxExec, diag
	}
	return event, minExec, maxExec, diag
}

// applyLookaheadStatus updates shadow's lifecycle Status from a terminal
// reply outcome of scanQuoteSideLookahead (spec.md §4.1.3's catch-all
// lookahead exhaustion paths): a reject or cancel-reject calls
// QuoteShadow.Reject, a lookahead that never finds a reply calls it with
// noResponse=true, and Suspended/Expired are assigned directly since
// Reject only distinguishes rejected from no-response.
func applyLookaheadStatus(shadow *racewatch.QuoteShadow, event string, labels quoteOutcomeLabels, noResponse string) {
	switch event {
	case noResponse:
		shadow.Reject(true)
	case labels.failed, labels.cancelRejected, labels.cancelFailed:
		shadow.Reject(false)
	case labels.suspended:
		shadow.Status = racewatch.QuoteStatus_Suspended
	case labels.expired:
		shadow.Status = racewatch.QuoteStatus_Expired
	}
}

// quoteOutcomeLabels lets New_Quote / Cancel_Replace share one lookahead
// while reporting the right event vocabulary (spec.md §4.1.2).
type quoteOutcomeLabels struct {
	accepted       string
	aggrFull       string
	aggrPart       string
	expired        string
	suspended      string
	failed         string
	cancelAccepted string
	cancelRejected string
	cancelFailed   string
}

var newQuoteLabels = quoteOutcomeLabels{
	aggrFull: EventQuoteAggrFull, aggrPart: EventQuoteAggrPart,
	expired: EventQuoteExpired, suspended: EventQuoteSuspended, failed: EventQuoteFailed,
}

var cancelReplaceQuoteLabels = quoteOutcomeLabels{
	aggrFull: EventQuoteAggrFull, aggrPart: EventQuoteAggrPart,
	expired: EventQuoteExpired, suspended: EventQuoteSuspended, failed: EventQuoteFailed,
}

func scanNewQuote(msgs []racewatch.MessageRecord, indices []int, pos int, side racewatch.Side, v sideView, shadow *racewatch.QuoteShadow, c int) Diagnostics {
	i := indices[pos]
	m := &msgs[i]

	firstEver := shadow.Status == racewatch.QuoteStatus_None
	v.setPrevLvl(m, shadow.GwPrc)
	v.setPrevQty(m, shadow.GwQty)

	price, qty := v.quotedPrice(m), v.quotedQty(m)
	if firstEver {
		shadow.Add(price, qty)
	} else {
		shadow.Amend(price, qty)
	}
	v.setCatNum(m, c)
	v.setPriceLvl(m, shadow.GwPrc)

	var diag Diagnostics
	if !shadow.AnySideExpected() {
		v.setEvent(m, EventOtherQuoteActivity)
		return diag
	}

	labels := newQuoteLabels
	if firstEver {
		labels.accepted = EventNewQuoteAccepted
	} else {
		labels.accepted = EventNewQuoteUpdatedAccepted
	}

	event, minExec, maxExec, d := scanQuoteSideLookahead(msgs, indices, pos, side, v, m.ClientOrderID, c, m.TIF, i, labels, EventQuoteNoResponse)
	diag.Merge(d)
	applyLookaheadStatus(shadow, event, labels, EventQuoteNoResponse)
	v.setEvent(m, event)
	v.setMinMax(m, minExec, maxExec)
	return diag
}

func scanQuoteCancel(msgs []racewatch.MessageRecord, indices []int, pos int, side racewatch.Side, v sideView, shadow *racewatch.QuoteShadow, c int) {
	i := indices[pos]
	m := &msgs[i]
	v.setPrevLvl(m, shadow.GwPrc)
	v.setPrevQty(m, shadow.GwQty)
	v.setCatNum(m, c)

	labels := quoteOutcomeLabels{
		cancelAccepted: EventQuoteCancelAccepted,
		cancelRejected: EventQuoteCancelRejected,
		cancelFailed:   EventQuoteCancelFailed,
		failed:         EventQuoteCancelFailed,
	}
	event, _, _, _ := scanQuoteSideLookahead(msgs, indices, pos, side, v, m.ClientOrderID, c, m.TIF, i, labels, EventQuoteCancelNoResponse)
	if event == EventQuoteCancelAccepted {
		shadow.Cancel()
	} else {
		applyLookaheadStatus(shadow, event, labels, EventQuoteCancelNoResponse)
	}
	v.setEvent(m, event)
}

func scanQuoteCancelReplace(msgs []racewatch.MessageRecord, indices []int, pos int, side racewatch.Side, v sideView, shadow *racewatch.QuoteShadow, c int) Diagnostics {
	i := indices[pos]
	m := &msgs[i]
	v.setPrevLvl(m, shadow.GwPrc)
	v.setPrevQty(m, shadow.GwQty)
	shadow.Amend(v.quotedPrice(m), v.quotedQty(m))
	v.setCatNum(m, c)
	v.setPriceLvl(m, shadow.GwPrc)

	var diag Diagnostics
	if !shadow.AnySideExpected() {
		v.setEvent(m, EventOtherQuoteActivity)
		return diag
	}

	labels := cancelReplaceQuoteLabels
	labels.accepted = EventNewQuoteUpdatedAccepted
	labels.cancelRejected = EventQuoteCancelRejected
	labels.cancelFailed = EventQuoteCancelFailed

	event, minExec, maxExec, d := scanQuoteSideLookahead(msgs, indices, pos, side, v, m.ClientOrderID, c, m.TIF, i, labels, EventQuoteNoResponse)
	diag.Merge(d)
	applyLookaheadStatus(shadow, event, labels, EventQuoteNoResponse)
	v.setEvent(m, event)
	v.setMinMax(m, minExec, maxExec)
	return diag
}

func scanQuoteUnclaimedOutbound(m *racewatch.MessageRecord, v sideView, shadow *racewatch.QuoteShadow, c int) {
	v.setCatNum(m, c)
	v.setPriceLvl(m, shadow.GwPrc)

	switch {
	case m.UnifiedMessageType == racewatch.ME_FullFillPassive:
		shadow.PassiveFill(m.ExecutedPrice, m.LeavesQty)
		v.setEvent(m, EventQuotePassiveExecFull)
	case m.UnifiedMessageType == racewatch.ME_PartialFillPassive:
		shadow.PassiveFill(m.ExecutedPrice, m.LeavesQty)
		v.setEvent(m, EventQuotePassiveExecPart)
	case m.UnifiedMessageType.IsFullFill():
		shadow.UpdateME(m.ExecutedPrice, m.LeavesQty)
		v.setEvent(m, EventQuoteExecFullOther)
	case m.UnifiedMessageType.IsPartialFill():
		shadow.UpdateME(m.ExecutedPrice, m.LeavesQty)
		v.setEvent(m, EventQuoteExecPartOther)
	default:
		shadow.UpdateME(m.PriceLvl, m.LeavesQty)
		v.setEvent(m, EventOtherQuoteActivity)
	}
}
