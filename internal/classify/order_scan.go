package classify

import "github.com/ericbudish/racewatch"

// scanOrder walks one order's messages in ascending index order, a
// counter c incrementing for each uncategorized message, dispatching on
// MessageType per spec.md §4.1.3. indices holds the order's message
// positions into msgs, already ascending.
func scanOrder(msgs []racewatch.MessageRecord, indices []int) Diagnostics {
	var diag Diagnostics
	shadow := racewatch.NewOrderShadow()
	c := 0

	for pos, i := range indices {
		if msgs[i].Categorized {
			continue
		}
		c++
		switch msgs[i].MessageType {
		case racewatch.MessageType_NewOrder:
			diag.Merge(scanNewOrder(msgs, indices, pos, shadow, c))
		case racewatch.MessageType_CancelRequest:
			scanCancel(msgs, indices, pos, shadow, c)
		case racewatch.MessageType_CancelReplaceReq:
			diag.Merge(scanCancelReplace(msgs, indices, pos, shadow, c))
		default:
			scanUnclaimedOutbound(&msgs[i], shadow, c)
			diag.UnclaimedOutbound++
		}
	}
	return diag
}

// newOrderPrice returns the price a new inbound's shadow starts from: left
// unset for Market/Stop/Pegged orders (spec.md §4.1.3).
func newOrderPrice(m *racewatch.MessageRecord) racewatch.Price {
	switch m.OrderType {
	case racewatch.OrderType_Market, racewatch.OrderType_Stop, racewatch.OrderType_Pegged:
		return racewatch.UnsetPrice
	default:
		return m.LimitPrice
	}
}

// scanNewOrder implements spec.md §4.1.3's "New inbound (order)" case.
func scanNewOrder(msgs []racewatch.MessageRecord, indices []int, pos int, shadow *racewatch.OrderShadow, c int) Diagnostics {
	i := indices[pos]
	m := &msgs[i]

	price := newOrderPrice(m)
	shadow.Add(price, m.OrderQty)
	m.Categorized = true
	m.EventNum = c
	m.PriceLvl = price

	event := EventNewOrderNoResponse
	minExec, maxExec := racewatch.UnsetPrice, racewatch.UnsetPrice
	var diag Diagnostics

	for k := pos + 1; k < len(indices); k++ {
		j := indices[k]
		mj := &msgs[j]
		if mj.Categorized || !sameClientOrder(msgs, i, j) {
			continue
		}
		switch mj.UnifiedMessageType {
		case racewatch.ME_NewOrderAccept:
			mj.Categorized, mj.EventNum = true, c
			event = EventNewOrderAccepted
		case racewatch.ME_FullFillAggr:
			mj.Categorized, mj.EventNum = true, c
			event = EventNewOrderAggrFull
			minExec, maxExec = mj.ExecutedPrice, mj.ExecutedPrice
		case racewatch.ME_PartialFillAggr:
			mj.Categorized, mj.EventNum = true, c
			label, lo, hi, d := partialFillChain(msgs, indices, k, m.TIF, i, c, orderMark)
			diag.Merge(d)
			if label == "full" {
				event = EventNewOrderAggrFull
			} else {
				event = EventNewOrderAggrPart
			}
			minExec, maxExec = lo, hi
		case racewatch.ME_OrderExpire:
			mj.Categorized, mj.EventNum = true, c
			event = EventNewOrderExpired
		case racewatch.ME_OrderReject, racewatch.ME_OtherReject:
			mj.Categorized, mj.EventNum = true, c
			event = EventNewOrderFailed
		case racewatch.ME_OrderSuspend:
			mj.Categorized, mj.EventNum = true, c
			event = EventNewOrderSuspended
		default:
			continue
		}
		break
	}

	m.Event = event
	m.MinExecPriceLvl = minExec
	m.MaxExecPriceLvl = maxExec
	return diag
}

// mark absorbs a qualifying lookahead message j into event c. Order scans
// mark the plain Categorized/EventNum fields; quote scans mark whichever
// side's mirror fields the caller is walking.
type mark func(mj *racewatch.MessageRecord, c int)

func orderMark(mj *racewatch.MessageRecord, c int) {
	mj.Categorized, mj.EventNum = true, c
}

// partialFillChain implements the second-level lookahead of spec.md §4.1.3's
// ME_PartialFill(A) bullet: absorbing further aggressive partials, a
// terminal full fill, an IOC order-expire, or a later ME_NewOrderAccept
// (the residual silently posted to book). Any other execution report
// terminates with "in part"; exhaustion defaults to "in part" and counts
// the pf_no_further_reply corner case. origIdx is the position in msgs of
// the order's original new/cancel-replace inbound (for its ClientOrderID;
// the TIF arrives separately as origTIF); fromK is the index in indices of
// the first partial fill already absorbed by the caller.
func partialFillChain(msgs []racewatch.MessageRecord, indices []int, fromK int, origTIF racewatch.TIF, origIdx int, c int, markFn mark) (label string, minExec, maxExec racewatch.Price, diag Diagnostics) {
	clientOrderID := msgs[origIdx].ClientOrderID
	first := msgs[indices[fromK]].ExecutedPrice
	minExec, maxExec = first, first
	isIOC := origTIF == racewatch.TIF_IOC || origTIF == racewatch.TIF_FOK

	for k := fromK + 1; k < len(indices); k++ {
		j := indices[k]
		mj := &msgs[j]
		if mj.ClientOrderID != clientOrderID {
			continue
		}
		switch {
		case mj.UnifiedMessageType == racewatch.ME_PartialFillAggr:
			markFn(mj, c)
			minExec = racewatch.MinPrice(minExec, mj.ExecutedPrice)
			maxExec = racewatch.MaxSignedPrice(maxExec, mj.ExecutedPrice)
			continue
		case mj.UnifiedMessageType.IsFullFill():
			markFn(mj, c)
			minExec = racewatch.MinPrice(minExec, mj.ExecutedPrice)
			maxExec = racewatch.MaxSignedPrice(maxExec, mj.ExecutedPrice)
			return "full", minExec, maxExec, diag
		case mj.UnifiedMessageType == racewatch.ME_OrderExpire && isIOC:
			markFn(mj, c)
			return "part", minExec, maxExec, diag
		case mj.UnifiedMessageType == racewatch.ME_NewOrderAccept:
			markFn(mj, c)
			return "full", minExec, maxExec, diag
		default:
			markFn(mj, c)
			return "part", minExec, maxExec, diag
		}
	}
	diag.PfNoFurtherReply++
	return "part", minExec, maxExec, diag
}

// scanCancel implements spec.md §4.1.3's "Cancel request" case.
func scanCancel(msgs []racewatch.MessageRecord, indices []int, pos int, shadow *racewatch.OrderShadow, c int) {
	i := indices[pos]
	m := &msgs[i]
	m.PrevPriceLvl = shadow.GwPrc
	m.PrevQty = shadow.GwQty
	m.Categorized, m.EventNum = true, c

	event := EventCancelNoResponse
	for k := pos + 1; k < len(indices); k++ {
		j := indices[k]
		mj := &msgs[j]
		if mj.Categorized || !sameClientOrder(msgs, i, j) {
			continue
		}
		switch mj.UnifiedMessageType {
		case racewatch.ME_CancelAccept:
			mj.Categorized, mj.EventNum = true, c
			event = EventCancelAccepted
			shadow.Cancel()
		case racewatch.ME_CancelRejectTLTC:
			mj.Categorized, mj.EventNum = true, c
			event = EventCancelRejected
		case racewatch.ME_CancelRejectOther, racewatch.ME_OtherReject:
			mj.Categorized, mj.EventNum = true, c
			event = EventCancelFailed
		default:
			continue
		}
		break
	}
	m.Event = event
}

// scanCancelReplace implements spec.md §4.1.3's "Cancel/replace request" case.
func scanCancelReplace(msgs []racewatch.MessageRecord, indices []int, pos int, shadow *racewatch.OrderShadow, c int) Diagnostics {
	i := indices[pos]
	m := &msgs[i]
	m.PrevPriceLvl = shadow.GwPrc
	m.PrevQty = shadow.GwQty
	shadow.Amend(m.LimitPrice, m.OrderQty)
	m.Categorized, m.EventNum = true, c
	m.PriceLvl = shadow.GwPrc

	event := EventCancelReplaceNoResponse
	minExec, maxExec := racewatch.UnsetPrice, racewatch.UnsetPrice
	var diag Diagnostics

	for k := pos + 1; k < len(indices); k++ {
		j := indices[k]
		mj := &msgs[j]
		if mj.Categorized || !sameClientOrder(msgs, i, j) {
			continue
		}
		switch mj.UnifiedMessageType {
		case racewatch.ME_CancelReplaceAccept:
			mj.Categorized, mj.EventNum = true, c
			event = EventCancelReplaceAccepted
			// Inner lookahead mirroring New Order's fill handling (§4.1.3).
			for k2 := k + 1; k2 < len(indices); k2++ {
				j2 := indices[k2]
				mj2 := &msgs[j2]
				if mj2.Categorized || mj2.ClientOrderID != mj.ClientOrderID {
					continue
				}
				switch mj2.UnifiedMessageType {
				case racewatch.ME_FullFillAggr:
					mj2.Categorized, mj2.EventNum = true, c
					event = EventCancelReplaceAggrFull
					minExec, maxExec = mj2.ExecutedPrice, mj2.ExecutedPrice
				case racewatch.ME_PartialFillAggr:
					mj2.Categorized, mj2.EventNum = true, c
					label, lo, hi, d := partialFillChain(msgs, indices, k2, m.TIF, i, c, orderMark)
					diag.Merge(d)
					if label == "full" {
						event = EventCancelReplaceAggrFull
					} else {
						event = EventCancelReplaceAggrPart
					}
					minExec, maxExec = lo, hi
				default:
					continue
				}
				break
			}
		case racewatch.ME_CancelRejectTLTC:
			mj.Categorized, mj.EventNum = true, c
			event = EventCancelReplaceRejected
		case racewatch.ME_CancelRejectOther, racewatch.ME_OtherReject:
			mj.Categorized, mj.EventNum = true, c
			event = EventCancelReplaceFailed
		default:
			continue
		}
		break
	}

	m.Event = event
	m.MinExecPriceLvl = minExec
	m.MaxExecPriceLvl = maxExec
	return diag
}

// scanUnclaimedOutbound implements spec.md §4.1.3's "Unclaimed outbound"
// case: an outbound executed without a preceding classified inbound in
// this order, attributed via the shadow's passive_fill/update_me.
func scanUnclaimedOutbound(m *racewatch.MessageRecord, shadow *racewatch.OrderShadow, c int) {
	m.Categorized, m.EventNum = true, c
	m.PriceLvl = shadow.GwPrc

	switch {
	case m.UnifiedMessageType == racewatch.ME_FullFillPassive:
		shadow.PassiveFill(m.ExecutedPrice, m.LeavesQty)
		m.Event = EventOrderPassiveExecFull
	case m.UnifiedMessageType == racewatch.ME_PartialFillPassive:
		shadow.PassiveFill(m.ExecutedPrice, m.LeavesQty)
		m.Event = EventOrderPassiveExecPart
	case m.UnifiedMessageType.IsFullFill():
		shadow.UpdateME(m.ExecutedPrice, m.LeavesQty)
		m.Event = EventOrderExecFullOther
	case m.UnifiedMessageType.IsPartialFill():
		shadow.UpdateME(m.ExecutedPrice, m.LeavesQty)
		m.Event = EventOrderExecPartOther
	default:
		shadow.UpdateME(m.PriceLvl, m.LeavesQty)
		m.Event = EventOtherMEActivity
	}
}
