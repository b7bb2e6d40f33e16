package racewatch

// Side is which side of the book a message or level belongs to.
type Side uint8

const (
	Side_None Side = iota
	Side_Bid
	Side_Ask
)

func (s Side) String() string {
	switch s {
	case Side_Bid:
		return "Bid"
	case Side_Ask:
		return "Ask"
	default:
		return ""
	}
}

// Opposite returns the other side of the book. Side_None maps to itself.
func (s Side) Opposite() Side {
	switch s {
	case Side_Bid:
		return Side_Ask
	case Side_Ask:
		return Side_Bid
	default:
		return Side_None
	}
}

// SideFromString parses the raw feed's Side field (§6.1).
func SideFromString(s string) Side {
	switch s {
	case "Bid":
		return Side_Bid
	case "Ask":
		return Side_Ask
	default:
		return Side_None
	}
}

// SignedPrice returns p signed per spec.md §4.3.1/§3.8: positive for the ask
// side, negated for the bid side, so "more aggressive on this side" reads
// as "greater than" on both sides uniformly.
func (s Side) SignedPrice(p Price) Price {
	if s == Side_Bid {
		return -p
	}
	return p
}

// MessageType is the raw feed's top-level message kind (§6.2).
type MessageType string

const (
	MessageType_NewOrder           MessageType = "New_Order"
	MessageType_NewQuote           MessageType = "New_Quote"
	MessageType_CancelRequest      MessageType = "Cancel_Request"
	MessageType_CancelReplaceReq   MessageType = "Cancel_Replace_Request"
	MessageType_OtherInbound       MessageType = "Other_Inbound"
	MessageType_ExecutionReport    MessageType = "Execution_Report"
	MessageType_CancelReject       MessageType = "Cancel_Reject"
	MessageType_OtherReject        MessageType = "Other_Reject"
	MessageType_OtherOutbound      MessageType = "Other_Outbound"
)

// OrderType is the raw feed's order-type field (§6.2).
type OrderType string

const (
	OrderType_Limit      OrderType = "Limit"
	OrderType_Market     OrderType = "Market"
	OrderType_Stop       OrderType = "Stop"
	OrderType_StopLimit  OrderType = "Stop_Limit"
	OrderType_Pegged     OrderType = "Pegged"
	OrderType_PassiveOnly OrderType = "Passive_Only"
)

// TIF is the raw feed's time-in-force field (§6.2).
type TIF string

const (
	TIF_GoodTill TIF = "GoodTill"
	TIF_IOC      TIF = "IOC"
	TIF_FOK      TIF = "FOK"
	TIF_GFA      TIF = "GFA"
)

// ExecType is the raw feed's execution-report type field (§6.2).
type ExecType string

const (
	ExecType_Accepted  ExecType = "Order_Accepted"
	ExecType_Cancelled ExecType = "Order_Cancelled"
	ExecType_Executed  ExecType = "Order_Executed"
	ExecType_Expired   ExecType = "Order_Expired"
	ExecType_Rejected  ExecType = "Order_Rejected"
	ExecType_Replaced  ExecType = "Order_Replaced"
	ExecType_Suspended ExecType = "Order_Suspended"
	ExecType_Restated  ExecType = "Order_Restated"
)

// OrderStatus distinguishes partial from full fills on an execution report (§6.2).
type OrderStatus string

const (
	OrderStatus_PartialFill OrderStatus = "Partial_Fill"
	OrderStatus_FullFill    OrderStatus = "Full_Fill"
)

// TradeInitiator marks which side of a trade was the aggressor (§6.2).
type TradeInitiator string

const (
	TradeInitiator_Aggressive TradeInitiator = "Aggressive"
	TradeInitiator_Passive    TradeInitiator = "Passive"
	TradeInitiator_Other      TradeInitiator = "Other"
)

// CancelRejectReason distinguishes too-late-to-cancel from other cancel
// rejections (§6.2). TLTC is the only failed-cancel variant that is
// race-relevant (spec.md GLOSSARY).
type CancelRejectReason string

const (
	CancelRejectReason_TLTC  CancelRejectReason = "TLTC"
	CancelRejectReason_Other CancelRejectReason = "Other"
)

// UnifiedMessageType is S1's canonical per-message classification,
// collapsing (MessageType, OrderType, TIF, ExecType, OrderStatus,
// TradeInitiator, CancelRejectReason) into one tag (spec.md §3.3).
type UnifiedMessageType string

const (
	// Gateway inbound
	GW_NewOrderMarket     UnifiedMessageType = "GW_NewOrder(Market)"
	GW_NewOrderLimit      UnifiedMessageType = "GW_NewOrder(Limit)"
	GW_NewOrderIOC        UnifiedMessageType = "GW_NewOrder(IOC)"
	GW_NewOrderStop       UnifiedMessageType = "GW_NewOrder(Stop)"
	GW_NewOrderStopLimit  UnifiedMessageType = "GW_NewOrder(StopLimit)"
	GW_NewOrderPegged     UnifiedMessageType = "GW_NewOrder(Pegged)"
	GW_NewOrderPassiveOnly UnifiedMessageType = "GW_NewOrder(PassiveOnly)"
	GW_NewOrderOther      UnifiedMessageType = "GW_NewOrder(Other)"
	GW_NewQuote           UnifiedMessageType = "GW_NewQuote"
	GW_Cancel             UnifiedMessageType = "GW_Cancel"
	GW_CancelReplace      UnifiedMessageType = "GW_CancelReplace"
	GW_OtherInbound       UnifiedMessageType = "GW_OtherInbound"

	// ME outbound
	ME_NewOrderAccept       UnifiedMessageType = "ME_NewOrderAccept"
	ME_OrderReject          UnifiedMessageType = "ME_OrderReject"
	ME_OrderExpire          UnifiedMessageType = "ME_OrderExpire"
	ME_OrderSuspend         UnifiedMessageType = "ME_OrderSuspend"
	ME_OrderRestated        UnifiedMessageType = "ME_OrderRestated"
	ME_PartialFillPassive   UnifiedMessageType = "ME_PartialFill(P)"
	ME_PartialFillAggr      UnifiedMessageType = "ME_PartialFill(A)"
	ME_PartialFillOther     UnifiedMessageType = "ME_PartialFill(Other)"
	ME_FullFillPassive      UnifiedMessageType = "ME_FullFill(P)"
	ME_FullFillAggr         UnifiedMessageType = "ME_FullFill(A)"
	ME_FullFillOther        UnifiedMessageType = "ME_FullFill(Other)"
	ME_CancelAccept         UnifiedMessageType = "ME_CancelAccept"
	ME_CancelReplaceAccept  UnifiedMessageType = "ME_CancelReplaceAccept"
	ME_CancelRejectTLTC     UnifiedMessageType = "ME_CancelReject(TLTC)"
	ME_CancelRejectOther    UnifiedMessageType = "ME_CancelReject(Other)"
	ME_OtherReject          UnifiedMessageType = "ME_OtherReject"
	ME_OtherOutbound        UnifiedMessageType = "ME_OtherOutbound"
)

// IsExecution reports whether u is one of the partial/full fill tags,
// irrespective of initiator.
func (u UnifiedMessageType) IsExecution() bool {
	switch u {
	case ME_PartialFillPassive, ME_PartialFillAggr, ME_PartialFillOther,
		ME_FullFillPassive, ME_FullFillAggr, ME_FullFillOther:
		return true
	}
	return false
}

// IsAggressiveFill reports whether u is an aggressive partial or full fill.
func (u UnifiedMessageType) IsAggressiveFill() bool {
	return u == ME_PartialFillAggr || u == ME_FullFillAggr
}

// IsFullFill reports whether u is any full-fill variant.
func (u UnifiedMessageType) IsFullFill() bool {
	return u == ME_FullFillPassive || u == ME_FullFillAggr || u == ME_FullFillOther
}

// IsPartialFill reports whether u is any partial-fill variant.
func (u UnifiedMessageType) IsPartialFill() bool {
	return u == ME_PartialFillPassive || u == ME_PartialFillAggr || u == ME_PartialFillOther
}

// classifyNewOrderType maps a raw OrderType+TIF pair to its GW_NewOrder(...) tag.
func classifyNewOrderType(ot OrderType, tif TIF) UnifiedMessageType {
	switch {
	case ot == OrderType_Market:
		return GW_NewOrderMarket
	case tif == TIF_IOC || tif == TIF_FOK:
		return GW_NewOrderIOC
	case ot == OrderType_Limit:
		return GW_NewOrderLimit
	case ot == OrderType_Stop:
		return GW_NewOrderStop
	case ot == OrderType_StopLimit:
		return GW_NewOrderStopLimit
	case ot == OrderType_Pegged:
		return GW_NewOrderPegged
	case ot == OrderType_PassiveOnly:
		return GW_NewOrderPassiveOnly
	default:
		return GW_NewOrderOther
	}
}

// classifyFillType maps OrderStatus+TradeInitiator to the ME_{Partial,Full}Fill(...) tag.
func classifyFillType(status OrderStatus, initiator TradeInitiator) UnifiedMessageType {
	full := status == OrderStatus_FullFill
	switch initiator {
	case TradeInitiator_Aggressive:
		if full {
			return ME_FullFillAggr
		}
		return ME_PartialFillAggr
	case TradeInitiator_Passive:
		if full {
			return ME_FullFillPassive
		}
		return ME_PartialFillPassive
	default:
		if full {
			return ME_FullFillOther
		}
		return ME_PartialFillOther
	}
}

// UnifiedType derives a message's UnifiedMessageType from its raw
// categorical fields, per spec.md §3.3.
func UnifiedType(mt MessageType, ot OrderType, tif TIF, et ExecType, status OrderStatus, initiator TradeInitiator, reason CancelRejectReason) UnifiedMessageType {
	switch mt {
	case MessageType_NewOrder:
		return classifyNewOrderType(ot, tif)
	case MessageType_NewQuote:
		return GW_NewQuote
	case MessageType_CancelRequest:
		return GW_Cancel
	case MessageType_CancelReplaceReq:
		return GW_CancelReplace
	case MessageType_OtherInbound:
		return GW_OtherInbound
	case MessageType_ExecutionReport:
		switch et {
		case ExecType_Accepted:
			return ME_NewOrderAccept
		case ExecType_Rejected:
			return ME_OrderReject
		case ExecType_Expired:
			return ME_OrderExpire
		case ExecType_Suspended:
			return ME_OrderSuspend
		case ExecType_Restated:
			return ME_OrderRestated
		case ExecType_Cancelled:
			return ME_CancelAccept
		case ExecType_Replaced:
			return ME_CancelReplaceAccept
		case ExecType_Executed:
			return classifyFillType(status, initiator)
		default:
			return ME_OtherOutbound
		}
	case MessageType_CancelReject:
		if reason == CancelRejectReason_TLTC {
			return ME_CancelRejectTLTC
		}
		return ME_CancelRejectOther
	case MessageType_OtherReject:
		return ME_OtherReject
	default:
		return ME_OtherOutbound
	}
}
