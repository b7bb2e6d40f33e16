// Package classify implements S1, the event classifier (spec.md §4.1): a
// nested deterministic scan with inner lookahead that canonicalizes every
// message's UnifiedMessageType and groups inbound+outbound messages into
// numbered economic events, once per order and once per (user, side) for
// quotes.
package classify

// Order-event labels, the closed set from spec.md §4.1.2.
const (
	EventNewOrderAccepted           = "New order accepted"
	EventNewOrderAggrFull           = "New order aggressively executed in full"
	EventNewOrderAggrPart           = "New order aggressively executed in part"
	EventNewOrderExpired            = "New order expired"
	EventNewOrderSuspended          = "New order suspended"
	EventNewOrderFailed             = "New order failed"
	EventNewOrderNoResponse         = "New order no response"
	EventCancelAccepted             = "Cancel request accepted"
	EventCancelRejected             = "Cancel request rejected"
	EventCancelFailed               = "Cancel request failed"
	EventCancelNoResponse           = "Cancel no response"
	EventCancelReplaceAccepted      = "Cancel/replace request accepted"
	EventCancelReplaceAggrFull      = "Cancel/replace request aggr executed in full"
	EventCancelReplaceAggrPart      = "Cancel/replace request aggr executed in part"
	EventCancelReplaceRejected      = "Cancel/replace request rejected"
	EventCancelReplaceFailed        = "Cancel/replace request failed"
	EventCancelReplaceNoResponse    = "Cancel/replace no response"
	EventOtherGatewayActivity       = "Other Gateway activity"
	EventOrderPassiveExecPart       = "Order passively executed in part"
	EventOrderPassiveExecFull       = "Order passively executed in full"
	EventOrderExecPartOther         = "Order executed in part (other)"
	EventOrderExecFullOther         = "Order executed in full (other)"
	EventOtherMEActivity            = "Other ME activity"
)

// Quote-event labels: the analogous per-side set, prefixed "Quote"/"New
// quote"/"New quote updated" (spec.md §4.1.2).
const (
	EventNewQuoteAccepted        = "New quote accepted"
	EventNewQuoteUpdatedAccepted = "New quote updated accepted"
	EventQuoteAggrFull           = "Quote aggressively executed in full"
	EventQuoteAggrPart           = "Quote aggressively executed in part"
	EventQuoteExpired            = "Quote expired"
	EventQuoteSuspended          = "Quote suspended"
	EventQuoteFailed             = "Quote failed"
	EventQuoteNoResponse         = "Quote no response"
	EventQuoteCancelAccepted     = "Quote cancel request accepted"
	EventQuoteCancelRejected     = "Quote cancel request rejected"
	EventQuoteCancelFailed       = "Quote cancel request failed"
	EventQuoteCancelNoResponse   = "Quote cancel no response"
	EventQuotePassiveExecPart    = "Quote passively executed in part"
	EventQuotePassiveExecFull    = "Quote passively executed in full"
	EventQuoteExecPartOther      = "Quote executed in part (other)"
	EventQuoteExecFullOther      = "Quote executed in full (other)"
	EventOtherQuoteActivity      = "Other Quote activity"
)

// Diagnostics are the corner-case counters spec.md §4.1.5 says are
// maintained but never influence the classifier's output, only its logs.
// Names match the original implementation's (Classify_Messages.py).
type Diagnostics struct {
	PfNoFurtherReply int // aggressive partial fill lookahead exhausted with no terminal (spec.md §4.1.3)
	QuoteForceClosed int // opposite-side Accept/CancelReplaceAccept forced an event closed (§4.1.4)
	QuoteRejectCloses int // opposite-side reject closed the active side's event (§4.1.4)
	UnclaimedOutbound int // outbound with no classified inbound parent (§4.1.3 "Unclaimed outbound")
}

// Merge folds o's counters into d.
func (d *Diagnostics) Merge(o Diagnostics) {
	d.PfNoFurtherReply += o.PfNoFurtherReply
	d.QuoteForceClosed += o.QuoteForceClosed
	d.QuoteRejectCloses += o.QuoteRejectCloses
	d.UnclaimedOutbound += o.UnclaimedOutbound
}
