package classify

import (
	"sort"

	"github.com/ericbudish/racewatch"
)

// Classify runs S1 over one symbol-day's messages in place (spec.md §4.1):
// it assigns every message a UnifiedMessageType, then partitions non-quote
// messages by UniqueOrderID and quote-related messages by UserID, scanning
// each partition independently. msgs must already be sorted by timestamp
// (spec.md §3.2 input invariant); Classify does not re-sort.
func Classify(msgs []racewatch.MessageRecord) (Diagnostics, error) {
	var diag Diagnostics

	for i := range msgs {
		m := &msgs[i]
		m.UnifiedMessageType = racewatch.UnifiedType(
			m.MessageType, m.OrderType, m.TIF, m.ExecType, m.OrderStatus, m.TradeInitiator, m.CancelRejectReason)
		if !m.QuoteRelated && (m.MessageType == racewatch.MessageType_NewOrder ||
			m.MessageType == racewatch.MessageType_CancelRequest ||
			m.MessageType == racewatch.MessageType_CancelReplaceReq) {
			if m.UniqueOrderID == "" || m.ClientOrderID == "" {
				return diag, racewatch.ErrMissingOrderID
			}
		}
	}

	byOrder := make(map[string][]int)
	byUser := make(map[string][]int)
	for i, m := range msgs {
		if m.QuoteRelated {
			byUser[m.UserID] = append(byUser[m.UserID], i)
		} else {
			byOrder[m.UniqueOrderID] = append(byOrder[m.UniqueOrderID], i)
		}
	}

	for _, key := range sortedKeysByFirstIndex(byOrder) {
		d := scanOrder(msgs, byOrder[key])
		diag.Merge(d)
	}
	for _, key := range sortedKeysByFirstIndex(byUser) {
		indices := byUser[key]
		diag.Merge(scanQuoteSide(msgs, indices, racewatch.Side_Bid))
		diag.Merge(scanQuoteSide(msgs, indices, racewatch.Side_Ask))
	}

	return diag, nil
}

func sortedKeysByFirstIndex(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return m[keys[i]][0] < m[keys[j]][0] })
	return keys
}

// sameClientOrder reports whether msgs[j] is a direct response to the
// inbound at msgs[i]: same ClientOrderID, an outbound message type.
func sameClientOrder(msgs []racewatch.MessageRecord, i, j int) bool {
	return msgs[j].ClientOrderID == msgs[i].ClientOrderID &&
		(msgs[j].MessageType == racewatch.MessageType_ExecutionReport ||
			msgs[j].MessageType == racewatch.MessageType_CancelReject ||
			msgs[j].MessageType == racewatch.MessageType_OtherReject ||
			msgs[j].MessageType == racewatch.MessageType_OtherOutbound)
}
