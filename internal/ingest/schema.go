package ingest

import (
	"fmt"

	"github.com/ericbudish/racewatch"
)

// requiredColumns is spec.md §6.1's required-field list, quoted as contracts.
var requiredColumns = []string{
	"Date", "Symbol", "SessionID", "UserID", "FirmID", "ClientOrderID",
	"MEOrderID", "UniqueOrderID", "TradeMatchID", "MessageTimestamp", "MessageType", "Side",
	"QuoteRelated", "RegularHour", "OrderType", "TIF",
	"OrderQty", "DisplayQty", "LeavesQty",
	"LimitPrice", "StopPrice", "ExecutedPrice", "BidPrice", "AskPrice",
	"BidSize", "AskSize", "OrigClientOrderID",
	"ExecType", "OrderStatus", "TradeInitiator", "CancelRejectReason",
	"ExecutedQty", "AuctionTrade", "OpenAuctionTrade",
}

// ValidateSchema implements the original implementation's Validate_Data.py
// step as its own explicit function (SPEC_FULL.md's supplemented-features
// section): a symbol-day's header is checked against §6.1's required
// columns before any economic logic runs, producing the Input-schema
// violation error kind of spec.md §7.
func ValidateSchema(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return fmt.Errorf("%w: %s", racewatch.ErrMissingColumn, col)
		}
	}
	return nil
}

// ValidateSorted checks S1's ordering precondition (spec.md §5: "S1
// processes messages... in ascending message index") by confirming
// timestamps never go backwards across the symbol-day.
func ValidateSorted(msgs []racewatch.MessageRecord) error {
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp.Before(msgs[i-1].Timestamp) {
			return fmt.Errorf("%w: message %d precedes message %d", racewatch.ErrUnsortedTimestamps, i, i-1)
		}
	}
	return nil
}
