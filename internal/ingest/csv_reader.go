package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ericbudish/racewatch"
	"github.com/relvacode/iso8601"
	"github.com/valyala/fastjson"
)

// columnIndex maps a column name to its position in a row, so field order in
// the raw file never has to match MessageRecord's field order.
type columnIndex map[string]int

func newColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return idx
}

func (c columnIndex) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// LoadMessages reads a symbol-day's raw message table (spec.md §6.1) into
// MessageRecords carrying MsgIdx 0..N-1 in file order. The header is
// validated before any row is parsed (ValidateSchema), and the full
// sequence's timestamps are checked for monotonicity afterward
// (ValidateSorted), matching §5's ordering precondition for S1.
func LoadMessages(r io.Reader, pf racewatch.PriceFactor) ([]racewatch.MessageRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: reading header: %w", err)
	}
	if err := ValidateSchema(header); err != nil {
		return nil, err
	}
	idx := newColumnIndex(header)

	var msgs []racewatch.MessageRecord
	for msgIdx := 0; ; msgIdx++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: reading row %d: %w", msgIdx, err)
		}
		m, err := parseRow(idx, row, pf, msgIdx)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := ValidateSorted(msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func parseRow(idx columnIndex, row []string, pf racewatch.PriceFactor, msgIdx int) (racewatch.MessageRecord, error) {
	var m racewatch.MessageRecord
	m.MsgIdx = msgIdx
	m.Date = idx.get(row, "Date")
	m.Symbol = idx.get(row, "Symbol")
	m.UserID = idx.get(row, "UserID")
	m.FirmID = idx.get(row, "FirmID")
	m.ClientOrderID = idx.get(row, "ClientOrderID")
	m.MEOrderID = idx.get(row, "MEOrderID")
	m.UniqueOrderID = idx.get(row, "UniqueOrderID")
	m.TradeMatchID = idx.get(row, "TradeMatchID")
	m.OrigClientOrderID = idx.get(row, "OrigClientOrderID")
	m.ExtensionJSON = idx.get(row, "ExtensionJSON")

	m.MessageType = racewatch.MessageType(idx.get(row, "MessageType"))
	m.Side = racewatch.SideFromString(idx.get(row, "Side"))
	m.OrderType = racewatch.OrderType(idx.get(row, "OrderType"))
	m.TIF = racewatch.TIF(idx.get(row, "TIF"))
	m.ExecType = racewatch.ExecType(idx.get(row, "ExecType"))
	m.OrderStatus = racewatch.OrderStatus(idx.get(row, "OrderStatus"))
	m.TradeInitiator = racewatch.TradeInitiator(idx.get(row, "TradeInitiator"))
	m.CancelRejectReason = racewatch.CancelRejectReason(idx.get(row, "CancelRejectReason"))

	var err error
	if m.SessionID, err = parseInt(idx.get(row, "SessionID")); err != nil {
		return m, fmt.Errorf("ingest: row %d SessionID: %w", msgIdx, err)
	}

	ts := idx.get(row, "MessageTimestamp")
	if m.Timestamp, err = iso8601.ParseString(ts); err != nil {
		return m, fmt.Errorf("ingest: row %d MessageTimestamp %q: %w", msgIdx, ts, err)
	}

	if m.QuoteRelated, err = parseBool(idx.get(row, "QuoteRelated")); err != nil {
		return m, fmt.Errorf("ingest: row %d QuoteRelated: %w", msgIdx, err)
	}
	if m.RegularHour, err = parseBool(idx.get(row, "RegularHour")); err != nil {
		return m, fmt.Errorf("ingest: row %d RegularHour: %w", msgIdx, err)
	}
	if m.AuctionTrade, err = parseBool(idx.get(row, "AuctionTrade")); err != nil {
		return m, fmt.Errorf("ingest: row %d AuctionTrade: %w", msgIdx, err)
	}
	if m.OpenAuctionTrade, err = parseBool(idx.get(row, "OpenAuctionTrade")); err != nil {
		return m, fmt.Errorf("ingest: row %d OpenAuctionTrade: %w", msgIdx, err)
	}

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"OrderQty", &m.OrderQty}, {"DisplayQty", &m.DisplayQty}, {"LeavesQty", &m.LeavesQty},
		{"ExecutedQty", &m.ExecutedQty}, {"BidSize", &m.BidSize}, {"AskSize", &m.AskSize},
	} {
		if *f.dst, err = parseFloat(idx.get(row, f.name)); err != nil {
			return m, fmt.Errorf("ingest: row %d %s: %w", msgIdx, f.name, err)
		}
	}

	for _, f := range []struct {
		name string
		dst  *racewatch.Price
	}{
		{"LimitPrice", &m.LimitPrice}, {"StopPrice", &m.StopPrice}, {"ExecutedPrice", &m.ExecutedPrice},
		{"BidPrice", &m.BidPrice}, {"AskPrice", &m.AskPrice},
	} {
		if *f.dst, err = pf.Convert(idx.get(row, f.name)); err != nil {
			return m, fmt.Errorf("ingest: row %d %s: %w", msgIdx, f.name, err)
		}
	}

	if m.ExtensionJSON != "" {
		if _, err := fastjson.Parse(m.ExtensionJSON); err != nil {
			return m, fmt.Errorf("ingest: row %d ExtensionJSON: %w", msgIdx, err)
		}
	}

	return m, nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseBool treats an absent value as false, matching §6.1's
// "may be null for non-trades → treated as false" for AuctionTrade/
// OpenAuctionTrade, and extends the same convention to the other bool
// columns for consistency.
func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
