package book

import (
	"time"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/ticktable"
)

// qty is one order's contribution to a price level, split the way the raw
// feed splits an order's size (spec.md §3.7): the iceberg-displayed slice
// and the full remaining size.
type qty struct {
	Disp, Total float64
}

// Level is one (side, price) slot in the book: the live orders resting
// there, keyed by UniqueOrderID, plus their aggregate depth.
type Level struct {
	orders             map[string]qty
	CurrDisp, CurrTotal float64
}

func newLevel() *Level {
	return &Level{orders: make(map[string]qty)}
}

func (l *Level) Upsert(orderID string, disp, total float64) {
	l.orders[orderID] = qty{disp, total}
	l.recompute()
}

// Cancel removes orderID's contribution and returns the total size it held.
func (l *Level) Cancel(orderID string) float64 {
	old := l.orders[orderID]
	delete(l.orders, orderID)
	l.recompute()
	return old.Total
}

func (l *Level) clear() (killed float64) {
	killed = l.CurrTotal
	l.orders = make(map[string]qty)
	l.CurrDisp, l.CurrTotal = 0, 0
	return killed
}

func (l *Level) recompute() {
	var d, t float64
	for _, q := range l.orders {
		d += q.Disp
		t += q.Total
	}
	l.CurrDisp, l.CurrTotal = d, t
}

func (l *Level) Empty() bool { return len(l.orders) == 0 }

// BBORow is one row of S2's BBO/depth history (spec.md §3.7, §6.4): the
// book state immediately after one outbound message is applied. BestBid/
// BestAsk resolve against levels with displayed size; BestBidH/BestAskH
// resolve against total size, including iceberg reserve.
type BBORow struct {
	MsgIdx    int
	Timestamp time.Time

	BestBid, BestAsk   racewatch.Price
	BidDispQty, AskDispQty float64
	BestBidH, BestAskH racewatch.Price
	BidTotalQty, AskTotalQty float64

	RegularHour bool

	Spread, MidPt   racewatch.Price
	SpreadH, MidPtH racewatch.Price

	BestBidTick, BestAskTick, MidPtTick racewatch.Tick

	MidPtTickChange bool
	ChgMidPt        bool
	ChgMidPtTx      bool

	LastChangeBestBid, LastChangeBestAsk, LastChangeMidPt time.Time
	LastValidMidPt                                        racewatch.Price
}

// Book is a symbol-day's reconstructed limit order book (spec.md §3.7).
type Book struct {
	bids, asks map[racewatch.Price]*Level
	tt         *ticktable.Table

	bestBid, bestAsk   racewatch.Price
	bestBidH, bestAskH racewatch.Price
}

// New creates an empty book. tt may be nil, in which case tick-derived
// columns are left at their zero value (spec.md Open Question: a missing
// ticktable degrades Process to BBO/depth only, never fails the run).
func New(tt *ticktable.Table) *Book {
	return &Book{
		bids: make(map[racewatch.Price]*Level),
		asks: make(map[racewatch.Price]*Level),
		tt:   tt,

		bestBid: racewatch.UnsetPrice, bestAsk: racewatch.UnsetPrice,
		bestBidH: racewatch.UnsetPrice, bestAskH: racewatch.UnsetPrice,
	}
}

func (b *Book) levels(side racewatch.Side) map[racewatch.Price]*Level {
	if side == racewatch.Side_Bid {
		return b.bids
	}
	return b.asks
}

func (b *Book) level(side racewatch.Side, p racewatch.Price) *Level {
	m := b.levels(side)
	lv, ok := m[p]
	if !ok {
		lv = newLevel()
		m[p] = lv
	}
	return lv
}

func (b *Book) levelAt(side racewatch.Side, p racewatch.Price) *Level {
	return b.levels(side)[p]
}

func (b *Book) updateBBO() {
	b.bestBid = bestPrice(b.bids, racewatch.Side_Bid, false)
	b.bestAsk = bestPrice(b.asks, racewatch.Side_Ask, false)
	b.bestBidH = bestPrice(b.bids, racewatch.Side_Bid, true)
	b.bestAskH = bestPrice(b.asks, racewatch.Side_Ask, true)
}

func bestPrice(levels map[racewatch.Price]*Level, side racewatch.Side, total bool) racewatch.Price {
	best := racewatch.UnsetPrice
	for p, lv := range levels {
		size := lv.CurrDisp
		if total {
			size = lv.CurrTotal
		}
		if size <= 0 {
			continue
		}
		if !best.IsSet() {
			best = p
			continue
		}
		if side == racewatch.Side_Bid && p > best {
			best = p
		}
		if side == racewatch.Side_Ask && p < best {
			best = p
		}
	}
	return best
}

func (b *Book) snapshot(m *racewatch.MessageRecord) BBORow {
	row := BBORow{
		MsgIdx: m.MsgIdx, Timestamp: m.Timestamp, RegularHour: m.RegularHour,
		BestBid: b.bestBid, BestAsk: b.bestAsk,
		BestBidH: b.bestBidH, BestAskH: b.bestAskH,
	}
	if lv := b.levelAt(racewatch.Side_Bid, b.bestBid); lv != nil {
		row.BidDispQty, row.BidTotalQty = lv.CurrDisp, lv.CurrTotal
	}
	if lv := b.levelAt(racewatch.Side_Ask, b.bestAsk); lv != nil {
		row.AskDispQty, row.AskTotalQty = lv.CurrDisp, lv.CurrTotal
	}
	return row
}

// Process implements spec.md §4.2.2-4.2.3: it runs Decorate over msgs,
// replays every relevant outbound into the book, applies the
// auction and continuous-trading corrections, and returns the BBO/depth
// history with its derived columns filled in (§4.2.4).
func Process(msgs []racewatch.MessageRecord, tt *ticktable.Table) ([]BBORow, Diagnostics, error) {
	diag := Decorate(msgs)
	b := New(tt)
	rows := make([]BBORow, 0, len(msgs))

	lastOpenAuction := -1
	for i := range msgs {
		m := &msgs[i]
		if m.AuctionTrade && m.OpenAuctionTrade && !m.IsGoodForAuction() && (m.UpdateRelevant1 || m.UpdateRelevant2) {
			lastOpenAuction = i
		}
	}

	for i := range msgs {
		m := &msgs[i]
		if m.IsGoodForAuction() {
			continue
		}
		if !m.UpdateRelevant1 && !m.UpdateRelevant2 {
			continue
		}
		applyUpdate(b, m, &diag)

		if i == lastOpenAuction {
			applyAuctionCorrection(b, m, &diag)
		}
		if m.RegularHour {
			applyContinuousCorrection(b, m, &diag)
		}

		b.updateBBO()
		rows = append(rows, b.snapshot(m))
	}

	deriveColumns(rows, tt)
	return rows, diag, nil
}

// applyUpdate implements spec.md §4.2.2's per-message application: cancel
// the prior level's contribution, then upsert the new one, in that order so
// a cancel/replace's old and new levels never transiently double-count.
func applyUpdate(b *Book, m *racewatch.MessageRecord, diag *Diagnostics) {
	side := resolveSide(m)
	orderKey := bookOrderKey(m)
	priceLvl, prevPriceLvl := levelFields(m, side)

	if m.BookPrevLvlUpdEventN {
		price := prevPriceLvl
		if m.UnifiedMessageType == racewatch.ME_OrderExpire {
			price = priceLvl
		}
		if lv := b.levelAt(side, price); lv != nil {
			lv.Cancel(orderKey)
		}
	}
	if m.BookUpdEventN {
		lv := b.level(side, priceLvl)
		lv.Upsert(orderKey, m.DisplayQty, m.LeavesQty)
	}
}

// resolveSide picks which side of the book m applies to: the raw Side field
// for an order, or whichever mirror annotation fired for a quote (falling
// back to the raw Side field if neither side's event number is set).
func resolveSide(m *racewatch.MessageRecord) racewatch.Side {
	if !m.QuoteRelated {
		return m.Side
	}
	if m.BidEventNum != 0 && m.AskEventNum == 0 {
		return racewatch.Side_Bid
	}
	if m.AskEventNum != 0 && m.BidEventNum == 0 {
		return racewatch.Side_Ask
	}
	return m.Side
}

// levelFields returns the price and previous price m resolves to on side:
// the shared fields for an order, the matching mirror for a quote.
func levelFields(m *racewatch.MessageRecord, side racewatch.Side) (price, prevPrice racewatch.Price) {
	if !m.QuoteRelated {
		return m.PriceLvl, m.PrevPriceLvl
	}
	if side == racewatch.Side_Bid {
		return m.BidPriceLvl, m.PrevBidPriceLvl
	}
	return m.AskPriceLvl, m.PrevAskPriceLvl
}

// bookOrderKey is a price level's resting-order identity: an order's
// UniqueOrderID, or a market maker's (user, side) quote slot, which a
// two-sided quote resets wholesale on every amend rather than layering
// multiple resting quotes per side (spec.md §3.5).
func bookOrderKey(m *racewatch.MessageRecord) string {
	if m.QuoteRelated {
		return m.UserID
	}
	return m.UniqueOrderID
}
