package book

import (
	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/classify"
)

// applyAuctionCorrection implements spec.md §4.2.3's one-shot uncross at
// the close of an open auction: sweep crossing levels, then tie-break the
// remaining quantity at the auction price itself.
func applyAuctionCorrection(b *Book, m *racewatch.MessageRecord, diag *Diagnostics) {
	auctionPrice := m.ExecutedPrice
	if !auctionPrice.IsSet() {
		return
	}

	for p, lv := range b.bids {
		if p > auctionPrice && !lv.Empty() {
			diag.DepthKilled += lv.clear()
			diag.CorrectionsAuction++
		}
	}
	for p, lv := range b.asks {
		if p < auctionPrice && !lv.Empty() {
			diag.DepthKilled += lv.clear()
			diag.CorrectionsAuction++
		}
	}

	bidLv, askLv := b.bids[auctionPrice], b.asks[auctionPrice]
	var bidQty, askQty float64
	if bidLv != nil {
		bidQty = bidLv.CurrTotal
	}
	if askLv != nil {
		askQty = askLv.CurrTotal
	}
	switch {
	case bidQty == 0 || askQty == 0:
		// at most one side rests at the auction price; no tie to break.
	case bidQty == askQty:
		diag.DepthKilled += bidLv.clear() + askLv.clear()
		diag.CorrectionsAuction++
	case bidQty < askQty:
		diag.DepthKilled += bidLv.clear()
		diag.CorrectionsAuction++
	default:
		diag.DepthKilled += askLv.clear()
		diag.CorrectionsAuction++
	}
}

// applyContinuousCorrection implements spec.md §4.2.3's during-trading
// crossing kills for one UpdateRelevant message k with outbound tag T.
func applyContinuousCorrection(b *Book, m *racewatch.MessageRecord, diag *Diagnostics) {
	if m.IsGoodForAuction() {
		return
	}

	side := resolveSide(m)
	priceLvl, _ := levelFields(m, side)

	switch {
	case m.UnifiedMessageType == racewatch.ME_NewOrderAccept || m.UnifiedMessageType == racewatch.ME_CancelReplaceAccept:
		killCrossing(b, side.Opposite(), priceLvl, diag, &diag.CorrectionsAccept)
	case m.UnifiedMessageType == racewatch.ME_OrderExpire && (m.TIF == racewatch.TIF_IOC || m.TIF == racewatch.TIF_FOK) && m.Event == classify.EventNewOrderExpired:
		killCrossing(b, side.Opposite(), priceLvl, diag, &diag.CorrectionsAccept)
	}

	if !m.UnifiedMessageType.IsExecution() || !m.ExecutedPrice.IsSet() {
		return
	}
	killCrossing(b, racewatch.Side_Bid, m.ExecutedPrice, diag, &diag.CorrectionsFill)
	killCrossing(b, racewatch.Side_Ask, m.ExecutedPrice, diag, &diag.CorrectionsFill)

	if m.UnifiedMessageType == racewatch.ME_FullFillAggr {
		if lv := b.levelAt(side, m.ExecutedPrice); lv != nil {
			diag.DepthKilled += lv.clear()
			diag.CorrectionsFill++
		}
	}
	if m.UnifiedMessageType.IsPartialFill() {
		if lv := b.levelAt(side.Opposite(), m.ExecutedPrice); lv != nil {
			diag.DepthKilled += lv.clear()
			diag.CorrectionsFillOpp++
		}
	}
}

// killCrossing clears every level on side that crosses price: strictly
// above price for bids, strictly below for asks.
func killCrossing(b *Book, side racewatch.Side, price racewatch.Price, diag *Diagnostics, counter *int) {
	if !price.IsSet() {
		return
	}
	for p, lv := range b.levels(side) {
		if lv.Empty() {
			continue
		}
		crossed := (side == racewatch.Side_Bid && p > price) || (side == racewatch.Side_Ask && p < price)
		if crossed {
			diag.DepthKilled += lv.clear()
			*counter++
		}
	}
}
