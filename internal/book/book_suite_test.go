package book_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/book"
	"github.com/ericbudish/racewatch/internal/classify"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBook(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "book suite")
}

// px converts a decimal literal into price-factor units the way ingest does
// (spec.md §8.2 uses max_dec_scale=5, F=1_000_000).
func px(v float64) racewatch.Price {
	f := racewatch.NewPriceFactor(5)
	p, err := f.Convert(strconv.FormatFloat(v, 'f', -1, 64))
	Expect(err).To(BeNil())
	return p
}

var t0 = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func ts(offsetNanos int64) time.Time {
	return t0.Add(time.Duration(offsetNanos))
}

var _ = Describe("Process", func() {
	// Scenario B: aggressive full fill (spec.md §8.2). A resting ask
	// 10.00x50 from another user is fully consumed by an incoming
	// aggressive bid at the same price.
	It("clears a resting level once its order is fully consumed", func() {
		msgs := []racewatch.MessageRecord{
			{
				MsgIdx: 0, ClientOrderID: "cA", UniqueOrderID: "oA", UserID: "M",
				MessageType: racewatch.MessageType_NewOrder, OrderType: racewatch.OrderType_Limit,
				TIF: racewatch.TIF_GoodTill, Side: racewatch.Side_Ask, RegularHour: true,
				LimitPrice: px(10.00), OrderQty: 50, Timestamp: ts(0),
			},
			{
				MsgIdx: 1, ClientOrderID: "cA", UniqueOrderID: "oA", UserID: "M",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Accepted,
				Side: racewatch.Side_Ask, RegularHour: true, DisplayQty: 50, LeavesQty: 50, Timestamp: ts(1),
			},
			{
				MsgIdx: 2, ClientOrderID: "c2", UniqueOrderID: "o2", UserID: "U",
				MessageType: racewatch.MessageType_NewOrder, OrderType: racewatch.OrderType_Limit,
				TIF: racewatch.TIF_GoodTill, Side: racewatch.Side_Bid, RegularHour: true,
				LimitPrice: px(10.00), OrderQty: 50, Timestamp: ts(2),
			},
			{
				MsgIdx: 3, ClientOrderID: "c2", UniqueOrderID: "o2", UserID: "U",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Executed,
				OrderStatus: racewatch.OrderStatus_FullFill, TradeInitiator: racewatch.TradeInitiator_Aggressive,
				Side: racewatch.Side_Bid, RegularHour: true, TradeMatchID: "T1",
				ExecutedPrice: px(10.00), LeavesQty: 0, Timestamp: ts(3),
			},
			{
				MsgIdx: 4, ClientOrderID: "cA", UniqueOrderID: "oA", UserID: "M",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Executed,
				OrderStatus: racewatch.OrderStatus_FullFill, TradeInitiator: racewatch.TradeInitiator_Passive,
				Side: racewatch.Side_Ask, RegularHour: true, TradeMatchID: "T1",
				ExecutedPrice: px(10.00), LeavesQty: 0, Timestamp: ts(4),
			},
		}

		_, err := classify.Classify(msgs)
		Expect(err).To(BeNil())
		Expect(msgs[2].Event).To(Equal(classify.EventNewOrderAggrFull))
		Expect(msgs[4].Event).To(Equal(classify.EventOrderPassiveExecFull))

		rows, _, err := book.Process(msgs, nil)
		Expect(err).To(BeNil())
		Expect(rows).To(HaveLen(3)) // snapshots after msg1 (accept), msg3 (aggressor fill), msg4 (passive fill)

		Expect(rows[0].BestAsk).To(Equal(px(10.00)))
		Expect(rows[0].AskTotalQty).To(Equal(50.0))

		last := rows[len(rows)-1]
		Expect(last.BestAsk.IsSet()).To(BeFalse())
		Expect(last.AskTotalQty).To(Equal(0.0))
	})

	// A quote gateway can ack both sides of a two-sided quote in one message,
	// leaving Side at its zero value (spec.md §3.4's Side [Bid|Ask|∅]) and
	// BidEventNum/AskEventNum both set by the classifier's independent bid
	// and ask passes. resolveSide has no way to split that one message
	// between two book-side updates, so it falls back to the raw (unset)
	// Side, and levelFields/b.levels treat anything but literal Side_Bid as
	// the ask side — the bid-side update is silently dropped. The original
	// Python resolves the same ambiguity the same way: AskEventUpdate always
	// overwrites EventLastMsgType last (Prep_Order_Book.py).
	It("resolves a combined two-sided quote ack to the ask side, dropping the bid update", func() {
		msgs := []racewatch.MessageRecord{
			{
				MsgIdx: 0, ClientOrderID: "q1", UserID: "U1", QuoteRelated: true,
				MessageType: racewatch.MessageType_NewQuote,
				BidPrice: px(10.00), BidSize: 100, AskPrice: px(10.05), AskSize: 100,
				Timestamp: ts(0),
			},
			{
				MsgIdx: 1, ClientOrderID: "q1", UserID: "U1", QuoteRelated: true,
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Accepted,
				DisplayQty: 100, LeavesQty: 100, Timestamp: ts(1),
			},
		}

		_, err := classify.Classify(msgs)
		Expect(err).To(BeNil())
		Expect(msgs[1].BidEventNum).To(Equal(1))
		Expect(msgs[1].AskEventNum).To(Equal(1))

		rows, _, err := book.Process(msgs, nil)
		Expect(err).To(BeNil())

		last := rows[len(rows)-1]
		Expect(last.BestAsk).To(Equal(px(10.05)))
		Expect(last.AskTotalQty).To(Equal(100.0))
		Expect(last.BestBid.IsSet()).To(BeFalse())
	})

	// Contrast case: a single-sided ack (the opposite side's lookahead skips
	// it via the opposite-side interplay rule and never claims it) leaves
	// only one of BidEventNum/AskEventNum set, so resolveSide's unambiguous
	// branch resolves it to the correct side.
	It("resolves an unambiguous single-sided quote ack to its own side", func() {
		msgs := []racewatch.MessageRecord{
			{
				MsgIdx: 0, ClientOrderID: "q2", UserID: "U2", QuoteRelated: true,
				MessageType: racewatch.MessageType_NewQuote,
				BidPrice: px(10.00), BidSize: 100, AskPrice: px(10.05), AskSize: 100,
				Timestamp: ts(0),
			},
			{
				MsgIdx: 1, ClientOrderID: "q2", UserID: "U2", QuoteRelated: true,
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Accepted,
				Side: racewatch.Side_Bid, DisplayQty: 100, LeavesQty: 100, Timestamp: ts(1),
			},
		}

		_, err := classify.Classify(msgs)
		Expect(err).To(BeNil())
		Expect(msgs[1].BidEventNum).To(Equal(1))
		Expect(msgs[1].AskEventNum).To(Equal(0))

		rows, _, err := book.Process(msgs, nil)
		Expect(err).To(BeNil())

		last := rows[len(rows)-1]
		Expect(last.BestBid).To(Equal(px(10.00)))
		Expect(last.BidTotalQty).To(Equal(100.0))
		Expect(last.BestAsk.IsSet()).To(BeFalse())
	})
})
