package classify_test

import (
	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/classify"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Classify", func() {
	// Scenario A: simple limit order accepted (spec.md §8.2).
	It("accepts a simple limit order", func() {
		msgs := []racewatch.MessageRecord{
			{
				MsgIdx: 0, ClientOrderID: "c1", UniqueOrderID: "o1", UserID: "U",
				MessageType: racewatch.MessageType_NewOrder, OrderType: racewatch.OrderType_Limit,
				TIF: racewatch.TIF_GoodTill, Side: racewatch.Side_Bid,
				LimitPrice: px(10.00), OrderQty: 100, Timestamp: ts(0),
			},
			{
				MsgIdx: 1, ClientOrderID: "c1", UniqueOrderID: "o1", UserID: "U",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Accepted,
				LeavesQty: 100, Timestamp: ts(1),
			},
		}

		_, err := classify.Classify(msgs)
		Expect(err).To(BeNil())

		Expect(msgs[0].UnifiedMessageType).To(Equal(racewatch.GW_NewOrderLimit))
		Expect(msgs[0].Event).To(Equal(classify.EventNewOrderAccepted))
		Expect(msgs[0].EventNum).To(Equal(1))
		Expect(msgs[0].PriceLvl).To(Equal(px(10.00)))

		Expect(msgs[1].UnifiedMessageType).To(Equal(racewatch.ME_NewOrderAccept))
		Expect(msgs[1].EventNum).To(Equal(1))
	})

	// Scenario C: aggressive partial fill with no further reply (spec.md §8.2).
	It("absorbs an aggressive partial fill with no terminal as in part, counting pf_no_further_reply", func() {
		msgs := []racewatch.MessageRecord{
			{
				MsgIdx: 0, ClientOrderID: "c3", UniqueOrderID: "o3", UserID: "U",
				MessageType: racewatch.MessageType_NewOrder, OrderType: racewatch.OrderType_Limit,
				TIF: racewatch.TIF_GoodTill, Side: racewatch.Side_Bid,
				LimitPrice: px(10.00), OrderQty: 100, Timestamp: ts(0),
			},
			{
				MsgIdx: 1, ClientOrderID: "c3", UniqueOrderID: "o3", UserID: "U",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Executed,
				OrderStatus: racewatch.OrderStatus_PartialFill, TradeInitiator: racewatch.TradeInitiator_Aggressive,
				ExecutedPrice: px(10.00), LeavesQty: 70, Timestamp: ts(1),
			},
		}

		diag, err := classify.Classify(msgs)
		Expect(err).To(BeNil())

		Expect(msgs[0].Event).To(Equal(classify.EventNewOrderAggrPart))
		Expect(msgs[0].MinExecPriceLvl).To(Equal(px(10.00)))
		Expect(msgs[0].MaxExecPriceLvl).To(Equal(px(10.00)))
		Expect(diag.PfNoFurtherReply).To(Equal(1))
	})

	// Scenario D: failed cancel, too-late-to-cancel (spec.md §8.2).
	It("marks a too-late-to-cancel cancel request rejected", func() {
		msgs := []racewatch.MessageRecord{
			{
				MsgIdx: 0, ClientOrderID: "c1", UniqueOrderID: "o1", UserID: "U",
				MessageType: racewatch.MessageType_NewOrder, OrderType: racewatch.OrderType_Limit,
				TIF: racewatch.TIF_GoodTill, Side: racewatch.Side_Bid,
				LimitPrice: px(10.00), OrderQty: 100, Timestamp: ts(0),
			},
			{
				MsgIdx: 1, ClientOrderID: "c1", UniqueOrderID: "o1", UserID: "U",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Accepted,
				LeavesQty: 100, Timestamp: ts(1),
			},
			{
				MsgIdx: 2, ClientOrderID: "c4", OrigClientOrderID: "c1", UniqueOrderID: "o1", UserID: "U",
				MessageType: racewatch.MessageType_CancelRequest, Timestamp: ts(2),
			},
			{
				MsgIdx: 3, ClientOrderID: "c4", UniqueOrderID: "o1", UserID: "U",
				MessageType: racewatch.MessageType_CancelReject, CancelRejectReason: racewatch.CancelRejectReason_TLTC,
				Timestamp: ts(3),
			},
		}

		_, err := classify.Classify(msgs)
		Expect(err).To(BeNil())

		Expect(msgs[2].Event).To(Equal(classify.EventCancelRejected))
		Expect(msgs[2].EventNum).To(Equal(2))
		Expect(msgs[3].EventNum).To(Equal(2))
	})

	// Scenario E: price-improving cancel/replace (spec.md §8.2).
	It("tracks the old and new price levels across a cancel/replace", func() {
		msgs := []racewatch.MessageRecord{
			{
				MsgIdx: 0, ClientOrderID: "c1", UniqueOrderID: "o1", UserID: "U",
				MessageType: racewatch.MessageType_NewOrder, OrderType: racewatch.OrderType_Limit,
				TIF: racewatch.TIF_GoodTill, Side: racewatch.Side_Bid,
				LimitPrice: px(10.00), OrderQty: 100, Timestamp: ts(0),
			},
			{
				MsgIdx: 1, ClientOrderID: "c1", UniqueOrderID: "o1", UserID: "U",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Accepted,
				LeavesQty: 100, Timestamp: ts(1),
			},
			{
				MsgIdx: 2, ClientOrderID: "c5", UniqueOrderID: "o1", UserID: "U",
				MessageType: racewatch.MessageType_CancelReplaceReq, Side: racewatch.Side_Bid,
				LimitPrice: px(10.01), OrderQty: 100, Timestamp: ts(2),
			},
			{
				MsgIdx: 3, ClientOrderID: "c5", UniqueOrderID: "o1", UserID: "U",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Replaced,
				LeavesQty: 100, Timestamp: ts(3),
			},
		}

		_, err := classify.Classify(msgs)
		Expect(err).To(BeNil())

		Expect(msgs[2].Event).To(Equal(classify.EventCancelReplaceAccepted))
		Expect(msgs[2].PrevPriceLvl).To(Equal(px(10.00)))
		Expect(msgs[2].PriceLvl).To(Equal(px(10.01)))
	})

	// A quote that changes nothing on one side does not wait for a reply
	// there (spec.md §4.1.4).
	It("does not wait on a quote side whose price and size are unchanged", func() {
		msgs := []racewatch.MessageRecord{
			{
				MsgIdx: 0, ClientOrderID: "q1", UserID: "U", QuoteRelated: true,
				MessageType: racewatch.MessageType_NewQuote,
				BidPrice: px(10.00), BidSize: 100, AskPrice: px(10.05), AskSize: 100,
				Timestamp: ts(0),
			},
			{
				MsgIdx: 1, ClientOrderID: "q1", UserID: "U", QuoteRelated: true,
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Accepted,
				Side: racewatch.Side_Bid, Timestamp: ts(1),
			},
			{
				MsgIdx: 2, ClientOrderID: "q1", UserID: "U", QuoteRelated: true,
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Accepted,
				Side: racewatch.Side_Ask, Timestamp: ts(2),
			},
			{
				MsgIdx: 3, ClientOrderID: "q2", UserID: "U", QuoteRelated: true,
				MessageType: racewatch.MessageType_NewQuote,
				BidPrice: px(10.00), BidSize: 100, AskPrice: px(10.06), AskSize: 100,
				Timestamp: ts(3),
			},
			{
				MsgIdx: 4, ClientOrderID: "q2", UserID: "U", QuoteRelated: true,
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Replaced,
				Side: racewatch.Side_Ask, Timestamp: ts(4),
			},
		}

		_, err := classify.Classify(msgs)
		Expect(err).To(BeNil())

		Expect(msgs[3].BidEvent).To(Equal(classify.EventOtherQuoteActivity))
		Expect(msgs[3].AskEvent).To(Equal(classify.EventNewQuoteUpdatedAccepted))
	})
})
