package race_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/book"
	"github.com/ericbudish/racewatch/internal/classify"
	"github.com/ericbudish/racewatch/internal/race"
	"github.com/ericbudish/racewatch/internal/ticktable"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRace(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "race suite")
}

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
	// Scenario F: baseline race (spec.md §8.2). User C rests an ask at
	// 10.00x50. Within a few nanoseconds, user A's IOC bid at 10.00 takes
	// part of it (success at the race price) while user B's cancel of
	// C's resting order is rejected too-late-to-cancel (fail).
	It("detects a baseline race with one success and one fail", func() {
		msgs := []racewatch.MessageRecord{
			{
				MsgIdx: 0, ClientOrderID: "cC", UniqueOrderID: "oC", UserID: "C",
				MessageType: racewatch.MessageType_NewOrder, OrderType: racewatch.OrderType_Limit,
				TIF: racewatch.TIF_GoodTill, Side: racewatch.Side_Ask, RegularHour: true,
				LimitPrice: px(10.00), OrderQty: 50, Timestamp: ts(0),
			},
			{
				MsgIdx: 1, ClientOrderID: "cC", UniqueOrderID: "oC", UserID: "C",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Accepted,
				Side: racewatch.Side_Ask, RegularHour: true, DisplayQty: 50, LeavesQty: 50, Timestamp: ts(1),
			},
			{
				MsgIdx: 2, ClientOrderID: "cA", UniqueOrderID: "oA", UserID: "A",
				MessageType: racewatch.MessageType_NewOrder, OrderType: racewatch.OrderType_Limit,
				TIF: racewatch.TIF_IOC, Side: racewatch.Side_Bid, RegularHour: true,
				LimitPrice: px(10.00), OrderQty: 10, Timestamp: ts(10),
			},
			{
				MsgIdx: 3, ClientOrderID: "cA", UniqueOrderID: "oA", UserID: "A",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Executed,
				OrderStatus: racewatch.OrderStatus_PartialFill, TradeInitiator: racewatch.TradeInitiator_Aggressive,
				Side: racewatch.Side_Bid, RegularHour: true, TradeMatchID: "T1",
				ExecutedPrice: px(10.00), ExecutedQty: 6, LeavesQty: 4, Timestamp: ts(20),
			},
			{
				MsgIdx: 4, ClientOrderID: "cA", UniqueOrderID: "oA", UserID: "A",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Expired,
				Side: racewatch.Side_Bid, RegularHour: true, LeavesQty: 0, Timestamp: ts(30),
			},
			{
				MsgIdx: 5, ClientOrderID: "cC", UniqueOrderID: "oC", UserID: "C",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Executed,
				OrderStatus: racewatch.OrderStatus_PartialFill, TradeInitiator: racewatch.TradeInitiator_Passive,
				Side: racewatch.Side_Ask, RegularHour: true, TradeMatchID: "T1",
				ExecutedPrice: px(10.00), ExecutedQty: 6, LeavesQty: 44, Timestamp: ts(40),
			},
			{
				MsgIdx: 6, ClientOrderID: "cB", UniqueOrderID: "oC", UserID: "B",
				MessageType: racewatch.MessageType_CancelRequest,
				Side: racewatch.Side_Ask, RegularHour: true, Timestamp: ts(15),
			},
			{
				MsgIdx: 7, ClientOrderID: "cB", UniqueOrderID: "oC", UserID: "B",
				MessageType: racewatch.MessageType_CancelReject, CancelRejectReason: racewatch.CancelRejectReason_TLTC,
				Side: racewatch.Side_Ask, RegularHour: true, Timestamp: ts(25),
			},
		}

		_, err := classify.Classify(msgs)
		Expect(err).To(BeNil())
		Expect(msgs[2].Event).To(Equal(classify.EventNewOrderAggrPart))
		Expect(msgs[6].Event).To(Equal(classify.EventCancelRejected))
		// B's cancel request (msgIdx 6) is timestamped between C's accept
		// (ts 1) and C's passive fill (ts 40), but the shared "oC" partition
		// is walked in message-index order, so it is numbered after the
		// passive fill, which is fine — only the Event label and
		// price-level fields matter downstream.

		tt := ticktable.New([]ticktable.Row{{Threshold: 0, TickSize: 1}})
		bbo, _, err := book.Process(msgs, tt)
		Expect(err).To(BeNil())

		cfg := racewatch.RaceParams{
			Method:             racewatch.RaceMethod_FixedHorizon,
			LenFixedHor:        time.Millisecond,
			MinNumParticipants: 2,
			MinNumTakes:        1,
			MinNumCancels:      1,
		}

		records, err := race.Process(msgs, bbo, tt, cfg)
		Expect(err).To(BeNil())
		Expect(records).To(HaveLen(1))

		rec := records[0]
		Expect(rec.Side).To(Equal(racewatch.Side_Ask))
		Expect(rec.SignedPrice).To(Equal(racewatch.Side_Ask.SignedPrice(px(10.00))))
		Expect(rec.SingleLvlRaceID).To(Equal(1))
		Expect(rec.MsgIdxs).To(ContainElements(2, 6))
	})

	It("emits nothing when only one side of a race ever appears", func() {
		msgs := []racewatch.MessageRecord{
			{
				MsgIdx: 0, ClientOrderID: "cC", UniqueOrderID: "oC", UserID: "C",
				MessageType: racewatch.MessageType_NewOrder, OrderType: racewatch.OrderType_Limit,
				TIF: racewatch.TIF_GoodTill, Side: racewatch.Side_Ask, RegularHour: true,
				LimitPrice: px(10.00), OrderQty: 50, Timestamp: ts(0),
			},
			{
				MsgIdx: 1, ClientOrderID: "cC", UniqueOrderID: "oC", UserID: "C",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Accepted,
				Side: racewatch.Side_Ask, RegularHour: true, DisplayQty: 50, LeavesQty: 50, Timestamp: ts(1),
			},
			{
				MsgIdx: 2, ClientOrderID: "cA", UniqueOrderID: "oA", UserID: "A",
				MessageType: racewatch.MessageType_NewOrder, OrderType: racewatch.OrderType_Limit,
				TIF: racewatch.TIF_IOC, Side: racewatch.Side_Bid, RegularHour: true,
				LimitPrice: px(10.00), OrderQty: 10, Timestamp: ts(10),
			},
			{
				MsgIdx: 3, ClientOrderID: "cA", UniqueOrderID: "oA", UserID: "A",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Executed,
				OrderStatus: racewatch.OrderStatus_PartialFill, TradeInitiator: racewatch.TradeInitiator_Aggressive,
				Side: racewatch.Side_Bid, RegularHour: true, TradeMatchID: "T1",
				ExecutedPrice: px(10.00), ExecutedQty: 6, LeavesQty: 4, Timestamp: ts(20),
			},
			{
				MsgIdx: 4, ClientOrderID: "cA", UniqueOrderID: "oA", UserID: "A",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Expired,
				Side: racewatch.Side_Bid, RegularHour: true, LeavesQty: 0, Timestamp: ts(30),
			},
			{
				MsgIdx: 5, ClientOrderID: "cC", UniqueOrderID: "oC", UserID: "C",
				MessageType: racewatch.MessageType_ExecutionReport, ExecType: racewatch.ExecType_Executed,
				OrderStatus: racewatch.OrderStatus_PartialFill, TradeInitiator: racewatch.TradeInitiator_Passive,
				Side: racewatch.Side_Ask, RegularHour: true, TradeMatchID: "T1",
				ExecutedPrice: px(10.00), ExecutedQty: 6, LeavesQty: 44, Timestamp: ts(40),
			},
		}

		_, err := classify.Classify(msgs)
		Expect(err).To(BeNil())

		tt := ticktable.New([]ticktable.Row{{Threshold: 0, TickSize: 1}})
		bbo, _, err := book.Process(msgs, tt)
		Expect(err).To(BeNil())

		cfg := racewatch.RaceParams{
			Method:             racewatch.RaceMethod_FixedHorizon,
			LenFixedHor:        time.Millisecond,
			MinNumParticipants: 2,
			MinNumTakes:        1,
			MinNumCancels:      1,
		}

		records, err := race.Process(msgs, bbo, tt, cfg)
		Expect(err).To(BeNil())
		Expect(records).To(BeEmpty())
	})
})
