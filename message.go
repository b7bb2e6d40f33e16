package racewatch

import "time"

// MessageRecord is one row of the input schema (§6.1) plus the derived
// annotations S1/S2/S3 attach to it (§3.6). Messages are value types; all
// cross-references between them are by MsgIdx, never by pointer (DESIGN
// NOTES: "pointer graphs & cyclic references are absent").
type MessageRecord struct {
	// Identity and ordering (§3.2, §6.1)
	MsgIdx        int // stable 0..N-1 index within the symbol-day, the total order
	Date          string
	Symbol        string
	SessionID     int
	UserID        string
	FirmID        string
	ClientOrderID string
	MEOrderID     string
	UniqueOrderID string
	TradeMatchID  string
	Timestamp     time.Time

	// Raw categorical fields (§3.2, §6.2)
	MessageType        MessageType
	Side               Side
	QuoteRelated       bool
	RegularHour        bool
	OrderType          OrderType
	TIF                TIF
	ExecType           ExecType
	OrderStatus        OrderStatus
	TradeInitiator     TradeInitiator
	CancelRejectReason CancelRejectReason

	// Raw quantity/price fields (§3.2, §6.1)
	OrderQty      float64
	DisplayQty    float64
	LeavesQty     float64
	ExecutedQty   float64
	LimitPrice    Price
	StopPrice     Price
	ExecutedPrice Price
	BidPrice      Price
	AskPrice      Price
	BidSize       float64
	AskSize       float64

	OrigClientOrderID string
	AuctionTrade      bool
	OpenAuctionTrade  bool

	// Optional dynamic extension fields some raw feeds attach per-row
	// (DESIGN NOTES: "dynamic field extension in the raw table"),
	// carried as an opaque JSON blob parsed on demand.
	ExtensionJSON string

	// --- S1-derived annotations (§3.6) ---
	UnifiedMessageType UnifiedMessageType
	Categorized        bool
	EventNum           int
	Event              string
	PriceLvl           Price
	PrevPriceLvl       Price
	PrevQty            float64
	MinExecPriceLvl    Price
	MaxExecPriceLvl    Price

	// Bid/Ask mirrors for quote-related messages (§3.4)
	BidCategorized     bool
	BidEventNum        int
	BidEvent           string
	BidPriceLvl        Price
	PrevBidPriceLvl    Price
	PrevBidQty         float64
	BidMinExecPriceLvl Price
	BidMaxExecPriceLvl Price

	AskCategorized     bool
	AskEventNum        int
	AskEvent           string
	AskPriceLvl        Price
	PrevAskPriceLvl    Price
	PrevAskQty         float64
	AskMinExecPriceLvl Price
	AskMaxExecPriceLvl Price

	// --- S2-derived annotations (§4.2.1) ---
	EventLastMsg          bool
	EventFirstMsgIdx       int
	TradePos              int // 0 (singleton), 1, or 2 (by timestamp within TradeMatchID)
	UpdateRelevant1       bool
	UpdateRelevant2       bool
	BookUpdEventN         bool
	BookPrevLvlUpdEventN  bool
}

// HasEventNum reports whether m's event attribution is populated on at
// least one of the three numbering streams, per the totality invariant
// (spec.md §8.1).
func (m *MessageRecord) HasEventNum() bool {
	return m.EventNum != 0 || m.BidEventNum != 0 || m.AskEventNum != 0
}

// IsGoodForAuction reports whether m must be skipped by the book engine's
// continuous-trading path (spec.md §4.2.2, GFA in GLOSSARY).
func (m *MessageRecord) IsGoodForAuction() bool {
	return m.TIF == TIF_GFA
}
