package racewatch

// QuoteStatus is a quote-shadow's lifecycle state (§3.5).
type QuoteStatus uint8

const (
	QuoteStatus_None QuoteStatus = iota
	QuoteStatus_Accepted
	QuoteStatus_Amended
	QuoteStatus_Suspended
	QuoteStatus_ExecutedPartial
	QuoteStatus_ExecutedFull
	QuoteStatus_Cancelled
	QuoteStatus_Rejected
	QuoteStatus_Expired
	QuoteStatus_NoMEResponse
)

// Shadow is the behavior shared by OrderShadow and QuoteShadow: the small
// set of mutations the classifier applies as it walks a message stream
// (DESIGN NOTES: "Polymorphism over Order vs Quote shadows").
type Shadow interface {
	// Add initializes the shadow from a brand-new inbound's price/qty.
	Add(price Price, qty float64)
	// Amend moves the current gw_* into cancel_*, then records the new
	// submitted price/qty as the pending gw_*.
	Amend(price Price, qty float64)
	// Cancel records the shadow's price/qty at the instant of a cancel.
	Cancel()
	// PassiveFill records an unclaimed passive fill against the shadow.
	PassiveFill(price Price, leavesQty float64)
	// UpdateME records the last ME-confirmed price/leaves-qty.
	UpdateME(price Price, leavesQty float64)
}

// OrderShadow tracks one order's price/qty across its gateway and ME
// messages so later messages can be annotated with the previous price and
// quantity (§3.5).
type OrderShadow struct {
	GwPrc     Price
	GwQty     float64
	MePrc     Price
	MeQty     float64
	CancelPrc Price
	CancelQty float64
}

// NewOrderShadow creates a fresh shadow for an order's first inbound.
func NewOrderShadow() *OrderShadow {
	return &OrderShadow{GwPrc: UnsetPrice, MePrc: UnsetPrice, CancelPrc: UnsetPrice}
}

func (s *OrderShadow) Add(price Price, qty float64) {
	s.GwPrc, s.GwQty = price, qty
}

func (s *OrderShadow) Amend(price Price, qty float64) {
	s.CancelPrc, s.CancelQty = s.GwPrc, s.GwQty
	s.GwPrc, s.GwQty = price, qty
}

func (s *OrderShadow) Cancel() {
	s.CancelPrc, s.CancelQty = s.GwPrc, s.GwQty
}

func (s *OrderShadow) PassiveFill(price Price, leavesQty float64) {
	s.MePrc, s.MeQty = price, leavesQty
}

func (s *OrderShadow) UpdateME(price Price, leavesQty float64) {
	s.MePrc, s.MeQty = price, leavesQty
}

// QuoteShadow is OrderShadow's per-side counterpart for a user's quote
// stream: it additionally tracks a lifecycle Status and the three expect_*
// booleans the classifier uses to decide whether a New_Quote should wait
// for a reply on this side at all (§3.5, §4.1.4).
type QuoteShadow struct {
	GwPrc     Price
	GwQty     float64
	MePrc     Price
	MeQty     float64
	CancelPrc Price
	CancelQty float64

	Status QuoteStatus

	ExpectAdd    bool
	ExpectAmend  bool
	ExpectCancel bool
}

// NewQuoteShadow creates a fresh shadow for a user's first quote message on one side.
func NewQuoteShadow() *QuoteShadow {
	return &QuoteShadow{GwPrc: UnsetPrice, MePrc: UnsetPrice, CancelPrc: UnsetPrice, Status: QuoteStatus_None}
}

func (s *QuoteShadow) Add(price Price, qty float64) {
	s.GwPrc, s.GwQty = price, qty
	s.Status = QuoteStatus_Accepted
	s.ExpectAdd, s.ExpectAmend, s.ExpectCancel = true, false, false
}

func (s *QuoteShadow) Amend(price Price, qty float64) {
	s.CancelPrc, s.CancelQty = s.GwPrc, s.GwQty
	priceChanged := !s.GwPrc.IsSet() || s.GwPrc != price
	qtyChanged := s.GwQty != qty
	s.GwPrc, s.GwQty = price, qty
	s.Status = QuoteStatus_Amended

	switch {
	case !s.CancelPrc.IsSet():
		s.ExpectAdd, s.ExpectAmend, s.ExpectCancel = true, false, false
	case qty == 0:
		s.ExpectAdd, s.ExpectAmend, s.ExpectCancel = false, false, true
	case priceChanged || qtyChanged:
		s.ExpectAdd, s.ExpectAmend, s.ExpectCancel = false, true, false
	default:
		s.ExpectAdd, s.ExpectAmend, s.ExpectCancel = false, false, false
	}
}

func (s *QuoteShadow) Cancel() {
	s.CancelPrc, s.CancelQty = s.GwPrc, s.GwQty
	s.Status = QuoteStatus_Cancelled
	s.ExpectAdd, s.ExpectAmend, s.ExpectCancel = false, false, false
}

func (s *QuoteShadow) PassiveFill(price Price, leavesQty float64) {
	s.MePrc, s.MeQty = price, leavesQty
	if leavesQty <= 0 {
		s.Status = QuoteStatus_ExecutedFull
	} else {
		s.Status = QuoteStatus_ExecutedPartial
	}
}

func (s *QuoteShadow) UpdateME(price Price, leavesQty float64) {
	s.MePrc, s.MeQty = price, leavesQty
}

// Reject marks the shadow rejected or no-response, called by the
// classifier's catch-all lookahead exhaustion paths (§4.1.3).
func (s *QuoteShadow) Reject(noResponse bool) {
	if noResponse {
		s.Status = QuoteStatus_NoMEResponse
	} else {
		s.Status = QuoteStatus_Rejected
	}
}

// AnySideExpected reports whether this quote shadow expects any reply at
// all, used to decide whether a New_Quote's lookahead should wait on this
// side (§4.1.4).
func (s *QuoteShadow) AnySideExpected() bool {
	return s.ExpectAdd || s.ExpectAmend || s.ExpectCancel
}
