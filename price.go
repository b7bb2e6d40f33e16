package racewatch

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Price is a monetary amount in fixed-point units: the raw decimal price
// multiplied by a run's PriceFactor and rounded to the nearest 10. Keeping
// prices as int64 in this canonical unit gives exact equality comparisons
// everywhere downstream and eliminates the floating-point hazards spec.md
// §9 calls out for classification, book, and race code.
type Price int64

// Unset marks a price field that the raw feed left empty (e.g. a market
// order's LimitPrice, or an outbound with no applicable price).
const UnsetPrice Price = -1

// IsSet reports whether p carries an actual price.
func (p Price) IsSet() bool {
	return p != UnsetPrice
}

// PriceFactor converts a raw decimal price field into a Price. F = 10^(d+1)
// where d is a run's configured max decimal scale (spec.md §3.1). The
// multiplication happens in decimal.Decimal arithmetic so the only
// rounding performed is the single explicit "round to nearest 10" at the
// end, never an intermediate float64 conversion.
type PriceFactor int64

// NewPriceFactor builds the factor from a run's max_dec_scale configuration
// value: F = 10^(maxDecScale+1).
func NewPriceFactor(maxDecScale int) PriceFactor {
	f := decimal.New(1, int32(maxDecScale+1))
	return PriceFactor(f.IntPart())
}

// Convert turns a raw decimal price string into a Price, rounding to the
// nearest 10 in price-factor units (the last decimal digit is discarded).
// An empty string means the field was absent on the raw message and yields
// UnsetPrice.
func (f PriceFactor) Convert(raw string) (Price, error) {
	if raw == "" {
		return UnsetPrice, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return UnsetPrice, fmt.Errorf("racewatch: invalid price %q: %w", raw, err)
	}
	return f.ConvertDecimal(d), nil
}

// ConvertDecimal is Convert for an already-parsed decimal.Decimal.
func (f PriceFactor) ConvertDecimal(d decimal.Decimal) Price {
	scaled := d.Mul(decimal.NewFromInt(int64(f)))
	return Price(roundToNearestTen(scaled))
}

// roundToNearestTen rounds d to the nearest multiple of 10, banker's
// rounding never enters the picture because ties round away from zero,
// matching pandas' `.round(-1)` used by the original implementation.
func roundToNearestTen(d decimal.Decimal) int64 {
	tens := d.Div(decimal.NewFromInt(10))
	rounded := tens.Round(0)
	return rounded.IntPart() * 10
}

// Tick is an integer tick size in price-factor units, looked up per-price
// from a symbol-day's ticktable (spec.md §6.3).
type Tick int64
