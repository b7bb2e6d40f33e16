package pipeline

import "fmt"

// Kind is one of spec.md §7's three error kinds. Only SchemaViolation and
// OutputIO are ever returned from Process: a semantic anomaly is by
// definition non-fatal (recovered by the catch-all events and the book
// correction sweeps), so it never produces a *SymbolDayError — it only
// ever shows up as an incremented counter in a stage's Diagnostics. Kind
// still names it, for anything that wants to classify a diagnostic count
// rather than an error.
type Kind string

const (
	KindSchemaViolation Kind = "input_schema_violation"
	KindSemanticAnomaly Kind = "semantic_anomaly"
	KindOutputIO        Kind = "output_io_error"
)

// SymbolDayError is what Process returns on a fatal failure: which symbol-day
// failed, which of §7's kinds it was, and the underlying error. A driver
// dispatching many symbol-days (internal/fanout) uses Kind to decide
// whether re-running later is worth it — an OutputIO failure plausibly
// succeeds on retry, a SchemaViolation against the same input file will not.
type SymbolDayError struct {
	Kind   Kind
	Date   string
	Symbol string
	Err    error
}

func (e *SymbolDayError) Error() string {
	return fmt.Sprintf("pipeline: %s/%s: %s: %v", e.Date, e.Symbol, e.Kind, e.Err)
}

func (e *SymbolDayError) Unwrap() error { return e.Err }

func schemaViolation(date, symbol string, err error) error {
	if err == nil {
		return nil
	}
	return &SymbolDayError{Kind: KindSchemaViolation, Date: date, Symbol: symbol, Err: err}
}

func outputIOError(date, symbol string, err error) error {
	if err == nil {
		return nil
	}
	return &SymbolDayError{Kind: KindOutputIO, Date: date, Symbol: symbol, Err: err}
}
