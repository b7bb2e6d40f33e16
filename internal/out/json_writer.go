package out

import (
	"io"

	"github.com/ericbudish/racewatch/internal/book"
	"github.com/ericbudish/racewatch/internal/classify"
	"github.com/segmentio/encoding/json"
)

// Summary is the per-symbol-day diagnostics and counts emitted alongside
// the four artifacts (spec.md §4.1.5/§4.2.5/§7, SPEC_FULL.md's supplemented
// per-step log feature): every named diagnostic counter the original
// implementation logged per step, flushed once as structured JSON rather
// than a side channel that could influence the run.
type Summary struct {
	Date   string `json:"date"`
	Symbol string `json:"symbol"`

	NumMessages int `json:"num_messages"`
	NumRaces    int `json:"num_races"`

	Classify classify.Diagnostics `json:"classify"`
	Book     book.Diagnostics     `json:"book"`
}

// WriteSummaryJSON marshals s with github.com/segmentio/encoding/json (the
// teacher's fast drop-in for DBN struct marshaling, reused here for the
// same reason: one-shot encode of a flat struct, hot enough during a
// multi-symbol-day fanout run that the faster encoder is worth it) and
// writes it followed by a newline, matching the teacher's WriteAsJson
// (internal/file/json_writer.go).
func WriteSummaryJSON(w io.Writer, s *Summary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = w.Write([]byte{'\n'})
	return err
}
