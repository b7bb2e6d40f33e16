package classify_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/classify"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestClassify(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "classify suite")
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
