// Package fanout dispatches pipeline.Process across many symbol-days
// concurrently, bounded by a fixed worker count (spec.md §5: "embarrassingly
// parallel across symbol-days, no shared in-memory state between workers").
package fanout

import (
	"sync"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/ingest"
	"github.com/ericbudish/racewatch/internal/pipeline"
)

// Result is one symbol-day's outcome.
type Result struct {
	Date   string
	Symbol string
	Err    error
}

// Run processes every symbol-day in days concurrently across cfg.NumWorkers
// workers and returns one Result per entry, in no particular order. Grounded
// on the teacher's bounded-concurrency shape in
// internal/tui/download_manager.go (a fixed capacity gating how many
// downloads run at once) generalized to the simpler fixed-worker-pool form:
// pipeline.Process has no progress stream to report, so there is no need for
// the teacher's channel-plus-ticker queue manager, only a capped pool of
// goroutines pulling off a shared job channel.
func Run(days []ingest.SymbolDate, cfg racewatch.Config, paths racewatch.Paths) []Result {
	jobs := make(chan ingest.SymbolDate)
	results := make(chan Result)

	var wg sync.WaitGroup
	workers := cfg.NumWorkers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for day := range jobs {
				err := pipeline.Process(day.Date, day.Symbol, cfg, paths)
				results <- Result{Date: day.Date, Symbol: day.Symbol, Err: err}
			}
		}()
	}

	go func() {
		for _, day := range days {
			jobs <- day
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Result, 0, len(days))
	for r := range results {
		out = append(out, r)
	}
	return out
}

// Errors filters rs down to the failed symbol-days, preserving order.
func Errors(rs []Result) []Result {
	var out []Result
	for _, r := range rs {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
