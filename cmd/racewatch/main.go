// Copyright (c) 2026 Eric Budish
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/fanout"
	"github.com/ericbudish/racewatch/internal/ingest"
	"github.com/ericbudish/racewatch/internal/pipeline"
	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

///////////////////////////////////////////////////////////////////////////////

var (
	configFile  string
	date        string
	symbol      string
	symbolsFile string
	forceRerun  bool
)

func requireNoError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

func requireHumanConfirmation(promptTitle string) {
	doRun := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Affirmative("Yes, overwrite").
				Negative("No, cancel").
				Title(promptTitle).
				Value(&doRun),
		))
	if err := form.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "confirmation error: %s\n", err.Error())
		os.Exit(1)
	}
	if !doRun {
		os.Exit(0)
	}
}

///////////////////////////////////////////////////////////////////////////////

func main() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config YAML (defaults plus RACEWATCH_ envvars if unset)")

	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&date, "date", "d", "", "Symbol-day date, e.g. 2026-03-02")
	runCmd.Flags().StringVarP(&symbol, "symbol", "s", "", "Symbol, e.g. AAPL")
	runCmd.Flags().StringVarP(&symbolsFile, "symbols-file", "f", "", "CSV of (date,symbol) pairs to process (see internal/ingest.LoadSymbolDates)")
	runCmd.Flags().BoolVar(&forceRerun, "force", false, "Overwrite an existing completed run without confirmation")

	err := rootCmd.Execute()
	requireNoError(err)
}

///////////////////////////////////////////////////////////////////////////////

var rootCmd = &cobra.Command{
	Use:   "racewatch",
	Short: "racewatch detects latency-arbitrage races in one symbol-day of exchange message data.",
	Long:  "racewatch detects latency-arbitrage races in one symbol-day of exchange message data.",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the classify/book/race pipeline over one or many symbol-days",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := racewatch.LoadConfig(configFile)
		requireNoError(err)

		days := requireSymbolDays()

		if !forceRerun && anyAlreadyRun(days, cfg.Paths) {
			requireHumanConfirmation(fmt.Sprintf("%d of %d symbol-days already have a completed run under %s. Overwrite?",
				countAlreadyRun(days, cfg.Paths), len(days), cfg.Paths.OutputRoot))
		}

		results := fanout.Run(days, cfg, cfg.Paths)
		failed := fanout.Errors(results)

		fmt.Fprintf(os.Stdout, "processed %s symbol-days, %s failed\n",
			humanize.Comma(int64(len(results))), humanize.Comma(int64(len(failed))))

		for _, r := range failed {
			var sdErr *pipeline.SymbolDayError
			if errors.As(r.Err, &sdErr) {
				fmt.Fprintf(os.Stderr, "%s/%s: %s: %s\n", sdErr.Date, sdErr.Symbol, sdErr.Kind, sdErr.Err)
			} else {
				fmt.Fprintf(os.Stderr, "%s/%s: %s\n", r.Date, r.Symbol, r.Err)
			}
		}
		if len(failed) > 0 {
			os.Exit(1)
		}
	},
}

// requireSymbolDays resolves the run's symbol-day list from --date/--symbol
// or --symbols-file, exiting with an error if neither was given.
func requireSymbolDays() []ingest.SymbolDate {
	if symbolsFile != "" {
		days, err := ingest.LoadSymbolDates(symbolsFile)
		requireNoError(err)
		return days
	}
	if date == "" || symbol == "" {
		fmt.Fprint(os.Stderr, "must pass --date and --symbol, or --symbols-file\n")
		os.Exit(1)
	}
	return []ingest.SymbolDate{{Date: date, Symbol: symbol}}
}

// alreadyRun reports whether a completed run's summary artifact already
// exists for one symbol-day (mirrors internal/mcpquery.SummaryPath's
// completed-run convention).
func alreadyRun(day ingest.SymbolDate, paths racewatch.Paths) bool {
	_, err := os.Stat(paths.OutputRoot + "/" + day.Date + "_" + day.Symbol + "_summary.json")
	return err == nil
}

func anyAlreadyRun(days []ingest.SymbolDate, paths racewatch.Paths) bool {
	return countAlreadyRun(days, paths) > 0
}

func countAlreadyRun(days []ingest.SymbolDate, paths racewatch.Paths) int {
	n := 0
	for _, day := range days {
		if alreadyRun(day, paths) {
			n++
		}
	}
	return n
}
