// Copyright (c) 2026 Eric Budish
package main

import (
	"fmt"
	"os"

	racewatch_tui "github.com/ericbudish/racewatch/internal/tui"
	"github.com/spf13/pflag"
)

///////////////////////////////////////////////////////////////////////////////

func main() {
	var config racewatch_tui.Config
	var showHelp bool

	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help")
	pflag.StringVarP(&config.OutputRoot, "output-root", "o", "", "Directory a pipeline.Process run wrote its artifacts to")
	pflag.StringVarP(&config.Date, "date", "d", "", "Symbol-day date, e.g. 2026-03-02")
	pflag.StringVarP(&config.Symbol, "symbol", "s", "", "Symbol, e.g. AAPL")
	pflag.Parse()

	if showHelp {
		fmt.Fprintf(os.Stdout, "usage: %s -o <output-root> -d <date> -s <symbol>\n\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(0)
	}

	if config.OutputRoot == "" || config.Date == "" || config.Symbol == "" {
		fmt.Fprintf(os.Stderr, "missing required flags, use --output-root, --date, and --symbol\n")
		os.Exit(1)
	}

	if err := racewatch_tui.Run(config); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}
}
