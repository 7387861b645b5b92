// Package cmd implements the CLI application for portfolio snapshot
// ingestion, analytics, and the question-answering assistant.
package cmd

import (
	"flag"
	"fmt"

	"github.com/avianalytics/portfolio"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// Commands is the full list of subcommands a main package registers.
var Commands = []subcommands.Command{
	&ingestCmd{},
	&navCmd{},
	&seriesCmd{},
	&breakdownCmd{},
	&holdingCmd{},
	&cashCmd{},
	&explainCmd{},
	&movesCmd{},
	&askCmd{},
	&assistCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok
// to use global variables.

var storeFile = flag.String("store", "portfolio.db", "Path to the snapshot store database")
var maxPriceMove = flag.Float64("max-price-move", 0.30, "Largest tolerated day-over-day price move (ratio)")
var maxPositionSize = flag.Int64("max-position-size", 10000, "Largest tolerated quantity per security per day")
var bigMoveThreshold = flag.Float64("big-move-threshold", 0.03, "|daily return| at or above which a NAV move is flagged")

// config assembles the thresholds from the global flags.
func config() portfolio.Config {
	cfg := portfolio.DefaultConfig()
	cfg.MaxPriceMove = *maxPriceMove
	cfg.MaxPositionSize = decimal.NewFromInt(*maxPositionSize)
	cfg.BigMoveThreshold = *bigMoveThreshold
	return cfg
}

// openStore opens the snapshot store configured by the -store flag.
func openStore() (*portfolio.Store, error) {
	return portfolio.OpenStore(*storeFile)
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
