package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/avianalytics/portfolio"
	"github.com/avianalytics/portfolio/agent"
	"github.com/avianalytics/portfolio/date"
	"github.com/avianalytics/portfolio/renderer"
	"github.com/google/subcommands"
)

// movesCmd flags big NAV moves, and optionally explains the largest one.
type movesCmd struct {
	threshold float64
	explain   bool
}

func (*movesCmd) Name() string     { return "moves" }
func (*movesCmd) Synopsis() string { return "flag NAV moves above the anomaly threshold" }
func (*movesCmd) Usage() string {
	return `pav moves [-t <threshold>] [-explain]

  Flags every date whose |daily return| is at or above the threshold.
  With -explain, also narrates the largest flagged move.
`
}

func (c *movesCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.threshold, "t", 0, "Detection threshold; defaults to the configured big-move-threshold")
	f.BoolVar(&c.explain, "explain", false, "Explain the largest flagged move")
}

func (c *movesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	threshold := c.threshold
	if threshold == 0 {
		threshold = config().BigMoveThreshold
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()
	engine := portfolio.NewEngine(store)

	series, err := engine.NavSeries(date.Range{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	currency, err := store.Currency()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	alerts := portfolio.DetectBigMoves(series, threshold)
	portfolio.SortByMagnitude(alerts)
	printMarkdown(renderer.AlertsMarkdown(alerts, currency))

	if !c.explain || len(alerts) == 0 {
		return subcommands.ExitSuccess
	}

	// Largest move first after the sort.
	biggest := alerts[0].Point.Date
	exp, err := engine.ExplainDay(biggest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var narrator portfolio.Narrator
	if agent.Available() {
		client, err := agent.NewClient(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		narrator = agent.NewNarrator(client)
	}
	fmt.Printf("Explaining date: %s\n", biggest)
	printMarkdown(portfolio.NewExplainer(narrator).Explain(ctx, exp, currency))
	return subcommands.ExitSuccess
}
