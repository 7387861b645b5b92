package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/avianalytics/portfolio"
	"github.com/avianalytics/portfolio/date"
	"github.com/avianalytics/portfolio/renderer"
	"github.com/google/subcommands"
)

// seriesCmd displays the NAV series with daily changes and returns.
type seriesCmd struct {
	start string
	end   string
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "display the NAV series with daily changes" }
func (*seriesCmd) Usage() string {
	return `pav series [-s <start>] [-e <end>]

  Displays the NAV for every date with data in the range, with the
  day-over-day change and return. Omitting both bounds shows everything.
`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Start date (inclusive)")
	f.StringVar(&c.end, "e", "", "End date (inclusive)")
}

func (c *seriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var rng date.Range
	var err error
	if c.start != "" {
		if rng.From, err = date.Parse(c.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.end != "" {
		if rng.To, err = date.Parse(c.end); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	series, err := portfolio.NewEngine(store).NavSeries(rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	currency, err := store.Currency()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.NavSeriesMarkdown(series, currency))
	return subcommands.ExitSuccess
}
