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

// holdingCmd displays the position held in one ticker on a date.
type holdingCmd struct {
	ticker string
	date   string
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the position held in a security on a date" }
func (*holdingCmd) Usage() string {
	return `pav holding -t <ticker> -d <date>

  Displays the quantity held, and when a same-date price exists, the
  close price and market value.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker of the security")
	f.StringVar(&c.date, "d", "", "Date of the holding")
}

func (c *holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		fmt.Fprintln(os.Stderr, "Error: -t <ticker> is required")
		return subcommands.ExitUsageError
	}
	d, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	holding, err := portfolio.NewEngine(store).HoldingOnDate(c.ticker, d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	currency, err := store.Currency()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.HoldingMarkdown(holding, currency))
	return subcommands.ExitSuccess
}
