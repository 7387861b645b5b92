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

// cashCmd displays the cash balance on a date, or the whole series of
// balances and daily movements.
type cashCmd struct {
	date string
}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "display cash balances and daily movements" }
func (*cashCmd) Usage() string {
	return `pav cash [-d <date>]

  With -d, displays the cash balance on the date. Without it, displays
  every balance with its movement from the previous record.
`
}

func (c *cashCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the cash balance")
}

func (c *cashCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()
	engine := portfolio.NewEngine(store)

	if c.date == "" {
		series, err := engine.CashSeries()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		currency, err := store.Currency()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.CashSeriesMarkdown(series, currency))
		return subcommands.ExitSuccess
	}

	d, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	cash, err := engine.CashOnDate(d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Cash on %s was %s.\n", d, portfolio.FormatMoney(cash.Amount, cash.Currency))
	return subcommands.ExitSuccess
}
