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

// breakdownCmd displays the per-security market values on a date.
type breakdownCmd struct {
	date string
}

func (*breakdownCmd) Name() string     { return "breakdown" }
func (*breakdownCmd) Synopsis() string { return "display the per-security portfolio breakdown" }
func (*breakdownCmd) Usage() string {
	return `pav breakdown -d <date>

  Displays each security's market value on the date, with its share of
  the total securities value.
`
}

func (c *breakdownCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the breakdown")
}

func (c *breakdownCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	rows, err := portfolio.NewEngine(store).Breakdown(d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	currency, err := store.Currency()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.BreakdownMarkdown(d.String(), rows, currency))
	return subcommands.ExitSuccess
}
