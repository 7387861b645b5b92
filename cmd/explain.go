package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/avianalytics/portfolio"
	"github.com/avianalytics/portfolio/agent"
	"github.com/avianalytics/portfolio/date"
	"github.com/google/subcommands"
)

// explainCmd narrates one day's NAV move from the attribution facts.
type explainCmd struct {
	date string
}

func (*explainCmd) Name() string     { return "explain" }
func (*explainCmd) Synopsis() string { return "explain a day's NAV move" }
func (*explainCmd) Usage() string {
	return `pav explain -d <date>

  Builds the day's fact sheet (NAV, change, per-security pnl, cash
  movement, reconciliation residual) and renders a short commentary.
  Without a backend credential, a deterministic template reports the
  same facts.
`
}

func (c *explainCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date to explain")
}

func (c *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	exp, err := portfolio.NewEngine(store).ExplainDay(d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	currency, err := store.Currency()
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

	printMarkdown(portfolio.NewExplainer(narrator).Explain(ctx, exp, currency))
	return subcommands.ExitSuccess
}
