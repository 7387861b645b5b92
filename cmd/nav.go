package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/avianalytics/portfolio"
	"github.com/avianalytics/portfolio/date"
	"github.com/google/subcommands"
)

// navCmd reports the net asset value on a single date, or the change
// between two dates.
type navCmd struct {
	date  string
	start string
	end   string
}

func (*navCmd) Name() string     { return "nav" }
func (*navCmd) Synopsis() string { return "display the net asset value on a date" }
func (*navCmd) Usage() string {
	return `pav nav -d <date>
pav nav -s <start> -e <end>

  Displays the portfolio NAV on a date, or the NAV change between two dates.
`
}

func (c *navCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the NAV")
	f.StringVar(&c.start, "s", "", "Start date of a NAV comparison")
	f.StringVar(&c.end, "e", "", "End date of a NAV comparison")
}

func (c *navCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()
	engine := portfolio.NewEngine(store)
	currency, err := store.Currency()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.start != "" || c.end != "" {
		start, err := date.Parse(c.start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
		end, err := date.Parse(c.end)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitUsageError
		}
		navStart, navEnd, change, err := engine.NavBetween(start, end)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("NAV on %s was %s.\nNAV on %s was %s.\nChange: %s.\n",
			start, portfolio.FormatMoney(navStart, currency),
			end, portfolio.FormatMoney(navEnd, currency),
			portfolio.FormatMoney(change, currency))
		return subcommands.ExitSuccess
	}

	d, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	nav, err := engine.NavOnDate(d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("NAV on %s was %s.\n", d, portfolio.FormatMoney(nav, currency))
	return subcommands.ExitSuccess
}
