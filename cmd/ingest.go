package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/avianalytics/portfolio"
	"github.com/google/subcommands"
)

// ingestCmd validates a batch file and atomically replaces the snapshot.
type ingestCmd struct {
	file string
}

func (*ingestCmd) Name() string     { return "ingest" }
func (*ingestCmd) Synopsis() string { return "validate a batch file and replace the snapshot store" }
func (*ingestCmd) Usage() string {
	return `pav ingest -f <batch.json>

  Validates the four tables of the batch against the data-quality rules
  and, only if every rule passes, atomically replaces the snapshot store.
  A failed batch leaves the prior snapshot fully intact.
`
}

func (c *ingestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Batch file to ingest (JSON)")
}

func (c *ingestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -f <batch.json> is required")
		return subcommands.ExitUsageError
	}

	in, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening batch: %v\n", err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	batch, err := portfolio.DecodeBatch(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	if err := portfolio.NewValidator(config()).Apply(store, batch); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Ingested %d securities, %d prices, %d holdings, %d cash balances into %s\n",
		len(batch.Securities), len(batch.Prices), len(batch.Holdings), len(batch.Cash), *storeFile)
	return subcommands.ExitSuccess
}
