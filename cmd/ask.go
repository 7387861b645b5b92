package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

// askCmd answers a single free-text question.
type askCmd struct{}

func (*askCmd) Name() string     { return "ask" }
func (*askCmd) Synopsis() string { return "answer one free-text question about the portfolio" }
func (*askCmd) Usage() string {
	return `pav ask <question>

  Resolves the question to an intent and answers it from the snapshot
  store. Example: pav ask NAV on 2025-01-13
`
}

func (*askCmd) SetFlags(_ *flag.FlagSet) {}

func (c *askCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	question := strings.TrimSpace(strings.Join(f.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "Error: a question is required")
		return subcommands.ExitUsageError
	}

	s, err := newSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	answer, err := s.answer(ctx, question)
	if err != nil {
		fmt.Fprintln(os.Stderr, diagnose(err))
		return subcommands.ExitFailure
	}
	printMarkdown(answer)
	return subcommands.ExitSuccess
}
