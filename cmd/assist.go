package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
)

// assistCmd runs the interactive question-answering session.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive question-answering session" }
func (*assistCmd) Usage() string {
	return `pav assist

  Starts a read-eval loop over the snapshot store. Every error is
  reported as a single line and the session continues.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

const prompt = "question> "

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := newSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	fmt.Println("Portfolio assistant ready.")
	fmt.Println("Examples:")
	fmt.Println("  NAV on 2025-01-13")
	fmt.Println("  Explain 2025-01-20")
	fmt.Println("  What is my holding in NVDA on 2025-01-13")
	fmt.Println("  Show big moves")
	fmt.Println("Type quit to exit.")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return subcommands.ExitSuccess // Clean exit on Ctrl+D
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if q := strings.ToLower(question); q == "quit" || q == "exit" {
			return subcommands.ExitSuccess
		}

		answer, err := s.answer(ctx, question)
		if err != nil {
			// One line per failure; the session always survives.
			fmt.Println(diagnose(err))
			continue
		}
		printMarkdown(answer)
	}
}
