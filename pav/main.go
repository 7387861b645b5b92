package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/avianalytics/portfolio/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
)

func main() {
	// Optional .env file, for GEMINI_API_KEY mostly.
	_ = godotenv.Load()

	// Shell completion: when invoked by the shell's completion hook,
	// Complete prints the candidates and exits.
	sub := make(map[string]*complete.Command)
	for _, c := range cmd.Commands {
		sub[c.Name()] = &complete.Command{}
	}
	completer := &complete.Command{Sub: sub}
	completer.Complete("pav")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
