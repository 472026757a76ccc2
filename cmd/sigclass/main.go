package main

import (
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var verbose bool

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func level() {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func commands() *commander.Command {
	cmd := &commander.Command{
		UsageLine: "sigclass <command> [arguments]",
		Short:     "weighted nearest neighbour classification of image signatures",
		Subcommands: []*commander.Command{
			testCmd(),
			classifyCmd(),
			weightsCmd(),
			summaryCmd(),
			serveCmd(),
		},
		Flag: *flag.NewFlagSet("sigclass", flag.ExitOnError),
	}
	cmd.Flag.BoolVar(&verbose, "v", false, "Debug logging")
	return cmd
}

func main() {
	err := commands().Dispatch(os.Args[1:])
	if err != nil {
		fmt.Printf("**err**: %v\n", err)
		os.Exit(1)
	}
}
