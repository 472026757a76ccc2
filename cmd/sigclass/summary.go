package main

import (
	"encoding/json"
	"fmt"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func runSummary(cmd *commander.Command, args []string) error {
	level()
	ts, err := loadSet(trainFile, continuous)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(ts.Summarize(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	for _, w := range ts.Warnings().Messages() {
		fmt.Println(w)
	}
	return nil
}

func summaryCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runSummary,
		UsageLine: "summary <file options>",
		Short:     "describes a dataset",
		Long: `
describes the classes and samples of a dataset

	$ ./sigclass summary -fit <set.fit> [-c]

`,
		Flag: *flag.NewFlagSet("summary", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&trainFile, "fit", "", "Dataset file")
	cmd.Flag.BoolVar(&continuous, "c", false, "Continuous dataset")
	return cmd
}
