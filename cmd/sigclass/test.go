package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/drakos74/sigclass/internal/algo/eval"
	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/storage"
	jsonstore "github.com/drakos74/sigclass/internal/storage/file/json"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/rs/zerolog/log"
)

var (
	trainFile  string
	testFile   string
	configDir  string
	storeDir   string
	method     string
	splits     int
	continuous bool
)

func runTest(cmd *commander.Command, args []string) error {
	level()
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	if method != "" {
		cfg.Method = method
	}
	if splits > 0 {
		cfg.Splits = splits
	}
	ts, err := loadSet(trainFile, continuous)
	if err != nil {
		return err
	}
	var testSet *dataset.TrainingSet
	if testFile != "" {
		testSet, err = loadSet(testFile, continuous)
		if err != nil {
			return err
		}
	}

	e := eval.NewExperiment(cfg)
	if storeDir != "" {
		storage.DefaultDir = storeDir
		e, err = e.WithStorage(jsonstore.BlobShard(storage.RunsDir))
		if err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	summary, _, err := e.Run(ctx, ts, testSet)
	if err != nil {
		return err
	}
	if summary.Report != "" {
		fmt.Println(summary.Report)
	}
	for _, c := range summary.Classes {
		if c.Skipped {
			continue
		}
		fmt.Printf("%s\t%d/%d\t%.4f\t[%.4f, %.4f]\n", c.Label, c.Correct, c.Total, c.Accuracy, c.Interval.Lower(), c.Interval.Upper())
	}
	fmt.Printf("accuracy %.4f +/- %.4f p-value %.4g\n", summary.Accuracy, summary.StdDev, summary.PValue)
	if summary.Pearson != nil {
		fmt.Printf("pearson r %.4f p %.4g mean abs diff %.4f\n", summary.Pearson.R, summary.Pearson.P, summary.Pearson.MeanAbsDiff)
	}
	log.Info().Str("run", e.ID).Int("warnings", len(summary.Warnings)).Msg("done")
	return nil
}

func testCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runTest,
		UsageLine: "test <file options> [arguments]",
		Short:     "evaluates a dataset over randomised splits",
		Long: `
evaluates a dataset over randomised train/test splits

	$ ./sigclass test -fit <train.fit> [-test <test.fit>] [-config <dir>] [-store <dir>] [options]

`,
		Flag: *flag.NewFlagSet("test", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&trainFile, "fit", "", "Training set file")
	cmd.Flag.StringVar(&testFile, "test", "", "Optional - Test set file")
	cmd.Flag.StringVar(&configDir, "config", "", "Optional - Directory of experiment.json")
	cmd.Flag.StringVar(&storeDir, "store", "", "Optional - Directory to store the results in")
	cmd.Flag.StringVar(&method, "m", "", "Optional - Classification method [wnn, wnd]")
	cmd.Flag.IntVar(&splits, "n", 0, "Optional - Number of splits")
	cmd.Flag.BoolVar(&continuous, "c", false, "Continuous dataset")
	return cmd
}
