package main

import (
	"context"
	"fmt"

	"github.com/drakos74/sigclass/internal/algo/eval"
	"github.com/drakos74/sigclass/internal/algo/feature"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func prepare() (eval.Config, error) {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return cfg, err
	}
	if method != "" {
		cfg.Method = method
	}
	return cfg, cfg.Validate()
}

func runClassify(cmd *commander.Command, args []string) error {
	level()
	cfg, err := prepare()
	if err != nil {
		return err
	}
	train, err := loadSet(trainFile, continuous)
	if err != nil {
		return err
	}
	test, err := loadSet(testFile, continuous)
	if err != nil {
		return err
	}
	test.NormalizeWith(train.Normalize())
	if _, err := feature.Weigh(train, cfg.Weighting()); err != nil {
		return err
	}
	ds, err := eval.Test(context.Background(), train, test, cfg.Options())
	if err != nil {
		return err
	}
	for _, img := range ds.Images {
		if ds.Continuous {
			fmt.Printf("%s\t%.4f\t%.4f\t%s\n", img.Path, img.Value, img.Interpolated, img.Closest)
			continue
		}
		fmt.Printf("%s\t%s\t%s\t%.4f\t%s\n", img.Path, train.Classes().Label(img.Class), train.Classes().Label(img.Predicted), img.Probabilities[img.Predicted], img.Closest)
	}
	if ds.Total > 0 {
		fmt.Printf("accuracy %.4f (%d/%d) p-value %.4g\n", ds.Accuracy, ds.Correct, ds.Total, ds.PValue)
	}
	return nil
}

func classifyCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runClassify,
		UsageLine: "classify <file options> [arguments]",
		Short:     "classifies the samples of a set against a training set",
		Long: `
classifies every sample of a test set against a training set

	$ ./sigclass classify -fit <train.fit> -test <test.fit> [-m wnn|wnd] [options]

`,
		Flag: *flag.NewFlagSet("classify", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&trainFile, "fit", "", "Training set file")
	cmd.Flag.StringVar(&testFile, "test", "", "Test set file")
	cmd.Flag.StringVar(&configDir, "config", "", "Optional - Directory of experiment.json")
	cmd.Flag.StringVar(&method, "m", "", "Optional - Classification method [wnn, wnd]")
	cmd.Flag.BoolVar(&continuous, "c", false, "Continuous dataset")
	return cmd
}
