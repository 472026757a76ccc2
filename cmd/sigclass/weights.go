package main

import (
	"fmt"

	"github.com/drakos74/sigclass/internal/algo/feature"
	"github.com/drakos74/sigclass/internal/storage/file/weights"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/rs/zerolog/log"
)

var (
	weightsFile string
	applyFile   string
	factor      float64
)

func runWeights(cmd *commander.Command, args []string) error {
	level()
	if weightsFile == "" {
		return fmt.Errorf("no weights file given")
	}
	cfg, err := prepare()
	if err != nil {
		return err
	}
	ts, err := loadSet(trainFile, continuous)
	if err != nil {
		return err
	}
	ts.Normalize()
	ranking, err := feature.Weigh(ts, cfg.Weighting())
	if err != nil {
		return err
	}
	if applyFile != "" {
		d, err := weights.Apply(ts, applyFile, factor)
		if err != nil {
			return err
		}
		log.Info().Str("file", applyFile).Float64("factor", factor).Float64("distance", d).Msg("applied weights")
	}
	for _, f := range ranking.Features {
		fmt.Printf("%.6f\t%s\n", f.Weight, f.Name)
	}
	return weights.Save(weightsFile, ts)
}

func weightsCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runWeights,
		UsageLine: "weights <file options> [arguments]",
		Short:     "computes the feature weights of a set",
		Long: `
computes the feature weights of a set, optionally blending them with an existing weight vector

	$ ./sigclass weights -fit <train.fit> -out <weights> [-apply <weights> -f <factor>] [options]

`,
		Flag: *flag.NewFlagSet("weights", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&trainFile, "fit", "", "Training set file")
	cmd.Flag.StringVar(&weightsFile, "out", "", "Output weights file")
	cmd.Flag.StringVar(&applyFile, "apply", "", "Optional - Weights file to blend with")
	cmd.Flag.Float64Var(&factor, "f", 0, "Optional - Blend factor, 0 replaces the computed weights")
	cmd.Flag.StringVar(&configDir, "config", "", "Optional - Directory of experiment.json")
	cmd.Flag.BoolVar(&continuous, "c", false, "Continuous dataset")
	return cmd
}
