package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/drakos74/sigclass/internal/algo/classifier"
	"github.com/drakos74/sigclass/internal/algo/feature"
	"github.com/drakos74/sigclass/internal/metrics"
	"github.com/drakos74/sigclass/internal/server"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var port int

func runServe(cmd *commander.Command, args []string) error {
	level()
	cfg, err := prepare()
	if err != nil {
		return err
	}
	ts, err := loadSet(trainFile, continuous)
	if err != nil {
		return err
	}
	ts.Normalize()
	if _, err := feature.Weigh(ts, cfg.Weighting()); err != nil {
		return err
	}
	opts := cfg.Options()
	c, err := classifier.New(opts.Method, opts.Classifier)
	if err != nil {
		return err
	}
	classifier.Prepare(ts)

	s := server.NewServer("sigclass", port).
		Add(server.Live(), server.Classify(ts, c, classifier.NewInterpolator(opts.Neighbours))).
		Handle("/metrics", metrics.Handler())
	if verbose {
		s.Debug()
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return s.Run(ctx)
}

func serveCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runServe,
		UsageLine: "serve <file options> [arguments]",
		Short:     "serves classifications against a training set",
		Long: `
serves classifications of raw signatures against a training set over http

	$ ./sigclass serve -fit <train.fit> [-p <port>] [-m wnn|wnd] [options]

`,
		Flag: *flag.NewFlagSet("serve", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&trainFile, "fit", "", "Training set file")
	cmd.Flag.IntVar(&port, "p", 6090, "Port")
	cmd.Flag.StringVar(&configDir, "config", "", "Optional - Directory of experiment.json")
	cmd.Flag.StringVar(&method, "m", "", "Optional - Classification method [wnn, wnd]")
	cmd.Flag.BoolVar(&continuous, "c", false, "Continuous dataset")
	return cmd
}
