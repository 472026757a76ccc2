package main

import (
	"fmt"

	"github.com/drakos74/sigclass/infra/config"
	"github.com/drakos74/sigclass/internal/algo/eval"
	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/storage/file/fit"
	"github.com/rs/zerolog/log"
)

const experimentConfig = "experiment"

func loadConfig(dir string) (eval.Config, error) {
	cfg := eval.DefaultConfig()
	if dir == "" {
		return cfg, nil
	}
	if _, err := config.LoadFrom(dir, experimentConfig, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func loadSet(path string, continuous bool) (*dataset.TrainingSet, error) {
	if path == "" {
		return nil, fmt.Errorf("no dataset file given")
	}
	ts, err := fit.Load(path, continuous)
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", path).Str("set", ts.String()).Msg("loaded")
	return ts, nil
}
