package eval

import (
	"fmt"

	"github.com/drakos74/sigclass/internal/algo/classifier"
	"github.com/drakos74/sigclass/internal/algo/feature"
	"github.com/drakos74/sigclass/internal/algo/split"
	cmath "github.com/drakos74/sigclass/internal/math"
)

// Forest configures the random forest re-ranking of the selected features.
type Forest struct {
	Enabled bool `json:"enabled"`
	Trees   int  `json:"trees"`
}

// Config is the configuration of an experiment.
type Config struct {
	Method   string        `json:"method"`
	Splits   int           `json:"splits"`
	Split    split.Options `json:"split"`
	Features float64       `json:"features"`
	// Exponent is applied to the correlation scores of continuous sets.
	Exponent    float64 `json:"exponent"`
	WNDExponent float64 `json:"wnd_exponent"`
	Epsilon     float64 `json:"epsilon"`
	// Neighbours is the number of samples interpolated from, for continuous sets.
	Neighbours    int    `json:"neighbours"`
	MaxTile       bool   `json:"max_tile"`
	TileAreas     bool   `json:"tile_areas"`
	Rank          int    `json:"rank"`
	SkipIdentical bool   `json:"skip_identical"`
	Similarities  bool   `json:"similarities"`
	Seed          int64  `json:"seed"`
	Workers       int    `json:"workers"`
	Forest        Forest `json:"forest"`
}

// DefaultConfig returns the default experiment configuration.
func DefaultConfig() Config {
	return Config{
		Method: string(classifier.WND),
		Splits: 1,
		Split: split.Options{
			Ratio:     0.75,
			Tiles:     1,
			Randomize: true,
		},
		Features:    0.15,
		Exponent:    1,
		WNDExponent: -5,
		Epsilon:     cmath.Epsilon,
		Neighbours:  1,
		Rank:        1,
		Seed:        1,
		Workers:     4,
		Forest: Forest{
			Trees: 100,
		},
	}
}

// Validate checks the configuration values.
func (cfg Config) Validate() error {
	if _, err := classifier.ParseMethod(cfg.Method); err != nil {
		return err
	}
	if cfg.Splits < 1 {
		return fmt.Errorf("invalid number of splits %d", cfg.Splits)
	}
	if cfg.Features < 0 || cfg.Features > 1 {
		return fmt.Errorf("invalid fraction of features %v", cfg.Features)
	}
	if cfg.Split.Ratio < 0 || cfg.Split.Ratio > 1 {
		return fmt.Errorf("invalid split ratio %v", cfg.Split.Ratio)
	}
	return nil
}

// Options returns the evaluation options of the configuration.
func (cfg Config) Options() Options {
	method, _ := classifier.ParseMethod(cfg.Method)
	opts := classifier.NewOptions()
	if cfg.Epsilon > 0 {
		opts.Epsilon = cfg.Epsilon
	}
	if cfg.WNDExponent != 0 {
		opts.Exponent = cfg.WNDExponent
	}
	opts.SkipIdentical = cfg.SkipIdentical
	return Options{
		Method:       method,
		Classifier:   opts,
		Tiles:        cfg.Split.Tiles,
		MaxTile:      cfg.MaxTile,
		TileAreas:    cfg.TileAreas,
		Rank:         cfg.Rank,
		Neighbours:   cfg.Neighbours,
		Workers:      cfg.Workers,
		Similarities: cfg.Similarities,
	}
}

// Weighting returns the feature weighting options of the configuration.
func (cfg Config) Weighting() feature.Options {
	opts := feature.NewOptions()
	opts.Fraction = cfg.Features
	if cfg.Epsilon > 0 {
		opts.Epsilon = cfg.Epsilon
	}
	if cfg.Exponent != 0 {
		opts.Exponent = cfg.Exponent
	}
	return opts
}
