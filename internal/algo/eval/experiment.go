package eval

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/drakos74/sigclass/internal/algo/feature"
	"github.com/drakos74/sigclass/internal/algo/split"
	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/math/ml"
	"github.com/drakos74/sigclass/internal/metrics"
	"github.com/drakos74/sigclass/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// SummaryLabel is the storage label of the experiment summary.
	SummaryLabel = "summary"
	// SplitLabel is the storage label of the individual splits.
	SplitLabel = "split"
)

// Experiment evaluates a training set over several randomised splits.
type Experiment struct {
	ID      string
	cfg     Config
	store   storage.Persistence
	metrics *metrics.Metrics
}

// NewExperiment creates a new experiment with a unique run id.
func NewExperiment(cfg Config) *Experiment {
	return &Experiment{
		ID:      uuid.New().String(),
		cfg:     cfg,
		store:   storage.NewVoidStorage(),
		metrics: metrics.Observer,
	}
}

// WithStorage stores the results of the experiment in the shard of its run id.
func (e *Experiment) WithStorage(shard storage.Shard) (*Experiment, error) {
	store, err := shard(e.ID)
	if err != nil {
		return nil, fmt.Errorf("could not create storage for run '%s': %w", e.ID, err)
	}
	e.store = store
	return e, nil
}

// WithMetrics replaces the default metrics observer.
func (e *Experiment) WithMetrics(m *metrics.Metrics) *Experiment {
	e.metrics = m
	return e
}

// Config returns the experiment configuration.
func (e *Experiment) Config() Config {
	return e.cfg
}

// Run splits the set, weighs and tests every split and summarises the results.
// If a test set is given it is used for testing in every split, and the training
// images are drawn from ts only.
func (e *Experiment) Run(ctx context.Context, ts, testSet *dataset.TrainingSet) (*Summary, []*DataSplit, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if testSet != nil {
		if err := split.ValidateInto(ts, e.cfg.Split); err != nil {
			return nil, nil, err
		}
	} else if err := split.Validate(ts, e.cfg.Split); err != nil {
		return nil, nil, err
	}
	seed := e.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	log.Info().
		Str("run", e.ID).
		Str("set", ts.Name).
		Str("kind", ts.Kind().String()).
		Str("method", e.cfg.Method).
		Int("splits", e.cfg.Splits).
		Int64("seed", seed).
		Msg("experiment")

	splits := make([]*DataSplit, e.cfg.Splits)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range splits {
		i := i
		rng := rand.New(rand.NewSource(seed + int64(i)))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ds, err := e.runSplit(gctx, i+1, ts, testSet, rng)
			if err != nil {
				return fmt.Errorf("split %d: %w", i+1, err)
			}
			splits[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	summary := Summarize(splits)
	if err := e.store.Store(storage.Key{Run: e.ID, Label: SummaryLabel}, summary); err != nil {
		log.Error().Err(err).Str("run", e.ID).Msg("could not store summary")
	}
	return summary, splits, nil
}

func (e *Experiment) runSplit(ctx context.Context, id int, ts, testSet *dataset.TrainingSet, rng *rand.Rand) (*DataSplit, error) {
	var train, test *dataset.TrainingSet
	var partition *split.Partition
	if testSet != nil {
		test = testSet.Duplicate(fmt.Sprintf("%s-%d", testSet.Name, id))
		train, partition = split.SplitInto(ts, test, e.cfg.Split, rng)
	} else {
		train, test, partition = split.Split(ts, e.cfg.Split, rng)
	}
	test.NormalizeWith(train.Normalize())

	weighting := e.cfg.Weighting()
	if e.cfg.Forest.Enabled && !train.IsContinuous() {
		weighting.Reranker = ml.NewForest(e.cfg.Forest.Trees)
	}
	ranking, err := feature.Weigh(train, weighting)
	if err != nil {
		return nil, fmt.Errorf("could not weigh features: %w", err)
	}

	opts := e.cfg.Options()
	opts.Observer = e.metrics
	ds, err := Test(ctx, train, test, opts)
	if err != nil {
		return nil, err
	}
	ds.ID = id
	ds.Ranking = ranking
	ds.Partition = partition
	ds.Warnings = append(train.Warnings().Messages(), ds.Warnings...)

	e.metrics.Split(ds.Method, ds.Accuracy)
	if err := e.store.Store(storage.Key{Run: e.ID, Split: id, Label: SplitLabel}, ds); err != nil {
		log.Error().Err(err).Str("run", e.ID).Int("split", id).Msg("could not store split")
	}
	return ds, nil
}
