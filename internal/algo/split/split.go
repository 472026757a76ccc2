package split

import (
	"fmt"
	"math/rand"

	"github.com/drakos74/sigclass/internal/dataset"
	cmath "github.com/drakos74/sigclass/internal/math"
	"github.com/drakos74/sigclass/internal/model"
	"github.com/rs/zerolog/log"
)

// Options configures how a set is split into a training and a test set.
// Counts are in tile groups i.e. images, not samples.
type Options struct {
	// Ratio is the part of every class used for training, when in (0,1].
	Ratio float64 `json:"ratio"`
	// Train is the fixed number of training images per class, used when there is no ratio.
	Train int `json:"train"`
	// Test is the fixed number of test images per class, 0 for all remaining ones.
	Test int `json:"test"`
	// Tiles is the number of consecutive samples that make up one image.
	Tiles int `json:"tiles"`
	// Randomize shuffles the images of every class before splitting.
	Randomize bool `json:"randomize"`
}

// Class is the partition of one class.
type Class struct {
	Label  string `json:"label"`
	Groups int    `json:"groups"`
	Train  []int  `json:"train"`
	Test   []int  `json:"test"`
}

// Partition records which images of every class went where, indexed by class.
type Partition struct {
	Tiles   int     `json:"tiles"`
	Classes []Class `json:"classes"`
}

// TrainCount returns the number of training images of class c.
func (p *Partition) TrainCount(c int) int {
	if c < 1 || c >= len(p.Classes) {
		return 0
	}
	return len(p.Classes[c].Train)
}

// TestCount returns the number of test images of class c.
func (p *Partition) TestCount(c int) int {
	if c < 1 || c >= len(p.Classes) {
		return 0
	}
	return len(p.Classes[c].Test)
}

func (opts Options) tiles() int {
	if opts.Tiles < 1 {
		return 1
	}
	return opts.Tiles
}

// counts returns the number of training and test images for a class of the given number of images.
// External test images do not come out of the class.
func (opts Options) counts(groups int, external bool) (int, int) {
	var train int
	if opts.Ratio > 0 && opts.Ratio <= 1 {
		train = cmath.RoundHalfUp(opts.Ratio * float64(groups))
	} else {
		train = opts.Train
	}
	if external {
		return train, 0
	}
	test := opts.Test
	if test <= 0 {
		test = groups - train
	}
	return train, test
}

func check(ts *dataset.TrainingSet, opts Options, external bool) error {
	t := opts.tiles()
	for c := 1; c <= ts.Classes().Len(); c++ {
		groups := len(ts.ClassSamples(c)) / t
		train, test := opts.counts(groups, external)
		if train < 0 || test < 0 || train+test > groups {
			return fmt.Errorf("class '%s' has %d images for %d training and %d test images", ts.Classes().Label(c), groups, train, test)
		}
	}
	return nil
}

// Validate checks that every class has enough images for the requested split.
func Validate(ts *dataset.TrainingSet, opts Options) error {
	return check(ts, opts, false)
}

// ValidateInto checks that every class has enough images for training, when testing on another set.
func ValidateInto(ts *dataset.TrainingSet, opts Options) error {
	return check(ts, opts, true)
}

// Split divides the set into new training and test sets.
// Images of a class are taken in order, or shuffled with the given source, the first ones
// going to training and the next ones to testing. All samples are deep copies.
// It panics if a class does not have enough images, use Validate to check beforehand.
func Split(ts *dataset.TrainingSet, opts Options, rng *rand.Rand) (*dataset.TrainingSet, *dataset.TrainingSet, *Partition) {
	if err := Validate(ts, opts); err != nil {
		panic(fmt.Sprintf("invalid split of '%s': %v", ts.Name, err))
	}
	train := ts.NewLike(ts.Name + "-train")
	test := ts.NewLike(ts.Name + "-test")
	partition := split(ts, train, test, opts, rng, nil)
	return train, test, partition
}

// SplitInto fills a new training set, leaving the given test set untouched.
// The test counts of the partition are the image counts of the matching classes in the test set.
// It panics if a class does not have enough images, use ValidateInto to check beforehand.
func SplitInto(ts, test *dataset.TrainingSet, opts Options, rng *rand.Rand) (*dataset.TrainingSet, *Partition) {
	if err := ValidateInto(ts, opts); err != nil {
		panic(fmt.Sprintf("invalid split of '%s': %v", ts.Name, err))
	}
	train := ts.NewLike(ts.Name + "-train")
	partition := split(ts, train, nil, opts, rng, test)
	return train, partition
}

func split(ts, train, test *dataset.TrainingSet, opts Options, rng *rand.Rand, external *dataset.TrainingSet) *Partition {
	t := opts.tiles()
	partition := &Partition{
		Tiles:   t,
		Classes: make([]Class, ts.Classes().Len()+1),
	}
	for c := 1; c <= ts.Classes().Len(); c++ {
		samples := ts.ClassSamples(c)
		groups := len(samples) / t
		nTrain, nTest := opts.counts(groups, external != nil)
		order := make([]int, groups)
		if opts.Randomize {
			if rng != nil {
				order = rng.Perm(groups)
			} else {
				order = rand.Perm(groups)
			}
		} else {
			for i := range order {
				order[i] = i
			}
		}
		class := Class{
			Label:  ts.Classes().Label(c),
			Groups: groups,
			Train:  order[:nTrain:nTrain],
			Test:   order[nTrain : nTrain+nTest],
		}
		for _, g := range class.Train {
			add(train, samples[g*t:(g+1)*t])
		}
		for _, g := range class.Test {
			add(test, samples[g*t:(g+1)*t])
		}
		if external != nil {
			if tc, ok := external.Classes().Index(class.Label); ok {
				n := len(external.ClassSamples(tc)) / t
				class.Test = make([]int, n)
				for i := range class.Test {
					class.Test[i] = i
				}
			}
		}
		partition.Classes[c] = class
		log.Debug().
			Str("set", ts.Name).
			Str("class", class.Label).
			Int("groups", groups).
			Int("train", len(class.Train)).
			Int("test", len(class.Test)).
			Msg("split")
	}
	return partition
}

func add(ts *dataset.TrainingSet, samples []*model.Sample) {
	for _, s := range samples {
		if err := ts.AddSample(s.Duplicate()); err != nil {
			// same layout as the source set
			panic(fmt.Sprintf("could not add sample '%s' to '%s': %v", s.Path, ts.Name, err))
		}
	}
}
