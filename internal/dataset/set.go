package dataset

import (
	"fmt"
	"math"

	"github.com/drakos74/sigclass/internal/model"
	"github.com/rs/zerolog/log"
)

// Kind is the kind of ground truth of a training set.
type Kind int

const (
	// Discrete sets have a class label per sample.
	Discrete Kind = iota
	// Continuous sets have a single class and a numeric target per sample.
	Continuous
)

func (k Kind) String() string {
	if k == Continuous {
		return "continuous"
	}
	return "discrete"
}

// TrainingSet is a labeled collection of samples, grouped by class.
type TrainingSet struct {
	Name     string
	kind     Kind
	names    []string
	classes  *model.Registry
	samples  [][]*model.Sample
	matrices []*FeatureMatrix
	weights  []float64
	bounds   *Bounds
	reduced  *Projection
	warnings *model.Warnings
}

// New creates a new discrete training set for the given feature names.
func New(name string, names []string) *TrainingSet {
	nn := make([]string, len(names))
	copy(nn, names)
	ts := &TrainingSet{
		Name:     name,
		kind:     Discrete,
		names:    nn,
		classes:  model.NewRegistry(),
		weights:  make([]float64, len(names)),
		warnings: model.NewWarnings(),
	}
	ts.grow()
	return ts
}

// NewContinuous creates a new continuous training set with a single class of the given label.
func NewContinuous(name string, names []string, label string) *TrainingSet {
	ts := New(name, names)
	// cannot fail on an empty registry
	_, _ = ts.AddContinuousClass(label)
	return ts
}

func (ts *TrainingSet) grow() {
	for len(ts.samples) <= ts.classes.Len() {
		ts.samples = append(ts.samples, make([]*model.Sample, 0))
		ts.matrices = append(ts.matrices, NewFeatureMatrix(len(ts.names)))
	}
}

// Kind returns the kind of the set.
func (ts *TrainingSet) Kind() Kind {
	return ts.kind
}

// IsContinuous returns true for sets with a numeric target.
func (ts *TrainingSet) IsContinuous() bool {
	return ts.kind == Continuous
}

// Names returns the feature names.
func (ts *TrainingSet) Names() []string {
	return ts.names
}

// Features returns the number of features.
func (ts *TrainingSet) Features() int {
	return len(ts.names)
}

// Classes returns the class registry.
func (ts *TrainingSet) Classes() *model.Registry {
	return ts.classes
}

// Warnings returns the warnings collected while processing the set.
func (ts *TrainingSet) Warnings() *model.Warnings {
	return ts.warnings
}

// AddClass adds a discrete class and returns its index.
func (ts *TrainingSet) AddClass(label string) (int, error) {
	if ts.kind == Continuous {
		return 0, fmt.Errorf("adding class '%s' to '%s': %w", label, ts.Name, model.ErrClassToContinuous)
	}
	i, err := ts.classes.Add(label)
	if err != nil {
		return 0, err
	}
	ts.grow()
	return i, nil
}

// AddContinuousClass turns an empty set into a continuous one with the given class label.
func (ts *TrainingSet) AddContinuousClass(label string) (int, error) {
	if ts.kind == Continuous {
		return model.ContinuousClass, nil
	}
	if ts.classes.Len() > 0 {
		return 0, fmt.Errorf("adding continuous class '%s' to '%s': %w", label, ts.Name, model.ErrContinuousWithClasses)
	}
	if _, err := ts.classes.Add(label); err != nil {
		return 0, err
	}
	ts.kind = Continuous
	ts.grow()
	return model.ContinuousClass, nil
}

// AddSample adds the sample to its class.
// The set takes ownership of the sample.
func (ts *TrainingSet) AddSample(s *model.Sample) error {
	if s.Class < 0 || s.Class > ts.classes.Len() {
		return fmt.Errorf("sample '%s' for class %d of %d: %w", s.Path, s.Class, ts.classes.Len(), model.ErrUndefinedClass)
	}
	if len(s.Values) != len(ts.names) {
		return fmt.Errorf("sample '%s' with %d values for %d features: %w", s.Path, len(s.Values), len(ts.names), model.ErrFeatureCountMismatch)
	}
	if err := ts.matrices[s.Class].Append(s.Values); err != nil {
		return err
	}
	if ts.kind == Discrete && s.Class != model.Unknown && ts.classes.Numeric() {
		s.Value = ts.classes.Value(s.Class)
	}
	ts.samples[s.Class] = append(ts.samples[s.Class], s)
	ts.classes.Incr(s.Class)
	ts.reduced = nil
	return nil
}

// Len returns the total number of samples, including the unknown ones.
func (ts *TrainingSet) Len() int {
	n := 0
	for _, ss := range ts.samples {
		n += len(ss)
	}
	return n
}

// Samples returns all samples, the defined classes first and the unknown samples last.
func (ts *TrainingSet) Samples() []*model.Sample {
	samples := make([]*model.Sample, 0, ts.Len())
	for c := 1; c < len(ts.samples); c++ {
		samples = append(samples, ts.samples[c]...)
	}
	return append(samples, ts.samples[model.Unknown]...)
}

// ClassSamples returns the samples of class c.
func (ts *TrainingSet) ClassSamples(c int) []*model.Sample {
	if c < 0 || c >= len(ts.samples) {
		return nil
	}
	return ts.samples[c]
}

// Matrix returns the feature matrix of class c.
func (ts *TrainingSet) Matrix(c int) *FeatureMatrix {
	if c < 0 || c >= len(ts.matrices) {
		return nil
	}
	return ts.matrices[c]
}

// Weights returns the feature weights.
func (ts *TrainingSet) Weights() []float64 {
	return ts.weights
}

// SetWeights replaces the feature weights.
func (ts *TrainingSet) SetWeights(weights []float64) error {
	if len(weights) != len(ts.names) {
		return fmt.Errorf("%d weights for %d features: %w", len(weights), len(ts.names), model.ErrFeatureCountMismatch)
	}
	ww := make([]float64, len(weights))
	copy(ww, weights)
	ts.weights = ww
	ts.reduced = nil
	return nil
}

// BlendWeights merges the given weights into the current ones.
// A zero factor replaces the weights, otherwise factor * weights is added and the result floored to zero.
// It returns the euclidean distance between the current and the given weights.
func (ts *TrainingSet) BlendWeights(weights []float64, factor float64) (float64, error) {
	if len(weights) != len(ts.weights) {
		return 0, fmt.Errorf("blending %d weights into %d: %w", len(weights), len(ts.weights), model.ErrFeatureCountMismatch)
	}
	d := 0.0
	for i, w := range weights {
		d += math.Pow(ts.weights[i]-w, 2)
		if factor == 0 {
			ts.weights[i] = w
		} else {
			ts.weights[i] += factor * w
		}
		if ts.weights[i] < 0 {
			ts.weights[i] = 0
		}
	}
	ts.reduced = nil
	return math.Sqrt(d), nil
}

// Reduced returns the projection on the selected features, if any.
func (ts *TrainingSet) Reduced() *Projection {
	return ts.reduced
}

// Project builds the projection of the set on the given features, with their current weights.
func (ts *TrainingSet) Project(features []int) *Projection {
	ts.reduced = newProjection(ts, features)
	return ts.reduced
}

// NewLike creates an empty set with the same features, classes and kind.
func (ts *TrainingSet) NewLike(name string) *TrainingSet {
	set := New(name, ts.names)
	set.kind = ts.kind
	set.classes = ts.classes.Copy()
	set.grow()
	return set
}

// Duplicate creates a deep copy of the set and its samples.
func (ts *TrainingSet) Duplicate(name string) *TrainingSet {
	set := ts.NewLike(name)
	for c := range ts.samples {
		for _, s := range ts.samples[c] {
			// same layout cannot fail
			_ = set.AddSample(s.Duplicate())
		}
	}
	copy(set.weights, ts.weights)
	if ts.bounds != nil {
		set.bounds = ts.bounds.copy()
	}
	return set
}

// String returns a short description of the set.
func (ts *TrainingSet) String() string {
	return fmt.Sprintf("%s[%s:%d classes:%d features:%d samples]", ts.Name, ts.kind, ts.classes.Len(), len(ts.names), ts.Len())
}

func (ts *TrainingSet) logRebuild(op string) {
	log.Debug().
		Str("set", ts.Name).
		Str("kind", ts.kind.String()).
		Int("classes", ts.classes.Len()).
		Int("features", len(ts.names)).
		Int("samples", ts.Len()).
		Msg(op)
}
