package dataset

import (
	"fmt"

	"github.com/drakos74/sigclass/internal/model"
	"github.com/rs/zerolog/log"
)

// rebuild moves the samples into fresh containers.
// relabel maps every old class index to its new one, or -1 to drop its samples.
func (ts *TrainingSet) rebuild(labels []string, relabel func(c int) int) error {
	registry := model.NewRegistry()
	for _, l := range labels {
		if _, err := registry.Add(l); err != nil {
			return err
		}
	}
	samples := ts.samples
	ts.classes = registry
	ts.samples = nil
	ts.matrices = nil
	ts.reduced = nil
	ts.grow()
	for c, ss := range samples {
		nc := relabel(c)
		if nc < 0 {
			continue
		}
		for _, s := range ss {
			s.Class = nc
			if err := ts.AddSample(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveClass drops class c and its samples. Classes after c move one index down.
// Removing the unknown class drops the unknown samples and keeps the numbering.
func (ts *TrainingSet) RemoveClass(c int) error {
	if c < 0 || c > ts.classes.Len() {
		return fmt.Errorf("removing class %d of %d: %w", c, ts.classes.Len(), model.ErrUndefinedClass)
	}
	if c == model.Unknown {
		ts.samples[model.Unknown] = make([]*model.Sample, 0)
		ts.matrices[model.Unknown].Reset()
		ts.reduced = nil
		ts.logRebuild("remove unknown")
		return nil
	}
	if err := ts.rebuild(without(ts.classes.Labels(), c), func(old int) int {
		switch {
		case old == c:
			return -1
		case old > c:
			return old - 1
		}
		return old
	}); err != nil {
		return err
	}
	ts.logRebuild("remove class")
	return nil
}

// MarkUnknown turns the samples of class c into unknown samples and drops the class.
func (ts *TrainingSet) MarkUnknown(c int) error {
	if c <= model.Unknown || c > ts.classes.Len() {
		return fmt.Errorf("marking class %d of %d unknown: %w", c, ts.classes.Len(), model.ErrUndefinedClass)
	}
	if err := ts.rebuild(without(ts.classes.Labels(), c), func(old int) int {
		switch {
		case old == c:
			return model.Unknown
		case old > c:
			return old - 1
		}
		return old
	}); err != nil {
		return err
	}
	ts.logRebuild("mark unknown")
	return nil
}

// MakeContinuous merges all classes into a single continuous one.
// Every sample keeps the numeric value of its class label as its target.
func (ts *TrainingSet) MakeContinuous(label string) error {
	if ts.kind == Continuous {
		return nil
	}
	if ts.classes.Len() > 0 && !ts.classes.Numeric() {
		return fmt.Errorf("making '%s' continuous with non-numeric labels: %w", ts.Name, model.ErrContinuousWithClasses)
	}
	for c := 1; c < len(ts.samples); c++ {
		for _, s := range ts.samples[c] {
			s.Value = ts.classes.Value(c)
		}
	}
	ts.kind = Continuous
	if err := ts.rebuild([]string{label}, func(old int) int {
		if old == model.Unknown {
			return model.Unknown
		}
		return model.ContinuousClass
	}); err != nil {
		return err
	}
	ts.logRebuild("make continuous")
	return nil
}

// SplitAreas distributes the samples into n sets, one per tile position.
// The i-th sample of every class goes to set i mod n.
func (ts *TrainingSet) SplitAreas(n int) []*TrainingSet {
	if n < 1 {
		n = 1
	}
	sets := make([]*TrainingSet, n)
	for i := range sets {
		sets[i] = ts.NewLike(fmt.Sprintf("%s-tile-%d", ts.Name, i))
		copy(sets[i].weights, ts.weights)
		if ts.bounds != nil {
			sets[i].bounds = ts.bounds.copy()
		}
	}
	for c, ss := range ts.samples {
		for i, s := range ss {
			if err := sets[i%n].AddSample(s.Duplicate()); err != nil {
				log.Error().Err(err).Str("set", ts.Name).Int("class", c).Msg("could not distribute sample")
			}
		}
	}
	return sets
}

func without(labels []string, c int) []string {
	ll := make([]string, 0, len(labels))
	for i, l := range labels {
		if i+1 == c {
			continue
		}
		ll = append(ll, l)
	}
	return ll
}

// ClassSummary describes one class of a set.
type ClassSummary struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// Summary describes the contents of a set.
type Summary struct {
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Features    int            `json:"features"`
	Samples     int            `json:"samples"`
	Unknown     int            `json:"unknown"`
	Numeric     bool           `json:"numeric"`
	PureNumeric bool           `json:"pure_numeric"`
	Classes     []ClassSummary `json:"classes"`
}

// Summarize describes the set and logs the description.
func (ts *TrainingSet) Summarize() Summary {
	summary := Summary{
		Name:        ts.Name,
		Kind:        ts.kind.String(),
		Features:    len(ts.names),
		Samples:     ts.Len(),
		Unknown:     len(ts.samples[model.Unknown]),
		Numeric:     ts.classes.Numeric(),
		PureNumeric: ts.classes.PureNumeric(),
		Classes:     make([]ClassSummary, ts.classes.Len()),
	}
	for c := 1; c <= ts.classes.Len(); c++ {
		summary.Classes[c-1] = ClassSummary{
			Index: c,
			Label: ts.classes.Label(c),
			Count: len(ts.samples[c]),
			Value: ts.classes.Value(c),
		}
	}
	log.Info().
		Str("set", summary.Name).
		Str("kind", summary.Kind).
		Int("features", summary.Features).
		Int("classes", len(summary.Classes)).
		Int("samples", summary.Samples).
		Int("unknown", summary.Unknown).
		Bool("numeric", summary.Numeric).
		Msg("summary")
	return summary
}
