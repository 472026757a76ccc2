package classifier

import (
	"math"
	"sort"

	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/model"
)

// NeighbourDistance scores every class by the mean of the powered distances
// to all of its samples, over the selected features only.
type NeighbourDistance struct {
	opts Options
}

// NewWND creates a new weighted neighbour distance classifier.
func NewWND(opts Options) *NeighbourDistance {
	if opts.Exponent == 0 {
		opts.Exponent = -5
	}
	return &NeighbourDistance{opts: opts}
}

// Method returns the classification method.
func (nd *NeighbourDistance) Method() Method {
	return WND
}

// Prepare returns the reduced view of the set, building one on the weighted features if needed.
// It must be called before classifying concurrently against a set without a projection.
func Prepare(ts *dataset.TrainingSet) *dataset.Projection {
	if p := ts.Reduced(); p != nil {
		return p
	}
	weights := ts.Weights()
	features := make([]int, 0)
	for i, w := range weights {
		if w > 0 {
			features = append(features, i)
		}
	}
	sort.SliceStable(features, func(a, b int) bool {
		return weights[features[a]] > weights[features[b]]
	})
	return ts.Project(features)
}

// Classify classifies the sample.
// Distances are squared and weighted with the squared feature weights, samples at zero
// distance are ignored and classes without any other sample get zero probability.
func (nd *NeighbourDistance) Classify(ts *dataset.TrainingSet, s *model.Sample) Result {
	result := newResult(ts)
	p := Prepare(ts)
	values := p.Values(s.Values)
	result.Distance = math.Inf(1)
	best := 0.0
	for c := 1; c <= ts.Classes().Len(); c++ {
		m := p.Matrices[c]
		if m == nil {
			continue
		}
		samples := ts.ClassSamples(c)
		sum := 0.0
		n := 0
		_, cols := m.Dims()
		for j := 0; j < cols; j++ {
			if j < len(samples) && identical(s, samples[j]) {
				continue
			}
			d := 0.0
			for k, v := range values {
				diff := v - m.At(k, j)
				if math.Abs(diff) < nd.opts.Epsilon {
					continue
				}
				d += p.Weights[k] * diff * diff
			}
			if d <= nd.opts.Epsilon || math.IsNaN(d) {
				continue
			}
			sum += math.Pow(d, nd.opts.Exponent)
			n++
			if d < result.Distance && j < len(samples) {
				result.Distance = d
				result.Closest = samples[j]
			}
		}
		if n == 0 {
			continue
		}
		mean := sum / float64(n)
		result.Probabilities[c] = mean
		result.Normalization += mean
		if mean > best {
			best = mean
			result.Class = c
		}
	}
	if result.Closest == nil {
		result.Distance = 0
	}
	if result.Normalization > 0 {
		for c := range result.Probabilities {
			result.Probabilities[c] /= result.Normalization
		}
	}
	return result
}
