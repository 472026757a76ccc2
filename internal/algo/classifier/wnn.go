package classifier

import (
	"math"

	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/model"
)

// NearestNeighbour assigns the class of the closest training sample,
// using the weighted distance over all features.
type NearestNeighbour struct {
	opts Options
}

// NewWNN creates a new weighted nearest neighbour classifier.
func NewWNN(opts Options) *NearestNeighbour {
	return &NearestNeighbour{opts: opts}
}

// Method returns the classification method.
func (nn *NearestNeighbour) Method() Method {
	return WNN
}

// Classify classifies the sample.
// The probability of every class is its inverse minimum distance, normalised over all classes.
// Classes with a training sample at zero distance share all probability.
func (nn *NearestNeighbour) Classify(ts *dataset.TrainingSet, s *model.Sample) Result {
	result := newResult(ts)
	weights := ts.Weights()
	closest := make([]float64, ts.Classes().Len()+1)
	result.Distance = math.Inf(1)
	for c := 1; c <= ts.Classes().Len(); c++ {
		closest[c] = math.Inf(1)
		for _, sample := range ts.ClassSamples(c) {
			if identical(s, sample) {
				continue
			}
			d := Minkowski(s.Values, sample.Values, weights, nn.opts.P)
			if math.IsNaN(d) || (nn.opts.SkipIdentical && d < nn.opts.Epsilon) {
				continue
			}
			if d < closest[c] {
				closest[c] = d
			}
			if d < result.Distance {
				result.Distance = d
				result.Closest = sample
				result.Class = c
			}
		}
	}
	if result.Closest == nil {
		result.Distance = 0
		return result
	}
	if result.Distance == 0 {
		for c := 1; c < len(closest); c++ {
			if closest[c] == 0 {
				result.Probabilities[c] = 1
				result.Normalization++
			}
		}
		for c := 1; c < len(closest); c++ {
			result.Probabilities[c] /= result.Normalization
		}
		return result
	}
	for c := 1; c < len(closest); c++ {
		if !math.IsInf(closest[c], 1) {
			result.Normalization += 1 / closest[c]
		}
	}
	for c := 1; c < len(closest); c++ {
		if !math.IsInf(closest[c], 1) {
			result.Probabilities[c] = 1 / closest[c] / result.Normalization
		}
	}
	return result
}
