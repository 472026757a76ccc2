package classifier

import (
	"fmt"
	"math"

	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/model"
)

type neighbour struct {
	sample   *model.Sample
	distance float64
}

// Interpolator predicts a continuous value from the closest training samples.
type Interpolator struct {
	n int
}

// NewInterpolator creates an interpolator over the n closest samples.
func NewInterpolator(n int) *Interpolator {
	if n < 1 {
		n = 1
	}
	return &Interpolator{n: n}
}

// Interpolation is the outcome of interpolating a single sample.
type Interpolation struct {
	Value    float64
	Closest  *model.Sample
	Distance float64
}

// Interpolate returns the inverse-distance weighted mean of the targets of the closest samples.
// Neighbours at zero distance return the mean of their targets.
func (ip *Interpolator) Interpolate(ts *dataset.TrainingSet, s *model.Sample) (Interpolation, error) {
	weights := ts.Weights()
	// sorted by ascending distance
	top := make([]neighbour, 0, ip.n+1)
	for c := 1; c <= ts.Classes().Len(); c++ {
		for _, sample := range ts.ClassSamples(c) {
			if identical(s, sample) {
				continue
			}
			d := Euclidean(s.Values, sample.Values, weights)
			if math.IsNaN(d) || math.IsInf(d, 0) {
				continue
			}
			if len(top) == ip.n && d >= top[len(top)-1].distance {
				continue
			}
			i := len(top)
			for i > 0 && top[i-1].distance > d {
				i--
			}
			top = append(top, neighbour{})
			copy(top[i+1:], top[i:])
			top[i] = neighbour{sample: sample, distance: d}
			if len(top) > ip.n {
				top = top[:ip.n]
			}
		}
	}
	if len(top) == 0 {
		return Interpolation{}, fmt.Errorf("interpolating '%s' in '%s': %w", s.Path, ts.Name, model.ErrDegenerateInterpolation)
	}
	result := Interpolation{
		Closest:  top[0].sample,
		Distance: top[0].distance,
	}
	if top[0].distance == 0 {
		sum := 0.0
		n := 0
		for _, nb := range top {
			if nb.distance != 0 {
				break
			}
			sum += nb.sample.Value
			n++
		}
		result.Value = sum / float64(n)
		return result, nil
	}
	num, den := 0.0, 0.0
	for _, nb := range top {
		num += nb.sample.Value / nb.distance
		den += 1 / nb.distance
	}
	result.Value = num / den
	return result, nil
}
