package feature

import (
	"math"

	"github.com/drakos74/sigclass/internal/buffer"
	"github.com/drakos74/sigclass/internal/dataset"
	cmath "github.com/drakos74/sigclass/internal/math"
	"gonum.org/v1/gonum/stat"
)

// Fisher computes the fisher discriminant score of every feature.
// The score is the variance of the class means over the mean within-class variance,
// with the latter floored to eps. Fewer than 2 non-empty classes give zero scores.
func Fisher(ts *dataset.TrainingSet, eps float64) []float64 {
	if eps <= 0 {
		eps = cmath.Epsilon
	}
	scores := make([]float64, ts.Features())
	classes := make([]*dataset.FeatureMatrix, 0)
	for c := 1; c <= ts.Classes().Len(); c++ {
		if m := ts.Matrix(c); m.Cols() > 0 {
			classes = append(classes, m)
		}
	}
	if len(classes) < 2 {
		return scores
	}
	means := make([]float64, len(classes))
	for i := range scores {
		within := 0.0
		for c, m := range classes {
			s := buffer.NewStats()
			s.Push(m.Row(i)...)
			means[c] = s.Avg()
			within += s.Variance()
		}
		within /= float64(len(classes))
		if within < eps {
			within = eps
		}
		scores[i] = stat.Variance(means, nil) / within
	}
	return scores
}

// Correlation computes the correlation score of every feature with the continuous target.
// The score is the absolute mean product of z-scores, raised to the given exponent.
// Constant features or targets give zero scores.
func Correlation(ts *dataset.TrainingSet, exponent float64) []float64 {
	if exponent == 0 {
		exponent = 1
	}
	scores := make([]float64, ts.Features())
	samples := ts.ClassSamples(1)
	n := float64(len(samples))
	if n == 0 {
		return scores
	}
	target := buffer.NewStats()
	for _, s := range samples {
		target.Push(s.Value)
	}
	if target.StDev() <= 0 {
		return scores
	}
	for i := range scores {
		values := buffer.NewStats()
		for _, s := range samples {
			values.Push(s.Values[i])
		}
		if values.StDev() <= 0 {
			continue
		}
		z := 0.0
		for _, s := range samples {
			z += ((s.Value - target.Avg()) / target.StDev()) * ((s.Values[i] - values.Avg()) / values.StDev())
		}
		scores[i] = math.Pow(math.Abs(z/n), exponent)
	}
	return scores
}
