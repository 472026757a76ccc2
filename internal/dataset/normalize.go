package dataset

import (
	"math"

	cmath "github.com/drakos74/sigclass/internal/math"
)

// Scale is the upper end of the normalised range.
const Scale = 100.0

// Bounds are the per-feature value limits used for normalisation.
type Bounds struct {
	Min   []float64 `json:"min"`
	Max   []float64 `json:"max"`
	Range []float64 `json:"range"`
}

func newBounds(n int) *Bounds {
	b := &Bounds{
		Min:   make([]float64, n),
		Max:   make([]float64, n),
		Range: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		b.Min[i] = math.MaxFloat64
		b.Max[i] = -math.MaxFloat64
	}
	return b
}

func (b *Bounds) copy() *Bounds {
	c := newBounds(len(b.Min))
	copy(c.Min, b.Min)
	copy(c.Max, b.Max)
	copy(c.Range, b.Range)
	return c
}

// Scale brings the values into [0,Scale] in place.
// Values outside the bounds are clamped, NaN maps to the lower bound and features without range are zeroed.
func (b *Bounds) Scale(values []float64) {
	for i, v := range values {
		if b.Range[i] <= cmath.Epsilon || math.IsNaN(v) {
			values[i] = 0
			continue
		}
		if v < b.Min[i] {
			v = b.Min[i]
		} else if v > b.Max[i] {
			v = b.Max[i]
		}
		// halves keep the difference finite for bounds close to the float64 limits
		values[i] = (v/2 - b.Min[i]/2) / (b.Max[i]/2 - b.Min[i]/2) * Scale
	}
}

// Bounds returns the normalisation bounds, nil if the set was never normalised.
func (ts *TrainingSet) Bounds() *Bounds {
	return ts.bounds
}

// Normalize rescales every feature of the set into [0,Scale], based on the min and max over all classes.
// Only finite values count towards the bounds.
func (ts *TrainingSet) Normalize() *Bounds {
	b := newBounds(len(ts.names))
	for _, ss := range ts.samples {
		for _, s := range ss {
			for i, v := range s.Values {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					continue
				}
				if v < b.Min[i] {
					b.Min[i] = v
				}
				if v > b.Max[i] {
					b.Max[i] = v
				}
			}
		}
	}
	for i := range b.Range {
		if b.Max[i] < b.Min[i] {
			// no valid values at all
			b.Min[i], b.Max[i] = 0, 0
		}
		b.Range[i] = cmath.Clamp(b.Max[i] - b.Min[i])
	}
	ts.NormalizeWith(b)
	return b
}

// NormalizeWith rescales the set with the given bounds, typically the ones of the training set.
func (ts *TrainingSet) NormalizeWith(b *Bounds) {
	for _, ss := range ts.samples {
		for _, s := range ss {
			b.Scale(s.Values)
		}
	}
	ts.bounds = b.copy()
	ts.reduced = nil
}

// NormalizeValues returns the values rescaled with the bounds of the set.
// Without bounds the values are returned as a copy.
func (ts *TrainingSet) NormalizeValues(values []float64) []float64 {
	vv := make([]float64, len(values))
	copy(vv, values)
	if ts.bounds != nil && len(vv) == len(ts.bounds.Range) {
		ts.bounds.Scale(vv)
	}
	return vv
}
