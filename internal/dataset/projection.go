package dataset

import (
	"gonum.org/v1/gonum/mat"
)

// Projection is the reduced view of a training set on its selected features.
type Projection struct {
	// Features are the indices of the selected features.
	Features []int
	// Weights are the squared weights of the selected features, aligned with Features.
	Weights []float64
	// Matrices holds the projected signatures per class, nil for empty classes.
	Matrices []*mat.Dense
}

func newProjection(ts *TrainingSet, features []int) *Projection {
	ff := make([]int, len(features))
	copy(ff, features)
	ww := make([]float64, len(features))
	for i, f := range features {
		ww[i] = ts.weights[f] * ts.weights[f]
	}
	mm := make([]*mat.Dense, len(ts.matrices))
	for c, m := range ts.matrices {
		mm[c] = m.Project(ff)
	}
	return &Projection{
		Features: ff,
		Weights:  ww,
		Matrices: mm,
	}
}

// Len returns the number of selected features.
func (p *Projection) Len() int {
	return len(p.Features)
}

// Values projects the given signature on the selected features.
func (p *Projection) Values(values []float64) []float64 {
	vv := make([]float64, len(p.Features))
	for i, f := range p.Features {
		vv[i] = values[f]
	}
	return vv
}

// Samples returns the number of projected samples of class c.
func (p *Projection) Samples(c int) int {
	if c < 0 || c >= len(p.Matrices) || p.Matrices[c] == nil {
		return 0
	}
	_, cols := p.Matrices[c].Dims()
	return cols
}
