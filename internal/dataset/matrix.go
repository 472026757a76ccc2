package dataset

import (
	"fmt"

	"github.com/drakos74/sigclass/internal/model"
	"gonum.org/v1/gonum/mat"
)

// FeatureMatrix holds the signatures of one class.
// Rows are features and columns are samples, in the order they were added.
type FeatureMatrix struct {
	rows int
	cols [][]float64
}

// NewFeatureMatrix creates a new matrix for the given number of features.
func NewFeatureMatrix(rows int) *FeatureMatrix {
	return &FeatureMatrix{
		rows: rows,
		cols: make([][]float64, 0),
	}
}

// Append adds a sample column.
// The column is not copied, the matrix shares it with the sample it belongs to.
func (m *FeatureMatrix) Append(col []float64) error {
	if len(col) != m.rows {
		return fmt.Errorf("column of size %d for %d features: %w", len(col), m.rows, model.ErrFeatureCountMismatch)
	}
	m.cols = append(m.cols, col)
	return nil
}

// Rows returns the number of features.
func (m *FeatureMatrix) Rows() int {
	return m.rows
}

// Cols returns the number of samples.
func (m *FeatureMatrix) Cols() int {
	return len(m.cols)
}

// At returns the value of feature i for sample j.
func (m *FeatureMatrix) At(i, j int) float64 {
	return m.cols[j][i]
}

// Col returns the signature of sample j.
func (m *FeatureMatrix) Col(j int) []float64 {
	return m.cols[j]
}

// Row returns the values of feature i across all samples.
func (m *FeatureMatrix) Row(i int) []float64 {
	row := make([]float64, len(m.cols))
	for j, col := range m.cols {
		row[j] = col[i]
	}
	return row
}

// Reset drops all samples.
func (m *FeatureMatrix) Reset() {
	m.cols = make([][]float64, 0)
}

// Dense returns a copy of the matrix as a gonum dense matrix.
// It returns nil for an empty matrix.
func (m *FeatureMatrix) Dense() *mat.Dense {
	if m.rows == 0 || len(m.cols) == 0 {
		return nil
	}
	d := mat.NewDense(m.rows, len(m.cols), nil)
	for j, col := range m.cols {
		d.SetCol(j, col)
	}
	return d
}

// Project returns the rows of the given features, in the given order.
// It returns nil if there is nothing to project.
func (m *FeatureMatrix) Project(features []int) *mat.Dense {
	if len(features) == 0 || len(m.cols) == 0 {
		return nil
	}
	d := mat.NewDense(len(features), len(m.cols), nil)
	for j, col := range m.cols {
		for r, i := range features {
			d.Set(r, j, col[i])
		}
	}
	return d
}
