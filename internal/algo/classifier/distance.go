package classifier

import (
	"math"
)

// Minkowski computes the weighted minkowski distance of order p between the two vectors.
// Features with zero weight are ignored. An order below 1 falls back to the euclidean distance.
func Minkowski(a, b, w []float64, p float64) float64 {
	if p < 1 {
		p = 2
	}
	d := 0.0
	for i, wi := range w {
		if wi == 0 {
			continue
		}
		diff := math.Abs(a[i] - b[i])
		if p == 2 {
			d += wi * diff * diff
		} else {
			d += wi * math.Pow(diff, p)
		}
	}
	if p == 2 {
		return math.Sqrt(d)
	}
	return math.Pow(d, 1/p)
}

// Euclidean computes the weighted euclidean distance between the two vectors.
func Euclidean(a, b, w []float64) float64 {
	return Minkowski(a, b, w, 2)
}
