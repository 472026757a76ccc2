package math

import (
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Z95 is the standard normal quantile for a two-sided 95% confidence.
const Z95 = 1.95996

// BinomialPValue is the probability of getting at least correct right answers out of n,
// when guessing uniformly between the given number of classes.
func BinomialPValue(correct, n, classes int) float64 {
	if classes <= 1 || n <= 0 {
		return 1
	}
	if correct < 0 {
		correct = 0
	}
	b := distuv.Binomial{
		N: float64(n),
		P: 1 / float64(classes),
	}
	p := 0.0
	for k := correct; k <= n; k++ {
		p += b.Prob(float64(k))
	}
	return p
}

// Pearson computes the pearson correlation of the two series and its significance.
// The p value is the two-tailed Student's t probability, computed through the regularised incomplete beta function.
func Pearson(x, y []float64) (float64, float64) {
	n := len(x)
	if n != len(y) || n < 3 {
		return 0, 1
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, 1
	}
	df := float64(n - 2)
	if 1-r*r <= 0 {
		return r, 0
	}
	t := r * math.Sqrt(df/(1-r*r))
	return r, mathext.RegIncBeta(df/2, 0.5, df/(df+t*t))
}

// MeanAbsDiff returns the mean absolute difference between the two series.
func MeanAbsDiff(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	s := 0.0
	for i := range x {
		s += math.Abs(x[i] - y[i])
	}
	return s / float64(len(x))
}

// IntervalMethod is the method used to estimate a confidence interval.
type IntervalMethod string

const (
	NormalApprox IntervalMethod = "normal"
	WilsonScore  IntervalMethod = "wilson"
)

// Interval is a confidence interval for a binomial proportion.
type Interval struct {
	Method    IntervalMethod `json:"method"`
	Center    float64        `json:"center"`
	HalfWidth float64        `json:"half_width"`
}

// Lower returns the lower bound of the interval.
func (i Interval) Lower() float64 {
	return i.Center - i.HalfWidth
}

// Upper returns the upper bound of the interval.
func (i Interval) Upper() float64 {
	return i.Center + i.HalfWidth
}

// UseWilson decides on the interval method for the given accuracy and number of trials.
// The normal approximation holds only when both n*acc and n*(1-acc) exceed 5.
func UseWilson(accuracy float64, n int) bool {
	nn := float64(n)
	return !(nn*accuracy > 5 && nn*(1-accuracy) > 5)
}

// ConfidenceInterval computes the 95% confidence interval of the accuracy over n trials,
// with the given method.
func ConfidenceInterval(accuracy float64, n int, method IntervalMethod) Interval {
	if n <= 0 {
		return Interval{Method: method}
	}
	nn := float64(n)
	z := Z95
	if method == WilsonScore {
		d := 1 + z*z/nn
		return Interval{
			Method:    WilsonScore,
			Center:    (accuracy + z*z/(2*nn)) / d,
			HalfWidth: z * math.Sqrt(accuracy*(1-accuracy)/nn+z*z/(4*nn*nn)) / d,
		}
	}
	return Interval{
		Method:    NormalApprox,
		Center:    accuracy,
		HalfWidth: z * math.Sqrt(accuracy*(1-accuracy)/nn),
	}
}

// Confidence picks the interval method for the accuracy and computes the interval.
func Confidence(accuracy float64, n int) Interval {
	method := NormalApprox
	if UseWilson(accuracy, n) {
		method = WilsonScore
	}
	return ConfidenceInterval(accuracy, n, method)
}
