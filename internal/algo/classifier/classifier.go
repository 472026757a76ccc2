package classifier

import (
	"fmt"
	"strings"

	"github.com/drakos74/sigclass/internal/dataset"
	cmath "github.com/drakos74/sigclass/internal/math"
	"github.com/drakos74/sigclass/internal/model"
)

// Method is the classification method.
type Method string

const (
	// WNN is the weighted nearest neighbour method.
	WNN Method = "wnn"
	// WND is the weighted neighbour distance method.
	WND Method = "wnd"
)

// ParseMethod parses the method name.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(s)) {
	case WNN:
		return WNN, nil
	case WND:
		return WND, nil
	}
	return "", fmt.Errorf("unknown classification method '%s'", s)
}

// Result is the outcome of classifying a single sample.
type Result struct {
	// Class is the predicted class, 0 if nothing could be predicted.
	Class int
	// Probabilities are the marginal probabilities per class index, index 0 is unused.
	Probabilities []float64
	// Normalization is the sum the probabilities were normalised with.
	Normalization float64
	// Closest is the closest training sample.
	Closest *model.Sample
	// Distance is the distance to the closest training sample.
	Distance float64
}

// Classifier classifies samples against a training set.
type Classifier interface {
	Classify(ts *dataset.TrainingSet, s *model.Sample) Result
	Method() Method
}

// Options configures the classifiers.
type Options struct {
	// Epsilon is the distance below which samples are considered identical.
	Epsilon float64
	// Exponent is the power applied to the neighbour distances of WND.
	Exponent float64
	// P is the order of the WNN distance.
	P float64
	// SkipIdentical excludes the training samples at zero distance from WNN.
	SkipIdentical bool
}

// NewOptions creates the default classifier options.
func NewOptions() Options {
	return Options{
		Epsilon:  cmath.Epsilon,
		Exponent: -5,
		P:        2,
	}
}

// New creates a classifier for the given method.
func New(method Method, opts Options) (Classifier, error) {
	switch method {
	case WNN:
		return NewWNN(opts), nil
	case WND:
		return NewWND(opts), nil
	}
	return nil, fmt.Errorf("unknown classification method '%s'", method)
}

func newResult(ts *dataset.TrainingSet) Result {
	return Result{
		Probabilities: make([]float64, ts.Classes().Len()+1),
	}
}

// identical checks if the two samples come from the same source.
func identical(a, b *model.Sample) bool {
	return a.Path != "" && a.Path == b.Path
}
