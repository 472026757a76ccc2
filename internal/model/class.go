package model

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

const (
	// Unknown is the reserved index of samples without a class.
	Unknown = 0
	// ContinuousClass is the index of the single class of a continuous dataset.
	ContinuousClass = 1
	// MaxClasses is the default capacity of a Registry.
	MaxClasses = 1024
)

var numericPrefix = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumeric interprets a label as a number.
// It returns the value and whether the label is numeric at all and whether it is purely numeric,
// e.g. '10' is pure, '10mg' is numeric but not pure and 'mg' is neither.
func ParseNumeric(label string) (float64, bool, bool) {
	if v, err := strconv.ParseFloat(label, 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false, false
		}
		return v, true, true
	}
	if v, err := strconv.ParseInt(label, 0, 64); err == nil {
		return float64(v), true, true
	}
	prefix := numericPrefix.FindString(label)
	if prefix == "" {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false, false
	}
	return v, true, false
}

// Registry is the ordered list of class labels of a dataset.
// Index 0 is reserved for unknown samples and labels are kept in sort order.
type Registry struct {
	labels      []string
	values      []float64
	counts      []int
	capacity    int
	numeric     bool
	pureNumeric bool
}

// NewRegistry creates a new registry holding only the unknown class.
func NewRegistry() *Registry {
	return &Registry{
		labels:   []string{""},
		values:   []float64{0},
		counts:   []int{0},
		capacity: MaxClasses,
	}
}

// WithCapacity limits the number of classes the registry accepts.
func (r *Registry) WithCapacity(capacity int) *Registry {
	r.capacity = capacity
	return r
}

// Add adds a class label and returns its index.
// An existing label returns its index, a label sorting after the last one is appended,
// the empty label is the unknown class and anything else is an ErrUnorderedClass.
func (r *Registry) Add(label string) (int, error) {
	if label == "" {
		return Unknown, nil
	}
	if i, ok := r.Index(label); ok {
		return i, nil
	}
	last := r.labels[len(r.labels)-1]
	if label < last {
		return 0, fmt.Errorf("adding class '%s' after '%s' (%d classes): %w", label, last, r.Len(), ErrUnorderedClass)
	}
	if r.Len() >= r.capacity {
		return 0, fmt.Errorf("adding class '%s' (%d classes): %w", label, r.capacity, ErrTooManyClasses)
	}
	v, numeric, pure := ParseNumeric(label)
	r.labels = append(r.labels, label)
	r.values = append(r.values, v)
	r.counts = append(r.counts, 0)
	if r.Len() == 1 {
		// only the first class can turn the numeric flags on
		r.numeric = numeric
		r.pureNumeric = pure
	} else {
		r.numeric = r.numeric && numeric
		r.pureNumeric = r.pureNumeric && pure
	}
	return r.Len(), nil
}

// Index returns the index of the given label.
func (r *Registry) Index(label string) (int, bool) {
	for i := 1; i < len(r.labels); i++ {
		if r.labels[i] == label {
			return i, true
		}
	}
	return Unknown, false
}

// Len returns the number of defined classes, excluding the unknown class.
func (r *Registry) Len() int {
	return len(r.labels) - 1
}

// Label returns the label of the class at index i.
func (r *Registry) Label(i int) string {
	if i < 0 || i >= len(r.labels) {
		return ""
	}
	return r.labels[i]
}

// Labels returns the labels of the defined classes, in index order starting from 1.
func (r *Registry) Labels() []string {
	ll := make([]string, r.Len())
	copy(ll, r.labels[1:])
	return ll
}

// Value returns the numeric value of the label of class i.
func (r *Registry) Value(i int) float64 {
	if i < 0 || i >= len(r.values) {
		return 0
	}
	return r.values[i]
}

// Count returns the number of samples of class i.
func (r *Registry) Count(i int) int {
	if i < 0 || i >= len(r.counts) {
		return 0
	}
	return r.counts[i]
}

// Incr increments the sample count of class i.
func (r *Registry) Incr(i int) {
	r.counts[i]++
}

// Numeric returns true if all labels start with a number.
func (r *Registry) Numeric() bool {
	return r.Len() > 0 && r.numeric
}

// PureNumeric returns true if all labels are numbers.
func (r *Registry) PureNumeric() bool {
	return r.Len() > 0 && r.pureNumeric
}

// Rename sets the label of class i without any ordering checks.
func (r *Registry) Rename(i int, label string) {
	r.labels[i] = label
	v, _, _ := ParseNumeric(label)
	r.values[i] = v
}

// Copy creates a registry with the same labels and zero sample counts.
func (r *Registry) Copy() *Registry {
	labels := make([]string, len(r.labels))
	copy(labels, r.labels)
	values := make([]float64, len(r.values))
	copy(values, r.values)
	return &Registry{
		labels:      labels,
		values:      values,
		counts:      make([]int, len(r.labels)),
		capacity:    r.capacity,
		numeric:     r.numeric,
		pureNumeric: r.pureNumeric,
	}
}
