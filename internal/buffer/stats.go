package buffer

import (
	"math"
)

// Stats is a set of statistical properties of a set of numbers.
type Stats struct {
	count          int
	sum            float64
	min, max       float64
	mean, dSquared float64
}

// NewStats creates a new Stats.
func NewStats() *Stats {
	return &Stats{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}
}

// Push adds another element to the set.
func (s *Stats) Push(v ...float64) {
	for _, f := range v {
		s.push(f)
	}
}

func (s *Stats) push(v float64) {
	s.count++
	s.sum += v
	diff := (v - s.mean) / float64(s.count)
	mean := s.mean + diff
	squaredDiff := (v - mean) * (v - s.mean)
	s.dSquared += squaredDiff
	s.mean = mean

	if s.min > v {
		s.min = v
	}

	if s.max < v {
		s.max = v
	}
}

// Avg returns the average value of the set.
func (s Stats) Avg() float64 {
	return s.mean
}

// Sum returns the sum of all values of the set.
func (s Stats) Sum() float64 {
	return s.sum
}

// Count returns the number of elements.
func (s Stats) Count() int {
	return s.count
}

// Min returns the smallest element.
func (s Stats) Min() float64 {
	if s.count == 0 {
		return 0
	}
	return s.min
}

// Max returns the largest element.
func (s Stats) Max() float64 {
	if s.count == 0 {
		return 0
	}
	return s.max
}

// Variance is the mathematical variance of the set.
func (s Stats) Variance() float64 {
	if s.count == 0 {
		return 0
	}
	return s.dSquared / float64(s.count)
}

// StDev is the standard deviation of the set.
func (s Stats) StDev() float64 {
	return math.Sqrt(s.Variance())
}

// SampleVariance is the sample variance of the set.
// NOTE : a set with less than 2 elements has no spread
func (s Stats) SampleVariance() float64 {
	if s.count < 2 {
		return 0
	}
	return s.dSquared / float64(s.count-1)
}

// SampleStDev is the sample standard deviation of the set.
func (s Stats) SampleStDev() float64 {
	return math.Sqrt(s.SampleVariance())
}

// StatsCollector is a collection of Stats variables keyed by name.
// This enables tracking of several groups in a single pass.
type StatsCollector struct {
	order []string
	stats map[string]*Stats
}

// NewStatsCollector creates a new Stats collector.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{
		order: make([]string, 0),
		stats: make(map[string]*Stats),
	}
}

// Push pushes the values to the stats of the given key.
func (sc *StatsCollector) Push(key string, v ...float64) {
	if _, ok := sc.stats[key]; !ok {
		sc.stats[key] = NewStats()
		sc.order = append(sc.order, key)
	}
	sc.stats[key].Push(v...)
}

// Get returns the stats for the given key.
func (sc StatsCollector) Get(key string) (*Stats, bool) {
	s, ok := sc.stats[key]
	return s, ok
}

// Keys returns the keys in the order they were first pushed.
func (sc StatsCollector) Keys() []string {
	kk := make([]string, len(sc.order))
	copy(kk, sc.order)
	return kk
}

// Size returns the number of tracked keys.
func (sc *StatsCollector) Size() int {
	return len(sc.order)
}
