package feature

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/drakos74/sigclass/internal/buffer"
	"github.com/drakos74/sigclass/internal/dataset"
	cmath "github.com/drakos74/sigclass/internal/math"
	"github.com/rs/zerolog/log"
)

// GroupFunc maps a feature name to the name of its feature group.
type GroupFunc func(name string) string

var groupIndex = regexp.MustCompile(`\s*\[\d+\]\s*$`)

// DefaultGroup strips the trailing index of the feature name e.g. 'Zernike Coefficients () [4]'.
func DefaultGroup(name string) string {
	return groupIndex.ReplaceAllString(name, "")
}

// Reranker re-weighs the selected features.
// It returns one weight per given feature, any missing ones keep their score.
type Reranker interface {
	Rerank(ts *dataset.TrainingSet, features []int) ([]float64, error)
}

// Options configures the feature weighting.
type Options struct {
	// Fraction is the part of features to keep.
	Fraction float64
	// Epsilon is the floor of the within-class variance of the fisher scores.
	Epsilon float64
	// Exponent is applied to the correlation scores.
	Exponent float64
	Group    GroupFunc
	Reranker Reranker
}

// NewOptions creates the default weighting options.
func NewOptions() Options {
	return Options{
		Fraction: 0.15,
		Epsilon:  cmath.Epsilon,
		Exponent: 1,
		Group:    DefaultGroup,
	}
}

// FeatureStat is the weight of one feature.
type FeatureStat struct {
	Name   string  `json:"name"`
	Group  string  `json:"group"`
	Weight float64 `json:"weight"`
	Index  int     `json:"index"`
}

// GroupStat is the weight summary of one group of features.
type GroupStat struct {
	Name   string  `json:"name"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Count  int     `json:"count"`
}

// Ranking is the outcome of the feature weighting.
type Ranking struct {
	// Features are the kept features by descending weight.
	Features []FeatureStat `json:"features"`
	// Groups are all feature groups by descending mean weight.
	Groups []GroupStat `json:"groups"`
}

// Scores computes the raw score of every feature, fisher for discrete and correlation for continuous sets.
func Scores(ts *dataset.TrainingSet, opts Options) []float64 {
	if ts.IsContinuous() {
		return Correlation(ts, opts.Exponent)
	}
	return Fisher(ts, opts.Epsilon)
}

// Keep returns the number of features to keep out of n.
func Keep(fraction float64, n int) int {
	k := cmath.RoundHalfUp(fraction * float64(n))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// Weigh scores and selects the features of the set.
// The selected features keep their score as weight, all others are zeroed, and the set is
// projected on the selection.
func Weigh(ts *dataset.TrainingSet, opts Options) (*Ranking, error) {
	if opts.Group == nil {
		opts.Group = DefaultGroup
	}
	n := ts.Features()
	if n == 0 {
		return &Ranking{}, nil
	}
	scores := Scores(ts, opts)
	groups := groupStats(ts.Names(), scores, opts.Group)

	order := rank(scores)
	kept := order[:Keep(opts.Fraction, n)]

	weights := make([]float64, n)
	for _, i := range kept {
		weights[i] = scores[i]
	}

	if opts.Reranker != nil {
		rr, err := opts.Reranker.Rerank(ts, kept)
		if err != nil {
			ts.Warnings().Add("re-ranking of %d features failed: %v", len(kept), err)
		} else {
			if len(rr) < len(kept) {
				ts.Warnings().Add("re-ranking returned %d weights for %d features", len(rr), len(kept))
			}
			for j, i := range kept {
				if j < len(rr) {
					weights[i] = rr[j]
				}
			}
			sort.SliceStable(kept, func(a, b int) bool {
				return weights[kept[a]] > weights[kept[b]]
			})
		}
	}

	if err := ts.SetWeights(weights); err != nil {
		return nil, fmt.Errorf("could not set weights: %w", err)
	}
	ts.Project(kept)

	features := make([]FeatureStat, len(kept))
	for j, i := range kept {
		features[j] = FeatureStat{
			Name:   ts.Names()[i],
			Group:  opts.Group(ts.Names()[i]),
			Weight: weights[i],
			Index:  i,
		}
	}
	log.Debug().
		Str("set", ts.Name).
		Int("features", n).
		Int("kept", len(kept)).
		Float64("top", features[0].Weight).
		Msg("weigh")
	return &Ranking{
		Features: features,
		Groups:   groups,
	}, nil
}

// rank returns the feature indices by descending score, keeping the index order for ties.
func rank(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

func groupStats(names []string, scores []float64, group GroupFunc) []GroupStat {
	collector := buffer.NewStatsCollector()
	for i, name := range names {
		collector.Push(group(name), scores[i])
	}
	groups := make([]GroupStat, 0, collector.Size())
	for _, key := range collector.Keys() {
		s, _ := collector.Get(key)
		groups = append(groups, GroupStat{
			Name:   key,
			Min:    s.Min(),
			Max:    s.Max(),
			Mean:   s.Avg(),
			StdDev: s.SampleStDev(),
			Count:  s.Count(),
		})
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Mean > groups[b].Mean
	})
	return groups
}

// IgnoreGroup zeroes the weights of all features of the given group and returns how many were zeroed.
func IgnoreGroup(ts *dataset.TrainingSet, group string, fn GroupFunc) int {
	if fn == nil {
		fn = DefaultGroup
	}
	weights := make([]float64, ts.Features())
	copy(weights, ts.Weights())
	n := 0
	kept := make([]int, 0)
	for i, name := range ts.Names() {
		if fn(name) == group {
			if weights[i] != 0 {
				n++
			}
			weights[i] = 0
			continue
		}
		if weights[i] > 0 {
			kept = append(kept, i)
		}
	}
	// same length cannot fail
	_ = ts.SetWeights(weights)
	sort.SliceStable(kept, func(a, b int) bool {
		return weights[kept[a]] > weights[kept[b]]
	})
	ts.Project(kept)
	return n
}
