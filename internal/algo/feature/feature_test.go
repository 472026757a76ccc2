package feature

import (
	"errors"
	"math"
	"testing"

	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newDiscrete creates a set where feature 0 separates the classes, feature 1 is noise and feature 2 is constant.
func newDiscrete(t *testing.T, shift, scale float64) *dataset.TrainingSet {
	ts := dataset.New("train", []string{"Sep [0]", "Noise [0]", "Noise [1]"})
	_, err := ts.AddClass("a")
	require.NoError(t, err)
	_, err = ts.AddClass("b")
	require.NoError(t, err)
	values := map[int][][]float64{
		1: {{1, 5, 3}, {2, 1, 3}, {3, 3, 3}},
		2: {{11, 4, 3}, {12, 2, 3}, {13, 6, 3}},
	}
	for c, vv := range values {
		for _, v := range vv {
			for i := range v {
				v[i] = v[i]*scale + shift
			}
			require.NoError(t, ts.AddSample(model.NewSample("", c, v...)))
		}
	}
	return ts
}

func TestFisher(t *testing.T) {
	ts := newDiscrete(t, 0, 1)
	scores := Fisher(ts, 0)
	// means 2 and 12, variance of means is 50, within class variance is 2/3
	assert.InDelta(t, 50/(2.0/3.0), scores[0], 1e-9)
	// means 3 and 4, within class variance is 8/3
	assert.InDelta(t, 0.5/(8.0/3.0), scores[1], 1e-9)
	assert.Equal(t, 0.0, scores[2])
}

func TestFisher_Invariance(t *testing.T) {

	type test struct {
		shift float64
		scale float64
	}

	tests := map[string]test{
		"shift": {
			shift: 100,
			scale: 1,
		},
		"negative-shift": {
			shift: -37.5,
			scale: 1,
		},
		"scale": {
			scale: 3,
		},
	}

	base := Fisher(newDiscrete(t, 0, 1), 0)
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			scores := Fisher(newDiscrete(t, tt.shift, tt.scale), 0)
			for i := 0; i < 2; i++ {
				assert.InDelta(t, base[i], scores[i], 1e-6)
			}
		})
	}
}

func TestFisher_SingleClass(t *testing.T) {
	ts := dataset.New("one", []string{"x"})
	_, err := ts.AddClass("a")
	require.NoError(t, err)
	_, err = ts.AddClass("b")
	require.NoError(t, err)
	require.NoError(t, ts.AddSample(model.NewSample("", 1, 1)))
	require.NoError(t, ts.AddSample(model.NewSample("", 1, 2)))
	assert.Equal(t, []float64{0}, Fisher(ts, 0))
}

func TestCorrelation(t *testing.T) {
	ts := dataset.NewContinuous("c", []string{"up", "down", "flat"}, "dose")
	for i := 0; i < 5; i++ {
		x := float64(i)
		require.NoError(t, ts.AddSample(model.NewSample("", model.ContinuousClass, 2*x+1, -x, 7).WithValue(x)))
	}
	scores := Correlation(ts, 1)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
	assert.InDelta(t, 1.0, scores[1], 1e-9)
	assert.Equal(t, 0.0, scores[2])

	squared := Correlation(ts, 2)
	assert.InDelta(t, 1.0, squared[0], 1e-9)
}

func TestWeigh(t *testing.T) {

	type test struct {
		fraction float64
		kept     []int
	}

	tests := map[string]test{
		"one-third": {
			fraction: 0.33,
			kept:     []int{0},
		},
		"two-thirds": {
			fraction: 0.5,
			kept:     []int{0, 1},
		},
		"all": {
			fraction: 1,
			kept:     []int{0, 1, 2},
		},
		"none-keeps-one": {
			fraction: 0,
			kept:     []int{0},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ts := newDiscrete(t, 0, 1)
			opts := NewOptions()
			opts.Fraction = tt.fraction
			ranking, err := Weigh(ts, opts)
			require.NoError(t, err)
			require.Len(t, ranking.Features, len(tt.kept))
			for j, i := range tt.kept {
				assert.Equal(t, i, ranking.Features[j].Index)
				assert.Equal(t, ts.Weights()[i], ranking.Features[j].Weight)
			}
			zeroed := 0
			for _, w := range ts.Weights() {
				if w == 0 {
					zeroed++
				}
			}
			assert.True(t, zeroed >= 3-len(tt.kept))
			reduced := ts.Reduced()
			require.NotNil(t, reduced)
			assert.Equal(t, tt.kept, reduced.Features)
			assert.Equal(t, math.Pow(ts.Weights()[0], 2), reduced.Weights[0])

			require.Len(t, ranking.Groups, 2)
			assert.Equal(t, "Sep", ranking.Groups[0].Name)
			assert.Equal(t, "Noise", ranking.Groups[1].Name)
			assert.Equal(t, 2, ranking.Groups[1].Count)
		})
	}
}

type mockReranker struct {
	weights []float64
	err     error
}

func (m mockReranker) Rerank(ts *dataset.TrainingSet, features []int) ([]float64, error) {
	return m.weights, m.err
}

func TestWeigh_Reranker(t *testing.T) {
	ts := newDiscrete(t, 0, 1)
	opts := NewOptions()
	opts.Fraction = 0.5
	opts.Reranker = mockReranker{weights: []float64{0.1, 0.9}}
	ranking, err := Weigh(ts, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, ranking.Features[0].Index)
	assert.Equal(t, 0.9, ranking.Features[0].Weight)
	assert.Equal(t, 0, ts.Warnings().Len())

	ts = newDiscrete(t, 0, 1)
	opts.Reranker = mockReranker{weights: []float64{0.1}}
	_, err = Weigh(ts, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, ts.Warnings().Len())

	ts = newDiscrete(t, 0, 1)
	opts.Reranker = mockReranker{err: errors.New("no forest")}
	ranking, err = Weigh(ts, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, ranking.Features[0].Index)
	assert.Equal(t, 1, ts.Warnings().Len())
}

func TestDefaultGroup(t *testing.T) {
	assert.Equal(t, "Zernike Coefficients ()", DefaultGroup("Zernike Coefficients () [4]"))
	assert.Equal(t, "plain", DefaultGroup("plain"))
}

func TestIgnoreGroup(t *testing.T) {
	ts := newDiscrete(t, 0, 1)
	opts := NewOptions()
	opts.Fraction = 1
	_, err := Weigh(ts, opts)
	require.NoError(t, err)

	n := IgnoreGroup(ts, "Noise", nil)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0.0, ts.Weights()[1])
	assert.Equal(t, 0.0, ts.Weights()[2])
	assert.Equal(t, []int{0}, ts.Reduced().Features)
}

func TestMerge(t *testing.T) {
	a := &Ranking{
		Features: []FeatureStat{{Name: "x", Index: 0, Weight: 2}, {Name: "y", Index: 1, Weight: 1}},
		Groups:   []GroupStat{{Name: "g", Mean: 1, Count: 2}},
	}
	b := &Ranking{
		Features: []FeatureStat{{Name: "y", Index: 1, Weight: 5}},
		Groups:   []GroupStat{{Name: "g", Mean: 3, Count: 2}},
	}
	m := Merge(a, nil, b)
	require.Len(t, m.Features, 2)
	assert.Equal(t, "y", m.Features[0].Name)
	assert.Equal(t, 3.0, m.Features[0].Weight)
	assert.Equal(t, 2.0, m.Features[1].Weight)
	require.Len(t, m.Groups, 1)
	assert.Equal(t, 2.0, m.Groups[0].Mean)
	assert.Equal(t, 1.0, m.Groups[0].Min)
	assert.Equal(t, 3.0, m.Groups[0].Max)
}
