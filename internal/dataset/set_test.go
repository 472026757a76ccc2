package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/drakos74/sigclass/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSet(t *testing.T, labels ...string) *TrainingSet {
	ts := New("test", []string{"f [0]", "f [1]", "g [0]"})
	for _, l := range labels {
		_, err := ts.AddClass(l)
		require.NoError(t, err)
	}
	return ts
}

func TestTrainingSet_AddSample(t *testing.T) {

	type test struct {
		sample *model.Sample
		err    error
	}

	tests := map[string]test{
		"valid": {
			sample: model.NewSample("a.tif", 1, 1, 2, 3),
		},
		"unknown": {
			sample: model.NewSample("u.tif", 0, 1, 2, 3),
		},
		"undefined-class": {
			sample: model.NewSample("x.tif", 3, 1, 2, 3),
			err:    model.ErrUndefinedClass,
		},
		"negative-class": {
			sample: model.NewSample("x.tif", -1, 1, 2, 3),
			err:    model.ErrUndefinedClass,
		},
		"feature-mismatch": {
			sample: model.NewSample("x.tif", 1, 1, 2),
			err:    model.ErrFeatureCountMismatch,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ts := newTestSet(t, "a", "b")
			err := ts.AddSample(tt.sample)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				assert.Equal(t, 0, ts.Len())
				for c := 0; c <= ts.Classes().Len(); c++ {
					assert.Equal(t, 0, ts.Matrix(c).Cols())
					assert.Equal(t, 0, ts.Classes().Count(c))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, ts.Len())
			assert.Equal(t, 1, ts.Matrix(tt.sample.Class).Cols())
			assert.Equal(t, tt.sample.Values, ts.Matrix(tt.sample.Class).Col(0))
		})
	}
}

func TestTrainingSet_Continuous(t *testing.T) {
	ts := NewContinuous("c", []string{"x"}, "dose")
	assert.True(t, ts.IsContinuous())
	assert.Equal(t, 1, ts.Classes().Len())

	_, err := ts.AddClass("other")
	assert.True(t, errors.Is(err, model.ErrClassToContinuous))
	assert.Equal(t, model.CodeClassToContinuous, model.CodeOf(err))

	d := newTestSet(t, "a")
	_, err = d.AddContinuousClass("dose")
	assert.True(t, errors.Is(err, model.ErrContinuousWithClasses))
	assert.False(t, d.IsContinuous())
}

func TestTrainingSet_NumericValues(t *testing.T) {
	ts := newTestSet(t, "10", "20")
	require.NoError(t, ts.AddSample(model.NewSample("a", 2, 1, 1, 1)))
	assert.Equal(t, 20.0, ts.ClassSamples(2)[0].Value)
}

func TestTrainingSet_Normalize(t *testing.T) {
	ts := newTestSet(t, "a", "b")
	require.NoError(t, ts.AddSample(model.NewSample("1", 1, 0, 5, 7)))
	require.NoError(t, ts.AddSample(model.NewSample("2", 1, 10, 5, 7)))
	require.NoError(t, ts.AddSample(model.NewSample("3", 2, 5, 5, math.Inf(1))))

	b := ts.Normalize()
	assert.Equal(t, []float64{0, 5, 7}, b.Min)
	assert.Equal(t, []float64{10, 5, 7}, b.Max)

	for _, s := range ts.Samples() {
		for i, v := range s.Values {
			assert.True(t, v >= 0 && v <= Scale, "%v at %d", v, i)
		}
		// zero range
		assert.Equal(t, 0.0, s.Values[1])
	}
	assert.Equal(t, 0.0, ts.ClassSamples(1)[0].Values[0])
	assert.Equal(t, 100.0, ts.ClassSamples(1)[1].Values[0])
	assert.Equal(t, 50.0, ts.ClassSamples(2)[0].Values[0])
	// matrices share the normalised values
	assert.Equal(t, 50.0, ts.Matrix(2).At(0, 0))

	// re-normalising normalised data keeps the values, with bounds [0,100]
	ts.Normalize()
	assert.Equal(t, 50.0, ts.ClassSamples(2)[0].Values[0])

	vv := ts.NormalizeValues([]float64{20, 1, 7})
	assert.InDeltaSlice(t, []float64{20, 0, 0}, vv, 1e-9)
	vv = ts.NormalizeValues([]float64{-5, 1, 7})
	assert.Equal(t, 0.0, vv[0])
}

func TestTrainingSet_NormalizeInvalid(t *testing.T) {

	type test struct {
		values []float64
		bounds []float64
		scaled []float64
	}

	tests := map[string]test{
		"nan-and-inf": {
			values: []float64{math.NaN(), math.Inf(1), 5, 0},
			bounds: []float64{0, 5},
			scaled: []float64{0, 100, 100, 0},
		},
		"nan": {
			values: []float64{math.NaN(), 0, 5, 10},
			bounds: []float64{0, 10},
			scaled: []float64{0, 0, 50, 100},
		},
		"negative-inf": {
			values: []float64{math.Inf(-1), 2, 4},
			bounds: []float64{2, 4},
			scaled: []float64{0, 0, 100},
		},
		"float-limits": {
			values: []float64{-math.MaxFloat64, 0, math.MaxFloat64},
			bounds: []float64{-math.MaxFloat64, math.MaxFloat64},
			scaled: []float64{0, 50, 100},
		},
		"no-valid-values": {
			values: []float64{math.NaN(), math.Inf(1)},
			bounds: []float64{0, 0},
			scaled: []float64{0, 0},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ts := New("test", []string{"f [0]"})
			_, err := ts.AddClass("a")
			require.NoError(t, err)
			for i, v := range tt.values {
				require.NoError(t, ts.AddSample(model.NewSample(string(rune('a'+i)), 1, v)))
			}
			b := ts.Normalize()
			assert.Equal(t, tt.bounds[0], b.Min[0])
			assert.Equal(t, tt.bounds[1], b.Max[0])
			for i, s := range ts.ClassSamples(1) {
				v := s.Values[0]
				assert.False(t, math.IsNaN(v), "%s", s.Path)
				assert.True(t, v >= 0 && v <= Scale, "%v for %s", v, s.Path)
				assert.InDelta(t, tt.scaled[i], v, 1e-9, "%s", s.Path)
			}
		})
	}
}

func TestTrainingSet_AddSampleResetsProjection(t *testing.T) {
	ts := newTestSet(t, "a")
	require.NoError(t, ts.AddSample(model.NewSample("1", 1, 1, 2, 3)))
	p := ts.Project([]int{0})
	assert.Equal(t, 1, p.Samples(1))
	assert.Same(t, p, ts.Reduced())

	require.NoError(t, ts.AddSample(model.NewSample("2", 1, 4, 5, 6)))
	assert.Nil(t, ts.Reduced())
	assert.Equal(t, 2, ts.Project([]int{0}).Samples(1))
}

func TestTrainingSet_NormalizeWith(t *testing.T) {
	train := newTestSet(t, "a")
	require.NoError(t, train.AddSample(model.NewSample("1", 1, 0, 0, 0)))
	require.NoError(t, train.AddSample(model.NewSample("2", 1, 10, 20, 40)))
	b := train.Normalize()

	test := train.NewLike("test")
	require.NoError(t, test.AddSample(model.NewSample("3", 1, 5, 5, 10)))
	test.NormalizeWith(b)
	assert.Equal(t, []float64{50, 25, 25}, test.ClassSamples(1)[0].Values)
}

func TestTrainingSet_RemoveClass(t *testing.T) {
	ts := newTestSet(t, "a", "b", "c")
	require.NoError(t, ts.AddSample(model.NewSample("a1", 1, 1, 1, 1)))
	require.NoError(t, ts.AddSample(model.NewSample("b1", 2, 2, 2, 2)))
	require.NoError(t, ts.AddSample(model.NewSample("c1", 3, 3, 3, 3)))
	require.NoError(t, ts.AddSample(model.NewSample("u1", 0, 0, 0, 0)))

	require.NoError(t, ts.RemoveClass(2))
	assert.Equal(t, []string{"a", "c"}, ts.Classes().Labels())
	assert.Equal(t, 3, ts.Len())
	assert.Equal(t, "c1", ts.ClassSamples(2)[0].Path)
	assert.Equal(t, 2, ts.ClassSamples(2)[0].Class)
	assert.Equal(t, 1, ts.Matrix(2).Cols())
	assert.Equal(t, 1, ts.Classes().Count(2))

	require.NoError(t, ts.RemoveClass(0))
	assert.Equal(t, 2, ts.Len())
	assert.Equal(t, 2, ts.Classes().Len())

	err := ts.RemoveClass(5)
	assert.True(t, errors.Is(err, model.ErrUndefinedClass))
}

func TestTrainingSet_MarkUnknown(t *testing.T) {
	ts := newTestSet(t, "a", "b")
	require.NoError(t, ts.AddSample(model.NewSample("a1", 1, 1, 1, 1)))
	require.NoError(t, ts.AddSample(model.NewSample("b1", 2, 2, 2, 2)))

	require.NoError(t, ts.MarkUnknown(1))
	assert.Equal(t, []string{"b"}, ts.Classes().Labels())
	assert.Equal(t, "a1", ts.ClassSamples(0)[0].Path)
	assert.Equal(t, "b1", ts.ClassSamples(1)[0].Path)
	assert.Equal(t, 2, ts.Len())
}

func TestTrainingSet_MakeContinuous(t *testing.T) {
	ts := newTestSet(t, "1", "2")
	require.NoError(t, ts.AddSample(model.NewSample("a", 1, 1, 1, 1)))
	require.NoError(t, ts.AddSample(model.NewSample("b", 2, 2, 2, 2)))

	require.NoError(t, ts.MakeContinuous("dose"))
	assert.True(t, ts.IsContinuous())
	assert.Equal(t, 1, ts.Classes().Len())
	ss := ts.ClassSamples(model.ContinuousClass)
	require.Len(t, ss, 2)
	assert.Equal(t, 1.0, ss[0].Value)
	assert.Equal(t, 2.0, ss[1].Value)

	nn := newTestSet(t, "x")
	err := nn.MakeContinuous("dose")
	assert.True(t, errors.Is(err, model.ErrContinuousWithClasses))
}

func TestTrainingSet_SplitAreas(t *testing.T) {
	ts := newTestSet(t, "a")
	for i := 0; i < 8; i++ {
		require.NoError(t, ts.AddSample(model.NewSample("img", 1, float64(i), 0, 0)))
	}
	areas := ts.SplitAreas(4)
	require.Len(t, areas, 4)
	for i, area := range areas {
		ss := area.ClassSamples(1)
		require.Len(t, ss, 2)
		assert.Equal(t, float64(i), ss[0].Values[0])
		assert.Equal(t, float64(i+4), ss[1].Values[0])
	}
	// deep copies
	areas[0].ClassSamples(1)[0].Values[0] = 100
	assert.Equal(t, 0.0, ts.ClassSamples(1)[0].Values[0])
}

func TestTrainingSet_BlendWeights(t *testing.T) {

	type test struct {
		current  []float64
		weights  []float64
		factor   float64
		result   []float64
		distance float64
	}

	tests := map[string]test{
		"replace": {
			current:  []float64{1, 1, 1},
			weights:  []float64{1, 2, 3},
			result:   []float64{1, 2, 3},
			distance: math.Sqrt(5),
		},
		"add": {
			current:  []float64{1, 1, 1},
			weights:  []float64{1, 1, 1},
			factor:   1,
			result:   []float64{2, 2, 2},
			distance: 0,
		},
		"subtract-floor": {
			current:  []float64{1, 1, 1},
			weights:  []float64{2, 0, 1},
			factor:   -1,
			result:   []float64{0, 1, 0},
			distance: math.Sqrt(2),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ts := newTestSet(t, "a")
			require.NoError(t, ts.SetWeights(tt.current))
			d, err := ts.BlendWeights(tt.weights, tt.factor)
			require.NoError(t, err)
			assert.InDelta(t, tt.distance, d, 1e-12)
			assert.Equal(t, tt.result, ts.Weights())
		})
	}

	ts := newTestSet(t, "a")
	_, err := ts.BlendWeights([]float64{1}, 0)
	assert.True(t, errors.Is(err, model.ErrFeatureCountMismatch))
}

func TestTrainingSet_Project(t *testing.T) {
	ts := newTestSet(t, "a", "b")
	require.NoError(t, ts.AddSample(model.NewSample("a1", 1, 1, 2, 3)))
	require.NoError(t, ts.AddSample(model.NewSample("a2", 1, 4, 5, 6)))
	require.NoError(t, ts.SetWeights([]float64{0.5, 0, 2}))

	p := ts.Project([]int{2, 0})
	assert.Equal(t, []float64{4, 0.25}, p.Weights)
	assert.Equal(t, 2, p.Samples(1))
	assert.Equal(t, 0, p.Samples(2))
	assert.Equal(t, 6.0, p.Matrices[1].At(0, 1))
	assert.Equal(t, 4.0, p.Matrices[1].At(1, 1))
	assert.Equal(t, []float64{3, 1}, p.Values([]float64{1, 2, 3}))
	assert.Equal(t, p, ts.Reduced())
}

func TestTrainingSet_Summarize(t *testing.T) {
	ts := newTestSet(t, "1", "2")
	require.NoError(t, ts.AddSample(model.NewSample("a", 1, 1, 1, 1)))
	require.NoError(t, ts.AddSample(model.NewSample("u", 0, 1, 1, 1)))
	s := ts.Summarize()
	assert.Equal(t, 2, s.Samples)
	assert.Equal(t, 1, s.Unknown)
	assert.True(t, s.PureNumeric)
	assert.Equal(t, 1, s.Classes[0].Count)
	assert.Equal(t, 2.0, s.Classes[1].Value)
}
