package classifier

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrainingSet(t *testing.T) *dataset.TrainingSet {
	ts := dataset.New("train", []string{"x", "y", "z"})
	_, err := ts.AddClass("a")
	require.NoError(t, err)
	_, err = ts.AddClass("b")
	require.NoError(t, err)
	values := map[int][][]float64{
		1: {{1, 1, 1}, {2, 1, 1}, {1, 2, 1}, {2, 2, 2}},
		2: {{10, 10, 10}, {11, 10, 10}, {10, 11, 10}, {11, 11, 11}},
	}
	for c := 1; c <= 2; c++ {
		for i, v := range values[c] {
			require.NoError(t, ts.AddSample(model.NewSample(fmt.Sprintf("%d-%d", c, i), c, v...)))
		}
	}
	require.NoError(t, ts.SetWeights([]float64{1, 1, 1}))
	return ts
}

func sum(vv []float64) float64 {
	s := 0.0
	for _, v := range vv {
		s += v
	}
	return s
}

func TestMinkowski(t *testing.T) {

	type test struct {
		a, b, w []float64
		p       float64
		d       float64
	}

	tests := map[string]test{
		"euclidean": {
			a: []float64{0, 0},
			b: []float64{3, 4},
			w: []float64{1, 1},
			p: 2,
			d: 5,
		},
		"weighted": {
			a: []float64{0, 0},
			b: []float64{3, 4},
			w: []float64{0, 4},
			p: 2,
			d: 8,
		},
		"manhattan": {
			a: []float64{0, 0},
			b: []float64{3, -4},
			w: []float64{1, 1},
			p: 1,
			d: 7,
		},
		"default-order": {
			a: []float64{0},
			b: []float64{2},
			w: []float64{1},
			d: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tt.d, Minkowski(tt.a, tt.b, tt.w, tt.p), 1e-12)
		})
	}
}

func TestWNN_ExactMatch(t *testing.T) {
	ts := newTrainingSet(t)
	wnn := NewWNN(NewOptions())

	s := model.NewSample("test", 0, 2, 1, 1)
	result := wnn.Classify(ts, s)
	assert.Equal(t, 1, result.Class)
	assert.InDelta(t, 1.0, result.Probabilities[1], 1e-9)
	assert.InDelta(t, 1.0, sum(result.Probabilities), 1e-9)
	assert.Equal(t, ts.ClassSamples(1)[1], result.Closest)
	assert.Equal(t, 0.0, result.Distance)
}

func TestWNN_ExactMatchClasses(t *testing.T) {
	ts := dataset.New("exact", []string{"x"})
	for _, l := range []string{"a", "b", "c"} {
		_, err := ts.AddClass(l)
		require.NoError(t, err)
	}
	require.NoError(t, ts.AddSample(model.NewSample("a1", 1, 5)))
	require.NoError(t, ts.AddSample(model.NewSample("b1", 2, 5)))
	require.NoError(t, ts.AddSample(model.NewSample("c1", 3, 9)))
	require.NoError(t, ts.SetWeights([]float64{1}))

	result := NewWNN(NewOptions()).Classify(ts, model.NewSample("test", 0, 5))
	assert.InDeltaSlice(t, []float64{0, 0.5, 0.5, 0}, result.Probabilities, 1e-12)
	assert.Equal(t, 2.0, result.Normalization)
	assert.Equal(t, 0.0, result.Distance)
	assert.Contains(t, []int{1, 2}, result.Class)
}

func TestWNN_SkipIdentity(t *testing.T) {
	ts := newTrainingSet(t)
	wnn := NewWNN(NewOptions())

	// the same sample of the training set is not its own neighbour
	s := ts.ClassSamples(1)[1]
	result := wnn.Classify(ts, s)
	assert.Equal(t, 1, result.Class)
	assert.NotEqual(t, s, result.Closest)
	assert.InDelta(t, 1.0, result.Distance, 1e-12)
	assert.InDelta(t, 1.0, sum(result.Probabilities), 1e-9)

	opts := NewOptions()
	opts.SkipIdentical = true
	result = NewWNN(opts).Classify(ts, model.NewSample("other", 0, 2, 1, 1))
	assert.True(t, result.Distance > 0)
	assert.Equal(t, 1, result.Class)
}

func TestWNN_Probabilities(t *testing.T) {
	ts := newTrainingSet(t)
	result := NewWNN(NewOptions()).Classify(ts, model.NewSample("test", 0, 3, 3, 3))
	assert.Equal(t, 1, result.Class)
	assert.True(t, result.Probabilities[1] > result.Probabilities[2])
	assert.InDelta(t, 1.0, sum(result.Probabilities), 1e-9)

	// the probability is the normalised inverse distance of the closest sample of each class
	d1 := math.Sqrt(1 + 1 + 1)
	d2 := math.Sqrt(49 + 49 + 49)
	assert.InDelta(t, (1/d1)/(1/d1+1/d2), result.Probabilities[1], 1e-9)
}

func TestWNN_NoMatch(t *testing.T) {
	ts := dataset.New("empty", []string{"x"})
	_, err := ts.AddClass("a")
	require.NoError(t, err)
	result := NewWNN(NewOptions()).Classify(ts, model.NewSample("test", 0, 1))
	assert.Equal(t, 0, result.Class)
	assert.Equal(t, 0.0, sum(result.Probabilities))
	assert.Nil(t, result.Closest)
}

func TestWND(t *testing.T) {
	ts := newTrainingSet(t)
	wnd := NewWND(NewOptions())

	result := wnd.Classify(ts, model.NewSample("test", 0, 9, 9, 9))
	assert.Equal(t, 2, result.Class)
	assert.InDelta(t, 1.0, sum(result.Probabilities), 1e-9)
	assert.True(t, result.Probabilities[2] > 0.99)
	assert.Equal(t, ts.ClassSamples(2)[0], result.Closest)

	// exact matches are ignored, the rest of the class still decides
	result = wnd.Classify(ts, model.NewSample("test", 0, 1, 1, 1))
	assert.Equal(t, 1, result.Class)
	assert.InDelta(t, 1.0, sum(result.Probabilities), 1e-9)
}

func TestWND_Projection(t *testing.T) {
	ts := newTrainingSet(t)
	// only the first feature is selected, the others are ignored
	require.NoError(t, ts.SetWeights([]float64{1, 0, 0}))
	ts.Project([]int{0})

	result := NewWND(NewOptions()).Classify(ts, model.NewSample("test", 0, 10.5, 1, 1))
	assert.Equal(t, 2, result.Class)
	assert.InDelta(t, 1.0, sum(result.Probabilities), 1e-9)
}

func TestWND_NoMatch(t *testing.T) {
	ts := dataset.New("single", []string{"x"})
	_, err := ts.AddClass("a")
	require.NoError(t, err)
	require.NoError(t, ts.AddSample(model.NewSample("a", 1, 1)))
	require.NoError(t, ts.SetWeights([]float64{1}))

	result := NewWND(NewOptions()).Classify(ts, model.NewSample("test", 0, 1))
	assert.Equal(t, 0, result.Class)
	assert.Equal(t, 0.0, sum(result.Probabilities))
}

func TestNew(t *testing.T) {
	for _, m := range []string{"wnn", "WND"} {
		method, err := ParseMethod(m)
		require.NoError(t, err)
		c, err := New(method, NewOptions())
		require.NoError(t, err)
		assert.Equal(t, method, c.Method())
	}
	_, err := ParseMethod("knn")
	assert.Error(t, err)
	_, err = New(Method("knn"), NewOptions())
	assert.Error(t, err)
}

func newContinuousSet(t *testing.T) *dataset.TrainingSet {
	ts := dataset.NewContinuous("dose", []string{"x"}, "dose")
	for i, x := range []float64{0, 1, 2, 4, 8} {
		s := model.NewSample(fmt.Sprintf("s-%d", i), model.ContinuousClass, x).WithValue(10 * x)
		require.NoError(t, ts.AddSample(s))
	}
	require.NoError(t, ts.SetWeights([]float64{1}))
	return ts
}

func TestInterpolator(t *testing.T) {

	type test struct {
		n     int
		x     float64
		value float64
		min   float64
		max   float64
	}

	tests := map[string]test{
		"nearest": {
			n:     1,
			x:     1.9,
			value: 20,
			min:   20,
			max:   20,
		},
		"three": {
			n:   3,
			x:   1.5,
			min: 0,
			max: 20,
		},
		"exact": {
			n:     3,
			x:     4,
			value: 40,
			min:   40,
			max:   40,
		},
		"all": {
			n:   10,
			x:   3,
			min: 0,
			max: 80,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ts := newContinuousSet(t)
			result, err := NewInterpolator(tt.n).Interpolate(ts, model.NewSample("test", 0, tt.x))
			require.NoError(t, err)
			assert.True(t, result.Value >= tt.min && result.Value <= tt.max, "%v", result.Value)
			if tt.value != 0 {
				assert.InDelta(t, tt.value, result.Value, 1e-9)
			}
			assert.NotNil(t, result.Closest)
		})
	}
}

func TestInterpolator_Weighted(t *testing.T) {
	ts := newContinuousSet(t)
	result, err := NewInterpolator(2).Interpolate(ts, model.NewSample("test", 0, 1.25))
	require.NoError(t, err)
	// neighbours 1 and 2 at distances 0.25 and 0.75
	assert.InDelta(t, (10/0.25+20/0.75)/(1/0.25+1/0.75), result.Value, 1e-9)
	assert.Equal(t, 10.0, result.Closest.Value)
	assert.InDelta(t, 0.25, result.Distance, 1e-12)
}

func TestInterpolator_Degenerate(t *testing.T) {
	ts := dataset.NewContinuous("empty", []string{"x"}, "dose")
	_, err := NewInterpolator(3).Interpolate(ts, model.NewSample("test", 0, 1))
	assert.True(t, errors.Is(err, model.ErrDegenerateInterpolation))
}
