package ml

import (
	"testing"

	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomForest_Rerank(t *testing.T) {
	ts := dataset.New("forest", []string{"sep", "noise"})
	_, err := ts.AddClass("a")
	require.NoError(t, err)
	_, err = ts.AddClass("b")
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		require.NoError(t, ts.AddSample(model.NewSample("", 1, float64(i%5), float64(i%3))))
		require.NoError(t, ts.AddSample(model.NewSample("", 2, float64(10+i%5), float64(i%3))))
	}

	importance, err := NewForest(10).Rerank(ts, []int{0, 1})
	require.NoError(t, err)
	assert.Len(t, importance, 2)
}

func TestRandomForest_RerankSingleClass(t *testing.T) {
	ts := dataset.New("forest", []string{"x"})
	_, err := ts.AddClass("a")
	require.NoError(t, err)
	require.NoError(t, ts.AddSample(model.NewSample("", 1, 1)))

	_, err = NewForest(10).Rerank(ts, []int{0})
	assert.Error(t, err)

	c := dataset.NewContinuous("c", []string{"x"}, "dose")
	_, err = NewForest(10).Rerank(c, []int{0})
	assert.Error(t, err)
}
