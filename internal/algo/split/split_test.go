package split

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSet creates a set with the given number of images per class, each made of tiles samples.
func newSet(t *testing.T, images []int, tiles int) *dataset.TrainingSet {
	ts := dataset.New("set", []string{"x", "y"})
	for c, n := range images {
		_, err := ts.AddClass(fmt.Sprintf("c%d", c))
		require.NoError(t, err)
		for i := 0; i < n; i++ {
			for tile := 0; tile < tiles; tile++ {
				s := model.NewSample(fmt.Sprintf("c%d-%d", c, i), c+1, float64(i), float64(tile))
				require.NoError(t, ts.AddSample(s))
			}
		}
	}
	return ts
}

func TestSplit(t *testing.T) {

	type test struct {
		images []int
		opts   Options
		train  []int
		test   []int
	}

	tests := map[string]test{
		"ratio": {
			images: []int{10, 4},
			opts:   Options{Ratio: 0.75},
			train:  []int{8, 3},
			test:   []int{2, 1},
		},
		"ratio-tiles": {
			images: []int{10, 4},
			opts:   Options{Ratio: 0.5, Tiles: 4, Randomize: true},
			train:  []int{5, 2},
			test:   []int{5, 2},
		},
		"ratio-fixed-test": {
			images: []int{10, 6},
			opts:   Options{Ratio: 0.5, Test: 1},
			train:  []int{5, 3},
			test:   []int{1, 1},
		},
		"fixed": {
			images: []int{10, 6},
			opts:   Options{Train: 3, Test: 2, Tiles: 2, Randomize: true},
			train:  []int{3, 3},
			test:   []int{2, 2},
		},
		"fixed-rest": {
			images: []int{5, 6},
			opts:   Options{Train: 3},
			train:  []int{3, 3},
			test:   []int{2, 3},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tiles := tt.opts.Tiles
			if tiles == 0 {
				tiles = 1
			}
			ts := newSet(t, tt.images, tiles)
			require.NoError(t, Validate(ts, tt.opts))
			train, test, partition := Split(ts, tt.opts, rand.New(rand.NewSource(42)))
			for c := 1; c <= len(tt.images); c++ {
				assert.Equal(t, tt.train[c-1]*tiles, len(train.ClassSamples(c)))
				assert.Equal(t, tt.test[c-1]*tiles, len(test.ClassSamples(c)))
				assert.Equal(t, tt.train[c-1], partition.TrainCount(c))
				assert.Equal(t, tt.test[c-1], partition.TestCount(c))

				seen := make(map[int]bool)
				for _, g := range append(append([]int{}, partition.Classes[c].Train...), partition.Classes[c].Test...) {
					assert.False(t, seen[g], "group %d twice", g)
					seen[g] = true
				}

				// tiles of an image stay together
				images := make(map[string]int)
				for _, s := range train.ClassSamples(c) {
					images[s.Path]++
				}
				for _, s := range test.ClassSamples(c) {
					_, ok := images[s.Path]
					assert.False(t, ok, "image %s in both sets", s.Path)
				}
				for _, n := range images {
					assert.Equal(t, tiles, n)
				}
			}
		})
	}
}

func TestSplit_Seeded(t *testing.T) {
	ts := newSet(t, []int{20}, 1)
	opts := Options{Ratio: 0.5, Randomize: true}
	_, _, a := Split(ts, opts, rand.New(rand.NewSource(7)))
	_, _, b := Split(ts, opts, rand.New(rand.NewSource(7)))
	assert.Equal(t, a.Classes[1].Train, b.Classes[1].Train)

	_, _, ordered := Split(ts, Options{Ratio: 0.5}, nil)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, ordered.Classes[1].Train)
}

func TestSplit_PartitionIndependent(t *testing.T) {
	ts := newSet(t, []int{10}, 1)
	_, _, partition := Split(ts, Options{Ratio: 0.5}, nil)
	class := partition.Classes[1]
	test := append([]int{}, class.Test...)

	class.Train = append(class.Train, 99)
	assert.Equal(t, test, class.Test)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 99}, class.Train)
}

func TestSplit_DeepCopy(t *testing.T) {
	ts := newSet(t, []int{2}, 1)
	train, _, _ := Split(ts, Options{Ratio: 1}, nil)
	train.ClassSamples(1)[0].Values[0] = 100
	assert.Equal(t, 0.0, ts.ClassSamples(1)[0].Values[0])
}

func TestSplit_Invalid(t *testing.T) {
	ts := newSet(t, []int{4}, 1)
	opts := Options{Train: 3, Test: 2}
	assert.Error(t, Validate(ts, opts))
	assert.Panics(t, func() {
		Split(ts, opts, nil)
	})
}

func TestSplitInto(t *testing.T) {
	ts := newSet(t, []int{4, 4}, 2)
	external := newSet(t, []int{3, 1}, 2)
	before := external.Len()

	opts := Options{Ratio: 1, Tiles: 2}
	require.NoError(t, ValidateInto(ts, opts))
	train, partition := SplitInto(ts, external, opts, nil)
	assert.Equal(t, 16, train.Len())
	assert.Equal(t, before, external.Len())
	assert.Equal(t, 3, partition.TestCount(1))
	assert.Equal(t, 1, partition.TestCount(2))
	assert.Equal(t, 4, partition.TrainCount(2))
}
