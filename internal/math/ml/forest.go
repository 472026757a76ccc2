package ml

import (
	"fmt"
	"math"

	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/model"
	"github.com/rs/zerolog/log"

	randomforest "github.com/malaschitz/randomForest"
)

// RandomForest re-ranks features by their importance in a random forest
// trained on the labeled samples of a training set.
type RandomForest struct {
	trees  int
	forest *randomforest.Forest
}

// NewForest creates a new random forest of n trees.
func NewForest(n int) *RandomForest {
	if n < 1 {
		n = 1
	}
	return &RandomForest{
		trees: n,
	}
}

// Train trains the forest and returns the importance of every feature.
func (rf *RandomForest) Train(xData [][]float64, yData []int) []float64 {
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: xData, Class: yData}
	forest.Train(rf.trees)
	rf.forest = forest
	return forest.FeatureImportance
}

// Predict returns the class votes of the trained forest.
func (rf *RandomForest) Predict(xData []float64) []float64 {
	if rf.forest == nil {
		return nil
	}
	return rf.forest.Vote(xData)
}

// Rerank trains the forest on the given features and returns their importance.
func (rf *RandomForest) Rerank(ts *dataset.TrainingSet, features []int) ([]float64, error) {
	if ts.IsContinuous() {
		return nil, fmt.Errorf("random forest cannot rank continuous set '%s'", ts.Name)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("no features to rank")
	}
	var xData [][]float64
	var yData []int
	classes := 0
	for c := 1; c <= ts.Classes().Len(); c++ {
		samples := ts.ClassSamples(c)
		if len(samples) > 0 {
			classes++
		}
		for _, s := range samples {
			x := make([]float64, len(features))
			for j, i := range features {
				x[j] = s.Values[i]
			}
			xData = append(xData, x)
			yData = append(yData, s.Class-1)
		}
	}
	if classes < 2 {
		return nil, fmt.Errorf("random forest needs at least 2 classes, found %d: %w", classes, model.ErrUndefinedClass)
	}
	importance := rf.Train(xData, yData)
	for i, v := range importance {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			importance[i] = 0
		}
	}
	log.Debug().
		Str("set", ts.Name).
		Int("trees", rf.trees).
		Int("samples", len(xData)).
		Int("features", len(importance)).
		Msg("forest")
	return importance, nil
}
