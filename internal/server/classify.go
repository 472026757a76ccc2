package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/drakos74/sigclass/internal/algo/classifier"
	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/model"
)

// Signature is a raw feature vector sent for classification.
type Signature struct {
	Path   string    `json:"path"`
	Values []float64 `json:"values"`
}

// Prediction is the classification of a signature.
type Prediction struct {
	Path          string             `json:"path"`
	Class         int                `json:"class"`
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
	Value         float64            `json:"value"`
	Closest       string             `json:"closest"`
	Distance      float64            `json:"distance"`
}

// Classify creates the route classifying signatures against the given training set.
// Continuous sets are interpolated with the given interpolator.
// The set is expected to be normalised and is only read.
func Classify(ts *dataset.TrainingSet, c classifier.Classifier, ip *classifier.Interpolator) Route {
	return Route{
		Action: Api,
		Path:   "classify",
		Method: POST,
		Exec: func(r *http.Request) ([]byte, int, error) {
			var sig Signature
			if err := JsonRead(r, false, &sig); err != nil {
				return nil, http.StatusBadRequest, fmt.Errorf("could not read signature: %w", err)
			}
			if len(sig.Values) != ts.Features() {
				return nil, http.StatusBadRequest, fmt.Errorf("signature with %d values for %d features: %w", len(sig.Values), ts.Features(), model.ErrFeatureCountMismatch)
			}
			s := model.NewSample(sig.Path, model.Unknown, ts.NormalizeValues(sig.Values)...)
			p, err := predict(ts, c, ip, s)
			if err != nil {
				return nil, http.StatusUnprocessableEntity, err
			}
			b, err := json.Marshal(p)
			if err != nil {
				return nil, http.StatusInternalServerError, fmt.Errorf("could not encode prediction: %w", err)
			}
			return b, http.StatusOK, nil
		},
	}
}

func predict(ts *dataset.TrainingSet, c classifier.Classifier, ip *classifier.Interpolator, s *model.Sample) (Prediction, error) {
	p := Prediction{
		Path: s.Path,
	}
	if ts.IsContinuous() {
		r, err := ip.Interpolate(ts, s)
		if err != nil {
			return p, err
		}
		p.Class = model.ContinuousClass
		p.Label = ts.Classes().Label(model.ContinuousClass)
		p.Value = r.Value
		p.Closest = r.Closest.Path
		p.Distance = r.Distance
		return p, nil
	}
	r := c.Classify(ts, s)
	p.Class = r.Class
	p.Label = ts.Classes().Label(r.Class)
	p.Distance = r.Distance
	if r.Closest != nil {
		p.Closest = r.Closest.Path
	}
	p.Probabilities = make(map[string]float64)
	for i := 1; i < len(r.Probabilities); i++ {
		label := ts.Classes().Label(i)
		p.Probabilities[label] = r.Probabilities[i]
		p.Value += r.Probabilities[i] * ts.Classes().Value(i)
	}
	return p, nil
}
