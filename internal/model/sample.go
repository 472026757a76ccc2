package model

// Sample is the feature vector of one image (or image tile) with its ground truth.
type Sample struct {
	// Values is the signature, one value per feature.
	Values []float64 `json:"values"`
	// Class is the class index, 0 for unknown.
	Class int `json:"class"`
	// Value is the continuous target, or the numeric value of the class label.
	Value float64 `json:"value"`
	// Interpolated is the predicted value filled in during evaluation.
	Interpolated float64 `json:"interpolated"`
	// Path identifies the source of the sample. It is never parsed.
	Path string `json:"path"`
}

// NewSample creates a new sample for the given class.
func NewSample(path string, class int, values ...float64) *Sample {
	vv := make([]float64, len(values))
	copy(vv, values)
	return &Sample{
		Values: vv,
		Class:  class,
		Path:   path,
	}
}

// WithValue sets the continuous target of the sample.
func (s *Sample) WithValue(v float64) *Sample {
	s.Value = v
	return s
}

// Duplicate creates a deep copy of the sample.
func (s *Sample) Duplicate() *Sample {
	vv := make([]float64, len(s.Values))
	copy(vv, s.Values)
	return &Sample{
		Values:       vv,
		Class:        s.Class,
		Value:        s.Value,
		Interpolated: s.Interpolated,
		Path:         s.Path,
	}
}
