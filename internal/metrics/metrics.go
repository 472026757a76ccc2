package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Correct is the outcome of a correctly classified image.
	Correct = "correct"
	// Wrong is the outcome of a misclassified image.
	Wrong = "wrong"
	// Unknown is the outcome of an image without ground truth.
	Unknown = "unknown"
)

// Observer is the default metrics observer, registered with the default prometheus registry.
var Observer = NewMetrics(prometheus.DefaultRegisterer)

// Metrics records the classification metrics.
type Metrics struct {
	prometheus Prometheus
}

// NewMetrics creates new metrics and registers them with the given registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		prometheus: NewPrometheusMetrics(),
	}
	if registerer != nil {
		registerer.MustRegister(m.prometheus.Collectors()...)
	}
	return m
}

// Classified counts a classified image.
func (m *Metrics) Classified(method, outcome string) {
	m.prometheus.Classifications.WithLabelValues(method, outcome).Inc()
}

// Split records the accuracy of an evaluated split.
func (m *Metrics) Split(method string, accuracy float64) {
	m.prometheus.Splits.WithLabelValues(method).Inc()
	m.prometheus.Accuracy.WithLabelValues(method).Observe(accuracy)
}

// Handler returns the http handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
