package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus holds the collectors of the classification engine.
type Prometheus struct {
	Classifications *prometheus.CounterVec
	Splits          *prometheus.CounterVec
	Accuracy        *prometheus.HistogramVec
}

// NewPrometheusMetrics creates the collectors of the classification engine.
func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sigclass",
				Name:      "classifications_total",
				Help:      "classified test images",
			}, []string{"method", "outcome"}),
		Splits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sigclass",
				Name:      "splits_total",
				Help:      "evaluated train/test splits",
			}, []string{"method"}),
		Accuracy: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sigclass",
				Name:      "split_accuracy",
				Help:      "accuracy of the evaluated splits",
				Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
			}, []string{"method"}),
	}
}

// Collectors returns all collectors for registration.
func (p Prometheus) Collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Classifications, p.Splits, p.Accuracy}
}
