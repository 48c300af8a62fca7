package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus holds the raw collectors.
type Prometheus struct {
	Trainings       *prometheus.CounterVec
	Epochs          prometheus.Counter
	Predictions     *prometheus.CounterVec
	ActiveTrainings prometheus.Gauge
}

// NewPrometheusMetrics creates the collectors under the mind namespace.
func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Trainings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mind",
				Name:      "trainings",
			}, []string{"status"}),
		Epochs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "mind",
				Name:      "epochs",
			}),
		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mind",
				Name:      "predictions",
			}, []string{"outcome"}),
		ActiveTrainings: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "mind",
				Name:      "active_trainings",
			}),
	}
}
