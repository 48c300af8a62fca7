package metrics

// Observer is the global metrics sink of the service.
var Observer = &Metrics{
	prometheus: NewPrometheusMetrics(),
}

// Metrics tracks the service level counters.
type Metrics struct {
	prometheus Prometheus
}

// TrainingStarted counts a new training run.
func (m *Metrics) TrainingStarted() {
	m.prometheus.Trainings.WithLabelValues("started").Inc()
	m.prometheus.ActiveTrainings.Inc()
}

// TrainingCompleted counts a successfully finished training run.
func (m *Metrics) TrainingCompleted() {
	m.prometheus.Trainings.WithLabelValues("completed").Inc()
	m.prometheus.ActiveTrainings.Dec()
}

// TrainingFailed counts an aborted training run.
func (m *Metrics) TrainingFailed() {
	m.prometheus.Trainings.WithLabelValues("failed").Inc()
	m.prometheus.ActiveTrainings.Dec()
}

// EpochCompleted counts a finished epoch.
func (m *Metrics) EpochCompleted() {
	m.prometheus.Epochs.Inc()
}

// Prediction counts a served prediction by outcome.
func (m *Metrics) Prediction(correct bool) {
	outcome := "incorrect"
	if correct {
		outcome = "correct"
	}
	m.prometheus.Predictions.WithLabelValues(outcome).Inc()
}
