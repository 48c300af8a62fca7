package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	prometheus.MustRegister(
		Observer.prometheus.Trainings,
		Observer.prometheus.Epochs,
		Observer.prometheus.Predictions,
		Observer.prometheus.ActiveTrainings,
	)
}

// Handler exposes the prometheus scrape endpoint for the api server to mount.
func Handler() http.Handler {
	return promhttp.Handler()
}
