package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/drakos74/free-mind/internal/dataset"
	"github.com/drakos74/free-mind/internal/net"
	"github.com/drakos74/free-mind/internal/server"
	"github.com/drakos74/free-mind/internal/session"
	"github.com/drakos74/free-mind/internal/storage"
	"github.com/drakos74/free-mind/internal/storage/models"
	"github.com/drakos74/free-mind/internal/trainer"
)

// Service holds the state of the api and exposes its route table.
type Service struct {
	debug    bool
	sessions *session.Store
	models   *models.Store
	data     *dataset.Split
	runner   *trainer.Runner
}

// NewService creates the api service over the given collaborators.
func NewService(sessions *session.Store, store *models.Store, data *dataset.Split, runner *trainer.Runner, debug bool) *Service {
	return &Service{
		debug:    debug,
		sessions: sessions,
		models:   store,
		data:     data,
		runner:   runner,
	}
}

// Routes returns the full route table of the api.
func (s *Service) Routes() []server.Route {
	return []server.Route{
		server.NewRoute(server.GET, "/api/status", s.status),
		server.NewRoute(server.POST, "/api/networks", s.create),
		server.NewRoute(server.GET, "/api/networks", s.list),
		server.NewRoute(server.POST, "/api/networks/{id}/train", s.train),
		server.NewRoute(server.GET, "/api/training/{id}", s.job),
		server.NewRoute(server.POST, "/api/networks/{id}/predict", s.predict),
		server.NewRoute(server.POST, "/api/networks/{id}/predict_batch", s.predictBatch),
		server.NewRoute(server.GET, "/api/networks/{id}/misclassified", s.misclassified),
		server.NewRoute(server.GET, "/api/networks/{id}/stats", s.stats),
		server.NewRoute(server.GET, "/api/networks/{id}/successful_example", s.successfulExample),
		server.NewRoute(server.GET, "/api/networks/{id}/unsuccessful_example", s.unsuccessfulExample),
		server.NewRoute(server.GET, "/api/networks/{id}/visualize", s.visualize),
		server.NewRoute(server.POST, "/api/networks/{id}/load", s.load),
		server.NewRoute(server.DELETE, "/api/networks/{id}", s.remove),
	}
}

// networkResponse is the api view of a session record.
type networkResponse struct {
	ID           string    `json:"network_id"`
	Architecture []int     `json:"architecture"`
	CreatedAt    time.Time `json:"created_at"`
	Trained      bool      `json:"trained"`
	Training     bool      `json:"training"`
	Accuracy     float64   `json:"accuracy"`
}

func toNetworkResponse(record session.Record) networkResponse {
	return networkResponse{
		ID:           record.ID,
		Architecture: record.Architecture,
		CreatedAt:    record.CreatedAt,
		Trained:      record.Trained,
		Training:     record.Training,
		Accuracy:     record.Accuracy,
	}
}

// network resolves the record for the id path value of the request.
func (s *Service) network(r *http.Request) (session.Record, error) {
	return s.sessions.Network(r.PathValue("id"))
}

func respond(v interface{}, code int) ([]byte, int, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return b, code, nil
}

// errorCode maps domain errors to http status codes.
func errorCode(err error) int {
	switch {
	case errors.Is(err, session.NotFoundErr),
		errors.Is(err, storage.NotFoundErr):
		return http.StatusNotFound
	case errors.Is(err, session.TrainingInProgressErr):
		return http.StatusConflict
	case errors.Is(err, net.InvalidArchitectureErr),
		errors.Is(err, net.InvalidHyperparameterErr),
		errors.Is(err, net.DimensionMismatchErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
